package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/muradsh/artmarket/internal/domain"
	"github.com/muradsh/artmarket/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	WorkshopID string `json:"workshop_id"`
}

type bookingResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	WorkshopID string `json:"workshop_id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id/confirm", h.confirm)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:     userID,
		WorkshopID: req.WorkshopID,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	bookings, err := h.service.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	found, err := h.service.GetBooking(c.Request.Context(), c.Param("id"), userID, userRole(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) confirm(c *gin.Context) {
	confirmed, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(confirmed))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	canceled, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(canceled))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		WorkshopID: b.WorkshopID,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}
