package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/muradsh/artmarket/internal/domain"
	"github.com/muradsh/artmarket/internal/service/order"
)

type OrderHandler struct {
	service order.OrderUseCase
}

type placeOrderRequest struct {
	Items []order.LineItem `json:"items"`
}

type advanceOrderRequest struct {
	Status string `json:"status"`
}

type orderItemResponse struct {
	ArtworkID  string `json:"artwork_id"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

type orderResponse struct {
	ID         string              `json:"id"`
	UserID     string              `json:"user_id"`
	Items      []orderItemResponse `json:"items"`
	TotalCents int64               `json:"total_cents"`
	Status     string              `json:"status"`
	CreatedAt  string              `json:"created_at"`
}

func NewOrderHandler(service order.OrderUseCase) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.place)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id/status", h.advance)
}

func (h *OrderHandler) place(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	placed, err := h.service.PlaceOrder(c.Request.Context(), userID, req.Items)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(placed))
}

func (h *OrderHandler) list(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := h.service.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	found, err := h.service.GetOrder(c.Request.Context(), c.Param("id"), userID, userRole(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(found))
}

func (h *OrderHandler) advance(c *gin.Context) {
	var req advanceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.AdvanceStatus(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(updated))
}

func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ArtworkID:  item.ArtworkID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}
	return orderResponse{
		ID:         o.ID,
		UserID:     o.UserID,
		Items:      items,
		TotalCents: o.TotalCents,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
	}
}
