package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/muradsh/artmarket/internal/service/catalog"
)

type WorkshopHandler struct {
	service catalog.CatalogUseCase
}

type setAvailabilityRequest struct {
	Available *bool `json:"available"`
}

func NewWorkshopHandler(service catalog.CatalogUseCase) *WorkshopHandler {
	return &WorkshopHandler{service: service}
}

func (h *WorkshopHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.POST("/", h.create)
	router.PUT("/:id/availability", h.setAvailability)
}

func (h *WorkshopHandler) list(c *gin.Context) {
	availableOnly := c.Query("available") == "true"
	workshops, err := h.service.ListWorkshops(c.Request.Context(), availableOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, workshops)
}

func (h *WorkshopHandler) get(c *gin.Context) {
	workshop, err := h.service.GetWorkshop(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, workshop)
}

func (h *WorkshopHandler) create(c *gin.Context) {
	artistID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input catalog.CreateWorkshopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateWorkshop(c.Request.Context(), artistID, input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *WorkshopHandler) setAvailability(c *gin.Context) {
	artistID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "available is required"})
		return
	}

	updated, err := h.service.SetWorkshopAvailability(c.Request.Context(), c.Param("id"), artistID, *req.Available)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
