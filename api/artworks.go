package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/muradsh/artmarket/internal/service/catalog"
)

type ArtworkHandler struct {
	service catalog.CatalogUseCase
}

func NewArtworkHandler(service catalog.CatalogUseCase) *ArtworkHandler {
	return &ArtworkHandler{service: service}
}

func (h *ArtworkHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.POST("/", h.create)
}

func (h *ArtworkHandler) list(c *gin.Context) {
	artworks, err := h.service.ListArtworks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, artworks)
}

func (h *ArtworkHandler) get(c *gin.Context) {
	artwork, err := h.service.GetArtwork(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, artwork)
}

func (h *ArtworkHandler) create(c *gin.Context) {
	artistID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input catalog.CreateArtworkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateArtwork(c.Request.Context(), artistID, input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
