package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/muradsh/artmarket/api"
	"github.com/muradsh/artmarket/config"
	"github.com/muradsh/artmarket/internal/service/booking"
	"github.com/muradsh/artmarket/internal/service/catalog"
	"github.com/muradsh/artmarket/internal/service/order"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	catalogSvc catalog.CatalogUseCase,
	bookingSvc booking.BookingUseCase,
	orderSvc order.OrderUseCase,
) error {
	router := newRouter(cfg, catalogSvc, bookingSvc, orderSvc)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	logger.Info("http server started", zap.String("address", cfg.HTTP.Address))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

func newRouter(
	cfg *config.Config,
	catalogSvc catalog.CatalogUseCase,
	bookingSvc booking.BookingUseCase,
	orderSvc order.OrderUseCase,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	api.NewWorkshopHandler(catalogSvc).Register(v1.Group("/workshops"))
	api.NewArtworkHandler(catalogSvc).Register(v1.Group("/artworks"))
	api.NewBookingHandler(bookingSvc).Register(v1.Group("/bookings"))
	api.NewOrderHandler(orderSvc).Register(v1.Group("/orders"))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/artmarket.swagger.json"),
		)))
	}

	return router
}
