package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shinyyama/mlm-backend/internal/config"
	"github.com/shinyyama/mlm-backend/internal/handler"
	appmw "github.com/shinyyama/mlm-backend/internal/middleware"
	"github.com/shinyyama/mlm-backend/internal/repository"
	"github.com/shinyyama/mlm-backend/internal/service"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

func New(db *gorm.DB, cfg *config.Config, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	memberRepo := repository.NewMemberRepository(db)
	closureRepo := repository.NewClosureEdgeRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	levelRepo := repository.NewLevelConfigRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	sellerRepo := repository.NewSellerRepository(db)
	saleRepo := repository.NewStoreSaleRepository(db)
	seqRepo := repository.NewCodeSequenceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notifySvc := service.NewNotificationService(notificationRepo)
	enrollSvc := service.NewEnrollmentService(memberRepo, closureRepo, seqRepo)
	distributionSvc := service.NewDistributionService(memberRepo, levelRepo, pointsRepo, notifySvc, log)
	pointsSvc := service.NewPointsService(pointsRepo)
	networkSvc := service.NewNetworkService(closureRepo)
	levelSvc := service.NewLevelConfigService(levelRepo)
	orderSvc := service.NewOrderService(orderRepo, distributionSvc, cfg.OnlinePoolFraction())
	saleSvc := service.NewStoreSaleService(saleRepo, sellerRepo, memberRepo, distributionSvc)

	memberHandler := handler.NewMemberHandler(enrollSvc)
	pointsHandler := handler.NewPointsHandler(pointsSvc)
	networkHandler := handler.NewNetworkHandler(networkSvc)
	levelHandler := handler.NewLevelConfigHandler(levelSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	saleHandler := handler.NewStoreSaleHandler(saleSvc)
	notificationHandler := handler.NewNotificationHandler(notifySvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	api := e.Group("/api")
	authMw, err := appmw.NewAuthMiddleware(context.Background(), cfg.AdminUIDs)
	if err != nil {
		e.Logger.Fatalf("failed to init firebase auth: %v", err)
	}

	api.POST("/members", memberHandler.Register, authMw.RequireAuth)
	api.GET("/me", memberHandler.Me, authMw.RequireAuth)
	api.GET("/me/points", pointsHandler.Balance, authMw.RequireAuth)
	api.GET("/me/points/history", pointsHandler.History, authMw.RequireAuth)
	api.POST("/me/points/redeem", pointsHandler.Redeem, authMw.RequireAuth)
	api.GET("/me/network", networkHandler.Summary, authMw.RequireAuth)
	api.GET("/me/network/legs", networkHandler.Legs, authMw.RequireAuth)
	api.GET("/me/network/referrals", networkHandler.DirectReferrals, authMw.RequireAuth)
	api.GET("/me/notifications", notificationHandler.List, authMw.RequireAuth)
	api.POST("/me/notifications/read", notificationHandler.MarkAllRead, authMw.RequireAuth)
	api.POST("/orders", orderHandler.Place, authMw.RequireAuth)
	api.GET("/me/orders", orderHandler.ListMine, authMw.RequireAuth)
	api.POST("/store-sales", saleHandler.Record, authMw.RequireAuth)
	api.GET("/me/store-sales", saleHandler.ListMine, authMw.RequireAuth)
	api.POST("/store-sales/:id/approve", saleHandler.Approve, authMw.RequireAdmin)
	api.GET("/admin/levels", levelHandler.List, authMw.RequireAdmin)
	api.PUT("/admin/levels/:level", levelHandler.Update, authMw.RequireAdmin)
	api.POST("/admin/sellers", saleHandler.RegisterSeller, authMw.RequireAdmin)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
