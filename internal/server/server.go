package server

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/xxiimcha/lifeec-mobile/internal/handler"
	"github.com/xxiimcha/lifeec-mobile/internal/middleware"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/internal/service"
	"github.com/xxiimcha/lifeec-mobile/pkg/jwtutil"
	"github.com/xxiimcha/lifeec-mobile/pkg/logger"
	"github.com/xxiimcha/lifeec-mobile/prometheus"
	"golang.org/x/time/rate"
)

// Deps are the services the HTTP surface is built on
type Deps struct {
	Auth          *service.AuthService
	Accounts      *service.AccountService
	Contacts      *service.ContactService
	Alerts        *service.AlertService
	Residents     *service.ResidentService
	Messages      *service.MessageService
	Notifications *service.NotificationService
	Tokens        *jwtutil.JWTUtil

	// AuthRateLimit is requests per second per client on /auth; zero disables it
	AuthRateLimit int
}

// New builds the echo instance with every route registered
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// order matters: metrics read the status after the logger has rendered errors
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(prometheus.MetricsMiddleware())
	e.Use(logger.Middleware())

	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	authHandler := handler.NewAuthHandler(d.Auth)
	auth := e.Group("/auth")
	if d.AuthRateLimit > 0 {
		auth.Use(echomiddleware.RateLimiter(
			echomiddleware.NewRateLimiterMemoryStore(rate.Limit(d.AuthRateLimit))))
	}
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password/:token", authHandler.ResetPassword)

	// contacts, alerts and the dashboard are open, as the mobile app calls
	// them before a session exists
	contactHandler := handler.NewContactHandler(d.Contacts)
	e.GET("/contacts", contactHandler.List)

	alertHandler := handler.NewAlertHandler(d.Alerts)
	e.GET("/alerts", alertHandler.Recent)
	e.POST("/alerts", alertHandler.Create)
	e.GET("/alerts/count-by-month", alertHandler.CountByMonth)
	e.DELETE("/alerts/:id", alertHandler.Delete)
	e.GET("/dashboard/summary", alertHandler.DashboardSummary)

	requireAuth := middleware.AuthMiddleware(d.Tokens)

	residentHandler := handler.NewResidentHandler(d.Residents)
	residents := e.Group("/residents", requireAuth)
	residents.GET("", residentHandler.List)
	residents.GET("/:id", residentHandler.Get)
	residents.POST("", residentHandler.Upload)
	residents.PUT("/:id", residentHandler.Update)
	residents.DELETE("/:id", residentHandler.Delete)

	messageHandler := handler.NewMessageHandler(d.Messages)
	messages := e.Group("/messages", requireAuth)
	messages.GET("", messageHandler.Conversation)
	messages.POST("", messageHandler.Send)
	messages.PATCH("/:id/read", messageHandler.MarkRead)

	notificationHandler := handler.NewNotificationHandler(d.Notifications)
	notifications := e.Group("/notifications", requireAuth)
	notifications.GET("/:userId", notificationHandler.ForUser)
	notifications.POST("", notificationHandler.Create)
	notifications.PATCH("/:id/read", notificationHandler.MarkRead)

	userHandler := handler.NewUserHandler(d.Accounts)
	users := e.Group("/users", requireAuth, middleware.RequireRole(model.RoleAdmin))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	return e
}
