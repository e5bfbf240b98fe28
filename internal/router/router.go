package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/challasumanth64/assist-respond-ai/internal/handler"
	"github.com/challasumanth64/assist-respond-ai/internal/middleware"
)

type Handlers struct {
	Email         *handler.EmailHandler
	Response      *handler.ResponseHandler
	Analytics     *handler.AnalyticsHandler
	KnowledgeBase *handler.KnowledgeBaseHandler
	Events        *handler.EventsHandler
}

func SetupRoutes(e *echo.Echo, h Handlers) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middleware.Metrics())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type", middleware.OwnerHeader},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	// Pipeline triggers carry the owner in the body
	api.POST("/emails/process", h.Email.ProcessEmail)
	api.POST("/emails/sync", h.Email.SyncEmails)
	api.POST("/responses/send", h.Response.SendResponse)

	owned := api.Group("", middleware.RequireOwner())
	owned.GET("/emails", h.Email.GetEmailsByUser)
	owned.GET("/responses", h.Response.GetResponses)
	owned.PUT("/responses/:id", h.Response.UpdateDraft)

	owned.GET("/analytics", h.Analytics.GetAnalytics)
	owned.GET("/analytics/today", h.Analytics.GetToday)

	owned.POST("/knowledge-base", h.KnowledgeBase.CreateEntry)
	owned.GET("/knowledge-base", h.KnowledgeBase.GetEntries)
	owned.GET("/knowledge-base/:id", h.KnowledgeBase.GetEntry)
	owned.PUT("/knowledge-base/:id", h.KnowledgeBase.UpdateEntry)
	owned.DELETE("/knowledge-base/:id", h.KnowledgeBase.DeleteEntry)

	// Real-time dashboard updates via Server-Sent Events (SSE)
	owned.GET("/events", h.Events.Stream)
}
