package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voiceagent-dashboard/internal/httpapi"
	"voiceagent-dashboard/internal/rbac"
	"voiceagent-dashboard/internal/webhook"
	"voiceagent-dashboard/pkg/utils"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(
	r *gin.Engine,
	registry *prometheus.Registry,
	db *sql.DB,
	wh *webhook.Handler,
	h httpapi.Handlers,
	authMW gin.HandlerFunc,
) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Provider webhooks (public, guarded by the shared secret header).
	r.POST("/webhooks/vapi", wh.Receive)
	r.GET("/webhooks/vapi", wh.Verify)

	// Token issuance stays outside the protected group.
	r.POST("/v1/auth/login", h.Login)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		v1.GET("/me", h.Me)

		v1.GET("/calls", h.ListCalls)
		v1.GET("/calls/stats", h.CallStats)
		v1.GET("/calls/:id", h.GetCall)

		v1.GET("/debug/webhook-activity", h.WebhookActivity)

		// ADMIN routes
		admin := v1.Group("/admin")
		admin.Use(rbac.RequireAnyRole(rbac.RoleAdmin))
		{
			admin.POST("/import-calls", h.ImportCalls)
			admin.POST("/webhooks/sync", h.SyncWebhooks)
		}
	}
}
