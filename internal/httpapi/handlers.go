package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"voiceagent-dashboard/internal/audit"
	"voiceagent-dashboard/internal/auth"
	"voiceagent-dashboard/internal/calls"
	"voiceagent-dashboard/internal/importer"
	"voiceagent-dashboard/internal/maintenance"
	"voiceagent-dashboard/pkg/logger"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth     *auth.Manager
	Calls    *calls.Service
	Audit    *audit.Service
	Importer *importer.Importer
	Syncer   *maintenance.Syncer
}

// --- Auth ---

type loginRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Login issues an access token.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate credentials.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id, role required"})
		return
	}
	token, err := h.Auth.IssueAccessToken(time.Now(), req.UserID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

// --- Calls ---

func (h Handlers) ListCalls(c *gin.Context) {
	if h.Calls == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "calls not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.Calls.Recent(c.Request.Context(), limit)
	if err != nil {
		logger.FromGin(c).Error("call list failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "call list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": list})
}

func (h Handlers) GetCall(c *gin.Context) {
	if h.Calls == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "calls not configured"})
		return
	}
	param := c.Param("id")

	// Numeric ids hit the primary key; anything else is treated as a
	// provider call id, so operators can paste either.
	var (
		call calls.Call
		err  error
	)
	if id, perr := strconv.ParseInt(param, 10, 64); perr == nil && id > 0 {
		call, err = h.Calls.ByID(c.Request.Context(), id)
	} else {
		call, err = h.Calls.ByVapiCallID(c.Request.Context(), param)
	}
	if err != nil {
		if errors.Is(err, calls.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "call not found"})
			return
		}
		logger.FromGin(c).Error("call lookup failed", "id", param, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "call lookup failed"})
		return
	}
	c.JSON(http.StatusOK, call)
}

func (h Handlers) CallStats(c *gin.Context) {
	if h.Calls == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "calls not configured"})
		return
	}
	stats, err := h.Calls.StatsNow(c.Request.Context(), time.Now())
	if err != nil {
		logger.FromGin(c).Error("call stats failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "call stats failed"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// --- Admin ---

// WebhookActivity returns the recent webhook delivery log.
func (h Handlers) WebhookActivity(c *gin.Context) {
	if h.Audit == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "audit not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	events, err := h.Audit.Recent(c.Request.Context(), limit)
	if err != nil {
		logger.FromGin(c).Error("webhook activity lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "activity lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// ImportCalls backfills historical calls from the provider API.
// RBAC: admin only. The run is synchronous; call lists are small enough that
// the request timeout covers a full backfill.
func (h Handlers) ImportCalls(c *gin.Context) {
	if h.Importer == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "importer not configured"})
		return
	}
	sum, err := h.Importer.Run(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("call import failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "provider fetch failed"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// SyncWebhooks points every assistant's webhook at this deployment.
// RBAC: admin only.
func (h Handlers) SyncWebhooks(c *gin.Context) {
	if h.Syncer == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "syncer not configured"})
		return
	}
	results, err := h.Syncer.Sync(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("webhook sync failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "webhook sync failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Me echoes the authenticated identity, mostly for smoke-testing tokens.
func (h Handlers) Me(c *gin.Context) {
	uid, _ := auth.UserID(c.Request.Context())
	role, _ := auth.Role(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"user_id": uid, "role": role})
}
