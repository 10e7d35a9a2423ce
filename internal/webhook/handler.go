package webhook

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voiceagent-dashboard/internal/audit"
	"voiceagent-dashboard/pkg/logger"
)

const secretHeader = "X-Vapi-Secret"

// Handler terminates provider webhook deliveries. It owns transport concerns
// only; classification and persistence live in the Processor.
type Handler struct {
	processor *Processor
	auditor   *audit.Service
	secret    string
}

func NewHandler(processor *Processor, auditor *audit.Service, secret string) *Handler {
	return &Handler{processor: processor, auditor: auditor, secret: secret}
}

// Receive handles POST /webhooks/vapi.
//
// The sender retries on any non-2xx, so the status code doubles as a retry
// signal: 200 acknowledges (including ignored and degraded deliveries), 4xx
// tells the sender a retry cannot help, 500 invites one.
func (h *Handler) Receive(c *gin.Context) {
	if h.secret != "" && c.GetHeader(secretHeader) != h.secret {
		h.record(c, Result{}, ErrUnauthorized, 0)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
		return
	}

	res, err := h.processor.Process(c.Request.Context(), raw)
	h.record(c, res, err, len(raw))
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.From(c.Request.Context()).Error("webhook processing failed", "err", err)
			c.JSON(status, gin.H{"error": "event processing failed"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, res)
}

// Verify handles GET /webhooks/vapi. Providers and operators probe the
// endpoint before pointing live traffic at it.
func (h *Handler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrMalformedPayload),
		errors.Is(err, ErrUnrecognizedShape),
		errors.Is(err, ErrMissingAssistantID),
		errors.Is(err, ErrMissingCallID):
		return http.StatusBadRequest
	case errors.Is(err, ErrAgentNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// record appends a delivery-log entry. Failures are logged and swallowed;
// the log must never influence the delivery outcome.
func (h *Handler) record(c *gin.Context, res Result, procErr error, payloadSize int) {
	if h.auditor == nil {
		return
	}
	e := audit.Event{
		EventKind:   string(res.Kind),
		Shape:       string(res.Shape),
		CallID:      res.CallID,
		Outcome:     outcomeLabel(res, procErr),
		RemoteAddr:  c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
		PayloadSize: payloadSize,
	}
	if procErr != nil {
		e.Error = procErr.Error()
	}
	// Detached context: the delivery log outlives a canceled request.
	if err := h.auditor.Append(context.WithoutCancel(c.Request.Context()), e); err != nil {
		logger.From(c.Request.Context()).Warn("delivery log append failed", "err", err)
	}
}
