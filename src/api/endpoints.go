package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lost-woods/kingdom/src/errs"
	"github.com/lost-woods/kingdom/src/kingdom"
	"github.com/lost-woods/kingdom/src/rng"
)

type Handlers struct {
	engine *kingdom.Engine
	r      io.Reader
	health *rng.Health
	log    *zap.SugaredLogger
}

// NewHandlers serves kingdoms drawn by engine. r must be the stream the
// engine draws from; it also feeds request ids.
func NewHandlers(engine *kingdom.Engine, r io.Reader, h *rng.Health, log *zap.SugaredLogger) *Handlers {
	return &Handlers{engine: engine, r: r, health: h, log: log}
}

func (h *Handlers) rngOK(c *gin.Context) bool {
	if h.health == nil {
		responder{c}.err(http.StatusServiceUnavailable, "RNG unhealthy: missing health monitor")
		return false
	}

	ok, msg, _ := h.health.Snapshot()
	if ok {
		return true
	}

	responder{c}.err(http.StatusServiceUnavailable, "RNG unhealthy: "+msg)
	return false
}

func (h *Handlers) requestID() (string, error) {
	id, err := rng.NewRequestID(h.r)
	if err != nil && h.health != nil {
		h.health.Set(false, "error fetching random bytes for request id: "+err.Error())
	}
	return id, err
}

/*
handle enforces:
1. RNG health check
2. Outcome computation (no request id yet)
3. Error mapping by code
4. Request id generated only after success
5. JSON vs plaintext response
*/
func (h *Handlers) handle(
	c *gin.Context,
	work func(ctx context.Context) (text string, payload gin.H, err error),
) {
	if !h.rngOK(c) {
		return
	}

	text, payload, err := work(c.Request.Context())
	if err != nil {
		status := statusOf(err)
		if status >= http.StatusInternalServerError {
			h.log.Errorw("request failed", "path", c.FullPath(), "error", err)
		}
		responder{c}.err(status, err.Error())
		return
	}

	requestID, err := h.requestID()
	if err != nil {
		h.log.Error(err)
		responder{c}.err(http.StatusInternalServerError, "Error generating request id.")
		return
	}

	responder{c}.ok(text, payload, requestID)
}

func statusOf(err error) int {
	switch errs.CodeOf(err) {
	case errs.CodeConfiguration:
		return http.StatusBadRequest
	case errs.CodeEntropy:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func CheckHeader(headerName, expectedValue string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Auth disabled if not configured
		if expectedValue == "" {
			c.Next()
			return
		}

		if c.GetHeader(headerName) != expectedValue {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
