package handler

import (
	"context"
	"net/http"
	"time"

	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
	"github.com/gin-gonic/gin"
)

// StorePinger checks that the ledger store is reachable.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// SessionStats exposes the dispatcher's session counters.
type SessionStats interface {
	ActiveSessions() int
	TotalAccepted() uint64
	TotalRejected() uint64
}

// OpsHandler serves the operational endpoints next to the TCP listener.
type OpsHandler struct {
	store        StorePinger
	stats        SessionStats
	timeProvider coreport.TimeProvider
	startedAt    time.Time
}

// NewOpsHandler creates a new OpsHandler
func NewOpsHandler(store StorePinger, stats SessionStats, timeProvider coreport.TimeProvider) *OpsHandler {
	return &OpsHandler{
		store:        store,
		stats:        stats,
		timeProvider: timeProvider,
		startedAt:    timeProvider.Now(),
	}
}

// Healthz reports liveness and store reachability
func (h *OpsHandler) Healthz(c *gin.Context) {
	ctx, cancel := h.timeProvider.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"store":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stats reports session counters and uptime
func (h *OpsHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"active_sessions": h.stats.ActiveSessions(),
		"total_accepted":  h.stats.TotalAccepted(),
		"total_rejected":  h.stats.TotalRejected(),
		"uptime_seconds":  int64(h.timeProvider.Since(h.startedAt).Seconds()),
	})
}
