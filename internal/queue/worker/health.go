package worker

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (w *Worker) HealthHandler() http.Handler {
	r := gin.New()

	r.Use(gin.Recovery())

	// liveness: process is up

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"ok": true,
		})
	})

	// readiness: worker is able to claim + process

	r.GET("/readyz", func(c *gin.Context) {
		w.readyMu.RLock()
		ready := w.ready
		w.readyMu.RUnlock()

		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// quick visibility into throughput without a full metrics stack

	r.GET("/metrics/jobs", func(c *gin.Context) {
		snap := w.metrics.Snapshot()

		c.JSON(http.StatusOK, gin.H{
			"claimed":        snap.Claimed,
			"done":           snap.Done,
			"failed":         snap.Failed,
			"retried":        snap.Retried,
			"dead_lettered":  snap.DeadLettered,
			"avg_duration":   snap.AverageDuration.String(),
			"max_duration":   snap.MaxDuration.String(),
			"duration_count": snap.DurationCount,
		})
	})

	return r
}
