package processor

import (
	"context"
	"os"
	"time"

	"github.com/nguyentantai21042004/recap-flow/internal/metrics"
	"github.com/nguyentantai21042004/recap-flow/internal/session"
)

// run is the mutable state of one pipeline execution. It lives for one Process call only.
type run struct {
	sess     *session.Session
	degraded []string
}

// degrade records a non-fatal stage failure that was turned into an absent result.
func (p *implProcessor) degrade(ctx context.Context, r *run, stage string, err error) {
	p.logger.Warn(ctx, "Stage %s degraded: %v", stage, err)
	metrics.IncStageDegraded(stage)
	r.degraded = append(r.degraded, stage)
}

// withTimeout bounds one external process invocation.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// cleanupTempFile removes a partial or rejected file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		p.logger.Warn(ctx, "Failed to cleanup file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up file: %s", filePath)
	}
}
