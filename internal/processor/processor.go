package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/metrics"
	"github.com/nguyentantai21042004/recap-flow/internal/session"
	"github.com/nguyentantai21042004/recap-flow/internal/store"
)

// Process runs Validate → Normalize → Mix → Mux → Notes for one set of uploads.
// Only ErrMissingRequiredInput, ErrFatalMux and context cancellation are returned as
// errors; every other stage failure is reported through Result.Degraded.
func (p *implProcessor) Process(ctx context.Context, uploads Uploads) (*Result, error) {
	startTime := time.Now()

	// Bounds concurrent runs; each run still owns its own session.
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("wait for run slot: %w", err)
	}
	defer p.sem.Release(1)

	sess, err := p.sessions.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	ctx = logger.WithSessionID(ctx, sess.ID)
	r := &run{sess: sess}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting pipeline run in %s", sess.Dir)
	p.logger.Info(ctx, "========================================")

	rec := &store.Record{ID: sess.ID, Status: store.StatusRunning, CreatedAt: sess.CreatedAt}
	p.saveRecord(ctx, rec)

	res, err := p.execute(ctx, r, uploads)
	duration := time.Since(startTime)
	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, ErrMissingRequiredInput) {
			outcome = metrics.OutcomeRejected
		}
		metrics.ObserveRun(outcome, duration)

		p.logger.Error(ctx, "Pipeline run failed after %s: %v", duration, err)
		rec.Status = store.StatusFailed
		rec.Error = err.Error()
		rec.Degraded = r.degraded
		p.saveRecord(ctx, rec)
		p.discard(ctx, sess)
		return nil, err
	}

	outcome, status := metrics.OutcomeOK, store.StatusDone
	if len(res.Degraded) > 0 {
		outcome, status = metrics.OutcomeDegraded, store.StatusDegraded
	}
	metrics.ObserveRun(outcome, duration)

	rec.Status = status
	rec.VideoPath = res.VideoPath
	rec.NotesPath = res.NotesPath
	rec.Codec = string(res.Codec)
	rec.MixPolicy = string(res.MixPolicy)
	rec.Degraded = res.Degraded
	p.saveRecord(ctx, rec)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Pipeline run completed (%s)", status)
	p.logger.Info(ctx, "Output video: %s", res.VideoPath)
	if len(res.Degraded) > 0 {
		p.logger.Info(ctx, "Degraded stages: %v", res.Degraded)
	}
	p.logger.Info(ctx, "Processing time: %s", duration)
	p.logger.Info(ctx, "========================================")

	return res, nil
}

// execute is the linear stage sequence. Cancellation is checked between stages; an
// in-flight external process is killed through its context.
func (p *implProcessor) execute(ctx context.Context, r *run, uploads Uploads) (*Result, error) {
	// Step 1: Validate uploads. The video slot is mandatory.
	video := p.saveUpload(ctx, r.sess, SlotVideo, uploads.Screen)
	if video == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrMissingRequiredInput
	}
	system := p.saveUpload(ctx, r.sess, SlotSystem, uploads.System)
	mic := p.saveUpload(ctx, r.sess, SlotMic, uploads.Mic)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 2: Normalize each audio track independently
	systemWav := p.normalizeAudio(ctx, r, system)
	micWav := p.normalizeAudio(ctx, r, mic)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 3: Mix
	mixed, policy := p.mixAudio(ctx, r, systemWav, micWav)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 4: Mux (fatal on failure)
	out, err := p.mux(ctx, r, video, mixed)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	// Step 5: Notes (best-effort)
	notes, notesPath := p.notes(ctx, r, out)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{
		SessionID: r.sess.ID,
		VideoPath: out.Path,
		Notes:     notes,
		NotesPath: notesPath,
		Codec:     out.Codec,
		MixPolicy: policy,
		Degraded:  r.degraded,
	}, nil
}

func (p *implProcessor) saveRecord(ctx context.Context, rec *store.Record) {
	if p.store == nil {
		return
	}
	rec.UpdatedAt = time.Now()
	if err := p.store.Save(context.WithoutCancel(ctx), rec); err != nil {
		p.logger.Warn(ctx, "Failed to save session record: %v", err)
	}
}

// discard removes a failed run's session unless it is retained for debugging.
func (p *implProcessor) discard(ctx context.Context, sess *session.Session) {
	if p.cfg.Session.RetainOnFailure {
		p.logger.Info(ctx, "Retaining failed session %s", sess.Dir)
		return
	}
	// ctx may already be cancelled; removal must still happen.
	if err := p.sessions.Remove(context.WithoutCancel(ctx), sess); err != nil {
		p.logger.Warn(ctx, "Failed to remove session: %v", err)
	}
}
