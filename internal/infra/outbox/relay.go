package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"shop-checkout/internal/pkg/clock"
	"shop-checkout/internal/usecase/shared"
)

const (
	retryBase    = 2 * time.Second
	retryMax     = 5 * time.Minute
	defaultLease = time.Minute
)

type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

type Options struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	// Lease is how long a claimed job stays invisible to other polls before
	// it is handed out again.
	Lease time.Duration
}

// Relay moves queued notification jobs to the broker. Jobs are claimed in a
// short transaction and published outside it, so a slow broker never holds
// row locks.
type Relay struct {
	uow       shared.UnitOfWork
	publisher Publisher
	clock     clock.Clock
	logger    *slog.Logger
	opts      Options

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewRelay(uow shared.UnitOfWork, publisher Publisher, clock clock.Clock, logger *slog.Logger, opts Options) *Relay {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 10
	}
	if opts.Lease <= 0 {
		opts.Lease = defaultLease
	}
	return &Relay{
		uow:       uow,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		opts:      opts,
	}
}

func (r *Relay) Start() {
	r.stop = make(chan struct{})
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.opts.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				if _, err := r.RunOnce(context.Background()); err != nil {
					r.logger.Error("outbox relay poll failed", "error", err.Error())
				}
			}
		}
	}()
}

func (r *Relay) Stop(ctx context.Context) error {
	if r.stop == nil {
		return nil
	}
	close(r.stop)
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce claims one batch and publishes it. It returns how many jobs were
// published successfully.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	var jobs []shared.NotificationJob
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		now := r.clock.Now()
		jobs, err = tx.Notifications().ClaimDue(ctx, now, now.Add(r.opts.Lease), r.opts.BatchSize)
		return err
	})
	if err != nil {
		return 0, err
	}

	repo := r.uow.Direct().Notifications()
	sent := 0
	for _, job := range jobs {
		pubErr := r.publisher.Publish(ctx, job.Topic, job.Payload)
		if pubErr == nil {
			if err := repo.MarkSent(ctx, job.ID); err != nil {
				r.logger.Error("failed to mark notification job sent", "job_id", job.ID, "error", err.Error())
			}
			sent++
			continue
		}

		retryAt := r.nextAttempt(job.Attempts)
		r.logger.Warn("failed to publish notification job",
			"job_id", job.ID,
			"topic", job.Topic,
			"attempts", job.Attempts,
			"will_retry", retryAt != nil,
			"error", pubErr.Error())
		if err := repo.MarkFailed(ctx, job.ID, pubErr.Error(), retryAt); err != nil {
			r.logger.Error("failed to mark notification job failed", "job_id", job.ID, "error", err.Error())
		}
	}
	return sent, nil
}

// nextAttempt returns nil once the job has used up its attempts.
func (r *Relay) nextAttempt(attempts int) *time.Time {
	if attempts >= r.opts.MaxAttempts {
		return nil
	}
	wait := retryMax
	if attempts >= 1 && attempts < 20 {
		wait = min(retryBase<<(attempts-1), retryMax)
	}
	at := r.clock.Now().Add(wait)
	return &at
}
