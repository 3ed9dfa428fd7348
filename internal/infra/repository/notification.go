package repository

import (
	"context"
	"time"

	"shop-checkout/internal/infra"
	"shop-checkout/internal/infra/db"
	"shop-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertNotificationJobSQL = `
		INSERT INTO notification_jobs (kind, topic, payload, run_at, status)
		VALUES ($1, $2, $3, $4, 'queued')`

	// SKIP LOCKED lets several relays poll the same table without claiming a
	// job twice. While processing, run_at holds the lease deadline.
	claimNotificationJobsSQL = `
		UPDATE notification_jobs
		SET status = 'processing', attempts = attempts + 1, run_at = $2, updated_at = now()
		WHERE id IN (
			SELECT id
			FROM notification_jobs
			WHERE status IN ('queued', 'processing') AND run_at <= $1
			ORDER BY run_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, topic, payload, attempts`

	markNotificationSentSQL = `
		UPDATE notification_jobs
		SET status = 'sent', last_error = NULL, updated_at = now()
		WHERE id = $1`

	markNotificationFailedSQL = `
		UPDATE notification_jobs
		SET status = CASE WHEN $3::timestamptz IS NULL THEN 'failed' ELSE 'queued' END,
		    run_at = COALESCE($3::timestamptz, run_at),
		    last_error = $2,
		    updated_at = now()
		WHERE id = $1`
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := r.db.Exec(ctx, insertNotificationJobSQL, kind, topic, payload, pgtype.Timestamptz{Time: runAt, Valid: true})
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

func (r *NotificationRepository) ClaimDue(ctx context.Context, now, leaseUntil time.Time, limit int) ([]shared.NotificationJob, error) {
	rows, err := r.db.Query(ctx, claimNotificationJobsSQL,
		pgtype.Timestamptz{Time: now, Valid: true},
		pgtype.Timestamptz{Time: leaseUntil, Valid: true},
		limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []shared.NotificationJob
	for rows.Next() {
		var job shared.NotificationJob
		if err := rows.Scan(&job.ID, &job.Kind, &job.Topic, &job.Payload, &job.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, markNotificationSentSQL, id); err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

// MarkFailed requeues the job at retryAt, or parks it as failed when retryAt is nil.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt *time.Time) error {
	retry := pgtype.Timestamptz{}
	if retryAt != nil {
		retry = pgtype.Timestamptz{Time: *retryAt, Valid: true}
	}
	if _, err := r.db.Exec(ctx, markNotificationFailedSQL, id, lastError, retry); err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
