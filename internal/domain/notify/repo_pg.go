package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const runCols = `id, run_trigger, run_date, started_at, finished_at, event_count, outcome, error`

func (r *repoPG) CreateRun(ctx context.Context, run *DigestRun) error {
	run.ID = uuid.New()
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO digest_run (id, run_trigger, run_date, started_at, event_count, outcome)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		run.ID, run.Trigger, run.RunDate, run.StartedAt, run.EventCount, run.Outcome,
	)
	return err
}

func (r *repoPG) FinishRun(ctx context.Context, run *DigestRun) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE digest_run SET
			finished_at=$2, event_count=$3, outcome=$4, error=$5
		WHERE id = $1`,
		run.ID, run.FinishedAt, run.EventCount, run.Outcome, run.Error,
	)
	return err
}

func (r *repoPG) GetRun(ctx context.Context, id uuid.UUID) (*DigestRun, error) {
	var run DigestRun
	err := r.pool.QueryRow(ctx, `SELECT `+runCols+` FROM digest_run WHERE id = $1`, id).Scan(
		&run.ID, &run.Trigger, &run.RunDate, &run.StartedAt, &run.FinishedAt,
		&run.EventCount, &run.Outcome, &run.Error,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repoPG) ListRuns(ctx context.Context, limit, offset int) ([]*DigestRun, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM digest_run`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+runCols+` FROM digest_run ORDER BY started_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var runs []*DigestRun
	for rows.Next() {
		var run DigestRun
		if err := rows.Scan(
			&run.ID, &run.Trigger, &run.RunDate, &run.StartedAt, &run.FinishedAt,
			&run.EventCount, &run.Outcome, &run.Error,
		); err != nil {
			return nil, 0, err
		}
		runs = append(runs, &run)
	}
	return runs, total, rows.Err()
}

func (r *repoPG) AddDelivery(ctx context.Context, d *Delivery) error {
	d.ID = uuid.New()
	if d.SentAt.IsZero() {
		d.SentAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO digest_delivery (id, run_id, recipient, kind, success, error, sent_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		d.ID, d.RunID, d.Recipient, d.Kind, d.Success, d.Error, d.SentAt,
	)
	return err
}

func (r *repoPG) GetDeliveries(ctx context.Context, runID uuid.UUID) ([]*Delivery, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, run_id, recipient, kind, success, error, sent_at
		FROM digest_delivery WHERE run_id = $1 ORDER BY sent_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*Delivery
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(&d.ID, &d.RunID, &d.Recipient, &d.Kind, &d.Success, &d.Error, &d.SentAt); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, &d)
	}
	return deliveries, rows.Err()
}
