package document

import (
	"context"
	"errors"

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

const docCols = `id, patient_id, scope, type_key, filename, key, content_type, size,
	created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, d *Document) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO document (id, patient_id, scope, type_key, filename, key, content_type, size)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.PatientID, d.Scope, d.TypeKey, d.Filename, d.Key, d.ContentType, d.Size,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	return scanDoc(r.pool.QueryRow(ctx, `SELECT `+docCols+` FROM document WHERE id = $1`, id))
}

func (r *repoPG) GetByKey(ctx context.Context, key string) (*Document, error) {
	return scanDoc(r.pool.QueryRow(ctx, `SELECT `+docCols+` FROM document WHERE key = $1`, key))
}

func (r *repoPG) Update(ctx context.Context, d *Document) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE document SET
			type_key=$2, filename=$3, content_type=$4, size=$5, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.TypeKey, d.Filename, d.ContentType, d.Size,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM document WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+docCols+` FROM document WHERE patient_id = $1 ORDER BY created_at DESC`,
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocs(rows)
}

func (r *repoPG) ListTemplates(ctx context.Context) ([]*Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+docCols+` FROM document WHERE scope = 'template' ORDER BY filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocs(rows)
}

func collectDocs(rows pgx.Rows) ([]*Document, error) {
	var docs []*Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(
			&d.ID, &d.PatientID, &d.Scope, &d.TypeKey, &d.Filename, &d.Key,
			&d.ContentType, &d.Size, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

func scanDoc(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(
		&d.ID, &d.PatientID, &d.Scope, &d.TypeKey, &d.Filename, &d.Key,
		&d.ContentType, &d.Size, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
