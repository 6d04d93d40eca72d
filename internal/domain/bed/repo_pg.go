package bed

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

const typeCols = `id, code, label_th, color, sort_order, target_count, created_at, updated_at`

func (r *repoPG) CreateType(ctx context.Context, t *TypeSetting) error {
	t.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bed_type (id, code, label_th, color, sort_order, target_count)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		t.ID, t.Code, t.LabelTH, t.Color, t.SortOrder, t.TargetCount,
	)
	return err
}

func (r *repoPG) GetTypeByCode(ctx context.Context, code string) (*TypeSetting, error) {
	var t TypeSetting
	err := r.pool.QueryRow(ctx, `SELECT `+typeCols+` FROM bed_type WHERE code = $1`, code).Scan(
		&t.ID, &t.Code, &t.LabelTH, &t.Color, &t.SortOrder, &t.TargetCount, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repoPG) UpdateType(ctx context.Context, t *TypeSetting) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE bed_type SET
			code=$2, label_th=$3, color=$4, sort_order=$5, target_count=$6, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.Code, t.LabelTH, t.Color, t.SortOrder, t.TargetCount,
	)
	return err
}

func (r *repoPG) DeleteType(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM bed_type WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListTypes(ctx context.Context) ([]*TypeSetting, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+typeCols+` FROM bed_type ORDER BY sort_order, code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*TypeSetting
	for rows.Next() {
		var t TypeSetting
		if err := rows.Scan(
			&t.ID, &t.Code, &t.LabelTH, &t.Color, &t.SortOrder, &t.TargetCount, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		types = append(types, &t)
	}
	return types, rows.Err()
}

const bedCols = `id, type_code, label, status, patient_id, created_at, updated_at`

func (r *repoPG) CreateBed(ctx context.Context, b *Bed) error {
	b.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bed (id, type_code, label, status, patient_id)
		VALUES ($1,$2,$3,$4,$5)`,
		b.ID, b.TypeCode, b.Label, b.Status, b.PatientID,
	)
	return err
}

func (r *repoPG) GetBed(ctx context.Context, id uuid.UUID) (*Bed, error) {
	var b Bed
	err := r.pool.QueryRow(ctx, `SELECT `+bedCols+` FROM bed WHERE id = $1`, id).Scan(
		&b.ID, &b.TypeCode, &b.Label, &b.Status, &b.PatientID, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repoPG) UpdateBed(ctx context.Context, b *Bed) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE bed SET type_code=$2, label=$3, status=$4, patient_id=$5, updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.TypeCode, b.Label, b.Status, b.PatientID,
	)
	return err
}

func (r *repoPG) ListBedsByType(ctx context.Context, typeCode string) ([]*Bed, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bedCols+` FROM bed WHERE type_code = $1 AND status <> 'retired' ORDER BY label`,
		typeCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBeds(rows)
}

func (r *repoPG) ListBeds(ctx context.Context) ([]*Bed, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bedCols+` FROM bed WHERE status <> 'retired' ORDER BY type_code, label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBeds(rows)
}

func collectBeds(rows pgx.Rows) ([]*Bed, error) {
	var beds []*Bed
	for rows.Next() {
		var b Bed
		if err := rows.Scan(
			&b.ID, &b.TypeCode, &b.Label, &b.Status, &b.PatientID, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		beds = append(beds, &b)
	}
	return beds, rows.Err()
}
