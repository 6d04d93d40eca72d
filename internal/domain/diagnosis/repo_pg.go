package diagnosis

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

const diagCols = `id, patient_id, encounter_id, code, term, classification,
	verification, clinical_status, onset_date, recorded_date, note,
	created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, d *Diagnosis) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO diagnosis (
			id, patient_id, encounter_id, code, term, classification,
			verification, clinical_status, onset_date, recorded_date, note
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		d.ID, d.PatientID, d.EncounterID, d.Code, d.Term, d.Classification,
		d.Verification, d.ClinicalStatus, d.OnsetDate, d.RecordedDate, d.Note,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Diagnosis, error) {
	return scanDiag(r.pool.QueryRow(ctx, `SELECT `+diagCols+` FROM diagnosis WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *Diagnosis) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE diagnosis SET
			encounter_id=$2, code=$3, term=$4, classification=$5,
			verification=$6, clinical_status=$7, onset_date=$8,
			recorded_date=$9, note=$10, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.EncounterID, d.Code, d.Term, d.Classification,
		d.Verification, d.ClinicalStatus, d.OnsetDate, d.RecordedDate, d.Note,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM diagnosis WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Diagnosis, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM diagnosis WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+diagCols+` FROM diagnosis WHERE patient_id = $1 ORDER BY recorded_date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var diags []*Diagnosis
	for rows.Next() {
		var d Diagnosis
		if err := rows.Scan(
			&d.ID, &d.PatientID, &d.EncounterID, &d.Code, &d.Term, &d.Classification,
			&d.Verification, &d.ClinicalStatus, &d.OnsetDate, &d.RecordedDate, &d.Note,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		diags = append(diags, &d)
	}
	return diags, total, rows.Err()
}

func (r *repoPG) HasActivePrincipal(ctx context.Context, encounterID, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM diagnosis
			WHERE encounter_id = $1
			  AND classification = 'principal'
			  AND clinical_status = 'active'
			  AND id <> $2
		)`, encounterID, exclude).Scan(&exists)
	return exists, err
}

func scanDiag(row pgx.Row) (*Diagnosis, error) {
	var d Diagnosis
	err := row.Scan(
		&d.ID, &d.PatientID, &d.EncounterID, &d.Code, &d.Term, &d.Classification,
		&d.Verification, &d.ClinicalStatus, &d.OnsetDate, &d.RecordedDate, &d.Note,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
