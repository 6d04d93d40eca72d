package treatment

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

const planCols = `id, patient_id, care_model, care_location,
	cpr, intubation, vasopressor, dialysis,
	goals, note, status, attachment_ids, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Plan) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO treatment_plan (
			id, patient_id, care_model, care_location,
			cpr, intubation, vasopressor, dialysis,
			goals, note, status, attachment_ids
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, p.PatientID, p.CareModel, p.CareLocation,
		p.CPR, p.Intubation, p.Vasopressor, p.Dialysis,
		p.Goals, p.Note, p.Status, p.AttachmentIDs,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Plan, error) {
	return scanPlan(r.pool.QueryRow(ctx, `SELECT `+planCols+` FROM treatment_plan WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Plan) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE treatment_plan SET
			care_model=$2, care_location=$3,
			cpr=$4, intubation=$5, vasopressor=$6, dialysis=$7,
			goals=$8, note=$9, status=$10, attachment_ids=$11, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.CareModel, p.CareLocation,
		p.CPR, p.Intubation, p.Vasopressor, p.Dialysis,
		p.Goals, p.Note, p.Status, p.AttachmentIDs,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM treatment_plan WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Plan, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM treatment_plan WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+planCols+` FROM treatment_plan WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var plans []*Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(
			&p.ID, &p.PatientID, &p.CareModel, &p.CareLocation,
			&p.CPR, &p.Intubation, &p.Vasopressor, &p.Dialysis,
			&p.Goals, &p.Note, &p.Status, &p.AttachmentIDs, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		plans = append(plans, &p)
	}
	return plans, total, rows.Err()
}

func (r *repoPG) AddDecisionMaker(ctx context.Context, dm *DecisionMaker) error {
	dm.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO treatment_decision_maker (id, plan_id, name, relation, phone)
		VALUES ($1,$2,$3,$4,$5)`,
		dm.ID, dm.PlanID, dm.Name, dm.Relation, dm.Phone,
	)
	return err
}

func (r *repoPG) GetDecisionMakers(ctx context.Context, planID uuid.UUID) ([]*DecisionMaker, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, plan_id, name, relation, phone
		FROM treatment_decision_maker WHERE plan_id = $1 ORDER BY name`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var makers []*DecisionMaker
	for rows.Next() {
		var dm DecisionMaker
		if err := rows.Scan(&dm.ID, &dm.PlanID, &dm.Name, &dm.Relation, &dm.Phone); err != nil {
			return nil, err
		}
		makers = append(makers, &dm)
	}
	return makers, rows.Err()
}

func (r *repoPG) RemoveDecisionMaker(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM treatment_decision_maker WHERE id = $1`, id)
	return err
}

func scanPlan(row pgx.Row) (*Plan, error) {
	var p Plan
	err := row.Scan(
		&p.ID, &p.PatientID, &p.CareModel, &p.CareLocation,
		&p.CPR, &p.Intubation, &p.Vasopressor, &p.Dialysis,
		&p.Goals, &p.Note, &p.Status, &p.AttachmentIDs, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
