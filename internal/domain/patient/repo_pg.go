package patient

import (
	"context"
	"errors"
	"fmt"

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

const patientCols = `id, hn, first_name_th, last_name_th, first_name_en, last_name_en,
	birth_date, sex, phone, address, attending_physician,
	deceased, deceased_date, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient (
			id, hn, first_name_th, last_name_th, first_name_en, last_name_en,
			birth_date, sex, phone, address, attending_physician,
			deceased, deceased_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		p.ID, p.HN, p.FirstNameTH, p.LastNameTH, p.FirstNameEN, p.LastNameEN,
		p.BirthDate, p.Sex, p.Phone, p.Address, p.AttendingPhysician,
		p.Deceased, p.DeceasedDate,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) GetByHN(ctx context.Context, hn string) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE hn = $1`, hn))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE patient SET
			hn=$2, first_name_th=$3, last_name_th=$4, first_name_en=$5, last_name_en=$6,
			birth_date=$7, sex=$8, phone=$9, address=$10, attending_physician=$11,
			deceased=$12, deceased_date=$13, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.HN, p.FirstNameTH, p.LastNameTH, p.FirstNameEN, p.LastNameEN,
		p.BirthDate, p.Sex, p.Phone, p.Address, p.AttendingPhysician,
		p.Deceased, p.DeceasedDate,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *repoPG) Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Patient, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if filter.HN != "" {
		where += fmt.Sprintf(" AND hn = $%d", idx)
		args = append(args, filter.HN)
		idx++
	}
	if filter.Name != "" {
		where += fmt.Sprintf(" AND (first_name_th ILIKE $%d OR last_name_th ILIKE $%d OR first_name_en ILIKE $%d OR last_name_en ILIKE $%d)", idx, idx, idx, idx)
		args = append(args, "%"+filter.Name+"%")
		idx++
	}
	if filter.Deceased != nil {
		where += fmt.Sprintf(" AND deceased = $%d", idx)
		args = append(args, *filter.Deceased)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + patientCols + ` FROM patient` + where +
		fmt.Sprintf(" ORDER BY hn LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(
			&p.ID, &p.HN, &p.FirstNameTH, &p.LastNameTH, &p.FirstNameEN, &p.LastNameEN,
			&p.BirthDate, &p.Sex, &p.Phone, &p.Address, &p.AttendingPhysician,
			&p.Deceased, &p.DeceasedDate, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		patients = append(patients, &p)
	}
	return patients, total, rows.Err()
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.HN, &p.FirstNameTH, &p.LastNameTH, &p.FirstNameEN, &p.LastNameEN,
		&p.BirthDate, &p.Sex, &p.Phone, &p.Address, &p.AttendingPhysician,
		&p.Deceased, &p.DeceasedDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
