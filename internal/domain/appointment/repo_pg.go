package appointment

import (
	"context"
	"errors"
	"fmt"
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

const apptCols = `id, patient_id, date, start_time, end_time, place, department,
	status, note, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment (
			id, patient_id, date, start_time, end_time, place, department, status, note
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.PatientID, a.Date, a.StartTime, a.EndTime, a.Place, a.Department, a.Status, a.Note,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE appointment SET
			patient_id=$2, date=$3, start_time=$4, end_time=$5, place=$6,
			department=$7, status=$8, note=$9, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.Date, a.StartTime, a.EndTime, a.Place,
		a.Department, a.Status, a.Note,
	)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	return err
}

func (r *repoPG) Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Appointment, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if filter.PatientID != uuid.Nil {
		where += fmt.Sprintf(" AND patient_id = $%d", idx)
		args = append(args, filter.PatientID)
		idx++
	}
	if filter.Date != nil {
		where += fmt.Sprintf(" AND date = $%d", idx)
		args = append(args, *filter.Date)
		idx++
	}
	if filter.Department != "" {
		where += fmt.Sprintf(" AND department = $%d", idx)
		args = append(args, filter.Department)
		idx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status ILIKE $%d", idx)
		args = append(args, "%"+filter.Status+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + apptCols + ` FROM appointment` + where +
		fmt.Sprintf(" ORDER BY date DESC, start_time LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var appts []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.Date, &a.StartTime, &a.EndTime, &a.Place,
			&a.Department, &a.Status, &a.Note, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		appts = append(appts, &a)
	}
	return appts, total, rows.Err()
}

const eventCols = `a.id, a.patient_id, a.date, a.start_time, a.end_time,
	a.place, a.department, a.status, a.note,
	p.first_name_th, p.last_name_th`

func (r *repoPG) EventsInRange(ctx context.Context, from, to time.Time) ([]Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventCols+`
		FROM appointment a
		JOIN patient p ON p.id = a.patient_id
		WHERE a.date >= $1 AND a.date <= $2
		ORDER BY a.date, a.start_time`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *repoPG) EventsOnDate(ctx context.Context, date time.Time) ([]Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventCols+`
		FROM appointment a
		JOIN patient p ON p.id = a.patient_id
		WHERE a.date = $1
		ORDER BY a.start_time`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var (
			e         Event
			date      time.Time
			firstName string
			lastName  string
		)
		if err := rows.Scan(
			&e.ID, &e.PatientID, &date, &e.Start, &e.End,
			&e.Place, &e.Department, &e.Status, &e.Note,
			&firstName, &lastName,
		); err != nil {
			return nil, err
		}
		e.Date = date.Format(DateLayout)
		e.Title = firstName
		if lastName != "" {
			e.Title = firstName + " " + lastName
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID, &a.PatientID, &a.Date, &a.StartTime, &a.EndTime, &a.Place,
		&a.Department, &a.Status, &a.Note, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
