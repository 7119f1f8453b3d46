package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/pagination"
)

const absenceColumns = `id, title, description, start_date_at, end_date_at, start_time_at, end_time_at,
        is_all_day, user_id, absence_type_id, created_at, updated_at`

type absenceRepository struct {
	pool *pgxpool.Pool
}

// NewAbsenceRepository constructs the repository.
func NewAbsenceRepository(pool *pgxpool.Pool) AbsenceRepository {
	return &absenceRepository{pool: pool}
}

func (r *absenceRepository) Create(ctx context.Context, a *domain.Absence) error {
	const query = `
        INSERT INTO absences (id, title, description, start_date_at, end_date_at, start_time_at, end_time_at,
            is_all_day, user_id, absence_type_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING created_at, updated_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		a.ID,
		a.Title,
		a.Description,
		a.StartDateAt,
		a.EndDateAt,
		a.StartTimeAt,
		a.EndTimeAt,
		a.IsAllDay,
		a.UserID,
		a.AbsenceTypeID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

func (r *absenceRepository) Update(ctx context.Context, a *domain.Absence) error {
	const query = `
        UPDATE absences SET title=$1, description=$2, start_date_at=$3, end_date_at=$4, start_time_at=$5,
            end_time_at=$6, is_all_day=$7, user_id=$8, absence_type_id=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		a.Title,
		a.Description,
		a.StartDateAt,
		a.EndDateAt,
		a.StartTimeAt,
		a.EndTimeAt,
		a.IsAllDay,
		a.UserID,
		a.AbsenceTypeID,
		a.ID,
	).Scan(&a.UpdatedAt)
	return translate(err)
}

func (r *absenceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM absences WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *absenceRepository) GetByID(ctx context.Context, id string) (*domain.Absence, error) {
	const query = `SELECT ` + absenceColumns + ` FROM absences WHERE id=$1`
	return scanAbsence(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *absenceRepository) GetForUpdate(ctx context.Context, id string) (*domain.Absence, error) {
	const query = `SELECT ` + absenceColumns + ` FROM absences WHERE id=$1 FOR UPDATE`
	return scanAbsence(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *absenceRepository) List(ctx context.Context, filter AbsenceFilter, w pagination.Window) ([]domain.Absence, error) {
	c := absenceConditions(filter)
	tail := c.keyset(w, "id")
	query := `SELECT ` + absenceColumns + ` FROM absences` + c.where() + tail

	rows, err := conn(ctx, r.pool).Query(ctx, query, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.Absence
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, translate(rows.Err())
}

func (r *absenceRepository) Contains(ctx context.Context, filter AbsenceFilter, id string) (bool, error) {
	return exists(ctx, r.pool, "absences", absenceConditions(filter), id)
}

func (r *absenceRepository) CountByType(ctx context.Context, absenceTypeID string) (int, error) {
	var count int
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM absences WHERE absence_type_id=$1`, absenceTypeID).Scan(&count)
	return count, translate(err)
}

func absenceConditions(filter AbsenceFilter) conditions {
	var c conditions
	if filter.ID != nil {
		c.add("id = $%d", *filter.ID)
	}
	if filter.UserID != nil {
		c.add("user_id = $%d", *filter.UserID)
	}
	if filter.AbsenceTypeID != nil {
		c.add("absence_type_id = $%d", *filter.AbsenceTypeID)
	}
	return c
}

func scanAbsence(row pgx.Row) (*domain.Absence, error) {
	var a domain.Absence
	if err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.StartDateAt,
		&a.EndDateAt,
		&a.StartTimeAt,
		&a.EndTimeAt,
		&a.IsAllDay,
		&a.UserID,
		&a.AbsenceTypeID,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}
