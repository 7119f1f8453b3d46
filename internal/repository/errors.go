package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrReadOnly is returned when a write is attempted inside a snapshot.
var ErrReadOnly = errors.New("write attempted in read-only transaction")

// ConstraintKind classifies an integrity violation raised by the store.
type ConstraintKind string

const (
	UniqueViolation     ConstraintKind = "unique"
	ForeignKeyViolation ConstraintKind = "foreign_key"
)

// Constraint names shared by the SQL schema and the memory store.
const (
	ConstraintUsersEmail    = "users_email_key"
	ConstraintUsersTeam     = "users_team_id_fkey"
	ConstraintTeamsManager  = "teams_manager_id_fkey"
	ConstraintTeamsManages  = "teams_manager_id_key"
	ConstraintUserRolesUser = "user_roles_user_id_fkey"
	ConstraintUserRolesRole = "user_roles_role_id_fkey"
	ConstraintAbsencesUser  = "absences_user_id_fkey"
	ConstraintAbsencesType  = "absences_absence_type_id_fkey"
)

// ConstraintError reports that the store rejected a write.
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s constraint %s violated", e.Kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// IsConstraint reports whether err is a violation of the named constraint.
func IsConstraint(err error, name string) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Constraint == name
}

// translate maps pgx errors onto repository errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505": // unique_violation
		return &ConstraintError{Kind: UniqueViolation, Constraint: pgErr.ConstraintName, Err: err}
	case "23503": // foreign_key_violation
		return &ConstraintError{Kind: ForeignKeyViolation, Constraint: pgErr.ConstraintName, Err: err}
	case "25006": // read_only_sql_transaction
		return fmt.Errorf("%w: %v", ErrReadOnly, err)
	}
	return err
}
