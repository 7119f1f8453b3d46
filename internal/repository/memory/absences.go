package memory

import (
	"context"
	"strings"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/pagination"
	"github.com/spec-kit/staff-service/internal/repository"
)

type absenceRepository struct {
	db *DB
}

func checkAbsenceRefs(st *state, a *domain.Absence) error {
	if _, ok := st.users[a.UserID]; !ok {
		return foreignKey(repository.ConstraintAbsencesUser)
	}
	if _, ok := st.absenceTypes[a.AbsenceTypeID]; !ok {
		return foreignKey(repository.ConstraintAbsencesType)
	}
	return nil
}

func (r *absenceRepository) Create(ctx context.Context, a *domain.Absence) error {
	return r.db.write(ctx, func(st *state) error {
		if err := checkAbsenceRefs(st, a); err != nil {
			return err
		}
		now := r.db.now()
		a.CreatedAt, a.UpdatedAt = now, now
		st.absences[strings.Clone(a.ID)] = cloneAbsence(*a)
		return nil
	})
}

func (r *absenceRepository) Update(ctx context.Context, a *domain.Absence) error {
	return r.db.write(ctx, func(st *state) error {
		existing, ok := st.absences[a.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if err := checkAbsenceRefs(st, a); err != nil {
			return err
		}
		updated := cloneAbsence(*a)
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = r.db.now()
		st.absences[strings.Clone(a.ID)] = updated
		a.CreatedAt, a.UpdatedAt = updated.CreatedAt, updated.UpdatedAt
		return nil
	})
}

func (r *absenceRepository) Delete(ctx context.Context, id string) error {
	return r.db.write(ctx, func(st *state) error {
		if _, ok := st.absences[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.absences, id)
		return nil
	})
}

func (r *absenceRepository) GetByID(ctx context.Context, id string) (*domain.Absence, error) {
	var out *domain.Absence
	err := r.db.read(ctx, func(st *state) error {
		a, ok := st.absences[id]
		if !ok {
			return repository.ErrNotFound
		}
		c := cloneAbsence(a)
		out = &c
		return nil
	})
	return out, err
}

func (r *absenceRepository) GetForUpdate(ctx context.Context, id string) (*domain.Absence, error) {
	return r.GetByID(ctx, id)
}

func (r *absenceRepository) List(ctx context.Context, filter repository.AbsenceFilter, w pagination.Window) ([]domain.Absence, error) {
	var out []domain.Absence
	err := r.db.read(ctx, func(st *state) error {
		matched := make([]domain.Absence, 0, len(st.absences))
		for _, a := range st.absences {
			if absenceMatches(a, filter) {
				matched = append(matched, cloneAbsence(a))
			}
		}
		out = page(matched, func(a domain.Absence) string { return a.ID }, w)
		return nil
	})
	return out, err
}

func (r *absenceRepository) Contains(ctx context.Context, filter repository.AbsenceFilter, id string) (bool, error) {
	var found bool
	err := r.db.read(ctx, func(st *state) error {
		a, ok := st.absences[id]
		found = ok && absenceMatches(a, filter)
		return nil
	})
	return found, err
}

func (r *absenceRepository) CountByType(ctx context.Context, absenceTypeID string) (int, error) {
	var count int
	err := r.db.read(ctx, func(st *state) error {
		for _, a := range st.absences {
			if a.AbsenceTypeID == absenceTypeID {
				count++
			}
		}
		return nil
	})
	return count, err
}

func absenceMatches(a domain.Absence, filter repository.AbsenceFilter) bool {
	if filter.ID != nil && a.ID != *filter.ID {
		return false
	}
	if filter.UserID != nil && a.UserID != *filter.UserID {
		return false
	}
	if filter.AbsenceTypeID != nil && a.AbsenceTypeID != *filter.AbsenceTypeID {
		return false
	}
	return true
}

type absenceTypeRepository struct {
	db *DB
}

func (r *absenceTypeRepository) Create(ctx context.Context, t *domain.AbsenceType) error {
	return r.db.write(ctx, func(st *state) error {
		now := r.db.now()
		t.CreatedAt, t.UpdatedAt = now, now
		st.absenceTypes[strings.Clone(t.ID)] = *t
		return nil
	})
}

func (r *absenceTypeRepository) Update(ctx context.Context, t *domain.AbsenceType) error {
	return r.db.write(ctx, func(st *state) error {
		existing, ok := st.absenceTypes[t.ID]
		if !ok {
			return repository.ErrNotFound
		}
		existing.Name = t.Name
		existing.UpdatedAt = r.db.now()
		st.absenceTypes[strings.Clone(t.ID)] = existing
		t.UpdatedAt = existing.UpdatedAt
		return nil
	})
}

// Delete is restricted while absences reference the type.
func (r *absenceTypeRepository) Delete(ctx context.Context, id string) error {
	return r.db.write(ctx, func(st *state) error {
		if _, ok := st.absenceTypes[id]; !ok {
			return repository.ErrNotFound
		}
		for _, a := range st.absences {
			if a.AbsenceTypeID == id {
				return foreignKey(repository.ConstraintAbsencesType)
			}
		}
		delete(st.absenceTypes, id)
		return nil
	})
}

func (r *absenceTypeRepository) GetByID(ctx context.Context, id string) (*domain.AbsenceType, error) {
	var out *domain.AbsenceType
	err := r.db.read(ctx, func(st *state) error {
		t, ok := st.absenceTypes[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &t
		return nil
	})
	return out, err
}

func (r *absenceTypeRepository) GetForUpdate(ctx context.Context, id string) (*domain.AbsenceType, error) {
	return r.GetByID(ctx, id)
}

func (r *absenceTypeRepository) List(ctx context.Context, filter repository.AbsenceTypeFilter, w pagination.Window) ([]domain.AbsenceType, error) {
	var out []domain.AbsenceType
	err := r.db.read(ctx, func(st *state) error {
		matched := make([]domain.AbsenceType, 0, len(st.absenceTypes))
		for _, t := range st.absenceTypes {
			if filter.ID == nil || t.ID == *filter.ID {
				matched = append(matched, t)
			}
		}
		out = page(matched, func(t domain.AbsenceType) string { return t.ID }, w)
		return nil
	})
	return out, err
}

func (r *absenceTypeRepository) Contains(ctx context.Context, filter repository.AbsenceTypeFilter, id string) (bool, error) {
	var found bool
	err := r.db.read(ctx, func(st *state) error {
		_, found = st.absenceTypes[id]
		found = found && (filter.ID == nil || *filter.ID == id)
		return nil
	})
	return found, err
}
