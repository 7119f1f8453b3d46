package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/events"
	"github.com/spec-kit/staff-service/internal/pagination"
	"github.com/spec-kit/staff-service/internal/repository"
)

// AbsenceService manages absences and the absence type catalog.
type AbsenceService struct {
	base
}

// NewAbsenceService constructs the service.
func NewAbsenceService(deps Dependencies) *AbsenceService {
	return &AbsenceService{base: newBase(deps)}
}

// Absences lists absences filtered by id, owner or type.
func (s *AbsenceService) Absences(ctx context.Context, q AbsencesQuery) (*pagination.Connection[domain.Absence], error) {
	filter := repository.AbsenceFilter{ID: q.ID, UserID: q.UserID, AbsenceTypeID: q.AbsenceTypeID}

	var conn *pagination.Connection[domain.Absence]
	err := s.query(ctx, "Absences", q.Args, func(ctx context.Context) (err error) {
		conn, err = pagination.Connect(ctx, source(filter, s.store.Absences.List, s.store.Absences.Contains,
			func(a domain.Absence) string { return a.ID }), q.Args)
		return err
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func applyAbsence(a *domain.Absence, in AbsenceInput) {
	a.Title = in.Title
	a.Description = in.Description
	a.StartDateAt = in.StartDateAt
	a.EndDateAt = in.EndDateAt
	a.StartTimeAt = in.StartTimeAt
	a.EndTimeAt = in.EndTimeAt
	a.IsAllDay = in.IsAllDay
	a.UserID = in.UserID
	a.AbsenceTypeID = in.AbsenceTypeID
}

// CreateAbsence records an absence for an existing user.
func (s *AbsenceService) CreateAbsence(ctx context.Context, in AbsenceInput) (*domain.Absence, error) {
	absence := &domain.Absence{ID: domain.NewID()}
	applyAbsence(absence, in)
	err := s.mutate(ctx, "CreateAbsence", func(ctx context.Context) error {
		if err := s.validator.CreateAbsence(ctx, in); err != nil {
			return err
		}
		return s.store.Absences.Create(ctx, absence)
	}, attribute.String("user.id", in.UserID))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.AbsenceEvent(events.EventAbsenceCreated, absence))
	return absence, nil
}

// UpdateAbsence replaces every field of an existing absence.
func (s *AbsenceService) UpdateAbsence(ctx context.Context, in UpdateAbsenceInput) (*domain.Absence, error) {
	var absence *domain.Absence
	err := s.mutate(ctx, "UpdateAbsence", func(ctx context.Context) error {
		current, err := s.validator.UpdateAbsence(ctx, in)
		if err != nil {
			return err
		}
		applyAbsence(current, in.AbsenceInput)
		if err := s.store.Absences.Update(ctx, current); err != nil {
			return err
		}
		absence = current
		return nil
	}, attribute.String("absence.id", in.ID))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.AbsenceEvent(events.EventAbsenceUpdated, absence))
	return absence, nil
}

// DeleteAbsence removes an absence.
func (s *AbsenceService) DeleteAbsence(ctx context.Context, id string) (*domain.Absence, error) {
	var absence *domain.Absence
	err := s.mutate(ctx, "DeleteAbsence", func(ctx context.Context) error {
		current, err := s.validator.DeleteAbsence(ctx, id)
		if err != nil {
			return err
		}
		if err := s.store.Absences.Delete(ctx, id); err != nil {
			return err
		}
		absence = current
		return nil
	}, attribute.String("absence.id", id))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.AbsenceEvent(events.EventAbsenceDeleted, absence))
	return absence, nil
}

// AbsenceTypes lists absence types.
func (s *AbsenceService) AbsenceTypes(ctx context.Context, q AbsenceTypesQuery) (*pagination.Connection[domain.AbsenceType], error) {
	filter := repository.AbsenceTypeFilter{ID: q.ID}

	var conn *pagination.Connection[domain.AbsenceType]
	err := s.query(ctx, "AbsenceTypes", q.Args, func(ctx context.Context) (err error) {
		conn, err = pagination.Connect(ctx, source(filter, s.store.AbsenceTypes.List, s.store.AbsenceTypes.Contains,
			func(t domain.AbsenceType) string { return t.ID }), q.Args)
		return err
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// CreateAbsenceType adds an absence type.
func (s *AbsenceService) CreateAbsenceType(ctx context.Context, in AbsenceTypeInput) (*domain.AbsenceType, error) {
	t := &domain.AbsenceType{ID: domain.NewID(), Name: in.Name}
	err := s.mutate(ctx, "CreateAbsenceType", func(ctx context.Context) error {
		if err := s.validator.CreateAbsenceType(ctx, in); err != nil {
			return err
		}
		return s.store.AbsenceTypes.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.AbsenceTypeEvent(events.EventAbsenceTypeCreated, t))
	return t, nil
}

// UpdateAbsenceType renames an absence type.
func (s *AbsenceService) UpdateAbsenceType(ctx context.Context, in UpdateAbsenceTypeInput) (*domain.AbsenceType, error) {
	var t *domain.AbsenceType
	err := s.mutate(ctx, "UpdateAbsenceType", func(ctx context.Context) error {
		current, err := s.validator.UpdateAbsenceType(ctx, in)
		if err != nil {
			return err
		}
		current.Name = in.Name
		if err := s.store.AbsenceTypes.Update(ctx, current); err != nil {
			return err
		}
		t = current
		return nil
	}, attribute.String("absence_type.id", in.ID))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.AbsenceTypeEvent(events.EventAbsenceTypeUpdated, t))
	return t, nil
}

// DeleteAbsenceType removes an absence type no absence refers to.
func (s *AbsenceService) DeleteAbsenceType(ctx context.Context, id string) (*domain.AbsenceType, error) {
	var t *domain.AbsenceType
	err := s.mutate(ctx, "DeleteAbsenceType", func(ctx context.Context) error {
		current, err := s.validator.DeleteAbsenceType(ctx, id)
		if err != nil {
			return err
		}
		if err := s.store.AbsenceTypes.Delete(ctx, id); err != nil {
			return typeInUse(err, current)
		}
		t = current
		return nil
	}, attribute.String("absence_type.id", id))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.AbsenceTypeEvent(events.EventAbsenceTypeDeleted, t))
	return t, nil
}
