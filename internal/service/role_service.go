package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/events"
	"github.com/spec-kit/staff-service/internal/pagination"
	"github.com/spec-kit/staff-service/internal/repository"
)

// RoleService manages the role catalog.
type RoleService struct {
	base
}

// NewRoleService constructs the service.
func NewRoleService(deps Dependencies) *RoleService {
	return &RoleService{base: newBase(deps)}
}

// Roles lists roles, optionally only those held by one user.
func (s *RoleService) Roles(ctx context.Context, q RolesQuery) (*pagination.Connection[domain.Role], error) {
	filter := repository.RoleFilter{ID: q.ID, UserID: q.UserID}

	var conn *pagination.Connection[domain.Role]
	err := s.query(ctx, "Roles", q.Args, func(ctx context.Context) (err error) {
		conn, err = pagination.Connect(ctx, source(filter, s.store.Roles.List, s.store.Roles.Contains,
			func(r domain.Role) string { return r.ID }), q.Args)
		return err
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// CreateRole adds a role to the catalog.
func (s *RoleService) CreateRole(ctx context.Context, in RoleInput) (*domain.Role, error) {
	role := &domain.Role{ID: domain.NewID(), Name: in.Name, Acronym: in.Acronym, Description: in.Description}
	err := s.mutate(ctx, "CreateRole", func(ctx context.Context) error {
		if err := s.validator.CreateRole(ctx, in); err != nil {
			return err
		}
		return s.store.Roles.Create(ctx, role)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.RoleEvent(events.EventRoleCreated, role))
	return role, nil
}

// UpdateRole replaces name, acronym and description.
func (s *RoleService) UpdateRole(ctx context.Context, in UpdateRoleInput) (*domain.Role, error) {
	var role *domain.Role
	err := s.mutate(ctx, "UpdateRole", func(ctx context.Context) error {
		current, err := s.validator.UpdateRole(ctx, in)
		if err != nil {
			return err
		}
		current.Name = in.Name
		current.Acronym = in.Acronym
		current.Description = in.Description
		if err := s.store.Roles.Update(ctx, current); err != nil {
			return err
		}
		role = current
		return nil
	}, attribute.String("role.id", in.ID))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.RoleEvent(events.EventRoleUpdated, role))
	return role, nil
}

// DeleteRole removes a role and every assignment of it.
func (s *RoleService) DeleteRole(ctx context.Context, id string) (*domain.Role, error) {
	var role *domain.Role
	err := s.mutate(ctx, "DeleteRole", func(ctx context.Context) error {
		current, err := s.validator.DeleteRole(ctx, id)
		if err != nil {
			return err
		}
		if err := s.store.Roles.Delete(ctx, id); err != nil {
			return err
		}
		role = current
		return nil
	}, attribute.String("role.id", id))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.RoleEvent(events.EventRoleDeleted, role))
	return role, nil
}
