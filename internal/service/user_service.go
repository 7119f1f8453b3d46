package service

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/events"
	"github.com/spec-kit/staff-service/internal/pagination"
	"github.com/spec-kit/staff-service/internal/repository"
	apperrors "github.com/spec-kit/staff-service/pkg/util/errorutil"
)

// AvatarStorage issues upload URLs for user avatars.
type AvatarStorage interface {
	PresignPut(ctx context.Context, key, contentType string) (url string, expiresAt time.Time, err error)
	PublicURL(key string) string
}

// AvatarUpload tells the client where to PUT the image and what to store as
// the user's image afterwards.
type AvatarUpload struct {
	UploadURL string
	ImageURL  string
	Key       string
	ExpiresAt time.Time
}

// UserService exposes user queries and mutations.
type UserService struct {
	base
	avatars AvatarStorage
}

// NewUserService constructs the service. avatars may be nil.
func NewUserService(deps Dependencies, avatars AvatarStorage) *UserService {
	return &UserService{base: newBase(deps), avatars: avatars}
}

// Users lists users. Filter precedence is id, then withoutTeam, then everyone.
func (s *UserService) Users(ctx context.Context, q UsersQuery) (*pagination.Connection[domain.User], error) {
	var filter repository.UserFilter
	switch {
	case q.ID != nil:
		filter.ID = q.ID
	case q.WithoutTeam:
		filter.WithoutTeam = true
	}

	var conn *pagination.Connection[domain.User]
	err := s.query(ctx, "Users", q.Args, func(ctx context.Context) error {
		c, err := pagination.Connect(ctx, source(filter, s.store.Users.List, s.store.Users.Contains,
			func(u domain.User) string { return u.ID }), q.Args)
		if err != nil {
			return err
		}
		if err := s.attachRoles(ctx, c.Edges); err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *UserService) attachRoles(ctx context.Context, edges []pagination.Edge[domain.User]) error {
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.Node.ID)
	}
	roles, err := s.store.Roles.ForUsers(ctx, ids)
	if err != nil {
		return err
	}
	for i := range edges {
		edges[i].Node.Roles = roles[edges[i].Node.ID]
	}
	return nil
}

func (s *UserService) withRoles(ctx context.Context, user *domain.User) error {
	roles, err := s.store.Roles.ForUsers(ctx, []string{user.ID})
	if err != nil {
		return err
	}
	user.Roles = roles[user.ID]
	return nil
}

// CreateUser registers a user.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	user := &domain.User{
		ID:      domain.NewID(),
		Name:    in.Name,
		Email:   in.Email,
		Profile: in.Profile,
		Image:   in.Image,
	}
	err := s.mutate(ctx, "CreateUser", func(ctx context.Context) error {
		if err := s.validator.CreateUser(ctx, in); err != nil {
			return err
		}
		return emailConflict(s.store.Users.Create(ctx, user), in.Email)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.UserEvent(events.EventUserCreated, user))
	return user, nil
}

// UpdateUser replaces name, email, profile and image.
func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*domain.User, error) {
	var user *domain.User
	err := s.mutate(ctx, "UpdateUser", func(ctx context.Context) error {
		current, err := s.validator.UpdateUser(ctx, in)
		if err != nil {
			return err
		}
		current.Name = in.Name
		current.Email = in.Email
		current.Profile = in.Profile
		current.Image = in.Image
		if err := s.store.Users.Update(ctx, current); err != nil {
			return emailConflict(err, in.Email)
		}
		if err := s.withRoles(ctx, current); err != nil {
			return err
		}
		user = current
		return nil
	}, attribute.String("user.id", in.ID))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.UserEvent(events.EventUserUpdated, user))
	return user, nil
}

// DeleteUser removes a user that belongs to no team and returns the deleted record.
// Its absences and role assignments go with it.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	var user *domain.User
	err := s.mutate(ctx, "DeleteUser", func(ctx context.Context) error {
		current, err := s.validator.DeleteUser(ctx, id)
		if err != nil {
			return err
		}
		if err := s.withRoles(ctx, current); err != nil {
			return err
		}
		if err := s.store.Users.Delete(ctx, id); err != nil {
			return err
		}
		user = current
		return nil
	}, attribute.String("user.id", id))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.UserEvent(events.EventUserDeleted, user))
	return user, nil
}

// AssignRole grants a role to a user. Granting a held role is a no-op.
func (s *UserService) AssignRole(ctx context.Context, in RoleAssignmentInput) (*domain.User, error) {
	return s.changeRole(ctx, "AssignRole", in, events.EventUserRoleAssigned,
		s.validator.AssignRole, s.store.Roles.Assign)
}

// UnassignRole revokes a role held by a user.
func (s *UserService) UnassignRole(ctx context.Context, in RoleAssignmentInput) (*domain.User, error) {
	return s.changeRole(ctx, "UnassignRole", in, events.EventUserRoleUnassigned,
		s.validator.UnassignRole, s.store.Roles.Unassign)
}

func (s *UserService) changeRole(
	ctx context.Context,
	op string,
	in RoleAssignmentInput,
	eventType events.EventType,
	validate func(context.Context, RoleAssignmentInput) error,
	apply func(ctx context.Context, userID, roleID string) error,
) (*domain.User, error) {
	var user *domain.User
	err := s.mutate(ctx, op, func(ctx context.Context) error {
		if err := validate(ctx, in); err != nil {
			return err
		}
		if err := apply(ctx, in.UserID, in.RoleID); err != nil {
			return err
		}
		current, err := s.store.Users.GetByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if err := s.withRoles(ctx, current); err != nil {
			return err
		}
		user = current
		return nil
	}, attribute.String("user.id", in.UserID), attribute.String("role.id", in.RoleID))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(eventType, in.UserID, events.RoleAssignmentPayload{UserID: in.UserID, RoleID: in.RoleID}))
	return user, nil
}

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// AvatarUpload presigns an upload URL for a new avatar of an existing user.
// The client stores ImageURL through UpdateUser once the upload succeeded.
func (s *UserService) AvatarUpload(ctx context.Context, in AvatarUploadInput) (*AvatarUpload, error) {
	if s.avatars == nil {
		return nil, apperrors.NewUnavailable("avatar uploads are not configured")
	}
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	err := s.query(ctx, "AvatarUpload", pagination.Args{}, func(ctx context.Context) error {
		_, err := s.store.Users.GetByID(ctx, in.UserID)
		return notFound("user", "userId", in.UserID, err)
	})
	if err != nil {
		return nil, err
	}

	key := path.Join("avatars", in.UserID, uuid.NewString()+avatarExtensions[in.ContentType])
	url, expiresAt, err := s.avatars.PresignPut(ctx, key, in.ContentType)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("presign avatar upload: %w", err))
	}
	return &AvatarUpload{UploadURL: url, ImageURL: s.avatars.PublicURL(key), Key: key, ExpiresAt: expiresAt}, nil
}
