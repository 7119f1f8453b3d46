package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/events"
	"github.com/spec-kit/staff-service/internal/pagination"
	"github.com/spec-kit/staff-service/internal/repository"
)

// TeamService exposes team queries and mutations, membership included.
type TeamService struct {
	base
}

// NewTeamService constructs the service.
func NewTeamService(deps Dependencies) *TeamService {
	return &TeamService{base: newBase(deps)}
}

// Teams lists teams with their members.
func (s *TeamService) Teams(ctx context.Context, q TeamsQuery) (*pagination.Connection[domain.Team], error) {
	filter := repository.TeamFilter{ID: q.ID}

	var conn *pagination.Connection[domain.Team]
	err := s.query(ctx, "Teams", q.Args, func(ctx context.Context) error {
		c, err := pagination.Connect(ctx, source(filter, s.store.Teams.List, s.store.Teams.Contains,
			func(t domain.Team) string { return t.ID }), q.Args)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(c.Edges))
		for _, e := range c.Edges {
			ids = append(ids, e.Node.ID)
		}
		members, err := s.store.Users.MembersOf(ctx, ids)
		if err != nil {
			return err
		}
		for i := range c.Edges {
			c.Edges[i].Node.Members = nonNilMembers(members[c.Edges[i].Node.ID])
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func nonNilMembers(m []domain.TeamMember) []domain.TeamMember {
	if m == nil {
		return []domain.TeamMember{}
	}
	return m
}

func (s *TeamService) withMembers(ctx context.Context, team *domain.Team) error {
	members, err := s.store.Users.MembersOf(ctx, []string{team.ID})
	if err != nil {
		return err
	}
	team.Members = nonNilMembers(members[team.ID])
	return nil
}

// CreateTeam creates a team run by an existing user.
func (s *TeamService) CreateTeam(ctx context.Context, in TeamInput) (*domain.Team, error) {
	managerID := in.ManagerID
	team := &domain.Team{ID: domain.NewID(), Name: in.Name, ManagerID: &managerID, Members: []domain.TeamMember{}}
	err := s.mutate(ctx, "CreateTeam", func(ctx context.Context) error {
		if err := s.validator.CreateTeam(ctx, in); err != nil {
			return err
		}
		return s.store.Teams.Create(ctx, team)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TeamEvent(events.EventTeamCreated, team))
	return team, nil
}

// UpdateTeam renames a team and sets its manager.
func (s *TeamService) UpdateTeam(ctx context.Context, in UpdateTeamInput) (*domain.Team, error) {
	var team *domain.Team
	err := s.mutate(ctx, "UpdateTeam", func(ctx context.Context) error {
		current, err := s.validator.UpdateTeam(ctx, in)
		if err != nil {
			return err
		}
		managerID := in.ManagerID
		current.Name = in.Name
		current.ManagerID = &managerID
		if err := s.store.Teams.Update(ctx, current); err != nil {
			return err
		}
		if err := s.withMembers(ctx, current); err != nil {
			return err
		}
		team = current
		return nil
	}, attribute.String("team.id", in.ID))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TeamEvent(events.EventTeamUpdated, team))
	return team, nil
}

// DeleteTeam deletes a team; its members are left without a team.
func (s *TeamService) DeleteTeam(ctx context.Context, id string) (*domain.Team, error) {
	var team *domain.Team
	err := s.mutate(ctx, "DeleteTeam", func(ctx context.Context) error {
		current, err := s.validator.DeleteTeam(ctx, id)
		if err != nil {
			return err
		}
		if err := s.withMembers(ctx, current); err != nil {
			return err
		}
		if err := s.store.Teams.Delete(ctx, id); err != nil {
			return err
		}
		team = current
		return nil
	}, attribute.String("team.id", id))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TeamEvent(events.EventTeamDeleted, team))
	return team, nil
}

// AddMember puts a user without a team into the team.
func (s *TeamService) AddMember(ctx context.Context, in TeamMemberInput) (*domain.Team, error) {
	var (
		team    *domain.Team
		already bool
	)
	err := s.mutate(ctx, "AddTeamMember", func(ctx context.Context) error {
		current, member, err := s.validator.AddTeamMember(ctx, in)
		if err != nil {
			return err
		}
		already = member
		if !already {
			if err := s.store.Users.SetTeam(ctx, in.UserID, &current.ID); err != nil {
				return err
			}
		}
		if err := s.withMembers(ctx, current); err != nil {
			return err
		}
		team = current
		return nil
	}, attribute.String("team.id", in.TeamID), attribute.String("user.id", in.UserID))
	if err != nil {
		return nil, err
	}
	if !already {
		s.publish(ctx, events.New(events.EventTeamMemberAdded, team.ID, events.TeamMemberPayload{TeamID: team.ID, UserID: in.UserID}))
	}
	return team, nil
}

// RemoveMember takes a user out of the team.
func (s *TeamService) RemoveMember(ctx context.Context, in TeamMemberInput) (*domain.Team, error) {
	var team *domain.Team
	err := s.mutate(ctx, "RemoveTeamMember", func(ctx context.Context) error {
		current, err := s.validator.RemoveTeamMember(ctx, in)
		if err != nil {
			return err
		}
		if err := s.store.Users.SetTeam(ctx, in.UserID, nil); err != nil {
			return err
		}
		if err := s.withMembers(ctx, current); err != nil {
			return err
		}
		team = current
		return nil
	}, attribute.String("team.id", in.TeamID), attribute.String("user.id", in.UserID))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventTeamMemberRemoved, team.ID, events.TeamMemberPayload{TeamID: team.ID, UserID: in.UserID}))
	return team, nil
}
