package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-service/internal/config"
	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/events"
)

type fakePublisher struct {
	channel  string
	messages [][]byte
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.channel = channel
	p.messages = append(p.messages, payload)
	return p.err
}

func TestNotificationServiceForwardsEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	pub := &fakePublisher{}
	svc := NewNotificationService(dispatcher, pub, zap.NewNop(), nil, config.NotificationConfig{Enabled: true, RedisChannel: "staff.events"})
	svc.RegisterHandlers()

	deps := Dependencies{Store: newFixture(t).deps.Store, Dispatcher: dispatcher}
	user, err := NewUserService(deps, nil).CreateUser(context.Background(), CreateUserInput{
		Name: "Ann", Email: "ann@x.com", Profile: domain.ProfileAdmin,
	})
	require.NoError(t, err)

	require.Len(t, pub.messages, 1)
	assert.Equal(t, "staff.events", pub.channel)

	var decoded struct {
		Type     string `json:"type"`
		EntityID string `json:"entity_id"`
	}
	require.NoError(t, json.Unmarshal(pub.messages[0], &decoded))
	assert.Equal(t, string(events.EventUserCreated), decoded.Type)
	assert.Equal(t, user.ID, decoded.EntityID)
}

func TestNotificationFailureDoesNotFailMutation(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	pub := &fakePublisher{err: errors.New("redis down")}
	NewNotificationService(dispatcher, pub, nil, nil, config.NotificationConfig{Enabled: true, RedisChannel: "c"}).RegisterHandlers()

	deps := Dependencies{Store: newFixture(t).deps.Store, Dispatcher: dispatcher}
	_, err := NewRoleService(deps).CreateRole(context.Background(), RoleInput{Name: "Tester", Acronym: "QA"})
	assert.NoError(t, err)
	assert.Len(t, pub.messages, 1)
}

func TestNotificationDisabled(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	pub := &fakePublisher{}
	NewNotificationService(dispatcher, pub, nil, nil, config.NotificationConfig{Enabled: false}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.New(events.EventRoleCreated, "r1", nil)))
	assert.Empty(t, pub.messages)
}
