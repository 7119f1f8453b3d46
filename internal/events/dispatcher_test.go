package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	var calls []string
	d.Subscribe(EventUserCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.EntityID)
		return boom
	})
	d.Subscribe(EventUserCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.EntityID)
		return nil
	})
	d.Subscribe(EventUserDeleted, func(context.Context, Event) error {
		t.Fatal("unrelated handler called")
		return nil
	})

	err := d.Publish(context.Background(), New(EventUserCreated, "u1", nil))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first:u1", "second:u1"}, calls)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), New(EventTeamCreated, "t1", TeamPayload{Name: "Core"})))
}

func TestNewStampsEvent(t *testing.T) {
	e := New(EventRoleCreated, "r1", RolePayload{Name: "Engineer", Acronym: "ENG"})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "r1", e.EntityID)
}
