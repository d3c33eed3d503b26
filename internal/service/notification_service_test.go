package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/events"
)

func divisionMember(id, divisionID string, active bool) domain.User {
	return domain.User{
		ID:         id,
		Name:       id,
		Email:      id + "@example.com",
		Role:       domain.UserRoleLegal,
		DivisionID: &divisionID,
		Active:     active,
	}
}

func newNotificationFixture(users ...domain.User) (*NotificationService, *fakeNotificationRepo, events.Dispatcher) {
	notificationRepo := &fakeNotificationRepo{}
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(NotificationDependencies{
		NotificationRepo: notificationRepo,
		UserRepo:         newFakeUserRepo(users...),
		Dispatcher:       dispatcher,
		Logger:           zap.NewNop(),
	})
	svc.RegisterHandlers()
	return svc, notificationRepo, dispatcher
}

func TestContractExpiringEventFansOutToDivision(t *testing.T) {
	svc, _, dispatcher := newNotificationFixture(
		divisionMember("u-1", "div-1", true),
		divisionMember("u-2", "div-1", true),
		divisionMember("u-inactive", "div-1", false),
		divisionMember("u-other", "div-2", true),
	)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:       events.EventContractExpiring,
		ContractID: "c-1",
		Payload: events.ContractExpiringPayload{
			DivisionID:    "div-1",
			AgreementName: "Logistics Partnership",
			DaysRemaining: 14,
		},
	})
	require.NoError(t, err)

	for _, userID := range []string{"u-1", "u-2"} {
		feed, err := svc.ListForUser(context.Background(), userID, 10, 0)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, domain.NotificationTypeWarning, feed[0].Type)
		assert.Contains(t, feed[0].Message, "14 day(s)")
		assert.False(t, feed[0].IsRead())
	}

	for _, userID := range []string{"u-inactive", "u-other"} {
		feed, err := svc.ListForUser(context.Background(), userID, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, feed)
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	svc, _, dispatcher := newNotificationFixture(divisionMember("u-1", "div-1", true))

	for i := 0; i < 3; i++ {
		require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
			Type: events.EventContractCreated,
			Payload: events.ContractCreatedPayload{
				DivisionID:    "div-1",
				AgreementName: "Deal",
			},
		}))
	}

	count, err := svc.UnreadCount(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	feed, err := svc.ListForUser(context.Background(), "u-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 3)

	require.NoError(t, svc.MarkRead(context.Background(), "u-1", feed[0].ID))
	count, err = svc.UnreadCount(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Marking an already-read notification surfaces as not found.
	err = svc.MarkRead(context.Background(), "u-1", feed[0].ID)
	assert.Error(t, err)
	count, err = svc.UnreadCount(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMarkAllRead(t *testing.T) {
	svc, _, dispatcher := newNotificationFixture(divisionMember("u-1", "div-1", true))

	for i := 0; i < 5; i++ {
		require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
			Type:    events.EventContractCreated,
			Payload: events.ContractCreatedPayload{DivisionID: "div-1", AgreementName: "Deal"},
		}))
	}

	updated, err := svc.MarkAllRead(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), updated)

	count, err := svc.UnreadCount(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	updated, err = svc.MarkAllRead(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestMarkReadForeignNotificationFails(t *testing.T) {
	svc, _, dispatcher := newNotificationFixture(
		divisionMember("u-1", "div-1", true),
		divisionMember("u-2", "div-1", true),
	)
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventContractCreated,
		Payload: events.ContractCreatedPayload{DivisionID: "div-1", AgreementName: "Deal"},
	}))

	feed, err := svc.ListForUser(context.Background(), "u-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)

	err = svc.MarkRead(context.Background(), "u-2", feed[0].ID)
	assert.Error(t, err)
}
