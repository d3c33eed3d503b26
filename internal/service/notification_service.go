package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/events"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/repository"
	apperrors "github.com/rsyahbudin/pks-legal-PML-sub001/pkg/util/errorutil"
)

// NotificationService maintains the in-app notification feed and the
// read/unread aggregate, and materializes notifications from domain events.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventContractCreated, n.handleContractCreated)
	n.dispatcher.Subscribe(events.EventContractExpiring, n.handleContractExpiring)
}

// ListForUser returns a page of the user's notifications.
func (n *NotificationService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	return n.notifications.ListByUser(ctx, userID, limit, offset)
}

// UnreadCount returns the number of unread notifications for the user.
func (n *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return n.notifications.CountUnread(ctx, userID)
}

// MarkRead acknowledges a single notification owned by the user.
func (n *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := n.notifications.MarkRead(ctx, userID, notificationID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// MarkAllRead acknowledges every unread notification for the user and
// returns how many were updated.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return n.notifications.MarkAllRead(ctx, userID)
}

func (n *NotificationService) handleContractCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ContractCreatedPayload)
	if !ok {
		return nil
	}
	title := "New contract registered"
	message := fmt.Sprintf("Agreement %q was registered in your division.", payload.AgreementName)
	n.notifyDivision(ctx, payload.DivisionID, domain.NotificationTypeInfo, title, message)
	return nil
}

func (n *NotificationService) handleContractExpiring(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ContractExpiringPayload)
	if !ok {
		return nil
	}
	title := "Contract expiring soon"
	message := fmt.Sprintf("Agreement %q expires in %d day(s).", payload.AgreementName, payload.DaysRemaining)
	n.notifyDivision(ctx, payload.DivisionID, domain.NotificationTypeWarning, title, message)
	return nil
}

// notifyDivision fans a notification out to every active user of a division.
// Failures are logged per user; one bad row does not block the rest.
func (n *NotificationService) notifyDivision(ctx context.Context, divisionID string, kind domain.NotificationType, title, message string) {
	users, err := n.users.ListActiveByDivision(ctx, divisionID)
	if err != nil {
		n.logger.Error("failed to list division users for notification",
			zap.String("division_id", divisionID), zap.Error(err))
		return
	}
	for i := range users {
		notification := &domain.Notification{
			UserID:  users[i].ID,
			Type:    kind,
			Title:   title,
			Message: message,
		}
		if err := n.notifications.Create(ctx, notification); err != nil {
			n.logger.Error("failed to create notification",
				zap.String("user_id", users[i].ID), zap.Error(err))
		}
	}
}
