package service

import (
	"context"
	"fmt"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository"
	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery pushes real-time updates to connected clients.
// Implemented by the websocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

// handleEvent persists a notification row and pushes it over websocket.
// Only subscription lifecycle events produce user-visible notices.
func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	title, body, ok := notificationText(event.EventType())
	if !ok {
		return nil
	}

	payload := event.Payload()
	rawUserId, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(rawUserId)
	if err != nil {
		s.logger.Warn("NotificationService", "Event without parsable user_id, skipping", map[string]interface{}{
			"type":    event.EventType(),
			"user_id": rawUserId,
		})
		return nil
	}

	notification := model.Notification{
		Id:     uuid.New(),
		UserId: userId,
		Code:   event.EventType(),
		Title:  title,
		Body:   body,
	}

	if err := s.repo.CreateNotification(ctx, &notification); err != nil {
		s.logger.Error("NotificationService", "Failed to persist notification", map[string]interface{}{"error": err.Error()})
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(userId, notification)
	}

	return nil
}

func notificationText(eventType string) (title, body string, ok bool) {
	switch eventType {
	case events.SubscriptionActivated:
		return "Subscription active", "Your Pro subscription is now active. Enjoy unlimited messages!", true
	case events.SubscriptionRenewed:
		return "Subscription renewed", "Your Pro subscription has been renewed.", true
	case events.SubscriptionCanceled:
		return "Subscription ended", "Your Pro subscription has ended. You are back on the free tier.", true
	case events.PaymentFailed:
		return "Payment failed", "We could not process your payment. Please update your billing details.", true
	default:
		return "", "", false
	}
}

// List returns a page of the user's notifications with unread count.
func (s *NotificationService) List(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.repo.GetNotificationsByUserID(ctx, userId, limit, offset)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.GetUnreadCount(ctx, userId)
	if err != nil {
		return nil, err
	}

	items := make([]dto.NotificationDTO, len(notifications))
	for i, n := range notifications {
		items[i] = dto.NotificationDTO{
			Id:        n.Id,
			Type:      n.Code,
			Title:     n.Title,
			Body:      n.Body,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		Total:         total,
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationId uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, notificationId)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userId uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userId)
}

func (s *NotificationService) Stop() {
	if s.subscriber != nil {
		s.subscriber.Close()
	}
	fmt.Println("Notification service stopped")
}
