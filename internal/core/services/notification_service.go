package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/adapters/persistence/repositories"
	"transportconnect/internal/core/domain"
	"transportconnect/internal/pkg/mailer"
)

// Pusher delivers a realtime payload to a connected user. Implementations
// drop the payload when the user has no open connection.
type Pusher interface {
	Push(userID uint, payload interface{})
	Connected(userID uint) bool
}

// EventPublisher publishes notification events for external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

// NotificationService turns lifecycle events into notifications and fans
// each one out: a notification row, an email, a websocket push and an
// outbound event. Dispatch runs in the background and never fails the
// transition that triggered it.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	mailer           *mailer.Mailer
	pusher           Pusher
	publisher        EventPublisher
}

// NewNotificationService creates a new notification service. pusher and
// publisher may be nil when the corresponding transport is not configured.
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	m *mailer.Mailer,
	pusher Pusher,
	publisher EventPublisher,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		mailer:           m,
		pusher:           pusher,
		publisher:        publisher,
	}
}

// NotificationEvent is the payload pushed over websocket and published to
// the broker.
type NotificationEvent struct {
	RecipientID uint                    `json:"recipient_id"`
	Type        domain.NotificationType `json:"type"`
	Title       string                  `json:"title"`
	Body        string                  `json:"body"`
	RequestID   uint                    `json:"request_id,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// RequestReceived notifies the carrier that a new request arrived.
func (s *NotificationService) RequestReceived(req *models.TransportRequest) {
	title := "New transport request"
	body := fmt.Sprintf("You received a new request for your listing %s → %s.",
		req.Listing.DepartureCity, req.Listing.DestinationCity)
	if req.Shipper != nil {
		body = fmt.Sprintf("%s sent a request for your listing %s → %s.",
			req.Shipper.FullName(), req.Listing.DepartureCity, req.Listing.DestinationCity)
	}
	s.dispatch(req.CarrierID(), domain.NotifyRequestReceived, title, body, req.ID)
}

// RequestAccepted notifies the shipper that the carrier accepted.
func (s *NotificationService) RequestAccepted(req *models.TransportRequest) {
	title := "Request accepted"
	body := fmt.Sprintf("Your request for %s → %s was accepted.",
		req.Listing.DepartureCity, req.Listing.DestinationCity)
	s.dispatch(req.ShipperID, domain.NotifyRequestAccepted, title, body, req.ID)
}

// RequestRefused notifies the shipper that the carrier refused, with the
// reason.
func (s *NotificationService) RequestRefused(req *models.TransportRequest) {
	title := "Request refused"
	body := fmt.Sprintf("Your request for %s → %s was refused: %s",
		req.Listing.DepartureCity, req.Listing.DestinationCity, req.RefusalReason)
	s.dispatch(req.ShipperID, domain.NotifyRequestRefused, title, body, req.ID)
}

// DeliveryConfirmed notifies the shipper that the parcel was delivered.
func (s *NotificationService) DeliveryConfirmed(req *models.TransportRequest) {
	title := "Delivery confirmed"
	body := fmt.Sprintf("Your parcel for %s → %s was delivered. You can now evaluate the carrier.",
		req.Listing.DepartureCity, req.Listing.DestinationCity)
	s.dispatch(req.ShipperID, domain.NotifyDeliveryConfirmed, title, body, req.ID)
}

// EvaluationReceived notifies the evaluated party.
func (s *NotificationService) EvaluationReceived(eval *models.Evaluation, req *models.TransportRequest) {
	title := "New evaluation"
	body := fmt.Sprintf("You received a %d/5 evaluation on your delivery %s → %s.",
		eval.Rating, req.Listing.DepartureCity, req.Listing.DestinationCity)
	s.dispatch(eval.EvaluatedID, domain.NotifyEvaluationReceived, title, body, req.ID)
}

// dispatch fans the notification out in the background. The caller's
// transaction has already committed; nothing here may block or fail it.
func (s *NotificationService) dispatch(recipientID uint, typ domain.NotificationType, title, body string, requestID uint) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("❌ Notification dispatch panic: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		n := &models.Notification{
			RecipientID: recipientID,
			Title:       title,
			Body:        body,
			Type:        typ,
		}
		if err := s.notificationRepo.Create(ctx, n); err != nil {
			log.Printf("❌ Failed to store notification for user %d: %v", recipientID, err)
		}

		event := &NotificationEvent{
			RecipientID: recipientID,
			Type:        typ,
			Title:       title,
			Body:        body,
			RequestID:   requestID,
			CreatedAt:   time.Now(),
		}

		if s.pusher != nil {
			s.pusher.Push(recipientID, event)
		}

		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, "notification."+string(typ), event); err != nil {
				log.Printf("❌ Failed to publish notification event: %v", err)
			}
		}

		// Connected users already got the push; email is the offline fallback.
		if s.pusher == nil || !s.pusher.Connected(recipientID) {
			s.sendMail(ctx, recipientID, title, body)
		}
	}()
}

// sendMail emails the recipient when the mailer is configured.
func (s *NotificationService) sendMail(ctx context.Context, recipientID uint, subject, body string) {
	if !s.mailer.Enabled() {
		return
	}

	user, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		log.Printf("❌ Failed to load notification recipient %d: %v", recipientID, err)
		return
	}

	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		log.Printf("❌ Failed to email %s: %v", user.Email, err)
	}
}

// ListForUser lists the acting user's notifications
func (s *NotificationService) ListForUser(ctx context.Context, actor domain.Actor, offset, limit int) ([]*models.Notification, int64, error) {
	return s.notificationRepo.ListByRecipient(ctx, actor.ActorID(), offset, limit)
}

// MarkRead marks one of the acting user's notifications read
func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, id uint) error {
	changed, err := s.notificationRepo.MarkRead(ctx, id, actor.ActorID())
	if err != nil {
		return err
	}
	if !changed {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// CountUnread counts the acting user's unread notifications
func (s *NotificationService) CountUnread(ctx context.Context, actor domain.Actor) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, actor.ActorID())
}
