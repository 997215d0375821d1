package services

import (
	"context"
	"errors"
	"time"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/adapters/persistence/repositories"
	"transportconnect/internal/core/domain"
)

// Chat service errors
var (
	ErrEmptyMessage   = errors.New("message content is empty")
	ErrSelfMessage    = errors.New("cannot message yourself")
	ErrUnknownContact = errors.New("recipient not found")
)

// ChatService persists direct messages and relays them to the recipient's
// open connections.
type ChatService struct {
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	pusher      Pusher
}

// NewChatService creates a new chat service
func NewChatService(
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	pusher Pusher,
) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		pusher:      pusher,
	}
}

// ChatMessage is the wire format relayed over websocket.
type ChatMessage struct {
	ID          uint      `json:"id"`
	SenderID    uint      `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	RecipientID uint      `json:"recipient_id"`
	ListingID   uint      `json:"listing_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// Send persists a message and pushes it to the recipient. Every message is
// stored; delivery to a disconnected recipient is silently dropped and
// picked up later through history.
func (s *ChatService) Send(ctx context.Context, sender *models.User, recipientID, listingID uint, content string) (*ChatMessage, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if recipientID == sender.ID {
		return nil, ErrSelfMessage
	}

	if _, err := s.userRepo.GetByID(ctx, recipientID); err != nil {
		return nil, ErrUnknownContact
	}

	msg := &models.Message{
		SenderID:    sender.ID,
		RecipientID: recipientID,
		ListingID:   listingID,
		Content:     content,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	out := &ChatMessage{
		ID:          msg.ID,
		SenderID:    sender.ID,
		SenderName:  sender.FullName(),
		RecipientID: recipientID,
		ListingID:   listingID,
		Content:     content,
		CreatedAt:   msg.CreatedAt,
	}

	if s.pusher != nil {
		s.pusher.Push(recipientID, out)
	}

	return out, nil
}

// History lists the conversation between the acting user and a
// counterparty about one listing.
func (s *ChatService) History(ctx context.Context, actor domain.Actor, listingID, otherID uint, offset, limit int) ([]*models.Message, int64, error) {
	return s.messageRepo.ListConversation(ctx, listingID, actor.ActorID(), otherID, offset, limit)
}
