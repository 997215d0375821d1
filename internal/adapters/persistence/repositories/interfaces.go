package repositories

import (
	"context"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// ListingFilter narrows the public listing search.
type ListingFilter struct {
	DepartureCity   string
	DestinationCity string
	CargoType       domain.CargoType
	DepartureDate   *string // YYYY-MM-DD
	Status          domain.ListingStatus
}

// ListingRepository defines listing repository interface. Read methods
// return listings with the carrier relation assembled so callers never
// hand-roll the join.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	List(ctx context.Context, filter ListingFilter, offset, limit int) ([]*models.Listing, int64, error)
	ListByCarrier(ctx context.Context, carrierID uint) ([]*models.Listing, error)
	Update(ctx context.Context, listing *models.Listing) error
	ReplaceWaypoints(ctx context.Context, listingID uint, waypoints []models.ListingWaypoint) error
	Delete(ctx context.Context, id uint) error
}

// TransportRequestRepository defines transport request repository
// interface. CreateForListing and UpdateStatusFrom are the two atomic
// operations the lifecycle coordinator relies on to stay race-free.
type TransportRequestRepository interface {
	// CreateForListing inserts the request after re-checking, under a row
	// lock on the listing, that the listing is active and that the shipper
	// holds no live request against it. Returns domain.ErrListingNotFound,
	// domain.ErrListingNotActive or domain.ErrDuplicateRequest.
	CreateForListing(ctx context.Context, req *models.TransportRequest) error
	GetByID(ctx context.Context, id uint) (*models.TransportRequest, error)
	ListByShipper(ctx context.Context, shipperID uint) ([]*models.TransportRequest, error)
	ListByCarrier(ctx context.Context, carrierID uint) ([]*models.TransportRequest, error)
	List(ctx context.Context, offset, limit int) ([]*models.TransportRequest, int64, error)
	Update(ctx context.Context, req *models.TransportRequest) error
	// UpdateStatusFrom performs a guarded status update (WHERE status = from)
	// and reports whether a row was changed. A false return means the
	// request moved concurrently.
	UpdateStatusFrom(ctx context.Context, id uint, from, to domain.RequestStatus, refusalReason string) (bool, error)
}

// EvaluationRepository defines evaluation repository interface.
type EvaluationRepository interface {
	// Create inserts the evaluation; the composite unique index on
	// (evaluator_id, request_id) turns a concurrent duplicate into
	// domain.ErrDuplicateEvaluation.
	Create(ctx context.Context, eval *models.Evaluation) error
	GetByID(ctx context.Context, id uint) (*models.Evaluation, error)
	GetByEvaluatorAndRequest(ctx context.Context, evaluatorID, requestID uint) (*models.Evaluation, error)
	ListByEvaluated(ctx context.Context, userID uint, offset, limit int) ([]*models.Evaluation, int64, error)
	ListByEvaluator(ctx context.Context, userID uint, offset, limit int) ([]*models.Evaluation, int64, error)
	AverageRating(ctx context.Context, userID uint) (float64, error)
	Update(ctx context.Context, eval *models.Evaluation) error
	Delete(ctx context.Context, id uint) error
}

// NotificationRepository defines notification repository interface.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID uint, offset, limit int) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id, recipientID uint) (bool, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
}

// MessageRepository defines chat message repository interface.
type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	ListConversation(ctx context.Context, listingID, userA, userB uint, offset, limit int) ([]*models.Message, int64, error)
}
