package services

import (
	"context"
	"errors"
	"log"
	"time"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/adapters/persistence/repositories"
	"transportconnect/internal/core/domain"

	"gorm.io/gorm"
)

// Request service errors
var (
	ErrRefusalReasonRequired = errors.New("refusal reason is required")
	ErrRequestNotEditable    = errors.New("only pending requests can be edited")
)

// RequestNotifier receives lifecycle events after the transition has been
// committed. Implementations must not block; delivery failures never
// surface to the caller.
type RequestNotifier interface {
	RequestReceived(req *models.TransportRequest)
	RequestAccepted(req *models.TransportRequest)
	RequestRefused(req *models.TransportRequest)
	DeliveryConfirmed(req *models.TransportRequest)
}

// RequestService coordinates the transport request lifecycle:
// pending → accepted/refused, accepted → in_transit → delivered.
type RequestService struct {
	requestRepo repositories.TransportRequestRepository
	listingRepo repositories.ListingRepository
	notifier    RequestNotifier
}

// NewRequestService creates a new request service
func NewRequestService(
	requestRepo repositories.TransportRequestRepository,
	listingRepo repositories.ListingRepository,
	notifier RequestNotifier,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		listingRepo: listingRepo,
		notifier:    notifier,
	}
}

// CreateRequestInput represents request creation input
type CreateRequestInput struct {
	ListingID           uint          `json:"listing_id" validate:"required"`
	Parcel              models.Parcel `json:"parcel" validate:"required"`
	PickupAddress       string        `json:"pickup_address" validate:"required"`
	DeliveryAddress     string        `json:"delivery_address" validate:"required"`
	DesiredPickupDate   *time.Time    `json:"desired_pickup_date"`
	DesiredDeliveryDate *time.Time    `json:"desired_delivery_date"`
	Message             string        `json:"message"`
}

// UpdateRequestInput represents request update input (pending only); nil
// fields are left untouched. Shipper and listing are fixed at creation.
type UpdateRequestInput struct {
	Parcel              *models.Parcel `json:"parcel"`
	PickupAddress       *string        `json:"pickup_address"`
	DeliveryAddress     *string        `json:"delivery_address"`
	DesiredPickupDate   *time.Time     `json:"desired_pickup_date"`
	DesiredDeliveryDate *time.Time     `json:"desired_delivery_date"`
	Message             *string        `json:"message"`
}

// Create creates a transport request against an active listing. The
// listing-active and no-live-duplicate checks run atomically in the
// repository; a second concurrent create against the same listing loses.
func (s *RequestService) Create(ctx context.Context, actor domain.Actor, input *CreateRequestInput) (*models.TransportRequest, error) {
	if err := domain.RequireRole(actor, domain.RoleShipper); err != nil {
		return nil, err
	}

	if input.Parcel.CargoType != "" && !input.Parcel.CargoType.Valid() {
		return nil, ErrInvalidCargoType
	}

	req := &models.TransportRequest{
		ShipperID:           actor.ActorID(),
		ListingID:           input.ListingID,
		Parcel:              input.Parcel,
		PickupAddress:       input.PickupAddress,
		DeliveryAddress:     input.DeliveryAddress,
		DesiredPickupDate:   input.DesiredPickupDate,
		DesiredDeliveryDate: input.DesiredDeliveryDate,
		Status:              domain.RequestPending,
		Message:             input.Message,
	}

	if err := s.requestRepo.CreateForListing(ctx, req); err != nil {
		return nil, err
	}

	// Reload with relations for the response and the notification
	created, err := s.requestRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Request created: #%d (shipper %d, listing %d)",
		created.ID, created.ShipperID, created.ListingID)

	s.notifier.RequestReceived(created)

	return created, nil
}

// GetByID gets a request by ID. Only the two parties and admins may read
// a request.
func (s *RequestService) GetByID(ctx context.Context, actor domain.Actor, id uint) (*models.TransportRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	if actor.ActorRole() != domain.RoleAdmin && !domain.IsParty(actor, req.ShipperID, req.CarrierID()) {
		return nil, domain.ErrForbidden
	}

	return req, nil
}

// ListSent lists the acting shipper's own requests
func (s *RequestService) ListSent(ctx context.Context, actor domain.Actor) ([]*models.TransportRequest, error) {
	if err := domain.RequireRole(actor, domain.RoleShipper); err != nil {
		return nil, err
	}
	return s.requestRepo.ListByShipper(ctx, actor.ActorID())
}

// ListReceived lists requests against the acting carrier's listings
func (s *RequestService) ListReceived(ctx context.Context, actor domain.Actor) ([]*models.TransportRequest, error) {
	if err := domain.RequireRole(actor, domain.RoleCarrier); err != nil {
		return nil, err
	}
	return s.requestRepo.ListByCarrier(ctx, actor.ActorID())
}

// Update updates a pending request's parcel and addresses. Only the
// owning shipper may edit.
func (s *RequestService) Update(ctx context.Context, actor domain.Actor, id uint, input *UpdateRequestInput) (*models.TransportRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	if err := domain.RequireOwner(actor, req.ShipperID); err != nil {
		return nil, err
	}
	if req.Status != domain.RequestPending {
		return nil, ErrRequestNotEditable
	}

	if input.Parcel != nil {
		if input.Parcel.CargoType != "" && !input.Parcel.CargoType.Valid() {
			return nil, ErrInvalidCargoType
		}
		req.Parcel = *input.Parcel
	}
	if input.PickupAddress != nil {
		req.PickupAddress = *input.PickupAddress
	}
	if input.DeliveryAddress != nil {
		req.DeliveryAddress = *input.DeliveryAddress
	}
	if input.DesiredPickupDate != nil {
		req.DesiredPickupDate = input.DesiredPickupDate
	}
	if input.DesiredDeliveryDate != nil {
		req.DesiredDeliveryDate = input.DesiredDeliveryDate
	}
	if input.Message != nil {
		req.Message = *input.Message
	}

	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

// Accept moves a pending request to accepted. Only the listing's carrier
// may respond.
func (s *RequestService) Accept(ctx context.Context, actor domain.Actor, id uint) (*models.TransportRequest, error) {
	req, err := s.transition(ctx, actor, id, domain.RequestPending, domain.RequestAccepted, "")
	if err != nil {
		return nil, err
	}
	s.notifier.RequestAccepted(req)
	return req, nil
}

// Refuse moves a pending request to refused. The reason is mandatory.
func (s *RequestService) Refuse(ctx context.Context, actor domain.Actor, id uint, reason string) (*models.TransportRequest, error) {
	if reason == "" {
		return nil, ErrRefusalReasonRequired
	}
	req, err := s.transition(ctx, actor, id, domain.RequestPending, domain.RequestRefused, reason)
	if err != nil {
		return nil, err
	}
	s.notifier.RequestRefused(req)
	return req, nil
}

// StartTransit moves an accepted request to in_transit.
func (s *RequestService) StartTransit(ctx context.Context, actor domain.Actor, id uint) (*models.TransportRequest, error) {
	return s.transition(ctx, actor, id, domain.RequestAccepted, domain.RequestInTransit, "")
}

// MarkDelivered moves an accepted or in-transit request to delivered.
func (s *RequestService) MarkDelivered(ctx context.Context, actor domain.Actor, id uint) (*models.TransportRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	if err := domain.RequireOwner(actor, req.CarrierID()); err != nil {
		return nil, err
	}
	if !domain.CanTransition(req.Status, domain.RequestDelivered) {
		return nil, domain.ErrInvalidTransition
	}

	changed, err := s.requestRepo.UpdateStatusFrom(ctx, id, req.Status, domain.RequestDelivered, "")
	if err != nil {
		return nil, err
	}
	if !changed {
		// The request moved under us; report the transition failure
		return nil, domain.ErrInvalidTransition
	}

	delivered, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Request #%d delivered", delivered.ID)
	s.notifier.DeliveryConfirmed(delivered)

	return delivered, nil
}

// transition applies one guarded step of the state machine after checking
// that the actor owns the listing behind the request.
func (s *RequestService) transition(ctx context.Context, actor domain.Actor, id uint, from, to domain.RequestStatus, reason string) (*models.TransportRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	if err := domain.RequireOwner(actor, req.CarrierID()); err != nil {
		return nil, err
	}
	if req.Status != from || !domain.CanTransition(from, to) {
		return nil, domain.ErrInvalidTransition
	}

	changed, err := s.requestRepo.UpdateStatusFrom(ctx, id, from, to, reason)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Request #%d %s → %s", id, from, to)
	return updated, nil
}

// ListAll lists all requests with pagination (admin)
func (s *RequestService) ListAll(ctx context.Context, actor domain.Actor, offset, limit int) ([]*models.TransportRequest, int64, error) {
	if err := domain.RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, 0, err
	}
	return s.requestRepo.List(ctx, offset, limit)
}
