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

// Listing service errors
var (
	ErrInvalidCargoType     = errors.New("invalid cargo type")
	ErrInvalidListingStatus = errors.New("invalid listing status")
	ErrListingNotEditable   = errors.New("only active listings can be edited")
)

// ListingService handles listing business logic
type ListingService struct {
	listingRepo repositories.ListingRepository
}

// NewListingService creates a new listing service
func NewListingService(listingRepo repositories.ListingRepository) *ListingService {
	return &ListingService{listingRepo: listingRepo}
}

// WaypointInput is one intermediate stop in creation order.
type WaypointInput struct {
	City        string     `json:"city" validate:"required"`
	ArrivalTime *time.Time `json:"arrival_time"`
}

// CreateListingInput represents listing creation input
type CreateListingInput struct {
	DepartureCity   string           `json:"departure_city" validate:"required"`
	DestinationCity string           `json:"destination_city" validate:"required"`
	Waypoints       []WaypointInput  `json:"waypoints"`
	DepartureDate   time.Time        `json:"departure_date" validate:"required"`
	DepartureTime   string           `json:"departure_time"`
	CargoType       domain.CargoType `json:"cargo_type" validate:"required"`
	MaxLength       float64          `json:"max_length"`
	MaxWidth        float64          `json:"max_width"`
	MaxHeight       float64          `json:"max_height"`
	CapacityKg      float64          `json:"capacity_kg" validate:"required,gt=0"`
	Price           float64          `json:"price" validate:"required,gt=0"`
	Instructions    string           `json:"instructions"`
}

// UpdateListingInput represents listing update input; nil fields are left
// untouched. The carrier is fixed at creation.
type UpdateListingInput struct {
	DepartureCity   *string           `json:"departure_city"`
	DestinationCity *string           `json:"destination_city"`
	Waypoints       *[]WaypointInput  `json:"waypoints"`
	DepartureDate   *time.Time        `json:"departure_date"`
	DepartureTime   *string           `json:"departure_time"`
	CargoType       *domain.CargoType `json:"cargo_type"`
	MaxLength       *float64          `json:"max_length"`
	MaxWidth        *float64          `json:"max_width"`
	MaxHeight       *float64          `json:"max_height"`
	CapacityKg      *float64          `json:"capacity_kg"`
	Price           *float64          `json:"price"`
	Instructions    *string           `json:"instructions"`
}

// SearchListingsInput represents the public search filters
type SearchListingsInput struct {
	DepartureCity   string
	DestinationCity string
	CargoType       string
	DepartureDate   string // YYYY-MM-DD
	Status          string
	AllStatuses     bool // moderation views list every status when no filter is set
	Offset          int
	Limit           int
}

// Create creates a listing owned by the acting carrier
func (s *ListingService) Create(ctx context.Context, actor domain.Actor, input *CreateListingInput) (*models.Listing, error) {
	if err := domain.RequireRole(actor, domain.RoleCarrier); err != nil {
		return nil, err
	}

	if !input.CargoType.Valid() {
		return nil, ErrInvalidCargoType
	}

	listing := &models.Listing{
		CarrierID:       actor.ActorID(),
		DepartureCity:   input.DepartureCity,
		DestinationCity: input.DestinationCity,
		DepartureDate:   input.DepartureDate,
		DepartureTime:   input.DepartureTime,
		CargoType:       input.CargoType,
		MaxLength:       input.MaxLength,
		MaxWidth:        input.MaxWidth,
		MaxHeight:       input.MaxHeight,
		CapacityKg:      input.CapacityKg,
		Price:           input.Price,
		Instructions:    input.Instructions,
		Status:          domain.ListingActive,
		Waypoints:       buildWaypoints(input.Waypoints),
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	log.Printf("✅ Listing created: #%d %s → %s (carrier %d)",
		listing.ID, listing.DepartureCity, listing.DestinationCity, listing.CarrierID)

	return listing, nil
}

// GetByID gets a listing by ID
func (s *ListingService) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

// Search lists listings matching the public filters. Unauthenticated
// callers see active listings only.
func (s *ListingService) Search(ctx context.Context, input *SearchListingsInput) ([]*models.Listing, int64, error) {
	filter := repositories.ListingFilter{
		DepartureCity:   input.DepartureCity,
		DestinationCity: input.DestinationCity,
	}

	if input.CargoType != "" {
		ct := domain.CargoType(input.CargoType)
		if !ct.Valid() {
			return nil, 0, ErrInvalidCargoType
		}
		filter.CargoType = ct
	}
	if input.DepartureDate != "" {
		filter.DepartureDate = &input.DepartureDate
	}

	if !input.AllStatuses {
		filter.Status = domain.ListingActive
	}
	if input.Status != "" {
		st := domain.ListingStatus(input.Status)
		if !st.Valid() {
			return nil, 0, ErrInvalidListingStatus
		}
		filter.Status = st
	}

	return s.listingRepo.List(ctx, filter, input.Offset, input.Limit)
}

// ListMine lists the acting carrier's own listings
func (s *ListingService) ListMine(ctx context.Context, actor domain.Actor) ([]*models.Listing, error) {
	if err := domain.RequireRole(actor, domain.RoleCarrier); err != nil {
		return nil, err
	}
	return s.listingRepo.ListByCarrier(ctx, actor.ActorID())
}

// Update updates a listing's fields. Only the owner may edit, and only
// while the listing is active.
func (s *ListingService) Update(ctx context.Context, actor domain.Actor, id uint, input *UpdateListingInput) (*models.Listing, error) {
	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.RequireOwner(actor, listing.CarrierID); err != nil {
		return nil, err
	}
	if listing.Status != domain.ListingActive {
		return nil, ErrListingNotEditable
	}

	if input.DepartureCity != nil {
		listing.DepartureCity = *input.DepartureCity
	}
	if input.DestinationCity != nil {
		listing.DestinationCity = *input.DestinationCity
	}
	if input.DepartureDate != nil {
		listing.DepartureDate = *input.DepartureDate
	}
	if input.DepartureTime != nil {
		listing.DepartureTime = *input.DepartureTime
	}
	if input.CargoType != nil {
		if !input.CargoType.Valid() {
			return nil, ErrInvalidCargoType
		}
		listing.CargoType = *input.CargoType
	}
	if input.MaxLength != nil {
		listing.MaxLength = *input.MaxLength
	}
	if input.MaxWidth != nil {
		listing.MaxWidth = *input.MaxWidth
	}
	if input.MaxHeight != nil {
		listing.MaxHeight = *input.MaxHeight
	}
	if input.CapacityKg != nil {
		listing.CapacityKg = *input.CapacityKg
	}
	if input.Price != nil {
		listing.Price = *input.Price
	}
	if input.Instructions != nil {
		listing.Instructions = *input.Instructions
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	if input.Waypoints != nil {
		if err := s.listingRepo.ReplaceWaypoints(ctx, listing.ID, buildWaypoints(*input.Waypoints)); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

// UpdateStatus sets a listing's status. The status set is flat: any value
// may be set from any value, gated only by ownership.
func (s *ListingService) UpdateStatus(ctx context.Context, actor domain.Actor, id uint, status domain.ListingStatus) (*models.Listing, error) {
	if !status.Valid() {
		return nil, ErrInvalidListingStatus
	}

	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.RequireOwner(actor, listing.CarrierID); err != nil {
		return nil, err
	}

	listing.Status = status
	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	log.Printf("✅ Listing #%d status → %s", listing.ID, status)
	return listing, nil
}

// Delete deletes a listing (owner or admin)
func (s *ListingService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := domain.RequireOwner(actor, listing.CarrierID); err != nil {
		return err
	}

	return s.listingRepo.Delete(ctx, id)
}

// buildWaypoints converts waypoint inputs preserving order; positions are
// assigned by the repository on write.
func buildWaypoints(inputs []WaypointInput) []models.ListingWaypoint {
	waypoints := make([]models.ListingWaypoint, len(inputs))
	for i, in := range inputs {
		waypoints[i] = models.ListingWaypoint{
			City:        in.City,
			ArrivalTime: in.ArrivalTime,
			Position:    i,
		}
	}
	return waypoints
}
