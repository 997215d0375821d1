package repositories

import (
	"context"
	"errors"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// transportRequestRepository implements TransportRequestRepository interface
type transportRequestRepository struct {
	db *gorm.DB
}

// NewTransportRequestRepository creates a new transport request repository
func NewTransportRequestRepository(db *gorm.DB) TransportRequestRepository {
	return &transportRequestRepository{db: db}
}

// requestPreloads assembles the request read model: shipper plus listing
// with its carrier.
func requestPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Shipper").
		Preload("Listing").
		Preload("Listing.Carrier")
}

// CreateForListing inserts the request atomically. A plain read-then-write
// duplicate check would race with a concurrent create, so both checks run
// again inside one transaction holding a row lock on the listing: the lock
// serializes concurrent creates against the same listing.
func (r *transportRequestRepository) CreateForListing(ctx context.Context, req *models.TransportRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&listing, req.ListingID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrListingNotFound
			}
			return err
		}

		if listing.Status != domain.ListingActive {
			return domain.ErrListingNotActive
		}

		var live int64
		if err := tx.Model(&models.TransportRequest{}).
			Where("shipper_id = ? AND listing_id = ? AND status IN ?",
				req.ShipperID, req.ListingID, domain.LiveRequestStatuses()).
			Count(&live).Error; err != nil {
			return err
		}
		if live > 0 {
			return domain.ErrDuplicateRequest
		}

		return tx.Create(req).Error
	})
}

// GetByID gets a request by ID with relations
func (r *transportRequestRepository) GetByID(ctx context.Context, id uint) (*models.TransportRequest, error) {
	var req models.TransportRequest
	err := requestPreloads(r.db.WithContext(ctx)).First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByShipper lists requests created by a shipper
func (r *transportRequestRepository) ListByShipper(ctx context.Context, shipperID uint) ([]*models.TransportRequest, error) {
	var requests []*models.TransportRequest
	err := requestPreloads(r.db.WithContext(ctx)).
		Where("shipper_id = ?", shipperID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// ListByCarrier lists requests received against a carrier's listings
func (r *transportRequestRepository) ListByCarrier(ctx context.Context, carrierID uint) ([]*models.TransportRequest, error) {
	var requests []*models.TransportRequest
	err := requestPreloads(r.db.WithContext(ctx)).
		Joins("JOIN listings ON listings.id = transport_requests.listing_id").
		Where("listings.carrier_id = ?", carrierID).
		Order("transport_requests.created_at DESC").
		Find(&requests).Error
	return requests, err
}

// List lists all requests with pagination (admin)
func (r *transportRequestRepository) List(ctx context.Context, offset, limit int) ([]*models.TransportRequest, int64, error) {
	var requests []*models.TransportRequest
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.TransportRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := requestPreloads(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error

	return requests, total, err
}

// Update updates a request
func (r *transportRequestRepository) Update(ctx context.Context, req *models.TransportRequest) error {
	return r.db.WithContext(ctx).Omit("Shipper", "Listing").Save(req).Error
}

// UpdateStatusFrom performs a guarded status update. Zero rows affected
// means the request is no longer in the expected status.
func (r *transportRequestRepository) UpdateStatusFrom(ctx context.Context, id uint, from, to domain.RequestStatus, refusalReason string) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if refusalReason != "" {
		updates["refusal_reason"] = refusalReason
	}

	result := r.db.WithContext(ctx).
		Model(&models.TransportRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
