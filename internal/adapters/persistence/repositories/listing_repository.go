package repositories

import (
	"context"

	"transportconnect/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// listingRepository implements ListingRepository interface
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// Create creates a new listing with its waypoints
func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// GetByID gets a listing by ID with carrier and waypoints
func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Preload("Carrier").
		Preload("Waypoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_waypoints.position ASC")
		}).
		First(&listing, id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// List lists listings matching the filter with pagination
func (r *listingRepository) List(ctx context.Context, filter ListingFilter, offset, limit int) ([]*models.Listing, int64, error) {
	var listings []*models.Listing
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Listing{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DepartureCity != "" {
		query = query.Where("departure_city LIKE ?", "%"+filter.DepartureCity+"%")
	}
	if filter.DestinationCity != "" {
		query = query.Where("destination_city LIKE ?", "%"+filter.DestinationCity+"%")
	}
	if filter.CargoType != "" {
		query = query.Where("cargo_type = ?", filter.CargoType)
	}
	if filter.DepartureDate != nil {
		query = query.Where("DATE(departure_date) = ?", *filter.DepartureDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Carrier").
		Preload("Waypoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_waypoints.position ASC")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&listings).Error

	return listings, total, err
}

// ListByCarrier lists a carrier's own listings
func (r *listingRepository) ListByCarrier(ctx context.Context, carrierID uint) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := r.db.WithContext(ctx).
		Preload("Waypoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_waypoints.position ASC")
		}).
		Where("carrier_id = ?", carrierID).
		Order("created_at DESC").
		Find(&listings).Error
	return listings, err
}

// Update updates a listing
func (r *listingRepository) Update(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Omit("Carrier", "Waypoints").Save(listing).Error
}

// ReplaceWaypoints swaps a listing's waypoints in one transaction
func (r *listingRepository) ReplaceWaypoints(ctx context.Context, listingID uint, waypoints []models.ListingWaypoint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).
			Delete(&models.ListingWaypoint{}).Error; err != nil {
			return err
		}
		if len(waypoints) == 0 {
			return nil
		}
		for i := range waypoints {
			waypoints[i].ID = 0
			waypoints[i].ListingID = listingID
			waypoints[i].Position = i
		}
		return tx.Create(&waypoints).Error
	})
}

// Delete soft deletes a listing
func (r *listingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Listing{}, id).Error
}
