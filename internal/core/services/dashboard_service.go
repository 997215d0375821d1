package services

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// User Statistics
	TotalUsers    int64 `json:"total_users"`
	TotalCarriers int64 `json:"total_carriers"`
	TotalShippers int64 `json:"total_shippers"`
	VerifiedUsers int64 `json:"verified_users"`

	// Listing Statistics
	TotalListings  int64 `json:"total_listings"`
	ActiveListings int64 `json:"active_listings"`

	// Request Statistics
	TotalRequests     int64 `json:"total_requests"`
	PendingRequests   int64 `json:"pending_requests"`
	AcceptedRequests  int64 `json:"accepted_requests"`
	RefusedRequests   int64 `json:"refused_requests"`
	InTransitRequests int64 `json:"in_transit_requests"`
	DeliveredRequests int64 `json:"delivered_requests"`

	// Monthly Statistics
	RequestsThisMonth   int64 `json:"requests_this_month"`
	DeliveriesThisMonth int64 `json:"deliveries_this_month"`

	// Evaluation Statistics
	TotalEvaluations int64   `json:"total_evaluations"`
	AverageRating    float64 `json:"average_rating"`

	// Recent Activity
	RecentRequests []RequestSummary `json:"recent_requests"`

	// Top Carriers
	TopCarriers []CarrierStats `json:"top_carriers"`
}

// RequestSummary represents request summary
type RequestSummary struct {
	ID              uint      `json:"id"`
	ShipperName     string    `json:"shipper_name"`
	DepartureCity   string    `json:"departure_city"`
	DestinationCity string    `json:"destination_city"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// CarrierStats represents carrier statistics
type CarrierStats struct {
	CarrierID     uint    `json:"carrier_id"`
	CarrierName   string  `json:"carrier_name"`
	TotalRequests int64   `json:"total_requests"`
	Accepted      int64   `json:"accepted"`
	Delivered     int64   `json:"delivered"`
	AverageRating float64 `json:"average_rating"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}

	// User counts by role
	s.db.WithContext(ctx).Table("users").Where("deleted_at IS NULL").Count(&data.TotalUsers)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "carrier").Count(&data.TotalCarriers)
	s.db.WithContext(ctx).Table("users").Where("role = ? AND deleted_at IS NULL", "shipper").Count(&data.TotalShippers)
	s.db.WithContext(ctx).Table("users").Where("is_verified = ? AND deleted_at IS NULL", true).Count(&data.VerifiedUsers)

	// Listing counts
	s.db.WithContext(ctx).Table("listings").Where("deleted_at IS NULL").Count(&data.TotalListings)
	s.db.WithContext(ctx).Table("listings").Where("status = ? AND deleted_at IS NULL", "active").Count(&data.ActiveListings)

	// Request counts by status
	s.db.WithContext(ctx).Table("transport_requests").Count(&data.TotalRequests)
	s.db.WithContext(ctx).Table("transport_requests").Where("status = ?", "pending").Count(&data.PendingRequests)
	s.db.WithContext(ctx).Table("transport_requests").Where("status = ?", "accepted").Count(&data.AcceptedRequests)
	s.db.WithContext(ctx).Table("transport_requests").Where("status = ?", "refused").Count(&data.RefusedRequests)
	s.db.WithContext(ctx).Table("transport_requests").Where("status = ?", "in_transit").Count(&data.InTransitRequests)
	s.db.WithContext(ctx).Table("transport_requests").Where("status = ?", "delivered").Count(&data.DeliveredRequests)

	// This month statistics
	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("transport_requests").
		Where("created_at >= ?", startOfMonth).
		Count(&data.RequestsThisMonth)

	s.db.WithContext(ctx).Table("transport_requests").
		Where("status = ? AND updated_at >= ?", "delivered", startOfMonth).
		Count(&data.DeliveriesThisMonth)

	// Evaluation statistics
	s.db.WithContext(ctx).Table("evaluations").Count(&data.TotalEvaluations)
	s.db.WithContext(ctx).Table("evaluations").
		Select("COALESCE(AVG(rating), 0)").
		Scan(&data.AverageRating)

	// Recent requests
	var recentRequests []struct {
		ID              uint
		ShipperName     string
		DepartureCity   string
		DestinationCity string
		Status          string
		CreatedAt       time.Time
	}
	s.db.WithContext(ctx).Table("transport_requests").
		Select("transport_requests.id, CONCAT(users.first_name, ' ', users.last_name) as shipper_name, listings.departure_city, listings.destination_city, transport_requests.status, transport_requests.created_at").
		Joins("LEFT JOIN users ON transport_requests.shipper_id = users.id").
		Joins("LEFT JOIN listings ON transport_requests.listing_id = listings.id").
		Order("transport_requests.created_at DESC").
		Limit(10).
		Scan(&recentRequests)

	data.RecentRequests = make([]RequestSummary, len(recentRequests))
	for i, r := range recentRequests {
		data.RecentRequests[i] = RequestSummary{
			ID:              r.ID,
			ShipperName:     r.ShipperName,
			DepartureCity:   r.DepartureCity,
			DestinationCity: r.DestinationCity,
			Status:          r.Status,
			CreatedAt:       r.CreatedAt,
		}
	}

	// Top carriers by handled requests
	var topCarriers []struct {
		CarrierID     uint
		CarrierName   string
		TotalRequests int64
		Accepted      int64
		Delivered     int64
		AverageRating float64
	}
	s.db.WithContext(ctx).Table("transport_requests").
		Select(`
			listings.carrier_id,
			CONCAT(users.first_name, ' ', users.last_name) as carrier_name,
			COUNT(*) as total_requests,
			SUM(CASE WHEN transport_requests.status IN ('accepted', 'in_transit', 'delivered') THEN 1 ELSE 0 END) as accepted,
			SUM(CASE WHEN transport_requests.status = 'delivered' THEN 1 ELSE 0 END) as delivered,
			COALESCE((SELECT AVG(rating) FROM evaluations WHERE evaluations.evaluated_id = listings.carrier_id), 0) as average_rating
		`).
		Joins("JOIN listings ON transport_requests.listing_id = listings.id").
		Joins("LEFT JOIN users ON listings.carrier_id = users.id").
		Group("listings.carrier_id, users.first_name, users.last_name").
		Order("total_requests DESC").
		Limit(5).
		Scan(&topCarriers)

	data.TopCarriers = make([]CarrierStats, len(topCarriers))
	for i, c := range topCarriers {
		data.TopCarriers[i] = CarrierStats{
			CarrierID:     c.CarrierID,
			CarrierName:   c.CarrierName,
			TotalRequests: c.TotalRequests,
			Accepted:      c.Accepted,
			Delivered:     c.Delivered,
			AverageRating: c.AverageRating,
		}
	}

	return data, nil
}

// ============================================================
// Carrier Dashboard
// ============================================================

// CarrierDashboardData represents carrier dashboard data
type CarrierDashboardData struct {
	// My Statistics
	TotalListings   int64   `json:"total_listings"`
	ActiveListings  int64   `json:"active_listings"`
	TotalRequests   int64   `json:"total_requests"`
	PendingRequests int64   `json:"pending_requests"`
	Deliveries      int64   `json:"deliveries"`
	AverageRating   float64 `json:"average_rating"`

	// Pending Actions
	PendingList []RequestSummary `json:"pending_list"`
}

// GetCarrierDashboard returns carrier dashboard data
func (s *DashboardService) GetCarrierDashboard(ctx context.Context, carrierID uint) (*CarrierDashboardData, error) {
	data := &CarrierDashboardData{}

	s.db.WithContext(ctx).Table("listings").
		Where("carrier_id = ? AND deleted_at IS NULL", carrierID).
		Count(&data.TotalListings)

	s.db.WithContext(ctx).Table("listings").
		Where("carrier_id = ? AND status = ? AND deleted_at IS NULL", carrierID, "active").
		Count(&data.ActiveListings)

	s.db.WithContext(ctx).Table("transport_requests").
		Joins("JOIN listings ON transport_requests.listing_id = listings.id").
		Where("listings.carrier_id = ?", carrierID).
		Count(&data.TotalRequests)

	s.db.WithContext(ctx).Table("transport_requests").
		Joins("JOIN listings ON transport_requests.listing_id = listings.id").
		Where("listings.carrier_id = ? AND transport_requests.status = ?", carrierID, "pending").
		Count(&data.PendingRequests)

	s.db.WithContext(ctx).Table("transport_requests").
		Joins("JOIN listings ON transport_requests.listing_id = listings.id").
		Where("listings.carrier_id = ? AND transport_requests.status = ?", carrierID, "delivered").
		Count(&data.Deliveries)

	s.db.WithContext(ctx).Table("evaluations").
		Where("evaluated_id = ?", carrierID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&data.AverageRating)

	// Oldest pending requests first so the carrier answers in order
	var pending []struct {
		ID              uint
		ShipperName     string
		DepartureCity   string
		DestinationCity string
		Status          string
		CreatedAt       time.Time
	}
	s.db.WithContext(ctx).Table("transport_requests").
		Select("transport_requests.id, CONCAT(users.first_name, ' ', users.last_name) as shipper_name, listings.departure_city, listings.destination_city, transport_requests.status, transport_requests.created_at").
		Joins("JOIN listings ON transport_requests.listing_id = listings.id").
		Joins("LEFT JOIN users ON transport_requests.shipper_id = users.id").
		Where("listings.carrier_id = ? AND transport_requests.status = ?", carrierID, "pending").
		Order("transport_requests.created_at ASC").
		Limit(10).
		Scan(&pending)

	data.PendingList = make([]RequestSummary, len(pending))
	for i, r := range pending {
		data.PendingList[i] = RequestSummary{
			ID:              r.ID,
			ShipperName:     r.ShipperName,
			DepartureCity:   r.DepartureCity,
			DestinationCity: r.DestinationCity,
			Status:          r.Status,
			CreatedAt:       r.CreatedAt,
		}
	}

	return data, nil
}

// ============================================================
// Shipper Dashboard
// ============================================================

// ShipperDashboardData represents shipper dashboard data
type ShipperDashboardData struct {
	TotalRequests     int64   `json:"total_requests"`
	PendingRequests   int64   `json:"pending_requests"`
	AcceptedRequests  int64   `json:"accepted_requests"`
	InTransitRequests int64   `json:"in_transit_requests"`
	DeliveredRequests int64   `json:"delivered_requests"`
	AverageRating     float64 `json:"average_rating"`
}

// GetShipperDashboard returns shipper dashboard data
func (s *DashboardService) GetShipperDashboard(ctx context.Context, shipperID uint) (*ShipperDashboardData, error) {
	data := &ShipperDashboardData{}

	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Table("transport_requests").Where("shipper_id = ?", shipperID)
	}

	base().Count(&data.TotalRequests)
	base().Where("status = ?", "pending").Count(&data.PendingRequests)
	base().Where("status = ?", "accepted").Count(&data.AcceptedRequests)
	base().Where("status = ?", "in_transit").Count(&data.InTransitRequests)
	base().Where("status = ?", "delivered").Count(&data.DeliveredRequests)

	s.db.WithContext(ctx).Table("evaluations").
		Where("evaluated_id = ?", shipperID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&data.AverageRating)

	return data, nil
}
