package models

import (
	"time"

	"transportconnect/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Users & Auth
// ============================================================

// User represents users table
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FirstName   string         `gorm:"size:100;not null" json:"first_name"`
	LastName    string         `gorm:"size:100;not null" json:"last_name"`
	Email       string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone       string         `gorm:"size:30;not null" json:"phone"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	Role        domain.Role    `gorm:"size:20;not null;default:'shipper'" json:"role"`
	IsVerified  bool           `gorm:"default:false" json:"is_verified"`
	IsSuspended bool           `gorm:"default:false" json:"is_suspended"`
	Photo       string         `gorm:"size:255" json:"photo,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// ActorID implements domain.Actor.
func (u *User) ActorID() uint {
	return u.ID
}

// ActorRole implements domain.Actor.
func (u *User) ActorRole() domain.Role {
	return u.Role
}

// FullName returns "FirstName LastName" for notification templates.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserResponse DTO
type UserResponse struct {
	ID          uint        `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Role        domain.Role `json:"role"`
	IsVerified  bool        `json:"is_verified"`
	IsSuspended bool        `json:"is_suspended"`
	Photo       string      `json:"photo,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		IsVerified:  u.IsVerified,
		IsSuspended: u.IsSuspended,
		Photo:       u.Photo,
		CreatedAt:   u.CreatedAt,
	}
}

// ContactResponse is the trimmed user view embedded in listing and request
// payloads (name and contact details only).
type ContactResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (u *User) ToContact() *ContactResponse {
	return &ContactResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Listings
// ============================================================

// Listing represents a carrier's advertised trip.
type Listing struct {
	ID              uint                 `gorm:"primaryKey" json:"id"`
	CarrierID       uint                 `gorm:"not null;index" json:"carrier_id"`
	DepartureCity   string               `gorm:"size:100;not null" json:"departure_city"`
	DestinationCity string               `gorm:"size:100;not null" json:"destination_city"`
	DepartureDate   time.Time            `gorm:"not null" json:"departure_date"`
	DepartureTime   string               `gorm:"size:10" json:"departure_time"`
	CargoType       domain.CargoType     `gorm:"size:20;not null" json:"cargo_type"`
	MaxLength       float64              `json:"max_length"`
	MaxWidth        float64              `json:"max_width"`
	MaxHeight       float64              `json:"max_height"`
	CapacityKg      float64              `gorm:"not null" json:"capacity_kg"`
	Price           float64              `gorm:"type:decimal(10,2);not null" json:"price"`
	Instructions    string               `gorm:"type:text" json:"instructions,omitempty"`
	Status          domain.ListingStatus `gorm:"size:20;not null;default:'active';index" json:"status"`
	CreatedAt       time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relations
	Carrier   *User             `gorm:"foreignKey:CarrierID" json:"carrier,omitempty"`
	Waypoints []ListingWaypoint `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"waypoints,omitempty"`
}

func (Listing) TableName() string {
	return "listings"
}

// ListingWaypoint is an intermediate stop on a listing's route.
type ListingWaypoint struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ListingID   uint       `gorm:"not null;index" json:"listing_id"`
	City        string     `gorm:"size:100;not null" json:"city"`
	ArrivalTime *time.Time `json:"arrival_time,omitempty"`
	Position    int        `gorm:"not null" json:"position"`
}

func (ListingWaypoint) TableName() string {
	return "listing_waypoints"
}

// ListingResponse DTO
type ListingResponse struct {
	ID              uint                 `json:"id"`
	CarrierID       uint                 `json:"carrier_id"`
	Carrier         *ContactResponse     `json:"carrier,omitempty"`
	DepartureCity   string               `json:"departure_city"`
	DestinationCity string               `json:"destination_city"`
	Waypoints       []ListingWaypoint    `json:"waypoints"`
	DepartureDate   time.Time            `json:"departure_date"`
	DepartureTime   string               `json:"departure_time"`
	CargoType       domain.CargoType     `json:"cargo_type"`
	MaxLength       float64              `json:"max_length"`
	MaxWidth        float64              `json:"max_width"`
	MaxHeight       float64              `json:"max_height"`
	CapacityKg      float64              `json:"capacity_kg"`
	Price           float64              `json:"price"`
	Instructions    string               `json:"instructions,omitempty"`
	Status          domain.ListingStatus `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func (l *Listing) ToResponse() *ListingResponse {
	resp := &ListingResponse{
		ID:              l.ID,
		CarrierID:       l.CarrierID,
		DepartureCity:   l.DepartureCity,
		DestinationCity: l.DestinationCity,
		Waypoints:       l.Waypoints,
		DepartureDate:   l.DepartureDate,
		DepartureTime:   l.DepartureTime,
		CargoType:       l.CargoType,
		MaxLength:       l.MaxLength,
		MaxWidth:        l.MaxWidth,
		MaxHeight:       l.MaxHeight,
		CapacityKg:      l.CapacityKg,
		Price:           l.Price,
		Instructions:    l.Instructions,
		Status:          l.Status,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}

	if resp.Waypoints == nil {
		resp.Waypoints = []ListingWaypoint{}
	}
	if l.Carrier != nil {
		resp.Carrier = l.Carrier.ToContact()
	}

	return resp
}

// ============================================================
// Transport Requests
// ============================================================

// Parcel holds the shipment details carried by a transport request.
type Parcel struct {
	Length      float64          `json:"length"`
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	WeightKg    float64          `gorm:"not null" json:"weight_kg"`
	CargoType   domain.CargoType `gorm:"size:20" json:"cargo_type"`
	Description string           `gorm:"type:text" json:"description"`
}

// TransportRequest represents a shipper's ask against a listing.
// ShipperID and ListingID are immutable after creation.
type TransportRequest struct {
	ID                  uint                 `gorm:"primaryKey" json:"id"`
	ShipperID           uint                 `gorm:"not null;index" json:"shipper_id"`
	ListingID           uint                 `gorm:"not null;index" json:"listing_id"`
	Parcel              Parcel               `gorm:"embedded;embeddedPrefix:parcel_" json:"parcel"`
	PickupAddress       string               `gorm:"size:255;not null" json:"pickup_address"`
	DeliveryAddress     string               `gorm:"size:255;not null" json:"delivery_address"`
	DesiredPickupDate   *time.Time           `json:"desired_pickup_date,omitempty"`
	DesiredDeliveryDate *time.Time           `json:"desired_delivery_date,omitempty"`
	Status              domain.RequestStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RefusalReason       string               `gorm:"type:text" json:"refusal_reason,omitempty"`
	Message             string               `gorm:"type:text" json:"message,omitempty"`
	CreatedAt           time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time            `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Shipper *User    `gorm:"foreignKey:ShipperID" json:"shipper,omitempty"`
	Listing *Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}

func (TransportRequest) TableName() string {
	return "transport_requests"
}

// CarrierID returns the owning carrier of the request's listing, or 0 when
// the listing relation is not loaded.
func (r *TransportRequest) CarrierID() uint {
	if r.Listing == nil {
		return 0
	}
	return r.Listing.CarrierID
}

// TransportRequestResponse DTO
type TransportRequestResponse struct {
	ID                  uint                 `json:"id"`
	ShipperID           uint                 `json:"shipper_id"`
	Shipper             *ContactResponse     `json:"shipper,omitempty"`
	ListingID           uint                 `json:"listing_id"`
	Listing             *ListingResponse     `json:"listing,omitempty"`
	Parcel              Parcel               `json:"parcel"`
	PickupAddress       string               `json:"pickup_address"`
	DeliveryAddress     string               `json:"delivery_address"`
	DesiredPickupDate   *time.Time           `json:"desired_pickup_date,omitempty"`
	DesiredDeliveryDate *time.Time           `json:"desired_delivery_date,omitempty"`
	Status              domain.RequestStatus `json:"status"`
	RefusalReason       string               `json:"refusal_reason,omitempty"`
	Message             string               `json:"message,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

func (r *TransportRequest) ToResponse() *TransportRequestResponse {
	resp := &TransportRequestResponse{
		ID:                  r.ID,
		ShipperID:           r.ShipperID,
		ListingID:           r.ListingID,
		Parcel:              r.Parcel,
		PickupAddress:       r.PickupAddress,
		DeliveryAddress:     r.DeliveryAddress,
		DesiredPickupDate:   r.DesiredPickupDate,
		DesiredDeliveryDate: r.DesiredDeliveryDate,
		Status:              r.Status,
		RefusalReason:       r.RefusalReason,
		Message:             r.Message,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}

	if r.Shipper != nil {
		resp.Shipper = r.Shipper.ToContact()
	}
	if r.Listing != nil {
		resp.Listing = r.Listing.ToResponse()
	}

	return resp
}

// ============================================================
// Evaluations
// ============================================================

// Evaluation is a post-delivery rating between the two parties of a
// request. The composite unique index enforces at most one evaluation per
// (evaluator, request) pair at the store level.
type Evaluation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EvaluatorID uint      `gorm:"not null;uniqueIndex:idx_evaluations_evaluator_request" json:"evaluator_id"`
	RequestID   uint      `gorm:"not null;uniqueIndex:idx_evaluations_evaluator_request" json:"request_id"`
	EvaluatedID uint      `gorm:"not null;index" json:"evaluated_id"`
	Rating      int       `gorm:"not null" json:"rating"`
	Comment     string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Evaluator *User             `gorm:"foreignKey:EvaluatorID" json:"evaluator,omitempty"`
	Evaluated *User             `gorm:"foreignKey:EvaluatedID" json:"evaluated,omitempty"`
	Request   *TransportRequest `gorm:"foreignKey:RequestID" json:"request,omitempty"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

// EvaluationResponse DTO
type EvaluationResponse struct {
	ID          uint             `json:"id"`
	EvaluatorID uint             `json:"evaluator_id"`
	Evaluator   *ContactResponse `json:"evaluator,omitempty"`
	EvaluatedID uint             `json:"evaluated_id"`
	Evaluated   *ContactResponse `json:"evaluated,omitempty"`
	RequestID   uint             `json:"request_id"`
	Rating      int              `json:"rating"`
	Comment     string           `json:"comment,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (e *Evaluation) ToResponse() *EvaluationResponse {
	resp := &EvaluationResponse{
		ID:          e.ID,
		EvaluatorID: e.EvaluatorID,
		EvaluatedID: e.EvaluatedID,
		RequestID:   e.RequestID,
		Rating:      e.Rating,
		Comment:     e.Comment,
		CreatedAt:   e.CreatedAt,
	}

	if e.Evaluator != nil {
		resp.Evaluator = e.Evaluator.ToContact()
	}
	if e.Evaluated != nil {
		resp.Evaluated = e.Evaluated.ToContact()
	}

	return resp
}

// ============================================================
// Notifications & Chat
// ============================================================

// Notification is created as a side effect of request-status transitions
// and evaluation creation; read-only afterwards except for the read flag.
type Notification struct {
	ID          uint                    `gorm:"primaryKey" json:"id"`
	RecipientID uint                    `gorm:"not null;index" json:"recipient_id"`
	Title       string                  `gorm:"size:150;not null" json:"title"`
	Body        string                  `gorm:"type:text;not null" json:"body"`
	Type        domain.NotificationType `gorm:"size:30;not null" json:"type"`
	IsRead      bool                    `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time               `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Message is a chat message between two users about a listing.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	ListingID   uint      `gorm:"not null;index" json:"listing_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Listing{},
		&ListingWaypoint{},
		&TransportRequest{},
		&Evaluation{},
		&Notification{},
		&Message{},
	)
}
