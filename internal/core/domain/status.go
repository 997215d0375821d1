package domain

// Role is the closed set of user roles. Handlers and services never compare
// raw strings; the authorization gate is the single interpreter.
type Role string

const (
	RoleCarrier Role = "carrier"
	RoleShipper Role = "shipper"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCarrier, RoleShipper, RoleAdmin:
		return true
	}
	return false
}

// ListingStatus is the lifecycle status of a listing. The set is flat:
// any status may be set from any status, gated only by ownership.
type ListingStatus string

const (
	ListingActive    ListingStatus = "active"
	ListingCompleted ListingStatus = "completed"
	ListingCancelled ListingStatus = "cancelled"
)

// Valid reports whether s is a known listing status.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingActive, ListingCompleted, ListingCancelled:
		return true
	}
	return false
}

// RequestStatus is the lifecycle status of a transport request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestRefused   RequestStatus = "refused"
	RequestInTransit RequestStatus = "in_transit"
	RequestDelivered RequestStatus = "delivered"
)

// Valid reports whether s is a known request status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestAccepted, RequestRefused, RequestInTransit, RequestDelivered:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined out of s.
func (s RequestStatus) Terminal() bool {
	return s == RequestRefused || s == RequestDelivered
}

// requestTransitions is the single source of truth for the request state
// machine:
//
//	pending   -> accepted | refused
//	accepted  -> in_transit | delivered
//	in_transit -> delivered
//
// refused and delivered are terminal.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:   {RequestAccepted, RequestRefused},
	RequestAccepted:  {RequestInTransit, RequestDelivered},
	RequestInTransit: {RequestDelivered},
}

// CanTransition reports whether a request may move from one status to
// another.
func CanTransition(from, to RequestStatus) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// LiveRequestStatuses returns the non-terminal statuses. A shipper may hold
// at most one request in any of these statuses per listing.
func LiveRequestStatuses() []RequestStatus {
	return []RequestStatus{RequestPending, RequestAccepted, RequestInTransit}
}

// CargoType is the closed set of cargo categories a listing can carry.
type CargoType string

const (
	CargoFragile     CargoType = "fragile"
	CargoLiquid      CargoType = "liquid"
	CargoFood        CargoType = "food"
	CargoElectronics CargoType = "electronics"
	CargoOther       CargoType = "other"
)

// Valid reports whether t is a known cargo type.
func (t CargoType) Valid() bool {
	switch t {
	case CargoFragile, CargoLiquid, CargoFood, CargoElectronics, CargoOther:
		return true
	}
	return false
}

// NotificationType identifies the template of a notification.
type NotificationType string

const (
	NotifyRequestReceived    NotificationType = "request_received"
	NotifyRequestAccepted    NotificationType = "request_accepted"
	NotifyRequestRefused     NotificationType = "request_refused"
	NotifyDeliveryConfirmed  NotificationType = "delivery_confirmed"
	NotifyEvaluationReceived NotificationType = "evaluation_received"
)
