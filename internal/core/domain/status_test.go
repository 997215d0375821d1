package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{"pending to accepted", RequestPending, RequestAccepted, true},
		{"pending to refused", RequestPending, RequestRefused, true},
		{"pending to in_transit", RequestPending, RequestInTransit, false},
		{"pending to delivered", RequestPending, RequestDelivered, false},
		{"accepted to in_transit", RequestAccepted, RequestInTransit, true},
		{"accepted to delivered", RequestAccepted, RequestDelivered, true},
		{"accepted to refused", RequestAccepted, RequestRefused, false},
		{"accepted to pending", RequestAccepted, RequestPending, false},
		{"in_transit to delivered", RequestInTransit, RequestDelivered, true},
		{"in_transit to accepted", RequestInTransit, RequestAccepted, false},
		{"refused is terminal", RequestRefused, RequestPending, false},
		{"delivered is terminal", RequestDelivered, RequestInTransit, false},
		{"same status is not a transition", RequestPending, RequestPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestRequestStatusTerminal(t *testing.T) {
	assert.True(t, RequestRefused.Terminal())
	assert.True(t, RequestDelivered.Terminal())
	assert.False(t, RequestPending.Terminal())
	assert.False(t, RequestAccepted.Terminal())
	assert.False(t, RequestInTransit.Terminal())
}

func TestLiveRequestStatuses(t *testing.T) {
	live := LiveRequestStatuses()

	assert.ElementsMatch(t,
		[]RequestStatus{RequestPending, RequestAccepted, RequestInTransit},
		live)

	for _, s := range live {
		assert.False(t, s.Terminal(), "live status %s must not be terminal", s)
	}
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, RoleCarrier.Valid())
	assert.True(t, RoleShipper.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())

	assert.True(t, ListingActive.Valid())
	assert.True(t, ListingCompleted.Valid())
	assert.True(t, ListingCancelled.Valid())
	assert.False(t, ListingStatus("paused").Valid())

	assert.True(t, RequestStatus("in_transit").Valid())
	assert.False(t, RequestStatus("shipped").Valid())

	assert.True(t, CargoFragile.Valid())
	assert.True(t, CargoOther.Valid())
	assert.False(t, CargoType("livestock").Valid())
}
