package services

import (
	"context"
	"testing"
	"time"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/adapters/persistence/repositories"
	"transportconnect/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeListingRepo struct {
	listings map[uint]*models.Listing
	nextID   uint
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		listings: make(map[uint]*models.Listing),
		nextID:   1,
	}
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	listing.ID = r.nextID
	r.nextID++
	r.listings[listing.ID] = listing
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return listing, nil
}

func (r *fakeListingRepo) List(ctx context.Context, filter repositories.ListingFilter, offset, limit int) ([]*models.Listing, int64, error) {
	var out []*models.Listing
	for _, l := range r.listings {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.CargoType != "" && l.CargoType != filter.CargoType {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *fakeListingRepo) ListByCarrier(ctx context.Context, carrierID uint) ([]*models.Listing, error) {
	var out []*models.Listing
	for _, l := range r.listings {
		if l.CarrierID == carrierID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, listing *models.Listing) error {
	if _, ok := r.listings[listing.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.listings[listing.ID] = listing
	return nil
}

func (r *fakeListingRepo) ReplaceWaypoints(ctx context.Context, listingID uint, waypoints []models.ListingWaypoint) error {
	listing, ok := r.listings[listingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	listing.Waypoints = waypoints
	return nil
}

func (r *fakeListingRepo) Delete(ctx context.Context, id uint) error {
	delete(r.listings, id)
	return nil
}

var _ repositories.ListingRepository = (*fakeListingRepo)(nil)

func validListingInput() *CreateListingInput {
	return &CreateListingInput{
		DepartureCity:   "Marseille",
		DestinationCity: "Lille",
		DepartureDate:   time.Now().Add(72 * time.Hour),
		CargoType:       domain.CargoElectronics,
		CapacityKg:      800,
		Price:           240,
	}
}

func TestCreateListing(t *testing.T) {
	carrier := testActor{id: 10, role: domain.RoleCarrier}

	t.Run("carrier creates active listing", func(t *testing.T) {
		svc := NewListingService(newFakeListingRepo())

		listing, err := svc.Create(context.Background(), carrier, validListingInput())

		require.NoError(t, err)
		assert.Equal(t, domain.ListingActive, listing.Status)
		assert.Equal(t, carrier.id, listing.CarrierID)
	})

	t.Run("waypoints keep creation order", func(t *testing.T) {
		svc := NewListingService(newFakeListingRepo())
		input := validListingInput()
		input.Waypoints = []WaypointInput{{City: "Lyon"}, {City: "Dijon"}, {City: "Reims"}}

		listing, err := svc.Create(context.Background(), carrier, input)

		require.NoError(t, err)
		require.Len(t, listing.Waypoints, 3)
		for i, wp := range listing.Waypoints {
			assert.Equal(t, i, wp.Position)
		}
		assert.Equal(t, "Dijon", listing.Waypoints[1].City)
	})

	t.Run("shipper cannot create", func(t *testing.T) {
		svc := NewListingService(newFakeListingRepo())

		_, err := svc.Create(context.Background(), testActor{id: 20, role: domain.RoleShipper}, validListingInput())

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin cannot create either", func(t *testing.T) {
		svc := NewListingService(newFakeListingRepo())

		_, err := svc.Create(context.Background(), testActor{id: 1, role: domain.RoleAdmin}, validListingInput())

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("invalid cargo type", func(t *testing.T) {
		svc := NewListingService(newFakeListingRepo())
		input := validListingInput()
		input.CargoType = "livestock"

		_, err := svc.Create(context.Background(), carrier, input)

		assert.ErrorIs(t, err, ErrInvalidCargoType)
	})
}

func TestSearchListings(t *testing.T) {
	carrier := testActor{id: 10, role: domain.RoleCarrier}
	svc := NewListingService(newFakeListingRepo())

	active, err := svc.Create(context.Background(), carrier, validListingInput())
	require.NoError(t, err)
	cancelled, err := svc.Create(context.Background(), carrier, validListingInput())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), carrier, cancelled.ID, domain.ListingCancelled)
	require.NoError(t, err)

	t.Run("defaults to active listings", func(t *testing.T) {
		listings, total, err := svc.Search(context.Background(), &SearchListingsInput{Limit: 20})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, listings, 1)
		assert.Equal(t, active.ID, listings[0].ID)
	})

	t.Run("explicit status filter", func(t *testing.T) {
		listings, _, err := svc.Search(context.Background(), &SearchListingsInput{Status: "cancelled", Limit: 20})

		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Equal(t, cancelled.ID, listings[0].ID)
	})

	t.Run("moderation view sees every status", func(t *testing.T) {
		_, total, err := svc.Search(context.Background(), &SearchListingsInput{AllStatuses: true, Limit: 20})

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, _, err := svc.Search(context.Background(), &SearchListingsInput{Status: "paused", Limit: 20})
		assert.ErrorIs(t, err, ErrInvalidListingStatus)
	})

	t.Run("unknown cargo type rejected", func(t *testing.T) {
		_, _, err := svc.Search(context.Background(), &SearchListingsInput{CargoType: "livestock", Limit: 20})
		assert.ErrorIs(t, err, ErrInvalidCargoType)
	})
}

func TestUpdateListing(t *testing.T) {
	carrier := testActor{id: 10, role: domain.RoleCarrier}
	other := testActor{id: 11, role: domain.RoleCarrier}
	admin := testActor{id: 1, role: domain.RoleAdmin}

	newListing := func(t *testing.T) (*ListingService, *models.Listing) {
		t.Helper()
		svc := NewListingService(newFakeListingRepo())
		listing, err := svc.Create(context.Background(), carrier, validListingInput())
		require.NoError(t, err)
		return svc, listing
	}

	t.Run("owner updates fields", func(t *testing.T) {
		svc, listing := newListing(t)

		price := 300.0
		updated, err := svc.Update(context.Background(), carrier, listing.ID, &UpdateListingInput{Price: &price})

		require.NoError(t, err)
		assert.Equal(t, 300.0, updated.Price)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		svc, listing := newListing(t)

		price := 300.0
		_, err := svc.Update(context.Background(), other, listing.ID, &UpdateListingInput{Price: &price})

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		svc, listing := newListing(t)

		price := 300.0
		_, err := svc.Update(context.Background(), admin, listing.ID, &UpdateListingInput{Price: &price})

		assert.NoError(t, err)
	})

	t.Run("non-active listing is frozen", func(t *testing.T) {
		svc, listing := newListing(t)
		_, err := svc.UpdateStatus(context.Background(), carrier, listing.ID, domain.ListingCompleted)
		require.NoError(t, err)

		price := 300.0
		_, err = svc.Update(context.Background(), carrier, listing.ID, &UpdateListingInput{Price: &price})
		assert.ErrorIs(t, err, ErrListingNotEditable)
	})

	t.Run("status change is owner gated", func(t *testing.T) {
		svc, listing := newListing(t)

		_, err := svc.UpdateStatus(context.Background(), other, listing.ID, domain.ListingCancelled)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = svc.UpdateStatus(context.Background(), carrier, listing.ID, "paused")
		assert.ErrorIs(t, err, ErrInvalidListingStatus)

		updated, err := svc.UpdateStatus(context.Background(), carrier, listing.ID, domain.ListingCancelled)
		require.NoError(t, err)
		assert.Equal(t, domain.ListingCancelled, updated.Status)
	})

	t.Run("owner deletes listing", func(t *testing.T) {
		svc, listing := newListing(t)

		require.NoError(t, svc.Delete(context.Background(), carrier, listing.ID))

		_, err := svc.GetByID(context.Background(), listing.ID)
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})
}
