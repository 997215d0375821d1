package services

import (
	"context"
	"testing"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/adapters/persistence/repositories"
	"transportconnect/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testActor struct {
	id   uint
	role domain.Role
}

func (a testActor) ActorID() uint          { return a.id }
func (a testActor) ActorRole() domain.Role { return a.role }

// fakeRequestRepo mimics the repository's atomic guarantees in memory.
type fakeRequestRepo struct {
	listings map[uint]*models.Listing
	requests map[uint]*models.TransportRequest
	nextID   uint
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		listings: make(map[uint]*models.Listing),
		requests: make(map[uint]*models.TransportRequest),
		nextID:   1,
	}
}

func (r *fakeRequestRepo) addListing(l *models.Listing) {
	r.listings[l.ID] = l
}

func (r *fakeRequestRepo) CreateForListing(ctx context.Context, req *models.TransportRequest) error {
	listing, ok := r.listings[req.ListingID]
	if !ok {
		return domain.ErrListingNotFound
	}
	if listing.Status != domain.ListingActive {
		return domain.ErrListingNotActive
	}
	for _, existing := range r.requests {
		if existing.ShipperID == req.ShipperID && existing.ListingID == req.ListingID && !existing.Status.Terminal() {
			return domain.ErrDuplicateRequest
		}
	}
	req.ID = r.nextID
	r.nextID++
	req.Listing = listing
	r.requests[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id uint) (*models.TransportRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) ListByShipper(ctx context.Context, shipperID uint) ([]*models.TransportRequest, error) {
	var out []*models.TransportRequest
	for _, req := range r.requests {
		if req.ShipperID == shipperID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListByCarrier(ctx context.Context, carrierID uint) ([]*models.TransportRequest, error) {
	var out []*models.TransportRequest
	for _, req := range r.requests {
		if req.CarrierID() == carrierID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) List(ctx context.Context, offset, limit int) ([]*models.TransportRequest, int64, error) {
	var out []*models.TransportRequest
	for _, req := range r.requests {
		out = append(out, req)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) Update(ctx context.Context, req *models.TransportRequest) error {
	if _, ok := r.requests[req.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.requests[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) UpdateStatusFrom(ctx context.Context, id uint, from, to domain.RequestStatus, refusalReason string) (bool, error) {
	req, ok := r.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	if refusalReason != "" {
		req.RefusalReason = refusalReason
	}
	return true, nil
}

var _ repositories.TransportRequestRepository = (*fakeRequestRepo)(nil)

// fakeNotifier records which lifecycle events fired.
type fakeNotifier struct {
	events []string
}

func (n *fakeNotifier) RequestReceived(req *models.TransportRequest)   { n.events = append(n.events, "received") }
func (n *fakeNotifier) RequestAccepted(req *models.TransportRequest)   { n.events = append(n.events, "accepted") }
func (n *fakeNotifier) RequestRefused(req *models.TransportRequest)    { n.events = append(n.events, "refused") }
func (n *fakeNotifier) DeliveryConfirmed(req *models.TransportRequest) { n.events = append(n.events, "delivered") }
func (n *fakeNotifier) EvaluationReceived(eval *models.Evaluation, req *models.TransportRequest) {
	n.events = append(n.events, "evaluated")
}

func newRequestFixture(t *testing.T) (*RequestService, *fakeRequestRepo, *fakeNotifier) {
	t.Helper()
	repo := newFakeRequestRepo()
	repo.addListing(&models.Listing{
		ID:              1,
		CarrierID:       10,
		DepartureCity:   "Lyon",
		DestinationCity: "Paris",
		Status:          domain.ListingActive,
	})
	notifier := &fakeNotifier{}
	svc := NewRequestService(repo, nil, notifier)
	return svc, repo, notifier
}

func pendingRequest(t *testing.T, svc *RequestService, shipper testActor) *models.TransportRequest {
	t.Helper()
	req, err := svc.Create(context.Background(), shipper, &CreateRequestInput{
		ListingID:       1,
		Parcel:          models.Parcel{WeightKg: 5, CargoType: domain.CargoFragile},
		PickupAddress:   "12 rue des Lilas",
		DeliveryAddress: "8 avenue Foch",
	})
	require.NoError(t, err)
	return req
}

func TestCreateRequest(t *testing.T) {
	shipper := testActor{id: 20, role: domain.RoleShipper}

	t.Run("shipper creates pending request", func(t *testing.T) {
		svc, _, notifier := newRequestFixture(t)

		req := pendingRequest(t, svc, shipper)

		assert.Equal(t, domain.RequestPending, req.Status)
		assert.Equal(t, shipper.id, req.ShipperID)
		assert.Equal(t, uint(10), req.CarrierID())
		assert.Equal(t, []string{"received"}, notifier.events)
	})

	t.Run("carrier cannot create", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)

		_, err := svc.Create(context.Background(), testActor{id: 10, role: domain.RoleCarrier}, &CreateRequestInput{ListingID: 1})

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown listing", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)

		_, err := svc.Create(context.Background(), shipper, &CreateRequestInput{ListingID: 99})

		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})

	t.Run("inactive listing", func(t *testing.T) {
		svc, repo, _ := newRequestFixture(t)
		repo.listings[1].Status = domain.ListingCancelled

		_, err := svc.Create(context.Background(), shipper, &CreateRequestInput{ListingID: 1})

		assert.ErrorIs(t, err, domain.ErrListingNotActive)
	})

	t.Run("second live request on same listing rejected", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)
		pendingRequest(t, svc, shipper)

		_, err := svc.Create(context.Background(), shipper, &CreateRequestInput{ListingID: 1})

		assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
	})

	t.Run("new request allowed after refusal", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)
		carrier := testActor{id: 10, role: domain.RoleCarrier}
		first := pendingRequest(t, svc, shipper)

		_, err := svc.Refuse(context.Background(), carrier, first.ID, "truck is full")
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), shipper, &CreateRequestInput{ListingID: 1})
		assert.NoError(t, err)
	})

	t.Run("invalid cargo type", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)

		_, err := svc.Create(context.Background(), shipper, &CreateRequestInput{
			ListingID: 1,
			Parcel:    models.Parcel{WeightKg: 5, CargoType: "livestock"},
		})

		assert.ErrorIs(t, err, ErrInvalidCargoType)
	})
}

func TestRequestLifecycle(t *testing.T) {
	shipper := testActor{id: 20, role: domain.RoleShipper}
	carrier := testActor{id: 10, role: domain.RoleCarrier}
	stranger := testActor{id: 30, role: domain.RoleCarrier}

	t.Run("accept then transit then deliver", func(t *testing.T) {
		svc, _, notifier := newRequestFixture(t)
		req := pendingRequest(t, svc, shipper)

		accepted, err := svc.Accept(context.Background(), carrier, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestAccepted, accepted.Status)

		inTransit, err := svc.StartTransit(context.Background(), carrier, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestInTransit, inTransit.Status)

		delivered, err := svc.MarkDelivered(context.Background(), carrier, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestDelivered, delivered.Status)

		assert.Equal(t, []string{"received", "accepted", "delivered"}, notifier.events)
	})

	t.Run("deliver straight from accepted", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)
		req := pendingRequest(t, svc, shipper)

		_, err := svc.Accept(context.Background(), carrier, req.ID)
		require.NoError(t, err)

		delivered, err := svc.MarkDelivered(context.Background(), carrier, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestDelivered, delivered.Status)
	})

	t.Run("refuse requires a reason", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)
		req := pendingRequest(t, svc, shipper)

		_, err := svc.Refuse(context.Background(), carrier, req.ID, "")
		assert.ErrorIs(t, err, ErrRefusalReasonRequired)

		refused, err := svc.Refuse(context.Background(), carrier, req.ID, "wrong direction")
		require.NoError(t, err)
		assert.Equal(t, domain.RequestRefused, refused.Status)
		assert.Equal(t, "wrong direction", refused.RefusalReason)
	})

	t.Run("only the listing's carrier may respond", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)
		req := pendingRequest(t, svc, shipper)

		_, err := svc.Accept(context.Background(), stranger, req.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = svc.Accept(context.Background(), shipper, req.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("no transition out of a terminal status", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)
		req := pendingRequest(t, svc, shipper)

		_, err := svc.Refuse(context.Background(), carrier, req.ID, "no capacity")
		require.NoError(t, err)

		_, err = svc.Accept(context.Background(), carrier, req.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		_, err = svc.MarkDelivered(context.Background(), carrier, req.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("cannot deliver a pending request", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)
		req := pendingRequest(t, svc, shipper)

		_, err := svc.MarkDelivered(context.Background(), carrier, req.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("unknown request", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)

		_, err := svc.Accept(context.Background(), carrier, 404)
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	})
}

func TestUpdateRequest(t *testing.T) {
	shipper := testActor{id: 20, role: domain.RoleShipper}
	carrier := testActor{id: 10, role: domain.RoleCarrier}

	t.Run("shipper edits a pending request", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)
		req := pendingRequest(t, svc, shipper)

		newAddr := "3 place Bellecour"
		updated, err := svc.Update(context.Background(), shipper, req.ID, &UpdateRequestInput{
			PickupAddress: &newAddr,
		})

		require.NoError(t, err)
		assert.Equal(t, newAddr, updated.PickupAddress)
	})

	t.Run("accepted request is frozen", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)
		req := pendingRequest(t, svc, shipper)
		_, err := svc.Accept(context.Background(), carrier, req.ID)
		require.NoError(t, err)

		addr := "elsewhere"
		_, err = svc.Update(context.Background(), shipper, req.ID, &UpdateRequestInput{PickupAddress: &addr})
		assert.ErrorIs(t, err, ErrRequestNotEditable)
	})

	t.Run("only the owning shipper may edit", func(t *testing.T) {
		svc, _, _ := newRequestFixture(t)
		req := pendingRequest(t, svc, shipper)

		addr := "elsewhere"
		_, err := svc.Update(context.Background(), testActor{id: 21, role: domain.RoleShipper}, req.ID, &UpdateRequestInput{PickupAddress: &addr})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestGetRequestVisibility(t *testing.T) {
	shipper := testActor{id: 20, role: domain.RoleShipper}
	carrier := testActor{id: 10, role: domain.RoleCarrier}
	admin := testActor{id: 1, role: domain.RoleAdmin}
	stranger := testActor{id: 99, role: domain.RoleShipper}

	svc, _, _ := newRequestFixture(t)
	req := pendingRequest(t, svc, shipper)

	_, err := svc.GetByID(context.Background(), shipper, req.ID)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), carrier, req.ID)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), admin, req.ID)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), stranger, req.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
