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

type fakeEvalRepo struct {
	evals  map[uint]*models.Evaluation
	nextID uint
}

func newFakeEvalRepo() *fakeEvalRepo {
	return &fakeEvalRepo{
		evals:  make(map[uint]*models.Evaluation),
		nextID: 1,
	}
}

func (r *fakeEvalRepo) Create(ctx context.Context, eval *models.Evaluation) error {
	for _, e := range r.evals {
		if e.EvaluatorID == eval.EvaluatorID && e.RequestID == eval.RequestID {
			return domain.ErrDuplicateEvaluation
		}
	}
	eval.ID = r.nextID
	r.nextID++
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now()
	}
	r.evals[eval.ID] = eval
	return nil
}

func (r *fakeEvalRepo) GetByID(ctx context.Context, id uint) (*models.Evaluation, error) {
	eval, ok := r.evals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return eval, nil
}

func (r *fakeEvalRepo) GetByEvaluatorAndRequest(ctx context.Context, evaluatorID, requestID uint) (*models.Evaluation, error) {
	for _, e := range r.evals {
		if e.EvaluatorID == evaluatorID && e.RequestID == requestID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEvalRepo) ListByEvaluated(ctx context.Context, userID uint, offset, limit int) ([]*models.Evaluation, int64, error) {
	var out []*models.Evaluation
	for _, e := range r.evals {
		if e.EvaluatedID == userID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEvalRepo) ListByEvaluator(ctx context.Context, userID uint, offset, limit int) ([]*models.Evaluation, int64, error) {
	var out []*models.Evaluation
	for _, e := range r.evals {
		if e.EvaluatorID == userID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEvalRepo) AverageRating(ctx context.Context, userID uint) (float64, error) {
	var sum, count int
	for _, e := range r.evals {
		if e.EvaluatedID == userID {
			sum += e.Rating
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

func (r *fakeEvalRepo) Update(ctx context.Context, eval *models.Evaluation) error {
	if _, ok := r.evals[eval.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.evals[eval.ID] = eval
	return nil
}

func (r *fakeEvalRepo) Delete(ctx context.Context, id uint) error {
	delete(r.evals, id)
	return nil
}

var _ repositories.EvaluationRepository = (*fakeEvalRepo)(nil)

// newEvaluationFixture sets up one delivered request between shipper 20
// and carrier 10.
func newEvaluationFixture(t *testing.T) (*EvaluationService, *fakeEvalRepo, *fakeNotifier) {
	t.Helper()

	reqRepo := newFakeRequestRepo()
	reqRepo.addListing(&models.Listing{
		ID:        1,
		CarrierID: 10,
		Status:    domain.ListingActive,
	})
	reqRepo.requests[1] = &models.TransportRequest{
		ID:        1,
		ShipperID: 20,
		ListingID: 1,
		Status:    domain.RequestDelivered,
		Listing:   reqRepo.listings[1],
	}

	evalRepo := newFakeEvalRepo()
	notifier := &fakeNotifier{}
	return NewEvaluationService(evalRepo, reqRepo, notifier), evalRepo, notifier
}

func TestCreateEvaluation(t *testing.T) {
	shipper := testActor{id: 20, role: domain.RoleShipper}
	carrier := testActor{id: 10, role: domain.RoleCarrier}

	t.Run("shipper evaluates the carrier", func(t *testing.T) {
		svc, _, notifier := newEvaluationFixture(t)

		eval, err := svc.Create(context.Background(), shipper, &CreateEvaluationInput{
			RequestID:   1,
			EvaluatedID: 10,
			Rating:      4,
			Comment:     "on time, careful handling",
		})

		require.NoError(t, err)
		assert.Equal(t, uint(20), eval.EvaluatorID)
		assert.Equal(t, uint(10), eval.EvaluatedID)
		assert.Equal(t, []string{"evaluated"}, notifier.events)
	})

	t.Run("carrier evaluates the shipper", func(t *testing.T) {
		svc, _, _ := newEvaluationFixture(t)

		eval, err := svc.Create(context.Background(), carrier, &CreateEvaluationInput{
			RequestID:   1,
			EvaluatedID: 20,
			Rating:      5,
		})

		require.NoError(t, err)
		assert.Equal(t, uint(10), eval.EvaluatorID)
		assert.Equal(t, uint(20), eval.EvaluatedID)
	})

	t.Run("both parties may evaluate the same request once each", func(t *testing.T) {
		svc, _, _ := newEvaluationFixture(t)

		_, err := svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 10, Rating: 4})
		require.NoError(t, err)
		_, err = svc.Create(context.Background(), carrier, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 20, Rating: 5})
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 10, Rating: 2})
		assert.ErrorIs(t, err, domain.ErrDuplicateEvaluation)
	})

	t.Run("evaluated must be the counterparty", func(t *testing.T) {
		svc, _, _ := newEvaluationFixture(t)

		// evaluator names themselves
		_, err := svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 20, Rating: 5})
		assert.ErrorIs(t, err, domain.ErrWrongCounterparty)

		// evaluator names a stranger
		_, err = svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 99, Rating: 5})
		assert.ErrorIs(t, err, domain.ErrWrongCounterparty)

		// evaluated left out entirely
		_, err = svc.Create(context.Background(), carrier, &CreateEvaluationInput{RequestID: 1, Rating: 5})
		assert.ErrorIs(t, err, domain.ErrWrongCounterparty)
	})

	t.Run("rating out of range", func(t *testing.T) {
		svc, _, _ := newEvaluationFixture(t)

		_, err := svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 10, Rating: 0})
		assert.ErrorIs(t, err, ErrInvalidRating)

		_, err = svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 10, Rating: 6})
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("request must be delivered", func(t *testing.T) {
		svc, _, _ := newEvaluationFixture(t)
		reqRepo := svc.requestRepo.(*fakeRequestRepo)
		reqRepo.requests[1].Status = domain.RequestInTransit

		_, err := svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 10, Rating: 4})
		assert.ErrorIs(t, err, domain.ErrRequestNotDelivered)
	})

	t.Run("third parties may not evaluate", func(t *testing.T) {
		svc, _, _ := newEvaluationFixture(t)

		_, err := svc.Create(context.Background(), testActor{id: 99, role: domain.RoleShipper}, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 10, Rating: 4})
		assert.ErrorIs(t, err, domain.ErrNotAParty)
	})

	t.Run("unknown request", func(t *testing.T) {
		svc, _, _ := newEvaluationFixture(t)

		_, err := svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 404, EvaluatedID: 10, Rating: 4})
		assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	})
}

func TestUpdateEvaluation(t *testing.T) {
	shipper := testActor{id: 20, role: domain.RoleShipper}
	carrier := testActor{id: 10, role: domain.RoleCarrier}

	t.Run("evaluator amends within the window", func(t *testing.T) {
		svc, _, _ := newEvaluationFixture(t)
		eval, err := svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 10, Rating: 3})
		require.NoError(t, err)

		rating := 4
		comment := "better than I first thought"
		updated, err := svc.Update(context.Background(), shipper, eval.ID, &UpdateEvaluationInput{
			Rating:  &rating,
			Comment: &comment,
		})

		require.NoError(t, err)
		assert.Equal(t, 4, updated.Rating)
		assert.Equal(t, comment, updated.Comment)
	})

	t.Run("window expires after 24 hours", func(t *testing.T) {
		svc, evalRepo, _ := newEvaluationFixture(t)
		eval, err := svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 10, Rating: 3})
		require.NoError(t, err)
		evalRepo.evals[eval.ID].CreatedAt = time.Now().Add(-25 * time.Hour)

		rating := 5
		_, err = svc.Update(context.Background(), shipper, eval.ID, &UpdateEvaluationInput{Rating: &rating})
		assert.ErrorIs(t, err, ErrEvalWindowExpired)
	})

	t.Run("only the evaluator may edit", func(t *testing.T) {
		svc, _, _ := newEvaluationFixture(t)
		eval, err := svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 10, Rating: 3})
		require.NoError(t, err)

		rating := 1
		_, err = svc.Update(context.Background(), carrier, eval.ID, &UpdateEvaluationInput{Rating: &rating})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestDeleteEvaluation(t *testing.T) {
	shipper := testActor{id: 20, role: domain.RoleShipper}
	admin := testActor{id: 1, role: domain.RoleAdmin}

	t.Run("evaluator deletes own evaluation", func(t *testing.T) {
		svc, _, _ := newEvaluationFixture(t)
		eval, err := svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 10, Rating: 3})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(context.Background(), shipper, eval.ID))

		_, err = svc.GetByID(context.Background(), eval.ID)
		assert.ErrorIs(t, err, ErrEvalNotFound)
	})

	t.Run("admin deletes any evaluation", func(t *testing.T) {
		svc, _, _ := newEvaluationFixture(t)
		eval, err := svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 10, Rating: 3})
		require.NoError(t, err)

		assert.NoError(t, svc.Delete(context.Background(), admin, eval.ID))
	})

	t.Run("stranger may not delete", func(t *testing.T) {
		svc, _, _ := newEvaluationFixture(t)
		eval, err := svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 10, Rating: 3})
		require.NoError(t, err)

		err = svc.Delete(context.Background(), testActor{id: 99, role: domain.RoleCarrier}, eval.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestAverageRating(t *testing.T) {
	shipper := testActor{id: 20, role: domain.RoleShipper}
	carrier := testActor{id: 10, role: domain.RoleCarrier}

	svc, _, _ := newEvaluationFixture(t)
	reqRepo := svc.requestRepo.(*fakeRequestRepo)
	reqRepo.requests[2] = &models.TransportRequest{
		ID:        2,
		ShipperID: 20,
		ListingID: 1,
		Status:    domain.RequestDelivered,
		Listing:   reqRepo.listings[1],
	}

	_, err := svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 10, Rating: 5})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), shipper, &CreateEvaluationInput{RequestID: 2, EvaluatedID: 10, Rating: 2})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), carrier, &CreateEvaluationInput{RequestID: 1, EvaluatedID: 20, Rating: 4})
	require.NoError(t, err)

	out, err := svc.ListForUser(context.Background(), carrier.id, 0, 10)
	require.NoError(t, err)
	assert.Len(t, out.Evaluations, 2)
	assert.InDelta(t, 3.5, out.AverageRating, 0.001)

	out, err = svc.ListForUser(context.Background(), shipper.id, 0, 10)
	require.NoError(t, err)
	assert.Len(t, out.Evaluations, 1)
	assert.InDelta(t, 4.0, out.AverageRating, 0.001)
}
