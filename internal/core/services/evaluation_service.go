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

// Evaluation service errors
var (
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrEvalNotFound      = errors.New("evaluation not found")
	ErrEvalWindowExpired = errors.New("evaluations can only be edited within 24 hours")
)

// evaluationEditWindow is how long an evaluator may amend their evaluation.
const evaluationEditWindow = 24 * time.Hour

// EvaluationNotifier receives the evaluation-created event after commit.
type EvaluationNotifier interface {
	EvaluationReceived(eval *models.Evaluation, req *models.TransportRequest)
}

// EvaluationService handles post-delivery evaluations between the two
// parties of a request.
type EvaluationService struct {
	evalRepo    repositories.EvaluationRepository
	requestRepo repositories.TransportRequestRepository
	notifier    EvaluationNotifier
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(
	evalRepo repositories.EvaluationRepository,
	requestRepo repositories.TransportRequestRepository,
	notifier EvaluationNotifier,
) *EvaluationService {
	return &EvaluationService{
		evalRepo:    evalRepo,
		requestRepo: requestRepo,
		notifier:    notifier,
	}
}

// CreateEvaluationInput represents evaluation creation input
type CreateEvaluationInput struct {
	RequestID   uint   `json:"request_id" validate:"required"`
	EvaluatedID uint   `json:"evaluated_id" validate:"required"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Comment     string `json:"comment"`
}

// UpdateEvaluationInput represents evaluation update input
type UpdateEvaluationInput struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// EvaluationsOutput bundles a page of evaluations with the subject's
// average rating.
type EvaluationsOutput struct {
	Evaluations   []*models.Evaluation `json:"evaluations"`
	Total         int64                `json:"total"`
	AverageRating float64              `json:"average_rating"`
}

// Create creates an evaluation on a delivered request. The evaluator must
// be a party to the request and must name the other party as evaluated;
// the unique index keeps a racing duplicate out.
func (s *EvaluationService) Create(ctx context.Context, actor domain.Actor, input *CreateEvaluationInput) (*models.Evaluation, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	req, err := s.requestRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	if req.Status != domain.RequestDelivered {
		return nil, domain.ErrRequestNotDelivered
	}

	carrierID := req.CarrierID()
	if !domain.IsParty(actor, req.ShipperID, carrierID) {
		return nil, domain.ErrNotAParty
	}

	counterpartyID := carrierID
	if actor.ActorID() == carrierID {
		counterpartyID = req.ShipperID
	}
	if input.EvaluatedID != counterpartyID {
		return nil, domain.ErrWrongCounterparty
	}

	// Friendly pre-check; the unique index still backstops the race.
	if _, err := s.evalRepo.GetByEvaluatorAndRequest(ctx, actor.ActorID(), req.ID); err == nil {
		return nil, domain.ErrDuplicateEvaluation
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	eval := &models.Evaluation{
		EvaluatorID: actor.ActorID(),
		RequestID:   req.ID,
		EvaluatedID: counterpartyID,
		Rating:      input.Rating,
		Comment:     input.Comment,
	}

	if err := s.evalRepo.Create(ctx, eval); err != nil {
		return nil, err
	}

	log.Printf("✅ Evaluation created: #%d (request %d, %d → %d)",
		eval.ID, req.ID, eval.EvaluatorID, eval.EvaluatedID)

	s.notifier.EvaluationReceived(eval, req)

	return eval, nil
}

// GetByID gets an evaluation by ID
func (s *EvaluationService) GetByID(ctx context.Context, id uint) (*models.Evaluation, error) {
	eval, err := s.evalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvalNotFound
		}
		return nil, err
	}
	return eval, nil
}

// ListForUser lists evaluations received by a user (public) with their
// average rating
func (s *EvaluationService) ListForUser(ctx context.Context, userID uint, offset, limit int) (*EvaluationsOutput, error) {
	evals, total, err := s.evalRepo.ListByEvaluated(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	avg, err := s.evalRepo.AverageRating(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &EvaluationsOutput{
		Evaluations:   evals,
		Total:         total,
		AverageRating: avg,
	}, nil
}

// ListSent lists evaluations written by the acting user
func (s *EvaluationService) ListSent(ctx context.Context, actor domain.Actor, offset, limit int) ([]*models.Evaluation, int64, error) {
	return s.evalRepo.ListByEvaluator(ctx, actor.ActorID(), offset, limit)
}

// Update amends an evaluation. Only the evaluator may edit, and only
// within the edit window.
func (s *EvaluationService) Update(ctx context.Context, actor domain.Actor, id uint, input *UpdateEvaluationInput) (*models.Evaluation, error) {
	eval, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.ActorID() != eval.EvaluatorID {
		return nil, domain.ErrForbidden
	}
	if time.Since(eval.CreatedAt) > evaluationEditWindow {
		return nil, ErrEvalWindowExpired
	}

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, ErrInvalidRating
		}
		eval.Rating = *input.Rating
	}
	if input.Comment != nil {
		eval.Comment = *input.Comment
	}

	if err := s.evalRepo.Update(ctx, eval); err != nil {
		return nil, err
	}

	return eval, nil
}

// Delete deletes an evaluation (evaluator or admin)
func (s *EvaluationService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	eval, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := domain.RequireOwner(actor, eval.EvaluatorID); err != nil {
		return err
	}

	return s.evalRepo.Delete(ctx, id)
}
