package repositories

import (
	"context"
	"errors"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/core/domain"

	"gorm.io/gorm"
)

// evaluationRepository implements EvaluationRepository interface
type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository creates a new evaluation repository
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

// Create inserts an evaluation. The composite unique index on
// (evaluator_id, request_id) is the backstop against concurrent
// duplicates; TranslateError turns the driver error into
// gorm.ErrDuplicatedKey.
func (r *evaluationRepository) Create(ctx context.Context, eval *models.Evaluation) error {
	err := r.db.WithContext(ctx).Create(eval).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateEvaluation
	}
	return err
}

// GetByID gets an evaluation by ID with both parties
func (r *evaluationRepository) GetByID(ctx context.Context, id uint) (*models.Evaluation, error) {
	var eval models.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Evaluator").
		Preload("Evaluated").
		First(&eval, id).Error
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

// GetByEvaluatorAndRequest gets the evaluation an evaluator left on a request
func (r *evaluationRepository) GetByEvaluatorAndRequest(ctx context.Context, evaluatorID, requestID uint) (*models.Evaluation, error) {
	var eval models.Evaluation
	err := r.db.WithContext(ctx).
		Where("evaluator_id = ? AND request_id = ?", evaluatorID, requestID).
		First(&eval).Error
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

// ListByEvaluated lists evaluations received by a user with pagination
func (r *evaluationRepository) ListByEvaluated(ctx context.Context, userID uint, offset, limit int) ([]*models.Evaluation, int64, error) {
	return r.list(ctx, "evaluated_id = ?", userID, offset, limit)
}

// ListByEvaluator lists evaluations written by a user with pagination
func (r *evaluationRepository) ListByEvaluator(ctx context.Context, userID uint, offset, limit int) ([]*models.Evaluation, int64, error) {
	return r.list(ctx, "evaluator_id = ?", userID, offset, limit)
}

func (r *evaluationRepository) list(ctx context.Context, cond string, userID uint, offset, limit int) ([]*models.Evaluation, int64, error) {
	var evals []*models.Evaluation
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Evaluation{}).Where(cond, userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Evaluator").
		Preload("Evaluated").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&evals).Error

	return evals, total, err
}

// AverageRating computes a user's average received rating, 0 when none.
func (r *evaluationRepository) AverageRating(ctx context.Context, userID uint) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&models.Evaluation{}).
		Where("evaluated_id = ?", userID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}

// Update updates an evaluation
func (r *evaluationRepository) Update(ctx context.Context, eval *models.Evaluation) error {
	return r.db.WithContext(ctx).Omit("Evaluator", "Evaluated", "Request").Save(eval).Error
}

// Delete deletes an evaluation
func (r *evaluationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Evaluation{}, id).Error
}
