package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence/tenant"
)

// GormQuestionRepository implements marketplace.QuestionRepository using GORM
type GormQuestionRepository struct {
	db *gorm.DB
}

var _ marketplace.QuestionRepository = (*GormQuestionRepository)(nil)

// NewGormQuestionRepository creates a new GormQuestionRepository
func NewGormQuestionRepository(db *gorm.DB) *GormQuestionRepository {
	return &GormQuestionRepository{db: db}
}

// FindByID finds a question by its local id within a tenant
func (r *GormQuestionRepository) FindByID(ctx context.Context, tenantID uuid.UUID, id int64) (*marketplace.Question, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	var model models.QuestionModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, marketplace.ErrQuestionNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRemoteID finds a question by the vendor id stored in its raw payload.
// The lookup is a JSON-path query; the vendor id is not kept as a column.
func (r *GormQuestionRepository) FindByRemoteID(ctx context.Context, tenantID uuid.UUID, remoteID string) (*marketplace.Question, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	var model models.QuestionModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("raw_payload::jsonb->>'id' = ?", remoteID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, marketplace.ErrQuestionNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccount returns the questions of one marketplace account, newest
// first, optionally filtered by status.
func (r *GormQuestionRepository) FindByAccount(ctx context.Context, tenantID uuid.UUID, accountID uuid.UUID, status *marketplace.QuestionStatus) ([]marketplace.Question, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("account_id = ?", accountID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var questionModels []models.QuestionModel
	if err := query.Order("created_at DESC").Find(&questionModels).Error; err != nil {
		return nil, err
	}

	questions := make([]marketplace.Question, len(questionModels))
	for i, model := range questionModels {
		questions[i] = *model.ToDomain()
	}
	return questions, nil
}

// Insert creates a new question row. The primary key is deterministic, so a
// collision means the question was already ingested by an earlier sync.
func (r *GormQuestionRepository) Insert(ctx context.Context, question *marketplace.Question) error {
	if err := tenant.Require(question.TenantID); err != nil {
		return err
	}
	model := models.QuestionModelFromDomain(question)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return marketplace.ErrQuestionDuplicate
		}
		return err
	}
	return nil
}

// Save updates an existing question row
func (r *GormQuestionRepository) Save(ctx context.Context, question *marketplace.Question) error {
	if err := tenant.Require(question.TenantID); err != nil {
		return err
	}
	model := models.QuestionModelFromDomain(question)
	return r.db.WithContext(ctx).Save(model).Error
}
