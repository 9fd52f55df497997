// Package qna ingests the customer Q&A feed from the marketplaces that expose
// one and posts seller answers back. Local question state only ever moves to
// answered after the vendor acknowledged the answer.
package qna

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
)

const (
	defaultPageSize = 50
	// syncLockTTL bounds a crashed instance's hold on the sync lock
	syncLockTTL = 5 * time.Minute
)

// SyncStateStore coordinates sync runs across instances. A nil store degrades
// to uncoordinated syncs, which is safe: the deterministic question ids keep
// overlapping runs idempotent.
type SyncStateStore interface {
	// AcquireLock claims the per-account sync lock, false when held elsewhere
	AcquireLock(ctx context.Context, tenantID, accountID uuid.UUID, ttl time.Duration) (bool, error)

	// ReleaseLock releases the per-account sync lock
	ReleaseLock(ctx context.Context, tenantID, accountID uuid.UUID) error

	// SetLastSyncAt records when the account's feed was last pulled
	SetLastSyncAt(ctx context.Context, tenantID, accountID uuid.UUID, at time.Time) error
}

// SyncResult summarizes one sync run across all Q&A-capable accounts.
// Warnings carry per-account problems that did not abort the run.
type SyncResult struct {
	// Saved counts newly ingested questions
	Saved int
	// Updated counts already known questions refreshed from the feed
	Updated int
	// Warnings lists accounts that were skipped or partially synced
	Warnings []string
}

// AnswerRequest asks to answer one local question through its account
type AnswerRequest struct {
	QuestionID int64
	AccountID  uuid.UUID
	Text       string
}

// Config holds tuning knobs for the Q&A service
type Config struct {
	// PageSize is the vendor feed page size
	PageSize int
}

// Service syncs the vendor question feed into local storage and submits
// seller answers.
type Service struct {
	accounts  marketplace.AccountRepository
	questions marketplace.QuestionRepository
	gateway   marketplace.QuestionGateway
	state     SyncStateStore
	logger    *zap.Logger
	pageSize  int
}

// NewService creates a new Q&A Service. state may be nil when no Redis is
// configured.
func NewService(
	accounts marketplace.AccountRepository,
	questions marketplace.QuestionRepository,
	gateway marketplace.QuestionGateway,
	state SyncStateStore,
	logger *zap.Logger,
	cfg Config,
) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	return &Service{
		accounts:  accounts,
		questions: questions,
		gateway:   gateway,
		state:     state,
		logger:    logger,
		pageSize:  cfg.PageSize,
	}
}

// ---------------------------------------------------------------------------
// Feed sync
// ---------------------------------------------------------------------------

// SyncQuestions pulls the question feed for every Trendyol account of the
// tenant. Accounts with incomplete credentials, held locks or vendor errors
// produce warnings and the run continues with the next account.
func (s *Service) SyncQuestions(ctx context.Context, tenantID uuid.UUID) (*SyncResult, error) {
	accounts, err := s.accounts.FindByPlatform(ctx, tenantID, marketplace.PlatformCodeTrendyol)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	for i := range accounts {
		account := &accounts[i]

		if !account.HasCompleteCredentials() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("account %s: credentials incomplete, skipped", account.StoreName))
			continue
		}

		if s.state != nil {
			ok, err := s.state.AcquireLock(ctx, tenantID, account.ID, syncLockTTL)
			if err != nil {
				s.logger.Warn("sync lock unavailable, proceeding unlocked",
					zap.String("account_id", account.ID.String()),
					zap.Error(err))
			} else if !ok {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("account %s: sync already running, skipped", account.StoreName))
				continue
			}
		}

		if err := s.syncAccount(ctx, tenantID, account, result); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("account %s: %v", account.StoreName, err))
		}

		if s.state != nil {
			if err := s.state.ReleaseLock(ctx, tenantID, account.ID); err != nil {
				s.logger.Warn("failed to release sync lock",
					zap.String("account_id", account.ID.String()),
					zap.Error(err))
			}
			if err := s.state.SetLastSyncAt(ctx, tenantID, account.ID, time.Now().UTC()); err != nil {
				s.logger.Warn("failed to store sync cursor",
					zap.String("account_id", account.ID.String()),
					zap.Error(err))
			}
		}
	}

	s.logger.Info("question sync finished",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("saved", result.Saved),
		zap.Int("updated", result.Updated),
		zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

func (s *Service) syncAccount(ctx context.Context, tenantID uuid.UUID, account *marketplace.Account, result *SyncResult) error {
	for page := 0; ; page++ {
		remote, err := s.gateway.FetchQuestions(ctx, account, page, s.pageSize)
		if err != nil {
			return err
		}
		for i := range remote {
			if err := s.ingest(ctx, tenantID, account, &remote[i], result); err != nil {
				return err
			}
		}
		if len(remote) < s.pageSize {
			return nil
		}
	}
}

// ingest upserts one feed entry. Known questions are matched by the vendor id
// inside the stored payload and refreshed in place under their existing local
// id; new ones get the deterministic synthetic id, so replaying the feed
// never duplicates rows.
func (s *Service) ingest(ctx context.Context, tenantID uuid.UUID, account *marketplace.Account, rq *marketplace.RemoteQuestion, result *SyncResult) error {
	existing, err := s.questions.FindByRemoteID(ctx, tenantID, rq.ID)
	switch {
	case err == nil:
		existing.Text = rq.Text
		existing.CustomerName = rq.CustomerName
		existing.ProductName = rq.ProductName
		existing.ProductImageURL = rq.ProductImageURL
		existing.Status = marketplace.NormalizeQuestionStatus(rq.Status)
		existing.RawPayload = rq.Raw
		existing.UpdatedAt = time.Now().UTC()
		if err := s.questions.Save(ctx, existing); err != nil {
			return err
		}
		result.Updated++
		return nil

	case errors.Is(err, marketplace.ErrQuestionNotFound):
		now := time.Now().UTC()
		question := &marketplace.Question{
			ID:              marketplace.SyntheticQuestionID(tenantID, account.Platform, rq.ID),
			TenantID:        tenantID,
			AccountID:       account.ID,
			Text:            rq.Text,
			CustomerName:    rq.CustomerName,
			ProductName:     rq.ProductName,
			ProductImageURL: rq.ProductImageURL,
			Status:          marketplace.NormalizeQuestionStatus(rq.Status),
			RawPayload:      rq.Raw,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.questions.Insert(ctx, question); err != nil {
			if errors.Is(err, marketplace.ErrQuestionDuplicate) {
				// A concurrent sync got there first, the row exists.
				s.logger.Debug("question already ingested",
					zap.String("remote_id", rq.ID))
				return nil
			}
			return err
		}
		result.Saved++
		return nil

	default:
		return err
	}
}

// ---------------------------------------------------------------------------
// Answering
// ---------------------------------------------------------------------------

// AnswerQuestion submits an answer to the vendor and, only once the vendor
// accepted it, marks the local question answered. A vendor rejection leaves
// the question untouched.
func (s *Service) AnswerQuestion(ctx context.Context, tenantID uuid.UUID, req AnswerRequest) (*marketplace.Question, error) {
	account, err := s.accounts.FindByID(ctx, tenantID, req.AccountID)
	if err != nil {
		return nil, err
	}
	question, err := s.questions.FindByID(ctx, tenantID, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if question.AccountID != account.ID {
		return nil, marketplace.ErrQuestionNotFound
	}

	remoteID, err := question.RemoteID()
	if err != nil {
		return nil, err
	}

	if err := s.gateway.SubmitAnswer(ctx, account, remoteID, req.Text); err != nil {
		return nil, err
	}

	question.MarkAnswered(req.Text, time.Now().UTC())
	if err := s.questions.Save(ctx, question); err != nil {
		// The vendor already took the answer; the next sync reconciles the
		// missed local write.
		s.logger.Error("failed to persist answered question",
			zap.Int64("question_id", question.ID),
			zap.Error(err))
	}
	return question, nil
}

// ListQuestions returns the questions of one account, newest first,
// optionally filtered by status.
func (s *Service) ListQuestions(ctx context.Context, tenantID, accountID uuid.UUID, status *marketplace.QuestionStatus) ([]marketplace.Question, error) {
	if _, err := s.accounts.FindByID(ctx, tenantID, accountID); err != nil {
		return nil, err
	}
	return s.questions.FindByAccount(ctx, tenantID, accountID, status)
}
