package marketplace

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// QuestionStatus
// ---------------------------------------------------------------------------

// QuestionStatus represents the lifecycle state of a customer question
type QuestionStatus string

const (
	// QuestionStatusWaiting indicates the question awaits an answer
	QuestionStatusWaiting QuestionStatus = "waiting"
	// QuestionStatusAnswered indicates the question has been answered
	QuestionStatusAnswered QuestionStatus = "answered"
	// QuestionStatusRejected indicates the vendor rejected the question
	QuestionStatusRejected QuestionStatus = "rejected"
	// QuestionStatusReported indicates the question was reported
	QuestionStatusReported QuestionStatus = "reported"
)

// IsValid returns true if the status is valid
func (s QuestionStatus) IsValid() bool {
	switch s {
	case QuestionStatusWaiting, QuestionStatusAnswered, QuestionStatusRejected, QuestionStatusReported:
		return true
	default:
		return false
	}
}

// String returns the string representation of QuestionStatus
func (s QuestionStatus) String() string {
	return string(s)
}

// NormalizeQuestionStatus maps vendor and legacy localized status labels onto
// the canonical enum. Rows ingested by earlier imports carry Turkish labels.
func NormalizeQuestionStatus(raw string) QuestionStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "waiting", "waiting_for_answer", "bekliyor", "cevap bekliyor":
		return QuestionStatusWaiting
	case "answered", "cevaplandı", "cevaplandi":
		return QuestionStatusAnswered
	case "rejected", "reddedildi":
		return QuestionStatusRejected
	case "reported", "raporlandı", "raporlandi", "rapor edildi":
		return QuestionStatusReported
	default:
		return QuestionStatusWaiting
	}
}

// ---------------------------------------------------------------------------
// Question Entity
// ---------------------------------------------------------------------------

// Question is a customer question pulled from a marketplace. The vendor's own
// question id is not stored as a column: it may exceed safe local integer
// precision, so it lives inside the retained raw payload and deduplication
// happens by looking it up there.
type Question struct {
	// ID is the locally synthesized identifier
	ID int64
	// TenantID is the tenant this question belongs to
	TenantID uuid.UUID
	// AccountID is the marketplace account the question arrived on
	AccountID uuid.UUID
	// Text is the question text
	Text string
	// CustomerName is the asking customer's display name
	CustomerName string
	// ProductName is the name of the product the question concerns
	ProductName string
	// ProductImageURL is the product image shown next to the question
	ProductImageURL string
	// Status is the lifecycle state
	Status QuestionStatus
	// AnswerText is the seller's answer, set when Status is answered
	AnswerText string
	// AnsweredAt is when the answer was accepted by the vendor
	AnsweredAt *time.Time
	// RawPayload is the verbatim vendor JSON for this question
	RawPayload string
	// CreatedAt is when this row was ingested
	CreatedAt time.Time
	// UpdatedAt is when this row was last updated
	UpdatedAt time.Time
}

// RemoteID recovers the vendor question id from the stored raw payload.
// Returns ErrQuestionRemoteIDMissing for ingested-but-malformed rows.
func (q *Question) RemoteID() (string, error) {
	return RemoteQuestionID(q.RawPayload)
}

// MarkAnswered transitions the question to answered. Callers must only do
// this after the vendor confirmed the answer; local state never moves to
// answered without a vendor echo.
func (q *Question) MarkAnswered(answerText string, at time.Time) {
	q.Status = QuestionStatusAnswered
	q.AnswerText = answerText
	q.AnsweredAt = &at
	q.UpdatedAt = at
}

// RemoteQuestionID extracts the vendor question id embedded in a raw payload.
// The vendor sends the id as a JSON number that can exceed int64-safe float
// precision, so it is decoded with UseNumber and kept as a string.
func RemoteQuestionID(rawPayload string) (string, error) {
	if strings.TrimSpace(rawPayload) == "" {
		return "", ErrQuestionRemoteIDMissing
	}

	dec := json.NewDecoder(strings.NewReader(rawPayload))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return "", ErrQuestionRemoteIDMissing
	}

	switch v := payload["id"].(type) {
	case json.Number:
		return v.String(), nil
	case string:
		if strings.TrimSpace(v) != "" {
			return v, nil
		}
	}
	return "", ErrQuestionRemoteIDMissing
}

// maxSafeQuestionID caps synthetic ids at 2^53-1 so they survive systems that
// round-trip ids through IEEE 754 doubles.
const maxSafeQuestionID = int64(1)<<53 - 1

// SyntheticQuestionID derives the stable local id for an externally sourced
// question from (tenant, platform, remote id). Deterministic derivation makes
// re-ingestion idempotent without collision-retry loops.
func SyntheticQuestionID(tenantID uuid.UUID, platform PlatformCode, remoteID string) int64 {
	h := fnv.New64a()
	h.Write(tenantID[:])
	h.Write([]byte(platform))
	h.Write([]byte(remoteID))

	id := int64(h.Sum64()) & maxSafeQuestionID
	if id == 0 {
		id = 1
	}
	return id
}

// ---------------------------------------------------------------------------
// QuestionRepository Interface
// ---------------------------------------------------------------------------

// QuestionRepository defines the persistence interface for questions
type QuestionRepository interface {
	// FindByID finds a question by its local id within a tenant
	FindByID(ctx context.Context, tenantID uuid.UUID, id int64) (*Question, error)

	// FindByRemoteID finds a question by the vendor id embedded in its
	// stored raw payload. This is the deduplication lookup: a JSON-path
	// query against the payload, not a foreign key.
	FindByRemoteID(ctx context.Context, tenantID uuid.UUID, remoteID string) (*Question, error)

	// FindByAccount returns the questions of one marketplace account
	FindByAccount(ctx context.Context, tenantID uuid.UUID, accountID uuid.UUID, status *QuestionStatus) ([]Question, error)

	// Insert creates a new question row. A primary-key collision returns
	// ErrQuestionDuplicate so concurrent syncs of the same feed can treat
	// the row as already ingested.
	Insert(ctx context.Context, question *Question) error

	// Save updates an existing question row
	Save(ctx context.Context, question *Question) error
}
