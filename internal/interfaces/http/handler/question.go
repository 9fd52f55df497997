package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sellerdesk/backend/internal/application/qna"
	"github.com/sellerdesk/backend/internal/domain/marketplace"
)

// QuestionHandler handles customer Q&A endpoints
type QuestionHandler struct {
	BaseHandler
	qna *qna.Service
}

// NewQuestionHandler creates a new QuestionHandler
func NewQuestionHandler(qnaService *qna.Service) *QuestionHandler {
	return &QuestionHandler{qna: qnaService}
}

// RegisterRoutes registers question routes
func (h *QuestionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/accounts/:id/questions", h.ListByAccount)

	questions := rg.Group("/questions")
	{
		questions.POST("/sync", h.Sync)
		questions.POST("/:id/answer", h.Answer)
	}
}

// AnswerQuestionRequest submits an answer to one question
type AnswerQuestionRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
	Text      string `json:"text" binding:"required,min=1,max=2000"`
}

// QuestionResponse is the API shape of a customer question
type QuestionResponse struct {
	ID              int64      `json:"id"`
	AccountID       string     `json:"account_id"`
	Text            string     `json:"text"`
	CustomerName    string     `json:"customer_name"`
	ProductName     string     `json:"product_name"`
	ProductImageURL string     `json:"product_image_url,omitempty"`
	Status          string     `json:"status"`
	AnswerText      string     `json:"answer_text,omitempty"`
	AnsweredAt      *time.Time `json:"answered_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// SyncResultResponse summarizes one feed sync run
type SyncResultResponse struct {
	Saved    int      `json:"saved"`
	Updated  int      `json:"updated"`
	Warnings []string `json:"warnings,omitempty"`
}

func toQuestionResponse(q *marketplace.Question) QuestionResponse {
	return QuestionResponse{
		ID:              q.ID,
		AccountID:       q.AccountID.String(),
		Text:            q.Text,
		CustomerName:    q.CustomerName,
		ProductName:     q.ProductName,
		ProductImageURL: q.ProductImageURL,
		Status:          q.Status.String(),
		AnswerText:      q.AnswerText,
		AnsweredAt:      q.AnsweredAt,
		CreatedAt:       q.CreatedAt,
	}
}

// Sync pulls the vendor question feed for every Q&A-capable account
func (h *QuestionHandler) Sync(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	result, err := h.qna.SyncQuestions(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SyncResultResponse{
		Saved:    result.Saved,
		Updated:  result.Updated,
		Warnings: result.Warnings,
	})
}

// ListByAccount returns the questions of one account, optionally filtered by
// ?status=waiting|answered|rejected|reported.
func (h *QuestionHandler) ListByAccount(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	accountID, ok := h.pathID(c)
	if !ok {
		return
	}

	var status *marketplace.QuestionStatus
	if raw := c.Query("status"); raw != "" {
		s := marketplace.QuestionStatus(raw)
		if !s.IsValid() {
			h.BadRequest(c, "Invalid question status")
			return
		}
		status = &s
	}

	questions, err := h.qna.ListQuestions(c.Request.Context(), tenantID, accountID, status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, toQuestionResponse(&questions[i]))
	}
	h.Success(c, out)
}

// Answer submits an answer for one question. Questions use local int64 ids,
// not UUIDs.
func (h *QuestionHandler) Answer(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	questionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "Invalid question ID")
		return
	}

	var req AnswerQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	question, err := h.qna.AnswerQuestion(c.Request.Context(), tenantID, qna.AnswerRequest{
		QuestionID: questionID,
		AccountID:  accountID,
		Text:       req.Text,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toQuestionResponse(question))
}
