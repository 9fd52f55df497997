package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/sellerdesk/backend/internal/application/matching"
)

// MatchingHandler handles marketplace export file imports
type MatchingHandler struct {
	BaseHandler
	matching *matching.Service
}

// NewMatchingHandler creates a new MatchingHandler
func NewMatchingHandler(matchingService *matching.Service) *MatchingHandler {
	return &MatchingHandler{matching: matchingService}
}

// RegisterRoutes registers import routes
func (h *MatchingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/imports/listings", h.ImportListings)
}

// ImportListingsForm is the multipart form accompanying the uploaded file.
// marketplace selects the target account (store name or platform hint);
// platform optionally picks the column layout when it differs.
type ImportListingsForm struct {
	Marketplace string `form:"marketplace" binding:"required,min=1,max=200"`
	Platform    string `form:"platform" binding:"omitempty,platformcode"`
}

// ImportResultResponse summarizes one import run
type ImportResultResponse struct {
	Matched  int      `json:"matched"`
	Skipped  int      `json:"skipped"`
	NotFound int      `json:"not_found"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportListings parses an uploaded vendor export and links its rows to the
// catalog by barcode.
func (h *MatchingHandler) ImportListings(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var form ImportListingsForm
	if err := c.ShouldBind(&form); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A spreadsheet file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}

	platformHint := form.Platform
	if platformHint == "" {
		platformHint = form.Marketplace
	}
	rows, err := h.matching.ParseExport(fileBytes, platformHint)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.matching.BulkMatch(c.Request.Context(), tenantID, rows, form.Marketplace)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ImportResultResponse{
		Matched:  result.Matched,
		Skipped:  result.Skipped,
		NotFound: result.NotFound,
		Errors:   result.Errors,
	})
}
