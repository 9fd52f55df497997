package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
)

// AccountHandler handles marketplace account endpoints
type AccountHandler struct {
	BaseHandler
	accounts marketplace.AccountRepository
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts marketplace.AccountRepository) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// RegisterRoutes registers account routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.Connect)
		accounts.GET("", h.List)
		accounts.GET("/:id", h.Get)
		accounts.DELETE("/:id", h.Delete)
	}
}

// ConnectAccountRequest connects an external seller account
type ConnectAccountRequest struct {
	Platform  string `json:"platform" binding:"required,platformcode"`
	StoreName string `json:"store_name" binding:"required,min=1,max=200"`

	APIKey     string `json:"api_key" binding:"omitempty,max=500"`
	APISecret  string `json:"api_secret" binding:"omitempty,max=500"`
	SupplierID string `json:"supplier_id" binding:"omitempty,max=100"`
	BaseURL    string `json:"base_url" binding:"omitempty,url,max=500"`
}

// AccountResponse is the API shape of a marketplace account. Credentials are
// write-only: they never appear in responses.
type AccountResponse struct {
	ID                 string `json:"id"`
	Platform           string `json:"platform"`
	StoreName          string `json:"store_name"`
	CredentialsPresent bool   `json:"credentials_present"`
}

func toAccountResponse(a *marketplace.Account) AccountResponse {
	return AccountResponse{
		ID:                 a.ID.String(),
		Platform:           a.Platform.String(),
		StoreName:          a.StoreName,
		CredentialsPresent: a.HasCompleteCredentials(),
	}
}

// Connect connects a new marketplace account
func (h *AccountHandler) Connect(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req ConnectAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	platform, _ := marketplace.ParsePlatformCode(req.Platform)
	account, err := marketplace.NewAccount(tenantID, platform, req.StoreName, marketplace.Credentials{
		APIKey:     req.APIKey,
		APISecret:  req.APISecret,
		SupplierID: req.SupplierID,
		BaseURL:    req.BaseURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.accounts.Save(c.Request.Context(), account); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toAccountResponse(account))
}

// List returns every connected account of the tenant
func (h *AccountHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	accounts, err := h.accounts.FindAll(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountResponse(&accounts[i]))
	}
	h.Success(c, out)
}

// Get returns one account by id
func (h *AccountHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	account, err := h.accounts.FindByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAccountResponse(account))
}

// Delete disconnects an account. Its listings go with it; the repository
// deletes both in one transaction.
func (h *AccountHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
