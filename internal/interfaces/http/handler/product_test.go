package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/sellerdesk/backend/internal/interfaces/http/dto"
	"github.com/sellerdesk/backend/internal/interfaces/http/middleware"
)

type memProductRepo struct {
	rows map[uuid.UUID]catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{rows: make(map[uuid.UUID]catalog.Product)}
}

func (r *memProductRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.rows[id]
	if !ok || p.TenantID != tenantID {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func (r *memProductRepo) FindByBarcode(_ context.Context, tenantID uuid.UUID, barcode string) (*catalog.Product, error) {
	for _, p := range r.rows {
		if p.TenantID == tenantID && p.Barcode == barcode {
			out := p
			return &out, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

func (r *memProductRepo) FindAll(_ context.Context, tenantID uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.rows {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) ExistsByBarcode(_ context.Context, tenantID uuid.UUID, barcode string) (bool, error) {
	_, err := r.FindByBarcode(context.Background(), tenantID, barcode)
	return err == nil, nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.rows[product.ID] = *product
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	p, ok := r.rows[id]
	if !ok || p.TenantID != tenantID {
		return catalog.ErrProductNotFound
	}
	delete(r.rows, id)
	return nil
}

// testTenant injects an authenticated tenant the way the JWT middleware does
func testTenant(tenantID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, tenantID.String())
		c.Next()
	}
}

func setupProductRouter(t *testing.T, repo *memProductRepo, tenantID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID(), testTenant(tenantID))
	api := engine.Group("/api/v1")
	NewProductHandler(repo).RegisterRoutes(api)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestProductHandler_Create(t *testing.T) {
	tenantID := uuid.New()
	repo := newMemProductRepo()
	engine := setupProductRouter(t, repo, tenantID)

	t.Run("creates a product with prices and stock", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/products", CreateProductRequest{
			Name:    "Wireless Headset",
			Code:    "wh-01",
			Barcode: "8691234567890",
			Price:   "149.90",
			Stock:   25,
		})

		require.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]any)
		assert.Equal(t, "Wireless Headset", data["name"])
		assert.Equal(t, "WH-01", data["code"], "SKU codes are uppercased")
		assert.Equal(t, "149.9", data["price"])
		assert.Equal(t, float64(25), data["stock"])
	})

	t.Run("duplicate barcode conflicts", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/products", CreateProductRequest{
			Name:    "Another Headset",
			Barcode: "8691234567890",
		})

		require.Equal(t, http.StatusConflict, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)
	})

	t.Run("missing barcode is rejected by binding", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/products", CreateProductRequest{
			Name: "No Barcode",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid price format is rejected", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/products", CreateProductRequest{
			Name:    "Bad Price",
			Barcode: "8699999999999",
			Price:   "abc",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductHandler_GetAndDelete(t *testing.T) {
	tenantID := uuid.New()
	repo := newMemProductRepo()
	engine := setupProductRouter(t, repo, tenantID)

	product, err := catalog.NewProduct(tenantID, "Kettle", "KT-1", "8690001112223")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), product))

	t.Run("get returns the product", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/products/"+product.ID.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Kettle", resp.Data.(map[string]any)["name"])
	})

	t.Run("unknown id is 404 with NOT_FOUND", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)

		require.Equal(t, http.StatusNotFound, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/products/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete removes the product", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodDelete, "/api/v1/products/"+product.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, repo.rows)
	})
}

func TestProductHandler_TenantIsolation(t *testing.T) {
	ownerTenant := uuid.New()
	repo := newMemProductRepo()

	product, err := catalog.NewProduct(ownerTenant, "Kettle", "KT-1", "8690001112223")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), product))

	// Same router, different authenticated tenant.
	engine := setupProductRouter(t, repo, uuid.New())

	w := doJSON(t, engine, http.MethodGet, "/api/v1/products/"+product.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "other tenants' products are invisible")
}
