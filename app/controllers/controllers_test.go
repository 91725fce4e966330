package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allmart/storefront/app/models"
	"github.com/allmart/storefront/app/services"
	"github.com/allmart/storefront/internal/gateway"
	"github.com/allmart/storefront/pkg/router"
	"github.com/allmart/storefront/pkg/session"
)

// fakeCatalogGW implements the gateway surface the catalog service uses.
type fakeCatalogGW struct {
	products   []models.Product
	categories []models.Category
	created    []models.Category
	deleted    []string
	deleteErr  error
}

func (f *fakeCatalogGW) ListProducts(context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeCatalogGW) DeleteProduct(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCatalogGW) CreateProduct(_ context.Context, p models.Product) error {
	f.products = append(f.products, p)
	return nil
}

func (f *fakeCatalogGW) ListCategories(context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalogGW) CreateCategory(_ context.Context, c models.Category) error {
	f.created = append(f.created, c)
	return nil
}

func (f *fakeCatalogGW) DeleteCategory(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func seedProducts(n int) []models.Product {
	out := make([]models.Product, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Product{
			ID:   fmt.Sprintf("p%d", i),
			Name: fmt.Sprintf("Product %d", i),
		})
	}
	return out
}

func TestProductsIndex_PaginatesNewestFirst(t *testing.T) {
	gw := &fakeCatalogGW{products: seedProducts(31)}
	ctrl := NewProductsController(services.NewCatalogService(gw))

	r := router.New()
	r.Get("/api/admin/products", "admin.products.index", ctrl.Index)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/products?page=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var page services.Page[models.Product]
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &page))

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.PageCount)
	assert.Equal(t, 31, page.Total)
	require.Len(t, page.Items, 15)
	assert.Equal(t, "Product 31", page.Items[0].Name)
}

func TestProductsIndex_ClampsOutOfRangePage(t *testing.T) {
	gw := &fakeCatalogGW{products: seedProducts(31)}
	ctrl := NewProductsController(services.NewCatalogService(gw))

	r := router.New()
	r.Get("/api/admin/products", "admin.products.index", ctrl.Index)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/products?page=99", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var page services.Page[models.Product]
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &page))
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Items, 1)
}

func TestProductsDelete_OnlyReportsConfirmedSuccess(t *testing.T) {
	gw := &fakeCatalogGW{
		products:  seedProducts(3),
		deleteErr: &gateway.StatusError{Status: http.StatusInternalServerError, Body: "boom"},
	}
	ctrl := NewProductsController(services.NewCatalogService(gw))

	r := router.New()
	r.Delete("/api/admin/products/{id}", "admin.products.delete", ctrl.Delete)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/products/p2", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, gw.deleted)
}

func TestCategoriesCreate_PostsExactPayload(t *testing.T) {
	gw := &fakeCatalogGW{}
	ctrl := NewCategoriesController(services.NewCatalogService(gw))

	r := router.New()
	r.Post("/api/admin/categories", "admin.categories.create", ctrl.Create)

	body := `{"name":"Shoes","description":"Footwear","image":"https://img.example/shoes.png"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/categories", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, gw.created, 1)
	assert.Equal(t, models.Category{
		Name:        "Shoes",
		Description: "Footwear",
		Image:       "https://img.example/shoes.png",
	}, gw.created[0])
}

func TestCategoriesCreate_RejectsIncompleteForm(t *testing.T) {
	gw := &fakeCatalogGW{}
	ctrl := NewCategoriesController(services.NewCatalogService(gw))

	r := router.New()
	r.Post("/api/admin/categories", "admin.categories.create", ctrl.Create)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/categories", strings.NewReader(`{"name":"Shoes"}`))
	req.Header.Set("Content-Type", "application/json")
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Errors, &fields))
	assert.Contains(t, fields, "description")
	assert.Contains(t, fields, "image")
	assert.Empty(t, gw.created)
}

// fakeProfileGW returns a fully filled profile on patch so completion
// lands on exactly 100.
type fakeProfileGW struct {
	profile models.UserProfile
}

func (f *fakeProfileGW) GetUser(context.Context, string) (models.UserProfile, error) {
	return f.profile, nil
}

func (f *fakeProfileGW) PatchUser(context.Context, string, models.ProfilePatch) (models.UserProfile, error) {
	return f.profile, nil
}

func TestProfileUpdate_CelebratesOncePerSession(t *testing.T) {
	gw := &fakeProfileGW{profile: models.UserProfile{
		Name: "Asha", Email: "asha@example.com",
		Phone: "9", Address: "a", Zipcode: "z", Country: "c",
	}}
	ctrl := NewProfileController(services.NewProfileService(gw), nil)

	r := router.New()
	r.Use(session.Middleware(session.DefaultOptions()))
	r.Patch("/api/profile", "profile.update", ctrl.Update)

	patch := func(cookies []*http.Cookie) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/profile", strings.NewReader(`{"country":"c"}`))
		req.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		r.Handler().ServeHTTP(rec, req)
		return rec
	}

	first := patch(nil)
	require.Equal(t, http.StatusOK, first.Code)

	var view struct {
		Completion int  `json:"completion"`
		Celebrate  bool `json:"celebrate"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, first).Data, &view))
	assert.Equal(t, 100, view.Completion)
	assert.True(t, view.Celebrate, "first arrival at 100 celebrates")

	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies, "celebration flag must persist in the session")

	second := patch(cookies)
	require.Equal(t, http.StatusOK, second.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, second).Data, &view))
	assert.Equal(t, 100, view.Completion)
	assert.False(t, view.Celebrate, "repeat saves at 100 stay quiet")
}

func TestDraftAdvance_BlockedUntilStepOneComplete(t *testing.T) {
	gw := &fakeCatalogGW{categories: []models.Category{{Name: "Shoes"}}}
	catalog := services.NewCatalogService(gw)
	drafts := services.NewDraftService(catalog, catalog, nil, nil)
	ctrl := NewDraftController(drafts)

	r := router.New()
	r.Post("/api/admin/products/draft", "admin.draft.create", ctrl.Create)
	r.Post("/api/admin/products/draft/{id}/advance", "admin.draft.advance", ctrl.Advance)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/products/draft", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var draft services.ProductDraft
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &draft))
	require.NotEmpty(t, draft.ID)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/products/draft/"+draft.ID+"/advance", nil))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Errors, &fields))
	assert.Contains(t, fields, "images")
}
