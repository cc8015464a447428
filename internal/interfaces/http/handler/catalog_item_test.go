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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appcatalog "github.com/techrefresher/backend/internal/application/catalog"
	"github.com/techrefresher/backend/internal/domain/catalog"
	"github.com/techrefresher/backend/internal/domain/shared"
	"github.com/techrefresher/backend/internal/infrastructure/auth"
	"github.com/techrefresher/backend/internal/interfaces/http/dto"
	"github.com/techrefresher/backend/internal/interfaces/http/middleware"
	"github.com/techrefresher/backend/internal/interfaces/http/router"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, groupID, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, groupID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, groupID uuid.UUID, ids []uuid.UUID) ([]catalog.Item, error) {
	args := m.Called(ctx, groupID, ids)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, groupID uuid.UUID, filter shared.Filter) ([]catalog.Item, error) {
	args := m.Called(ctx, groupID, filter)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindByCategory(ctx context.Context, groupID uuid.UUID, category catalog.Category, filter shared.Filter) ([]catalog.Item, error) {
	args := m.Called(ctx, groupID, category, filter)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) SaveWithLock(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, groupID, id uuid.UUID) error {
	args := m.Called(ctx, groupID, id)
	return args.Error(0)
}

func (m *MockItemRepository) Count(ctx context.Context, groupID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, groupID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// catalogTestEnv wires a real service over a mock repo behind the JWT
// middleware so requests travel the full stack.
type catalogTestEnv struct {
	router  *router.Router
	token   string
	groupID uuid.UUID
}

func newCatalogTestEnv(t *testing.T, itemRepo catalog.ItemRepository) catalogTestEnv {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

	jwtService := newTestJWTService()
	groupID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		GroupID:  groupID,
		UserID:   uuid.New(),
		Username: "refurbisher",
	})
	require.NoError(t, err)

	r := router.New(
		router.WithMiddleware(middleware.JWTAuth(jwtService)),
		router.WithRegistrar(NewCatalogItemHandler(appcatalog.NewItemService(itemRepo))),
	)
	return catalogTestEnv{router: r, token: pair.AccessToken, groupID: groupID}
}

func (e catalogTestEnv) do(method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.router.Engine().ServeHTTP(rec, req)
	return rec
}

func TestCatalogItemHandler_Create(t *testing.T) {
	itemRepo := new(MockItemRepository)
	itemRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	env := newCatalogTestEnv(t, itemRepo)

	rec := env.do(http.MethodPost, "/api/v1/catalog-items", gin.H{
		"category": "PART",
		"name":     "iPhone 12 Screen",
		"brand":    "Apple",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "iPhone 12 Screen")
	itemRepo.AssertExpectations(t)
}

func TestCatalogItemHandler_CreateInvalidCategory(t *testing.T) {
	env := newCatalogTestEnv(t, new(MockItemRepository))

	rec := env.do(http.MethodPost, "/api/v1/catalog-items", gin.H{
		"category": "GADGET",
		"name":     "Widget",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestCatalogItemHandler_GetNotFound(t *testing.T) {
	itemRepo := new(MockItemRepository)
	itemRepo.On("FindByID", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, shared.ErrNotFound)

	env := newCatalogTestEnv(t, itemRepo)

	rec := env.do(http.MethodGet, "/api/v1/catalog-items/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogItemHandler_ListWithMeta(t *testing.T) {
	groupID := uuid.New()
	item, err := catalog.NewItem(groupID, catalog.CategoryPart, "iPhone 12 Screen", "Apple", "iPhone 12", "Black", "")
	require.NoError(t, err)

	itemRepo := new(MockItemRepository)
	itemRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything).
		Return([]catalog.Item{*item}, nil)
	itemRepo.On("Count", mock.Anything, mock.Anything, mock.Anything).
		Return(int64(41), nil)

	env := newCatalogTestEnv(t, itemRepo)

	rec := env.do(http.MethodGet, "/api/v1/catalog-items?page=2&page_size=20", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestCatalogItemHandler_DeleteWithStock(t *testing.T) {
	groupID := uuid.New()
	item, err := catalog.NewItem(groupID, catalog.CategoryPart, "iPhone 12 Screen", "Apple", "iPhone 12", "Black", "")
	require.NoError(t, err)
	require.NoError(t, item.IncrementStock(3))

	itemRepo := new(MockItemRepository)
	itemRepo.On("FindByID", mock.Anything, mock.Anything, item.ID).Return(item, nil)

	env := newCatalogTestEnv(t, itemRepo)

	rec := env.do(http.MethodDelete, "/api/v1/catalog-items/"+item.ID.String(), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_STATE")
	itemRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
