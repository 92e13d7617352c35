package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"atelier_backend/internal/services"
	"atelier_backend/internal/services/dto"
	"atelier_backend/internal/validator"
	"atelier_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCustomizationService struct {
	savedItemID string
	savedReq    *dto.SaveCustomizationRequest
	saveErr     error
}

func (s *stubCustomizationService) Save(ctx context.Context, orderItemID string, req *dto.SaveCustomizationRequest) (*dto.CustomizationResponse, error) {
	s.savedItemID = orderItemID
	s.savedReq = req
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	return &dto.CustomizationResponse{ID: "cust-1", OrderItemID: orderItemID}, nil
}

func (s *stubCustomizationService) ListByOrder(ctx context.Context, orderID string) ([]dto.CustomizationResponse, error) {
	return []dto.CustomizationResponse{{ID: "cust-1"}}, nil
}

type stubOrderService struct {
	result *dto.OrderResponse
	err    error
}

func (s *stubOrderService) GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	return s.result, s.err
}

type stubFinalizeService struct {
	result *dto.FinalizeResult
	err    error
}

func (s *stubFinalizeService) FinalizeOrder(ctx context.Context, orderID string) (*dto.FinalizeResult, error) {
	return s.result, s.err
}

type stubCheckoutService struct {
	result *dto.CheckoutValidationResult
}

func (s *stubCheckoutService) ValidateCheckout(ctx context.Context, orderID string) (*dto.CheckoutValidationResult, error) {
	return s.result, nil
}

type stubCleanupService struct {
	result *dto.CleanupResult
}

func (s *stubCleanupService) SweepOrder(ctx context.Context, orderID string) (*dto.CleanupResult, error) {
	return s.result, nil
}

func newTestRouter(custom services.CustomizationService, finalize services.FinalizeService, checkout services.CheckoutService, cleanup services.CleanupService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	base := NewBaseHandler(validator.New())
	api := engine.Group("/api/v1")
	if custom != nil {
		NewCustomizationHandler(base, custom).RegisterRoutes(api)
	}
	if finalize != nil || checkout != nil || cleanup != nil {
		NewOrderHandler(base, &stubOrderService{result: &dto.OrderResponse{}}, finalize, checkout, cleanup).RegisterRoutes(api)
	}
	return engine
}

func TestSaveCustomizationEndpoint(t *testing.T) {
	stub := &stubCustomizationService{}
	router := newTestRouter(stub, nil, nil, nil)

	body := `{"rule_id": "rule-1", "customization_type": "TEXT", "data": {"text": "hi"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/order-items/item-1/customizations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "item-1", stub.savedItemID)
	require.NotNil(t, stub.savedReq)
	assert.Equal(t, "rule-1", stub.savedReq.RuleID)
	assert.Equal(t, "hi", stub.savedReq.Data["text"])
}

func TestSaveCustomizationRejectsMissingType(t *testing.T) {
	stub := &stubCustomizationService{}
	router := newTestRouter(stub, nil, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/order-items/item-1/customizations", strings.NewReader(`{"rule_id": "rule-1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, stub.savedReq)
}

func TestSaveCustomizationNotFoundStatus(t *testing.T) {
	stub := &stubCustomizationService{
		saveErr: apperrors.NewNotFoundError("customization", "order item", "item-x"),
	}
	router := newTestRouter(stub, nil, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/order-items/item-x/customizations",
		strings.NewReader(`{"customization_type": "TEXT"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	base := NewBaseHandler(validator.New())
	orders := &stubOrderService{result: &dto.OrderResponse{
		ID:     "order-1",
		Status: "draft",
		Items: []dto.OrderItemResponse{
			{ID: "item-1", ProductName: "Memory Box", Quantity: 1,
				Customizations: []dto.CustomizationResponse{{ID: "cust-1"}}},
		},
	}}
	NewOrderHandler(base, orders, &stubFinalizeService{result: &dto.FinalizeResult{}},
		&stubCheckoutService{result: &dto.CheckoutValidationResult{}},
		&stubCleanupService{result: &dto.CleanupResult{}}).RegisterRoutes(engine.Group("/api/v1"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/order-1", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var res dto.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "order-1", res.ID)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Memory Box", res.Items[0].ProductName)
	require.Len(t, res.Items[0].Customizations, 1)
}

func TestFinalizeEndpoint(t *testing.T) {
	router := newTestRouter(nil, &stubFinalizeService{
		result: &dto.FinalizeResult{Status: dto.FinalizeStatusFinalized, FolderID: "order_1", UploadedCount: 3},
	}, &stubCheckoutService{result: &dto.CheckoutValidationResult{Valid: true}},
		&stubCleanupService{result: &dto.CleanupResult{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/order-1/finalize", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var res dto.FinalizeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, dto.FinalizeStatusFinalized, res.Status)
	assert.Equal(t, 3, res.UploadedCount)
}

func TestValidateCheckoutEndpoint(t *testing.T) {
	router := newTestRouter(nil, &stubFinalizeService{result: &dto.FinalizeResult{}},
		&stubCheckoutService{result: &dto.CheckoutValidationResult{
			Valid: false,
			MissingRequired: []dto.ValidationIssue{
				{OrderItemID: "item-1", RuleID: "rule-1", RuleName: "Frame Color", Reason: "no valid customization for required rule"},
			},
		}},
		&stubCleanupService{result: &dto.CleanupResult{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/order-1/checkout/validate", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var res dto.CheckoutValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Valid)
	require.Len(t, res.MissingRequired, 1)
	assert.Equal(t, "Frame Color", res.MissingRequired[0].RuleName)
}

func TestCleanupEndpoint(t *testing.T) {
	router := newTestRouter(nil, &stubFinalizeService{result: &dto.FinalizeResult{}},
		&stubCheckoutService{result: &dto.CheckoutValidationResult{}},
		&stubCleanupService{result: &dto.CleanupResult{RemovedCustomizations: 2, OrderDeleted: true}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/order-1/cleanup", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var res dto.CleanupResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.RemovedCustomizations)
	assert.True(t, res.OrderDeleted)
}
