package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/nagarseva/kiosk/internal/pkg/apperrors"
	"github.com/nagarseva/kiosk/internal/pkg/models"
	"github.com/nagarseva/kiosk/services/payment/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPaymentHandlerTest(t *testing.T) (*PaymentHandler, *mocks.MockPaymentUC) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockPaymentUC := mocks.NewMockPaymentUC(ctrl)
	return NewPaymentHandler(mockPaymentUC), mockPaymentUC
}

func newContext(t *testing.T, method, target string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var reader *bytes.Buffer
	if body != nil {
		reqBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(reqBody)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	e := echo.New()
	request := httptest.NewRequest(method, target, reader)
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	recorder := httptest.NewRecorder()

	return recorder, e.NewContext(request, recorder)
}

func TestPaymentHandler_CreateOrder_Success(t *testing.T) {
	// Arrange
	handler, mockPaymentUC := setupPaymentHandlerTest(t)

	mockPaymentUC.EXPECT().
		CreateOrder(gomock.Any(), "user-1", gomock.Any()).
		DoAndReturn(func(ctx interface{}, userID string, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
			assert.Equal(t, 450.50, req.Amount)
			assert.Equal(t, "Ramesh Kumar", req.CustomerName)
			return &models.CreateOrderResponse{
				OrderID:          "ORD123",
				GatewaySessionID: "sess-123",
				Status:           models.OrderStatusSessionIssued,
			}, nil
		})

	recorder, c := newContext(t, http.MethodPost, "/payments", map[string]interface{}{
		"amount":         450.50,
		"customer_name":  "Ramesh Kumar",
		"customer_phone": "9876543210",
	})
	c.Set("principal_id", "user-1")

	// Act
	err := handler.CreateOrder(c)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, recorder.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "ORD123", data["order_id"])
	assert.Equal(t, "sess-123", data["gateway_session_id"])
}

func TestPaymentHandler_CreateOrder_Unauthenticated(t *testing.T) {
	handler, _ := setupPaymentHandlerTest(t)

	recorder, c := newContext(t, http.MethodPost, "/payments", map[string]interface{}{
		"amount": 450.50,
	})

	err := handler.CreateOrder(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestPaymentHandler_CreateOrder_Validation(t *testing.T) {
	handler, mockPaymentUC := setupPaymentHandlerTest(t)

	mockPaymentUC.EXPECT().
		CreateOrder(gomock.Any(), "user-1", gomock.Any()).
		Return(nil, apperrors.NewValidationError(
			"amount must be a positive finite number",
			"customer_name is required",
		))

	recorder, c := newContext(t, http.MethodPost, "/payments", map[string]interface{}{"amount": -1})
	c.Set("principal_id", "user-1")

	err := handler.CreateOrder(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "amount must be a positive finite number")
	assert.Contains(t, recorder.Body.String(), "customer_name is required")
}

func TestPaymentHandler_CreateOrder_GatewayDown(t *testing.T) {
	handler, mockPaymentUC := setupPaymentHandlerTest(t)

	mockPaymentUC.EXPECT().
		CreateOrder(gomock.Any(), "user-1", gomock.Any()).
		Return(nil, apperrors.NewDependencyError("payment gateway", errors.New("timeout")))

	recorder, c := newContext(t, http.MethodPost, "/payments", map[string]interface{}{"amount": 450.50})
	c.Set("principal_id", "user-1")

	err := handler.CreateOrder(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestPaymentHandler_Webhook_AlwaysAcks(t *testing.T) {
	tests := []struct {
		name    string
		handles error
	}{
		{name: "processing succeeds", handles: nil},
		{name: "processing fails", handles: errors.New("order store down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			handler, mockPaymentUC := setupPaymentHandlerTest(t)

			payload := `{"order_id":"ORD1","status":"SUCCESS"}`
			mockPaymentUC.EXPECT().
				HandleWebhook(gomock.Any(), []byte(payload)).
				Return(tt.handles)

			e := echo.New()
			request := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(payload))
			recorder := httptest.NewRecorder()
			c := e.NewContext(request, recorder)

			// Act
			err := handler.Webhook(c)

			// Assert: the gateway gets a success ack either way so it does
			// not retry forever
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, recorder.Code)

			var response map[string]bool
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
			assert.True(t, response["success"])
		})
	}
}

func TestPaymentHandler_VerifyPayment_Success(t *testing.T) {
	// Arrange
	handler, mockPaymentUC := setupPaymentHandlerTest(t)

	mockPaymentUC.EXPECT().
		VerifyPayment(gomock.Any(), "ORD123").
		Return(&models.PaymentOrder{OrderID: "ORD123", Status: models.OrderStatusSuccess}, nil)

	recorder, c := newContext(t, http.MethodGet, "/payments/ORD123/verify", nil)
	c.SetParamNames("order_id")
	c.SetParamValues("ORD123")

	// Act
	err := handler.VerifyPayment(c)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, string(models.OrderStatusSuccess), data["status"])
}

func TestPaymentHandler_VerifyPayment_UnknownOrder(t *testing.T) {
	handler, mockPaymentUC := setupPaymentHandlerTest(t)

	mockPaymentUC.EXPECT().
		VerifyPayment(gomock.Any(), "ORD404").
		Return(nil, apperrors.ErrNotFound)

	recorder, c := newContext(t, http.MethodGet, "/payments/ORD404/verify", nil)
	c.SetParamNames("order_id")
	c.SetParamValues("ORD404")

	err := handler.VerifyPayment(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Order not found")
}

func TestPaymentHandler_VerifyPayment_Conflict(t *testing.T) {
	handler, mockPaymentUC := setupPaymentHandlerTest(t)

	mockPaymentUC.EXPECT().
		VerifyPayment(gomock.Any(), "ORD123").
		Return(nil, &apperrors.ConflictError{
			OrderID: "ORD123",
			Stored:  string(models.OrderStatusSuccess),
			Applied: string(models.OrderStatusFailed),
		})

	recorder, c := newContext(t, http.MethodGet, "/payments/ORD123/verify", nil)
	c.SetParamNames("order_id")
	c.SetParamValues("ORD123")

	err := handler.VerifyPayment(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestPaymentHandler_GetOrderHistory(t *testing.T) {
	// Arrange
	handler, mockPaymentUC := setupPaymentHandlerTest(t)

	orders := []models.PaymentOrder{
		{OrderID: "ORD2", UserID: "user-1", Status: models.OrderStatusSuccess},
		{OrderID: "ORD1", UserID: "user-1", Status: models.OrderStatusFailed},
	}
	mockPaymentUC.EXPECT().
		GetOrderHistory(gomock.Any(), "user-1").
		Return(orders, nil)

	recorder, c := newContext(t, http.MethodGet, "/payments/history", nil)
	c.Set("principal_id", "user-1")

	// Act
	err := handler.GetOrderHistory(c)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	data := response["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestPaymentHandler_GetOrderHistory_Unauthenticated(t *testing.T) {
	handler, _ := setupPaymentHandlerTest(t)

	recorder, c := newContext(t, http.MethodGet, "/payments/history", nil)

	err := handler.GetOrderHistory(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
