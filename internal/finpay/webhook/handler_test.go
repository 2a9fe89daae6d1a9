package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"finpay-bridge/internal/config"
	"finpay-bridge/internal/finpay"
	"finpay-bridge/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID uint) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) MarkPending(ctx context.Context, orderID uint, note string) error {
	return m.Called(ctx, orderID, note).Error(0)
}

func (m *MockOrderService) MarkFailed(ctx context.Context, orderID uint, reason string) error {
	return m.Called(ctx, orderID, reason).Error(0)
}

func (m *MockOrderService) PaymentComplete(ctx context.Context, orderID uint) error {
	return m.Called(ctx, orderID).Error(0)
}

const testSecret = "merchant-secret"

func testConfig() *config.Config {
	return &config.Config{
		FinpayEnv:             config.EnvSandbox,
		MerchantIDSandbox:     "merchant-1",
		MerchantSecretSandbox: testSecret,
		ShopBaseURL:           "https://shop.example",
	}
}

// notificationBody builds a webhook body for the given outcome, signed with
// the given secret.
func notificationBody(t *testing.T, orderID uint, status, sofType, secret string) []byte {
	t.Helper()

	payload := map[string]interface{}{
		"order": map[string]interface{}{"id": orderID},
		"result": map[string]interface{}{
			"payment": map[string]interface{}{"status": status},
		},
		"sourceOfFunds": map[string]interface{}{"type": sofType},
	}

	canonical, err := json.Marshal(payload)
	assert.NoError(t, err)
	payload["signature"] = finpay.Sign(canonical, secret)

	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	return body
}

func postNotification(h *Handler, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/webhook/finpay", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	h.HandleNotification(w, req)
	return w
}

func pendingOrder(id uint) *order.Order {
	return &order.Order{ID: id, UserID: 3, Total: 150000, Status: order.StatusPending}
}

func TestHandler_Notification(t *testing.T) {
	t.Run("Paid", func(t *testing.T) {
		orders := new(MockOrderService)
		h := NewHandler(testConfig(), orders)

		orders.On("GetOrder", mock.Anything, uint(77)).Return(pendingOrder(77), nil)
		orders.On("PaymentComplete", mock.Anything, uint(77)).Return(nil)

		w := postNotification(h, notificationBody(t, 77, "PAID", "va", testSecret))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "00", w.Body.String())
		orders.AssertExpectations(t)
	})

	t.Run("CapturedCreditCard", func(t *testing.T) {
		orders := new(MockOrderService)
		h := NewHandler(testConfig(), orders)

		orders.On("GetOrder", mock.Anything, uint(77)).Return(pendingOrder(77), nil)
		orders.On("PaymentComplete", mock.Anything, uint(77)).Return(nil)

		w := postNotification(h, notificationBody(t, 77, "CAPTURED", "cc", testSecret))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "00", w.Body.String())
		orders.AssertExpectations(t)
	})

	t.Run("CapturedNonCardFails", func(t *testing.T) {
		orders := new(MockOrderService)
		h := NewHandler(testConfig(), orders)

		orders.On("GetOrder", mock.Anything, uint(77)).Return(pendingOrder(77), nil)
		orders.On("MarkFailed", mock.Anything, uint(77), "CAPTURED").Return(nil)

		w := postNotification(h, notificationBody(t, 77, "CAPTURED", "va", testSecret))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "-1", w.Body.String())
		orders.AssertNotCalled(t, "PaymentComplete", mock.Anything, mock.Anything)
		orders.AssertExpectations(t)
	})

	t.Run("Declined", func(t *testing.T) {
		orders := new(MockOrderService)
		h := NewHandler(testConfig(), orders)

		orders.On("GetOrder", mock.Anything, uint(77)).Return(pendingOrder(77), nil)
		orders.On("MarkFailed", mock.Anything, uint(77), "DECLINED").Return(nil)

		w := postNotification(h, notificationBody(t, 77, "DECLINED", "cc", testSecret))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "-1", w.Body.String())
		orders.AssertExpectations(t)
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		orders := new(MockOrderService)
		h := NewHandler(testConfig(), orders)

		orders.On("GetOrder", mock.Anything, uint(77)).Return(pendingOrder(77), nil)

		w := postNotification(h, notificationBody(t, 77, "PAID", "va", "wrong-secret"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "-1", w.Body.String())
		orders.AssertNotCalled(t, "PaymentComplete", mock.Anything, mock.Anything)
		orders.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownOrder", func(t *testing.T) {
		orders := new(MockOrderService)
		h := NewHandler(testConfig(), orders)

		orders.On("GetOrder", mock.Anything, uint(404)).Return(nil, order.ErrOrderNotFound)

		// Order lookup wins over signature validity.
		w := postNotification(h, notificationBody(t, 404, "PAID", "va", "wrong-secret"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Not found!", w.Body.String())
		orders.AssertNotCalled(t, "PaymentComplete", mock.Anything, mock.Anything)
	})

	t.Run("DuplicateDeliveryIsNoOp", func(t *testing.T) {
		orders := new(MockOrderService)
		h := NewHandler(testConfig(), orders)

		done := &order.Order{ID: 77, Status: order.StatusComplete}
		orders.On("GetOrder", mock.Anything, uint(77)).Return(done, nil)

		w := postNotification(h, notificationBody(t, 77, "PAID", "va", testSecret))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "00", w.Body.String())
		orders.AssertNotCalled(t, "PaymentComplete", mock.Anything, mock.Anything)
		orders.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ConflictingDeliveryLeavesTerminalState", func(t *testing.T) {
		orders := new(MockOrderService)
		h := NewHandler(testConfig(), orders)

		done := &order.Order{ID: 77, Status: order.StatusComplete}
		orders.On("GetOrder", mock.Anything, uint(77)).Return(done, nil)

		w := postNotification(h, notificationBody(t, 77, "DECLINED", "va", testSecret))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "00", w.Body.String())
		orders.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		orders := new(MockOrderService)
		h := NewHandler(testConfig(), orders)

		w := postNotification(h, []byte(`{not-json`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "-1", w.Body.String())
	})
}

func TestHandler_BrowserReturn(t *testing.T) {
	t.Run("SuksesWithCookie", func(t *testing.T) {
		h := NewHandler(testConfig(), new(MockOrderService))

		req := httptest.NewRequest("GET", "/webhook/finpay?status=sukses", nil)
		req.AddCookie(&http.Cookie{
			Name:  finpay.FinishURLCookieName,
			Value: "https://shop.example/order-received/77",
		})
		w := httptest.NewRecorder()
		h.HandleNotification(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://shop.example/order-received/77", w.Header().Get("Location"))
	})

	t.Run("SuksesWithoutCookieFallsBackToShopHome", func(t *testing.T) {
		h := NewHandler(testConfig(), new(MockOrderService))

		req := httptest.NewRequest("GET", "/webhook/finpay?status=sukses", nil)
		w := httptest.NewRecorder()
		h.HandleNotification(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://shop.example", w.Header().Get("Location"))
	})

	t.Run("Gagal", func(t *testing.T) {
		h := NewHandler(testConfig(), new(MockOrderService))

		req := httptest.NewRequest("GET", "/webhook/finpay?status=gagal", nil)
		w := httptest.NewRecorder()
		h.HandleNotification(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://shop.example", w.Header().Get("Location"))
	})

	t.Run("NoStatusShowsHint", func(t *testing.T) {
		h := NewHandler(testConfig(), new(MockOrderService))

		req := httptest.NewRequest("GET", "/webhook/finpay", nil)
		w := httptest.NewRecorder()
		h.HandleNotification(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "finpay notification URL")
	})
}
