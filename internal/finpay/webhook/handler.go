package webhook

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"finpay-bridge/internal/config"
	"finpay-bridge/internal/finpay"
	"finpay-bridge/internal/logger"
	"finpay-bridge/internal/order"

	"go.uber.org/zap"
)

const browserHint = "This endpoint is for finpay notification URL (HTTP POST). This message will be shown if opened using browser (HTTP GET)."

// Replies Finpay expects on the notification channel. Bare text, not JSON.
const (
	replyOK       = "00"
	replyErr      = "-1"
	replyNotFound = "Not found!"
)

// Handler serves the single Finpay callback route. POST carries the signed
// asynchronous notification; GET is the shopper's browser coming back from
// the hosted payment page.
type Handler struct {
	cfg    *config.Config
	orders order.Service
}

func NewHandler(cfg *config.Config, orders order.Service) *Handler {
	return &Handler{
		cfg:    cfg,
		orders: orders,
	}
}

func (h *Handler) HandleNotification(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.handleBrowserReturn(w, r)
		return
	}
	h.handleNotification(w, r)
}

// handleBrowserReturn handles the synchronous redirect leg. No body
// processing happens here; the payment outcome arrives separately via POST.
func (h *Handler) handleBrowserReturn(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("status") {
	case "sukses":
		http.Redirect(w, r, finpay.RecallFinishURL(r, h.cfg.ShopBaseURL), http.StatusFound)
	case "gagal":
		http.Redirect(w, r, h.cfg.ShopBaseURL, http.StatusFound)
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, browserHint)
	}
}

func (h *Handler) handleNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx)

	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read notification body", zap.Error(err))
		respond(w, http.StatusBadRequest, replyErr)
		return
	}
	defer r.Body.Close()

	log.Info("received finpay notification", zap.ByteString("payload", rawBody))

	var n finpay.Notification
	if err := json.Unmarshal(rawBody, &n); err != nil {
		log.Error("malformed finpay notification", zap.Error(err))
		respond(w, http.StatusBadRequest, replyErr)
		return
	}

	o, err := h.orders.GetOrder(ctx, n.Order.ID)
	if err != nil {
		if err == order.ErrOrderNotFound {
			log.Warn("notification for unknown order", zap.Uint("order_id", n.Order.ID))
			respond(w, http.StatusNotFound, replyNotFound)
			return
		}
		log.Error("order lookup failed", zap.Uint("order_id", n.Order.ID), zap.Error(err))
		respond(w, http.StatusInternalServerError, replyErr)
		return
	}

	// The verification key comes from the configured environment, never
	// from anything inside the notification.
	secret := h.cfg.Resolve().MerchantSecret
	if !finpay.VerifyNotification(rawBody, secret) {
		log.Warn("finpay notification signature mismatch",
			zap.Uint("order_id", n.Order.ID),
			zap.String("event", "security"),
		)
		respond(w, http.StatusUnauthorized, replyErr)
		return
	}

	status := n.Result.Payment.Status
	log.Info("verified finpay notification",
		zap.Uint("order_id", n.Order.ID),
		zap.String("payment_status", status),
		zap.String("source_of_funds", n.SourceOfFunds.Type),
	)

	// Duplicate deliveries for an already-settled order must not re-run
	// the transition. Acknowledge so the gateway stops retrying.
	if o.Status.IsTerminal() {
		if (n.Paid() && o.Status != order.StatusComplete) || (!n.Paid() && o.Status != order.StatusFailed) {
			log.Warn("notification conflicts with terminal order state",
				zap.Uint("order_id", o.ID),
				zap.String("order_status", string(o.Status)),
				zap.String("payment_status", status),
			)
		}
		respond(w, http.StatusOK, replyOK)
		return
	}

	if n.Paid() {
		if err := h.orders.PaymentComplete(ctx, o.ID); err != nil {
			log.Error("failed to complete order", zap.Uint("order_id", o.ID), zap.Error(err))
			respond(w, http.StatusInternalServerError, replyErr)
			return
		}
		respond(w, http.StatusOK, replyOK)
		return
	}

	if err := h.orders.MarkFailed(ctx, o.ID, status); err != nil {
		log.Error("failed to fail order", zap.Uint("order_id", o.ID), zap.Error(err))
	}
	respond(w, http.StatusInternalServerError, replyErr)
}

func respond(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	fmt.Fprint(w, body)
}
