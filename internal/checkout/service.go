package checkout

import (
	"context"
	"fmt"
	"net/http"

	"finpay-bridge/internal/cart"
	"finpay-bridge/internal/config"
	"finpay-bridge/internal/finpay"
	"finpay-bridge/internal/logger"
	"finpay-bridge/internal/order"

	"go.uber.org/zap"
)

type Service interface {
	// Initiate starts a Finpay payment for the order and returns the URL
	// of the hosted payment page. The ResponseWriter is needed because a
	// successful initiation persists the finish-URL cookie on the reply.
	Initiate(ctx context.Context, w http.ResponseWriter, orderID uint) (string, error)
}

type service struct {
	cfg     *config.Config
	gateway finpay.Gateway
	orders  order.Service
	carts   cart.Repository
}

func NewService(cfg *config.Config, gateway finpay.Gateway, orders order.Service, carts cart.Repository) Service {
	return &service{
		cfg:     cfg,
		gateway: gateway,
		orders:  orders,
		carts:   carts,
	}
}

func (s *service) Initiate(ctx context.Context, w http.ResponseWriter, orderID uint) (string, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("order_id", orderID))

	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}

	creds := s.cfg.Resolve()
	req := finpay.BuildPaymentRequest(o, s.callbackURLs(o.ID))
	if req.Order.Amount != o.Total {
		return "", fmt.Errorf("payment amount %v does not match order total %v", req.Order.Amount, o.Total)
	}

	resp, err := s.gateway.Initiate(ctx, creds, req)
	if err != nil {
		s.failOrder(ctx, orderID, "Order payment failed: "+err.Error())
		return "", fmt.Errorf("order payment failed: %w", err)
	}

	if resp.ResponseCode != finpay.ResponseCodeSuccess {
		s.failOrder(ctx, orderID, "Order payment failed. "+resp.ResponseMessage)
		return "", fmt.Errorf("order payment failed: %s", resp.ResponseMessage)
	}

	// Side effects only after the success code is confirmed.
	if err := s.carts.ClearCart(ctx, o.UserID); err != nil {
		log.Error("failed to clear cart after initiation", zap.Error(err))
	}
	if err := s.orders.MarkPending(ctx, orderID, "Awaiting payment"); err != nil {
		return "", err
	}
	finpay.RememberFinishURL(w, s.ReturnURL(o.ID))

	log.Info("payment initiated", zap.String("redirect_url", resp.RedirectURL))
	return resp.RedirectURL, nil
}

// ReturnURL is the storefront page the shopper lands on once the payment
// round trip succeeds.
func (s *service) ReturnURL(orderID uint) string {
	return fmt.Sprintf("%s/order-received/%d", s.cfg.ShopBaseURL, orderID)
}

func (s *service) callbackURLs(orderID uint) finpay.CallbackURLs {
	base := s.cfg.PublicBaseURL
	return finpay.CallbackURLs{
		CallbackURL: fmt.Sprintf("%s/webhook/finpay?order=%d", base, orderID),
		BackURL:     s.cfg.ShopBaseURL,
		FailURL:     base + "/webhook/finpay?status=gagal",
		SuccessURL:  base + "/webhook/finpay?status=sukses",
	}
}

func (s *service) failOrder(ctx context.Context, orderID uint, reason string) {
	if err := s.orders.MarkFailed(ctx, orderID, reason); err != nil {
		logger.FromCtx(ctx).Error("failed to mark order as failed",
			zap.Uint("order_id", orderID),
			zap.Error(err),
		)
	}
}
