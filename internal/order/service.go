package order

import (
	"context"

	"finpay-bridge/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetOrder(ctx context.Context, orderID uint) (*Order, error)
	// MarkPending puts the order in the awaiting-payment state after a
	// successful initiation.
	MarkPending(ctx context.Context, orderID uint, note string) error
	// MarkFailed records a failed payment attempt with the reason as an
	// order note.
	MarkFailed(ctx context.Context, orderID uint, reason string) error
	// PaymentComplete finalizes the order after a verified paid
	// notification.
	PaymentComplete(ctx context.Context, orderID uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetOrder(ctx context.Context, orderID uint) (*Order, error) {
	return s.repo.GetOrder(ctx, orderID)
}

func (s *service) MarkPending(ctx context.Context, orderID uint, note string) error {
	return s.repo.UpdateStatus(ctx, orderID, StatusPending, note)
}

func (s *service) MarkFailed(ctx context.Context, orderID uint, reason string) error {
	logger.FromCtx(ctx).Warn("marking order as failed",
		zap.Uint("order_id", orderID),
		zap.String("reason", reason),
	)
	return s.repo.UpdateStatus(ctx, orderID, StatusFailed, reason)
}

func (s *service) PaymentComplete(ctx context.Context, orderID uint) error {
	return s.repo.UpdateStatus(ctx, orderID, StatusComplete, "Payment completed by Finpay notification")
}
