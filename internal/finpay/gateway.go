package finpay

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"finpay-bridge/internal/config"
	"finpay-bridge/internal/logger"

	"go.uber.org/zap"
)

// Gateway sends initiation requests to Finpay.
type Gateway interface {
	Initiate(ctx context.Context, creds config.Credentials, req PaymentRequest) (*PaymentResponse, error)
}

type client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) Gateway {
	return &client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Initiate posts the payment request to the environment's initiation
// endpoint and returns the parsed reply. A transport or decode failure is
// an error; a gateway rejection is not — the caller inspects ResponseCode.
func (c *client) Initiate(ctx context.Context, creds config.Credentials, req PaymentRequest) (*PaymentResponse, error) {
	req.MerchantID = creds.MerchantID
	req.MerchantPwd = creds.MerchantSecret

	log := logger.FromCtx(ctx).With(
		zap.Uint("order_id", req.Order.ID),
		zap.Float64("amount", req.Order.Amount),
	)

	body, err := json.Marshal(req)
	if err != nil {
		log.Error("failed to marshal payment request", zap.Error(err))
		return nil, err
	}

	// Audit log of the outbound payload, with the secret redacted.
	redacted := req
	redacted.MerchantPwd = "[redacted]"
	if audit, err := json.Marshal(redacted); err == nil {
		log.Info("sending initiation request to finpay", zap.ByteString("request", audit))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.BaseURL, bytes.NewBuffer(body))
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return nil, err
	}

	auth := base64.StdEncoding.EncodeToString([]byte(creds.MerchantID + ":" + creds.MerchantSecret))
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error("finpay request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read finpay response: %w", err)
	}

	var parsed PaymentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		log.Error("failed decoding finpay response",
			zap.Int("http_status", resp.StatusCode),
			zap.ByteString("response", respBody),
			zap.Error(err),
		)
		return nil, fmt.Errorf("malformed finpay response: %w", err)
	}

	log.Info("finpay initiation reply",
		zap.String("response_code", parsed.ResponseCode),
		zap.String("response_message", parsed.ResponseMessage),
	)

	return &parsed, nil
}
