package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-vnpay/internal/common/fulfillmentprotocol"
	"go-vnpay/internal/paygate/data"
	"go-vnpay/pkg/logging"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var (
	ErrRejected = errors.New("order rejected by fulfillment service")
)

type Config struct {
	ServerAddress string
	Timeout       time.Duration
	RetryCount    int
}

// Client notifies the fulfillment service about placed orders.
type Client struct {
	client *resty.Client
	logger *logging.ZapLogger
	cfg    Config
}

func New(cfg Config, logger *logging.ZapLogger) *Client {
	client := resty.New().
		SetBaseURL(cfg.ServerAddress).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetJSONMarshaler(jsoniter.ConfigCompatibleWithStandardLibrary.Marshal).
		SetJSONUnmarshaler(jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		})
	return &Client{
		client: client,
		logger: logger,
		cfg:    cfg,
	}
}

func (c *Client) OrderPlaced(ctx context.Context, order data.Order) error {
	resp, err := c.client.
		R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Idempotency-Key", order.Number).
		SetBody(fulfillmentprotocol.PlacedOrder{
			Number:       order.Number,
			BasketID:     order.BasketID,
			Site:         order.Site,
			Total:        order.Total,
			Currency:     order.Currency,
			PaymentLabel: order.PaymentLabel,
			PlacedAt:     order.CreatedAt,
		}).
		Post("/api/fulfillment/orders")
	if err != nil {
		return fmt.Errorf("post request failed: %w", err)
	}
	statusCode := resp.StatusCode()
	switch {
	case statusCode == http.StatusOK, statusCode == http.StatusCreated, statusCode == http.StatusAccepted:
		c.logger.DebugCtx(ctx, "Order sent to fulfillment", zap.String("orderNumber", order.Number))
		return nil
	case statusCode == http.StatusConflict:
		c.logger.DebugCtx(ctx, "Order already known to fulfillment", zap.String("orderNumber", order.Number))
		return nil
	case statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError:
		return fmt.Errorf("%w: status code %v", ErrRejected, statusCode)
	default:
		return fmt.Errorf("unexpected status code %v", statusCode)
	}
}
