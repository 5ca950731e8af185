package config

import (
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"go-vnpay/internal/paygate"
	"go-vnpay/internal/paygate/data/database"
	"go-vnpay/internal/paygate/fulfillment"
	"go-vnpay/internal/paygate/placementmonitor"
	"go-vnpay/internal/paygate/service"
	"go-vnpay/pkg/ordernumber"

	"go.uber.org/zap/zapcore"
)

const (
	serverAddressFlag         = "a"
	serverAddressEnv          = "RUN_ADDRESS"
	serverAddressDefault      = "localhost:8080"
	dbConnectionStringFlag    = "d"
	dbConnectionStringEnv     = "DATABASE_URI"
	dbConnectionStringDefault = ""
	fulfillmentAddressFlag    = "f"
	fulfillmentAddressEnv     = "FULFILLMENT_URL"
	fulfillmentAddressDefault = ""
	ecommerceURLFlag          = "e"
	ecommerceURLEnv           = "ECOMMERCE_URL"
	ecommerceURLDefault       = "http://localhost:8000"
	tmnCodeFlag               = "tmn-code"
	tmnCodeEnv                = "VNPAY_TMN_CODE"
	hashSecretFlag            = "hash-secret"
	hashSecretEnv             = "VNPAY_HASH_SECRET"
	paymentURLFlag            = "payment-url"
	paymentURLEnv             = "VNPAY_PAYMENT_URL"
	paymentURLDefault         = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"
	returnURLFlag             = "return-url"
	returnURLEnv              = "VNPAY_RETURN_URL"
	returnURLDefault          = "http://localhost:8080/payment/vnpay/return/"
	orderPrefixFlag           = "order-prefix"
	orderPrefixEnv            = "ORDER_NUMBER_PREFIX"
	orderPrefixDefault        = "EDX"
	adminSecretFlag           = "admin-secret"
	adminSecretEnv            = "ADMIN_JWT_SECRET"
	logLevelFlag              = "log-level"
	logLevelEnv               = "LOG_LEVEL"
	logLevelDefault           = "info"

	vnpayVersion    = "2.1.0"
	shutdownTimeout = time.Second * 5
)

var (
	ErrMissingHashSecret  = errors.New("vnpay hash secret is not configured")
	ErrMissingAdminSecret = errors.New("admin jwt secret is not configured")
)

type Config struct {
	Server           paygate.Config
	JWTConfig        JWTConfig
	DB               database.Config
	Fulfillment      fulfillment.Config
	PlacementMonitor placementmonitor.Config
	Receipts         service.ReceiptsConfig
	Payments         service.PaymentsConfig
	OrderNumbers     OrderNumbersConfig
	HashSecret       string
	LogLevel         zapcore.Level
}

type JWTConfig struct {
	Algorithm string
	Secret    string
}

type OrderNumbersConfig struct {
	Prefix string
	Offset int64
}

func Load() (*Config, error) {
	serverAddress := flag.String(serverAddressFlag, serverAddressDefault, "Server address host:port")
	dbConnectionString := flag.String(dbConnectionStringFlag, dbConnectionStringDefault, "PostgreSQL connection string")
	fulfillmentAddress := flag.String(fulfillmentAddressFlag, fulfillmentAddressDefault, "Fulfillment service base URL")
	ecommerceURL := flag.String(ecommerceURLFlag, ecommerceURLDefault, "Storefront base URL")
	tmnCode := flag.String(tmnCodeFlag, "", "VNPay terminal code")
	hashSecret := flag.String(hashSecretFlag, "", "VNPay hash secret")
	paymentURL := flag.String(paymentURLFlag, paymentURLDefault, "VNPay payment page URL")
	returnURL := flag.String(returnURLFlag, returnURLDefault, "Public URL of the return endpoint")
	orderPrefix := flag.String(orderPrefixFlag, orderPrefixDefault, "Order number prefix")
	adminSecret := flag.String(adminSecretFlag, "", "Secret for admin JWT tokens")
	logLevel := flag.String(logLevelFlag, logLevelDefault, "Log level")

	flag.Parse()

	overrideFromEnv(serverAddress, serverAddressEnv)
	overrideFromEnv(dbConnectionString, dbConnectionStringEnv)
	overrideFromEnv(fulfillmentAddress, fulfillmentAddressEnv)
	overrideFromEnv(ecommerceURL, ecommerceURLEnv)
	overrideFromEnv(tmnCode, tmnCodeEnv)
	overrideFromEnv(hashSecret, hashSecretEnv)
	overrideFromEnv(paymentURL, paymentURLEnv)
	overrideFromEnv(returnURL, returnURLEnv)
	overrideFromEnv(orderPrefix, orderPrefixEnv)
	overrideFromEnv(adminSecret, adminSecretEnv)
	overrideFromEnv(logLevel, logLevelEnv)

	if *hashSecret == "" {
		return nil, ErrMissingHashSecret
	}
	if *adminSecret == "" {
		return nil, ErrMissingAdminSecret
	}
	level, err := zapcore.ParseLevel(*logLevel)
	if err != nil {
		return nil, err //nolint:wrapcheck // unnecessary
	}

	storefront := strings.TrimSuffix(*ecommerceURL, "/")

	return &Config{
		Server: paygate.Config{
			ServerAddress:   *serverAddress,
			ShutdownTimeout: shutdownTimeout,
		},
		JWTConfig: JWTConfig{
			Algorithm: "HS256",
			Secret:    *adminSecret,
		},
		DB: database.Config{
			ConnectionString:   *dbConnectionString,
			RetryAttemptDelays: []time.Duration{0, time.Second, 3 * time.Second, 5 * time.Second},
		},
		Fulfillment: fulfillment.Config{
			ServerAddress: *fulfillmentAddress,
			Timeout:       time.Second * 10,
			RetryCount:    3,
		},
		PlacementMonitor: placementmonitor.Config{
			TickPeriod:         time.Minute,
			PendingGracePeriod: 5 * time.Minute,
			WorkersCount:       2,
			TasksBufferLength:  20,
		},
		Receipts: service.ReceiptsConfig{
			ReceiptPath: "/checkout/receipt/",
			ErrorURL:    storefront + "/checkout/error/",
			CancelURL:   storefront + "/basket/",
		},
		Payments: service.PaymentsConfig{
			PaymentURL: *paymentURL,
			Version:    vnpayVersion,
			TmnCode:    *tmnCode,
			ReturnURL:  *returnURL,
		},
		OrderNumbers: OrderNumbersConfig{
			Prefix: *orderPrefix,
			Offset: ordernumber.DefaultOffset,
		},
		HashSecret: *hashSecret,
		LogLevel:   level,
	}, nil
}

func overrideFromEnv(value *string, env string) {
	if valStr, ok := os.LookupEnv(env); ok {
		*value = valStr
	}
}
