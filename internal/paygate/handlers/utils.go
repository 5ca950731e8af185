package handlers

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"

	"go-vnpay/pkg/logging"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func closeBody(ctx context.Context, body io.ReadCloser, logger *logging.ZapLogger) {
	err := body.Close()
	if err != nil {
		logger.ErrorCtx(ctx, "failed to close body", zap.Error(err))
	}
}

func tryWriteResponseJSON(w http.ResponseWriter, responseItem any) error {
	res, err := json.Marshal(responseItem)
	if err != nil {
		return err //nolint:wrapcheck // unnecessary
	}
	w.Header().Add("Content-Type", "application/json")
	_, err = w.Write(res)
	if err != nil {
		return err //nolint:wrapcheck // unnecessary
	}
	return nil
}

// queryFields flattens the query string, keeping the first value of each key.
func queryFields(r *http.Request) map[string]string {
	query := r.URL.Query()
	fields := make(map[string]string, len(query))
	for key, values := range query {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	return fields
}

func clientIP(r *http.Request) string {
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
