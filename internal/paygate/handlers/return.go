package handlers

import (
	"context"
	"net/http"

	"go-vnpay/pkg/logging"
)

type ReturnHandler struct {
	service ReturnService
	logger  *logging.ZapLogger
}

type ReturnService interface {
	RedirectTarget(ctx context.Context, fields map[string]string) string
}

func NewReturnHandler(service ReturnService, logger *logging.ZapLogger) *ReturnHandler {
	return &ReturnHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ReturnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	target := h.service.RedirectTarget(r.Context(), queryFields(r))
	http.Redirect(w, r, target, http.StatusFound)
}
