package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
)

const (
	msgStorageUnavailable = "хранилище недоступно"

	pingTimeout = 2 * time.Second
)

// Pinger проверка доступности хранилища
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Logger interface {
	Error(format string, v ...interface{})
}

type Handler struct {
	pinger  Pinger
	storage string
	logger  Logger
}

// NewHandler pinger == nil для хранилища без внешних соединений
func NewHandler(pinger Pinger, storage string, logger Logger) *Handler {
	return &Handler{
		pinger:  pinger,
		storage: storage,
		logger:  logger,
	}
}

type Status struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := h.pinger.PingContext(ctx); err != nil {
			h.logger.Error("GET /health - Storage ping failed: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgStorageUnavailable)
			return
		}
	}

	handlers.RespondJSON(w, http.StatusOK, Status{Status: "ok", Storage: h.storage})
}
