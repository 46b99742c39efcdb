package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SlotService/pkg/logger"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHandle(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(nil, "memory", logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok","storage":"memory"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	down := pingFunc(func(context.Context) error { return errors.New("refused") })
	NewHandler(down, "postgres", logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
