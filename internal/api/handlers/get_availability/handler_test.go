package get_availability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availability"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	resp *getAvailability.Response
	err  error
}

func (f fakeUseCase) Execute(context.Context) (*getAvailability.Response, error) {
	return f.resp, f.err
}

func TestHandler_Handle(t *testing.T) {
	uc := fakeUseCase{resp: &getAvailability.Response{
		Aggregate: domain.AggregatedView{
			Version:   domain.AggregateVersion,
			UpdatedAt: time.Date(2025, time.June, 2, 8, 15, 0, 0, time.UTC),
			Slots:     map[string][]string{"2025-06-02|19": {"Alice", "Bob"}},
		},
		Roles: map[string]string{"alice": "coach"},
	}}

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store, no-cache, must-revalidate, max-age=0", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{
		"aggregate": {
			"version": 1,
			"updatedAt": "2025-06-02T08:15:00.000Z",
			"slots": {"2025-06-02|19": {"attendees": ["Alice", "Bob"]}}
		},
		"roles": {"alice": "coach"},
		"degraded": false
	}`, rec.Body.String())
}

func TestHandler_HandleEmpty(t *testing.T) {
	uc := fakeUseCase{resp: &getAvailability.Response{
		Aggregate: domain.AggregatedView{Version: 1, Slots: map[string][]string{}},
		Degraded:  true,
	}}

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"aggregate": {"version": 1, "updatedAt": "0001-01-01T00:00:00.000Z", "slots": {}},
		"roles": {},
		"degraded": true
	}`, rec.Body.String())
}

func TestHandler_HandleError(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(fakeUseCase{err: errors.New("boom")}, nopLogger{}).
		Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}
