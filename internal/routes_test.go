package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"pbcheck/internal/controllers"
	"pbcheck/internal/models"
	"pbcheck/internal/providers"
	"pbcheck/internal/services"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- minimal mocks for routes test ---

type routeTestLogger struct{}

func (m *routeTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Close()                                                  {}

type routeTestMockService struct{}

func (m *routeTestMockService) Load(_ context.Context, sink services.Sink) {
	sink.RenderStatus(models.StatusPrompt, services.MessagePrompt)
}
func (m *routeTestMockService) SubmitSelection(_ []string, _ string, sink services.Sink) error {
	sink.RenderStatus(models.StatusSaved, services.MessageSaved)
	return nil
}
func (m *routeTestMockService) Refresh(_ context.Context, _ bool) (services.Acquisition, error) {
	return services.Acquisition{Source: services.SourceFresh}, nil
}
func (m *routeTestMockService) Selection() (models.NumberSelection, bool) {
	return models.NumberSelection{}, false
}
func (m *routeTestMockService) Drawing() (models.Drawing, models.FetchMeta, bool) {
	return models.Drawing{}, models.FetchMeta{}, false
}
func (m *routeTestMockService) NextCutoff() time.Time { return time.Time{} }

func newRouteTestMux() *http.ServeMux {
	ac := controllers.NewApiController(&routeTestLogger{}, &routeTestMockService{})
	mux := http.NewServeMux()
	for _, r := range InitRoutes(ac).GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}
	return mux
}

func TestInitRoutes_RegistersRoutesOncePerPath(t *testing.T) {
	ac := controllers.NewApiController(&routeTestLogger{}, &routeTestMockService{})
	routes := InitRoutes(ac).GetRoutes()

	require.Len(t, routes, 3)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}
	assert.Equal(t, []string{"/drawing", "/selection", "/refresh"}, urls)
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	mux := newRouteTestMux()

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/drawing", "", http.StatusOK},
		{http.MethodPost, "/drawing", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/selection", "", http.StatusNotFound},
		{http.MethodPost, "/selection", `{"white":["1","2","3","4","5"],"powerball":"6"}`, http.StatusOK},
		{http.MethodDelete, "/selection", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/refresh", "", http.StatusOK},
		{http.MethodGet, "/refresh", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestInitRoutes_AllowHeader(t *testing.T) {
	mux := newRouteTestMux()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/selection", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, POST", rr.Header().Get("Allow"))
}
