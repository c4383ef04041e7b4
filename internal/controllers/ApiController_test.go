package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"pbcheck/internal/fetcher"
	"pbcheck/internal/lottery"
	"pbcheck/internal/models"
	"pbcheck/internal/providers"
	"pbcheck/internal/services"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- local mocks (scoped to controller tests) ---

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type submitCall struct {
	white     []string
	powerball string
}

type mockService struct {
	loadFn      func(sink services.Sink)
	submitErr   error
	submitCalls []submitCall
	refreshAcq  services.Acquisition
	refreshErr  error
	forced      []bool
	selection   *models.NumberSelection
	drawing     *models.Drawing
	meta        models.FetchMeta
	nextCutoff  time.Time
}

func (m *mockService) Load(_ context.Context, sink services.Sink) {
	if m.loadFn != nil {
		m.loadFn(sink)
	}
}

func (m *mockService) SubmitSelection(white []string, powerball string, sink services.Sink) error {
	m.submitCalls = append(m.submitCalls, submitCall{white: white, powerball: powerball})
	if m.submitErr != nil {
		var verr *lottery.ValidationError
		if errors.As(m.submitErr, &verr) {
			sink.RenderValidationError(verr)
		} else {
			sink.RenderStatus(models.StatusError, services.MessageSaveFailed)
		}
		return m.submitErr
	}
	sink.RenderStatus(models.StatusSaved, services.MessageSaved)
	return nil
}

func (m *mockService) Refresh(_ context.Context, force bool) (services.Acquisition, error) {
	m.forced = append(m.forced, force)
	return m.refreshAcq, m.refreshErr
}

func (m *mockService) Selection() (models.NumberSelection, bool) {
	if m.selection == nil {
		return models.NumberSelection{}, false
	}
	return *m.selection, true
}

func (m *mockService) Drawing() (models.Drawing, models.FetchMeta, bool) {
	if m.drawing == nil {
		return models.Drawing{}, models.FetchMeta{}, false
	}
	return *m.drawing, m.meta, true
}

func (m *mockService) NextCutoff() time.Time { return m.nextCutoff }

// --- helpers ---

var (
	testDrawing = models.Drawing{
		Date:      models.NewDrawDate(2026, 1, 17),
		White:     [5]int{5, 8, 27, 49, 57},
		Powerball: 14,
	}
	testSelection = models.NumberSelection{White: [5]int{5, 8, 27, 49, 57}, Powerball: 2}
)

func newTestController(svc *mockService) *ApiController {
	return NewApiController(&mockLogger{}, svc)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

// --- GetDrawing ---

func TestGetDrawing_FullView(t *testing.T) {
	svc := &mockService{
		nextCutoff: time.Date(2026, 1, 20, 4, 0, 0, 0, time.UTC),
		loadFn: func(sink services.Sink) {
			sink.RenderSelection(testSelection)
			sink.RenderStatus(models.StatusLoading, services.MessageLoading)
			sink.RenderDrawing(testDrawing, services.SourceFresh)
			sink.RenderResult(lottery.Evaluate(testSelection, testDrawing))
		},
	}
	ac := newTestController(svc)

	rr := httptest.NewRecorder()
	ac.GetDrawing(rr, httptest.NewRequest(http.MethodGet, "/drawing", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	resp := decodeBody(t, rr)
	assert.NotContains(t, resp, "status", "loading state is cleared once a drawing arrives")
	assert.Equal(t, "2026-01-20T04:00:00Z", resp["nextCutoff"])

	drawing := resp["drawing"].(map[string]interface{})
	assert.Equal(t, "2026-01-17", drawing["date"])
	assert.Equal(t, "Saturday, January 17, 2026", drawing["displayDate"])
	assert.Equal(t, "fresh", drawing["source"])
	assert.Equal(t, float64(14), drawing["powerball"])

	result := resp["result"].(map[string]interface{})
	assert.Equal(t, "TIER_1M", result["tier"])
	assert.Equal(t, "$1,000,000", result["label"])
	assert.Equal(t, "Congrats - $1,000,000!", result["message"])
	assert.Equal(t, float64(5), result["whiteMatches"])

	sel := resp["selection"].(map[string]interface{})
	assert.Equal(t, float64(2), sel["powerball"])
}

func TestGetDrawing_FallbackMarkedCached(t *testing.T) {
	svc := &mockService{
		loadFn: func(sink services.Sink) {
			sink.RenderDrawing(testDrawing, services.SourceFallback)
			sink.RenderStatus(models.StatusPrompt, services.MessagePrompt)
		},
	}
	rr := httptest.NewRecorder()
	newTestController(svc).GetDrawing(rr, httptest.NewRequest(http.MethodGet, "/drawing", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody(t, rr)
	drawing := resp["drawing"].(map[string]interface{})
	assert.Equal(t, "Saturday, January 17, 2026 (cached)", drawing["displayDate"])
	assert.Equal(t, "fallback", drawing["source"])
	assert.Equal(t, "prompt", resp["status"])
	assert.NotContains(t, resp, "nextCutoff")
}

func TestGetDrawing_UnableToLoad(t *testing.T) {
	svc := &mockService{
		loadFn: func(sink services.Sink) {
			sink.RenderStatus(models.StatusLoading, services.MessageLoading)
			sink.RenderStatus(models.StatusError, services.MessageUnableToLoad)
		},
	}
	rr := httptest.NewRecorder()
	newTestController(svc).GetDrawing(rr, httptest.NewRequest(http.MethodGet, "/drawing", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	resp := decodeBody(t, rr)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, services.MessageUnableToLoad, resp["message"])
	assert.NotContains(t, resp, "drawing")
}

// --- GetSelection ---

func TestGetSelection_NotFound(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestController(&mockService{}).GetSelection(rr, httptest.NewRequest(http.MethodGet, "/selection", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetSelection_Found(t *testing.T) {
	sel := testSelection
	rr := httptest.NewRecorder()
	newTestController(&mockService{selection: &sel}).GetSelection(rr, httptest.NewRequest(http.MethodGet, "/selection", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"white":[5,8,27,49,57],"powerball":2}`, rr.Body.String())
}

// --- SaveSelection ---

func TestSaveSelection_AcceptsStringsAndNumbers(t *testing.T) {
	svc := &mockService{}
	ac := newTestController(svc)

	payload := `{"white":["05", 8, "27", 49, " 57"], "powerball": 14}`
	rr := httptest.NewRecorder()
	ac.SaveSelection(rr, httptest.NewRequest(http.MethodPost, "/selection", strings.NewReader(payload)))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, svc.submitCalls, 1)
	assert.Equal(t, []string{"05", "8", "27", "49", " 57"}, svc.submitCalls[0].white)
	assert.Equal(t, "14", svc.submitCalls[0].powerball)
	assert.Equal(t, "saved", decodeBody(t, rr)["status"])
}

func TestSaveSelection_NullPowerballIsBlank(t *testing.T) {
	svc := &mockService{}
	rr := httptest.NewRecorder()
	newTestController(svc).SaveSelection(rr, httptest.NewRequest(http.MethodPost, "/selection",
		strings.NewReader(`{"white":["1","2","3","4","5"],"powerball":null}`)))

	require.Len(t, svc.submitCalls, 1)
	assert.Equal(t, "", svc.submitCalls[0].powerball)
}

func TestSaveSelection_ValidationError(t *testing.T) {
	svc := &mockService{submitErr: &lottery.ValidationError{Kind: lottery.ErrDuplicateValue, Field: "white[1]", Token: "5"}}
	rr := httptest.NewRecorder()
	newTestController(svc).SaveSelection(rr, httptest.NewRequest(http.MethodPost, "/selection",
		strings.NewReader(`{"white":["5","5","12","40","60"],"powerball":"10"}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	resp := decodeBody(t, rr)
	verr := resp["error"].(map[string]interface{})
	assert.Equal(t, "DuplicateValue", verr["kind"])
	assert.Equal(t, "white[1]", verr["field"])
	assert.Equal(t, "White ball numbers must be unique", verr["message"])
}

func TestSaveSelection_StoreFailure(t *testing.T) {
	svc := &mockService{submitErr: errors.New("disk full")}
	rr := httptest.NewRecorder()
	newTestController(svc).SaveSelection(rr, httptest.NewRequest(http.MethodPost, "/selection",
		strings.NewReader(`{"white":["1","2","3","4","5"],"powerball":"6"}`)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, services.MessageSaveFailed, decodeBody(t, rr)["message"])
}

func TestSaveSelection_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"empty", ""},
		{"wrong type", `{"white":[true],"powerball":"1"}`},
		{"oversized", `{"white":["` + strings.Repeat("1", maxRequestBodySize) + `"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			rr := httptest.NewRecorder()
			newTestController(svc).SaveSelection(rr, httptest.NewRequest(http.MethodPost, "/selection", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, svc.submitCalls)
		})
	}
}

// --- Refresh ---

func TestRefresh_Success(t *testing.T) {
	sel := testSelection
	fetched := time.UnixMilli(1768708800000)
	svc := &mockService{
		selection:  &sel,
		refreshAcq: services.Acquisition{Drawing: testDrawing, Meta: models.FetchMeta{LastFetch: fetched}, Source: services.SourceFresh},
	}
	rr := httptest.NewRecorder()
	newTestController(svc).Refresh(rr, httptest.NewRequest(http.MethodPost, "/refresh", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []bool{true}, svc.forced)
	assert.Equal(t, "1768708800000", rr.Header().Get("X-Fetched-At"))

	resp := decodeBody(t, rr)
	assert.Equal(t, "fresh", resp["drawing"].(map[string]interface{})["source"])
	assert.Equal(t, "TIER_1M", resp["result"].(map[string]interface{})["tier"])
}

func TestRefresh_FallbackReportsFailure(t *testing.T) {
	svc := &mockService{
		refreshAcq: services.Acquisition{
			Drawing: testDrawing,
			Source:  services.SourceFallback,
			Err:     &fetcher.FetchError{Kind: fetcher.HttpError, Status: 500},
		},
	}
	rr := httptest.NewRecorder()
	newTestController(svc).Refresh(rr, httptest.NewRequest(http.MethodPost, "/refresh", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody(t, rr)
	assert.Contains(t, resp["message"], "Refresh failed")
	assert.Equal(t, "stale", resp["status"])
	assert.NotContains(t, resp, "result")
	assert.Empty(t, rr.Header().Get("X-Fetched-At"))
}

func TestRefresh_FallbackKeepsStoredTimestamp(t *testing.T) {
	fetched := time.UnixMilli(1768600000000)
	svc := &mockService{
		refreshAcq: services.Acquisition{
			Drawing: testDrawing,
			Meta:    models.FetchMeta{LastFetch: fetched},
			Source:  services.SourceFallback,
			Err:     &fetcher.FetchError{Kind: fetcher.HttpError, Status: 503},
		},
	}
	rr := httptest.NewRecorder()
	newTestController(svc).Refresh(rr, httptest.NewRequest(http.MethodPost, "/refresh", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1768600000000", rr.Header().Get("X-Fetched-At"))
}

func TestRefresh_NothingCached(t *testing.T) {
	svc := &mockService{refreshErr: &fetcher.FetchError{Kind: fetcher.NetworkFailure, Err: errors.New("refused")}}
	rr := httptest.NewRecorder()
	newTestController(svc).Refresh(rr, httptest.NewRequest(http.MethodPost, "/refresh", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, decodeBody(t, rr)["error"], "unreachable")
}
