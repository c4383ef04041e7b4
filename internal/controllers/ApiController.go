package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pbcheck/internal/lottery"
	"pbcheck/internal/models"
	"pbcheck/internal/providers"
	"pbcheck/internal/services"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 10 // 1 KB

// token is a raw form value. Clients may send "05" or 5.
type token string

func (t *token) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return errors.New("empty token")
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = token(s)
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*t = token(data)
	default:
		return fmt.Errorf("unexpected token %s", data)
	}
	return nil
}

type selectionRequest struct {
	White     []token `json:"white"`
	Powerball token   `json:"powerball"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type ApiController struct {
	logger  providers.Logger
	service services.CheckerServiceInterface
}

func NewApiController(logger providers.Logger, service services.CheckerServiceInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	gson, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// GetDrawing runs the page-ready sequence: saved numbers, latest drawing, prize result.
func (ac *ApiController) GetDrawing(w http.ResponseWriter, r *http.Request) {
	sink := newViewSink()
	ac.service.Load(r.Context(), sink)

	if next := ac.service.NextCutoff(); !next.IsZero() {
		sink.NextCutoff = &next
	}

	status := http.StatusOK
	if sink.failed() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, sink)
}

func (ac *ApiController) GetSelection(w http.ResponseWriter, r *http.Request) {
	sel, ok := ac.service.Selection()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no saved numbers"})
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (ac *ApiController) SaveSelection(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	white := make([]string, len(payload.White))
	for i, t := range payload.White {
		white[i] = string(t)
	}

	sink := newViewSink()
	err := ac.service.SubmitSelection(white, string(payload.Powerball), sink)
	var verr *lottery.ValidationError
	switch {
	case errors.As(err, &verr):
		ac.logger.Infof(providers.TypePost, "Rejected selection: %s", verr)
		writeJSON(w, http.StatusUnprocessableEntity, sink)
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, sink)
	default:
		writeJSON(w, http.StatusOK, sink)
	}
}

// Refresh fetches the drawing regardless of the fetch policy.
func (ac *ApiController) Refresh(w http.ResponseWriter, r *http.Request) {
	acq, err := ac.service.Refresh(r.Context(), true)
	if err != nil {
		ac.logger.Warnf(providers.TypePost, "Forced refresh failed: %s", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	sink := newViewSink()
	sink.RenderDrawing(acq.Drawing, acq.Source)
	if acq.Err != nil {
		sink.RenderStatus(models.StatusStale, "Refresh failed: "+acq.Err.Error())
	}
	if sel, ok := ac.service.Selection(); ok {
		sink.RenderSelection(sel)
		sink.RenderResult(lottery.Evaluate(sel, acq.Drawing))
	}
	if !acq.Meta.IsZero() {
		w.Header().Set("X-Fetched-At", strconv.FormatInt(acq.Meta.LastFetch.UnixMilli(), 10))
	}
	writeJSON(w, http.StatusOK, sink)
}
