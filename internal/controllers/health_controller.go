package controllers

import (
	"fmt"
	"net/http"
	"pbcheck/internal/services"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	service   services.CheckerServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string     `json:"status"`
	Uptime        string     `json:"uptime"`
	UptimeSeconds float64    `json:"uptime_seconds"`
	HasSelection  bool       `json:"has_selection"`
	DrawingDate   string     `json:"drawing_date,omitempty"`
	LastFetch     *time.Time `json:"last_fetch,omitempty"`
	NextCutoff    *time.Time `json:"next_cutoff,omitempty"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	_, hasSel := hc.service.Selection()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		HasSelection:  hasSel,
	}
	if drawing, meta, ok := hc.service.Drawing(); ok {
		resp.DrawingDate = drawing.Date.String()
		if !meta.IsZero() {
			resp.LastFetch = &meta.LastFetch
		}
	}
	if next := hc.service.NextCutoff(); !next.IsZero() {
		resp.NextCutoff = &next
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.CheckerServiceInterface) *HealthController {
	return &HealthController{
		service:   service,
		startTime: time.Now(),
	}
}
