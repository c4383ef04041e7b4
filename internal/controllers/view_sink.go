package controllers

import (
	"time"

	"pbcheck/internal/lottery"
	"pbcheck/internal/models"
	"pbcheck/internal/services"
)

type drawingView struct {
	models.Drawing
	DisplayDate string                 `json:"displayDate"`
	Source      services.DrawingSource `json:"source"`
}

type resultView struct {
	models.PrizeResult
	Label   string `json:"label,omitempty"`
	Message string `json:"message"`
}

type validationView struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// viewSink collects one request's renders into a single JSON document.
type viewSink struct {
	Selection  *models.NumberSelection `json:"selection,omitempty"`
	Drawing    *drawingView            `json:"drawing,omitempty"`
	Result     *resultView             `json:"result,omitempty"`
	Status     models.Status           `json:"status,omitempty"`
	Message    string                  `json:"message,omitempty"`
	Error      *validationView         `json:"error,omitempty"`
	NextCutoff *time.Time              `json:"nextCutoff,omitempty"`
}

func newViewSink() *viewSink {
	return &viewSink{}
}

func (v *viewSink) RenderSelection(sel models.NumberSelection) {
	v.Selection = &sel
}

func (v *viewSink) RenderDrawing(drawing models.Drawing, source services.DrawingSource) {
	v.Drawing = &drawingView{Drawing: drawing, DisplayDate: drawing.Date.Long(), Source: source}
	if source == services.SourceFallback {
		v.Drawing.DisplayDate += " (cached)"
	}
	if v.Status == models.StatusLoading {
		v.Status, v.Message = "", ""
	}
}

func (v *viewSink) RenderResult(result models.PrizeResult) {
	v.Result = &resultView{
		PrizeResult: result,
		Label:       result.Tier.Label(),
		Message:     services.ResultMessage(result),
	}
}

func (v *viewSink) RenderValidationError(err *lottery.ValidationError) {
	v.Error = &validationView{Kind: err.KindName(), Field: err.Field, Message: err.Message()}
	v.Status, v.Message = models.StatusError, err.Message()
}

func (v *viewSink) RenderStatus(status models.Status, message string) {
	v.Status, v.Message = status, message
}

func (v *viewSink) failed() bool {
	return v.Status == models.StatusError
}
