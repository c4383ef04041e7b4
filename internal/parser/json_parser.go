package parser

import (
	"strconv"
	"strings"

	"pbcheck/internal/models"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// drawRecord is one row of the open data feed, e.g.
// {"draw_date":"2026-01-17T00:00:00.000","winning_numbers":"05 08 27 49 57 14","multiplier":"2"}.
type drawRecord struct {
	DrawDate       string `json:"draw_date"`
	WinningNumbers string `json:"winning_numbers"`
}

// JSONParser reads structured records. It accepts a bare array, an object with a "data" array,
// or a single record, and returns the record with the latest draw date.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

func (p *JSONParser) Parse(raw []byte) (models.Drawing, error) {
	if !gjson.ValidBytes(raw) {
		return models.Drawing{}, malformed("invalid JSON")
	}

	records := recordsOf(gjson.ParseBytes(raw))
	if len(records) == 0 {
		return models.Drawing{}, malformed("no drawing records")
	}

	var (
		best    models.Drawing
		found   bool
		lastErr error
	)
	for _, rec := range records {
		d, err := decodeRecord(rec)
		if err != nil {
			lastErr = err
			continue
		}
		if !found || best.Date.Before(d.Date) {
			best = d
			found = true
		}
	}
	if !found {
		return models.Drawing{}, lastErr
	}
	return best, nil
}

func recordsOf(root gjson.Result) []gjson.Result {
	switch {
	case root.IsArray():
		return root.Array()
	case root.Get("data").IsArray():
		return root.Get("data").Array()
	case root.IsObject() && root.Get("draw_date").Exists():
		return []gjson.Result{root}
	}
	return nil
}

func decodeRecord(rec gjson.Result) (models.Drawing, error) {
	var d models.Drawing
	if !rec.IsObject() {
		return d, malformed("record is not an object")
	}

	var r drawRecord
	if err := json.Unmarshal([]byte(rec.Raw), &r); err != nil {
		return d, malformed("decode record: %v", err)
	}
	if strings.TrimSpace(r.DrawDate) == "" {
		return d, malformed("record without draw_date")
	}
	date, err := models.ParseDrawDate(r.DrawDate)
	if err != nil {
		return d, malformed("%v", err)
	}

	fields := strings.FieldsFunc(r.WinningNumbers, func(c rune) bool {
		return c == ' ' || c == ',' || c == '\t'
	})
	if len(fields) < models.WhiteCount+1 {
		return d, malformed("winning_numbers has %d values, want %d", len(fields), models.WhiteCount+1)
	}
	nums := make([]int, models.WhiteCount+1)
	for i := range nums {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return d, malformed("winning number %q is not an integer", fields[i])
		}
		nums[i] = n
	}

	d.Date = date
	copy(d.White[:], nums[:models.WhiteCount])
	d.Powerball = nums[models.WhiteCount]
	if err := checkDrawing(d); err != nil {
		return models.Drawing{}, err
	}
	return d, nil
}
