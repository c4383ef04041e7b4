package models

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const drawDateLayout = "2006-01-02"

// legacy layouts accepted when reading values written by older clients
var drawDateFallbackLayouts = []string{
	"Mon, Jan 2, 2006",
	"Mon, Jan 2 2006",
	"Mon Jan 2, 2006",
	"Mon Jan 2 2006",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// DrawDate is a civil calendar date without a time of day.
type DrawDate struct {
	t time.Time
}

func NewDrawDate(year int, month time.Month, day int) DrawDate {
	return DrawDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDrawDate(s string) (DrawDate, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(drawDateLayout, s); err == nil {
		return NewDrawDate(t.Date()), nil
	}
	for _, layout := range drawDateFallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDrawDate(t.Date()), nil
		}
	}
	return DrawDate{}, fmt.Errorf("unrecognized draw date %q", s)
}

func (d DrawDate) IsZero() bool               { return d.t.IsZero() }
func (d DrawDate) Before(other DrawDate) bool { return d.t.Before(other.t) }
func (d DrawDate) Weekday() time.Weekday      { return d.t.Weekday() }

func (d DrawDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(drawDateLayout)
}

// Long renders the date the way the drawing page shows it, e.g. "Saturday, January 17, 2026".
func (d DrawDate) Long() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format("Monday, January 2, 2006")
}

func (d DrawDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DrawDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = DrawDate{}
		return nil
	}
	parsed, err := ParseDrawDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Drawing is one official result. Uniqueness of White is expected from the source but not enforced.
type Drawing struct {
	Date      DrawDate        `json:"date"`
	White     [WhiteCount]int `json:"white"`
	Powerball int             `json:"powerball"`
}

// Check reports the first missing or out of range field. Duplicate white values are tolerated.
func (d Drawing) Check() error {
	if d.Date.IsZero() {
		return fmt.Errorf("missing draw date")
	}
	for i, n := range d.White {
		if !InWhiteRange(n) {
			return fmt.Errorf("white ball %d out of range: %d", i+1, n)
		}
	}
	if !InPowerballRange(d.Powerball) {
		return fmt.Errorf("powerball out of range: %d", d.Powerball)
	}
	return nil
}

// FetchMeta records the last successful fetch-and-parse cycle.
type FetchMeta struct {
	LastFetch time.Time `json:"lastFetch"`
}

func (m FetchMeta) IsZero() bool {
	return m.LastFetch.IsZero()
}
