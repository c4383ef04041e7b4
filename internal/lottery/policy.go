package lottery

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"pbcheck/internal/models"
	"pbcheck/internal/structures"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// FetchPolicy decides whether the cached drawing should be refreshed from the remote source.
//
// A refresh is due when nothing is cached, when a drawing day's publication cutoff has passed
// since the last fetch, or when the cache is older than the staleness ceiling. Local time is
// computed with the tz database, so the cutoff instant follows the jurisdiction's DST rules.
type FetchPolicy struct {
	location   *time.Location
	drawDays   map[time.Weekday]bool
	cutoffHour int
	cutoffMin  int
	staleAfter time.Duration
}

func NewFetchPolicy(conf *structures.Config) (*FetchPolicy, error) {
	loc, err := time.LoadLocation(conf.Policy.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load drawing timezone: %w", err)
	}
	days := make(map[time.Weekday]bool, len(conf.Policy.DrawDays))
	for _, name := range conf.Policy.DrawDays {
		wd, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days[wd] = true
	}
	hour, minute, err := ParseClock(conf.Policy.Cutoff)
	if err != nil {
		return nil, err
	}
	if conf.Policy.StaleAfter <= 0 {
		return nil, fmt.Errorf("policy.staleAfter must be positive, got %s", conf.Policy.StaleAfter)
	}
	return &FetchPolicy{
		location:   loc,
		drawDays:   days,
		cutoffHour: hour,
		cutoffMin:  minute,
		staleAfter: conf.Policy.StaleAfter,
	}, nil
}

func (p *FetchPolicy) Location() *time.Location {
	return p.location
}

func (p *FetchPolicy) ShouldFetch(now time.Time, meta models.FetchMeta, cached bool) bool {
	if !cached || meta.IsZero() {
		return true
	}

	local := now.In(p.location)
	if p.drawDays[local.Weekday()] {
		cutoff := p.cutoffOn(local)
		if !local.Before(cutoff) && meta.LastFetch.Before(cutoff) {
			return true
		}
	}

	return now.Sub(meta.LastFetch) > p.staleAfter
}

// NextCutoff returns the first publication cutoff strictly after now.
func (p *FetchPolicy) NextCutoff(now time.Time) time.Time {
	local := now.In(p.location)
	for i := 0; i <= 7; i++ {
		day := local.AddDate(0, 0, i)
		if !p.drawDays[day.Weekday()] {
			continue
		}
		if cutoff := p.cutoffOn(day); cutoff.After(now) {
			return cutoff
		}
	}
	return time.Time{}
}

func (p *FetchPolicy) cutoffOn(local time.Time) time.Time {
	y, m, d := local.Date()
	return time.Date(y, m, d, p.cutoffHour, p.cutoffMin, 0, 0, p.location)
}

func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return wd, nil
}

// ParseClock parses a 24h "HH:MM" time of day.
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}
