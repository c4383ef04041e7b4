package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"pbcheck/internal/models"
)

// Matches "Sat, Jan 17, 2026", "Saturday, January 17, 2026" and comma-less variants.
var datePattern = regexp.MustCompile(`(?i)\b(?:mon|tue|wed|thu|fri|sat|sun)[a-z]*\.?,?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2}),?\s+(\d{4})\b`)

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// findDate returns the first weekday/month/day/year date in text.
func findDate(text string) (models.DrawDate, bool) {
	for _, m := range datePattern.FindAllStringSubmatch(text, -1) {
		month := monthAbbrev[strings.ToLower(m[1])]
		day, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		year, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		// reject dates time.Date had to normalize, e.g. Feb 30
		if t.Month() != month || t.Day() != day {
			continue
		}
		return models.NewDrawDate(year, month, day), true
	}
	return models.DrawDate{}, false
}
