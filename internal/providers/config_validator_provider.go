package providers

import (
	"errors"
	"net/url"
	"pbcheck/internal/lottery"
	"pbcheck/internal/structures"
	"sync"
	"time"

	"github.com/gookit/validate"
)

var registerValidators sync.Once

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	registerValidators.Do(func() {
		validate.AddValidator("timezone", isTimezone)
		validate.AddValidator("clock", isClock)
		validate.AddValidator("weekdays", isWeekdayList)
		validate.AddValidator("endpoint", isEndpoint)
	})
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return errors.New(v.Errors.String())
	}
	return nil
}

func isTimezone(val any) bool {
	s, ok := val.(string)
	if !ok || s == "" {
		return false
	}
	_, err := time.LoadLocation(s)
	return err == nil
}

func isClock(val any) bool {
	s, ok := val.(string)
	if !ok {
		return false
	}
	_, _, err := lottery.ParseClock(s)
	return err == nil
}

func isWeekdayList(val any) bool {
	days, ok := val.([]string)
	if !ok || len(days) == 0 {
		return false
	}
	for _, d := range days {
		if _, err := lottery.ParseWeekday(d); err != nil {
			return false
		}
	}
	return true
}

// isEndpoint accepts absolute http(s) URLs with a host.
func isEndpoint(val any) bool {
	s, ok := val.(string)
	if !ok {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
