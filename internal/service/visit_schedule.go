package service

import (
	"fmt"
	"time"
)

const (
	visitDateLayout = "2006-01-02"
	visitTimeLayout = "15:04"
)

// parseVisitDate accepts an ISO calendar date.
func parseVisitDate(raw string) (time.Time, error) {
	date, err := time.Parse(visitDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("visit date must be formatted %s", visitDateLayout)
	}
	return date, nil
}

// parseVisitTime accepts a 24h clock value and returns it normalized to HH:MM.
func parseVisitTime(raw string) (string, error) {
	clock, err := time.Parse(visitTimeLayout, raw)
	if err != nil {
		// Tolerate seconds, as submitted by some time pickers.
		clock, err = time.Parse("15:04:05", raw)
		if err != nil {
			return "", fmt.Errorf("visit time must be formatted %s", visitTimeLayout)
		}
	}
	return clock.Format(visitTimeLayout), nil
}
