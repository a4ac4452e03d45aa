package config

import (
	"fmt"
	"time"
)

// WindowConfig defines the scheduling horizon.
type WindowConfig struct {
	// StartDate is the first calendar day of the horizon, formatted
	// 2006-01-02.
	StartDate string `json:"start_date"`
	// NumDays is the number of consecutive calendar days.
	NumDays int `json:"num_days"`
	// SlotsPerDay is the number of hourly slots per day, starting at 09:00.
	SlotsPerDay int `json:"slots_per_day"`
}

// Validate checks mandatory fields.
func (c WindowConfig) Validate() error {
	if _, err := time.Parse("2006-01-02", c.StartDate); err != nil {
		return fmt.Errorf("window start_date: %w", err)
	}
	if c.NumDays < 1 {
		return fmt.Errorf("window num_days must be at least 1")
	}
	if c.SlotsPerDay < 1 {
		return fmt.Errorf("window slots_per_day must be at least 1")
	}
	return nil
}

// Start returns the parsed first day of the horizon.
func (c WindowConfig) Start() time.Time {
	t, _ := time.Parse("2006-01-02", c.StartDate)
	return t
}
