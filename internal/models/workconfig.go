package models

import "fmt"

// WorkConfig holds the studio's working hours in decimal hours (9.5 = 09:30).
// It is loaded once per planning run and never mutated during it.
type WorkConfig struct {
	WorkdayStart          float64 `json:"workday_start" yaml:"workday_start" toml:"workday_start"`
	WorkdayEnd            float64 `json:"workday_end" yaml:"workday_end" toml:"workday_end"`
	LunchStart            float64 `json:"lunch_start" yaml:"lunch_start" toml:"lunch_start"`
	LunchEnd              float64 `json:"lunch_end" yaml:"lunch_end" toml:"lunch_end"`
	MeetingWindowStart    float64 `json:"meeting_window_start" yaml:"meeting_window_start" toml:"meeting_window_start"`
	MeetingWindowEnd      float64 `json:"meeting_window_end" yaml:"meeting_window_end" toml:"meeting_window_end"`
	StandardHoursPerDay   float64 `json:"standard_hours_per_day" yaml:"standard_hours_per_day" toml:"standard_hours_per_day"`
	FullDayAfternoonStart float64 `json:"full_day_afternoon_start" yaml:"full_day_afternoon_start" toml:"full_day_afternoon_start"` // start of the afternoon window checked for full-day blocks
	MeetingHours          float64 `json:"meeting_hours" yaml:"meeting_hours" toml:"meeting_hours"`                                  // default length of a meeting block
}

// FullDaySpan is the length of a full-day block: the whole working day, lunch included.
func (c WorkConfig) FullDaySpan() float64 {
	return c.WorkdayEnd - c.WorkdayStart
}

// Validate checks the ordering invariants of the working day.
func (c WorkConfig) Validate() error {
	if c.WorkdayStart < 0 || c.WorkdayEnd > 24 {
		return fmt.Errorf("workday %.2f-%.2f is outside 0-24", c.WorkdayStart, c.WorkdayEnd)
	}
	if !(c.WorkdayStart < c.LunchStart && c.LunchStart < c.LunchEnd && c.LunchEnd < c.WorkdayEnd) {
		return fmt.Errorf("expected workday_start < lunch_start < lunch_end < workday_end, got %.2f, %.2f, %.2f, %.2f",
			c.WorkdayStart, c.LunchStart, c.LunchEnd, c.WorkdayEnd)
	}
	if c.MeetingWindowStart < c.WorkdayStart || c.MeetingWindowEnd > c.WorkdayEnd || c.MeetingWindowStart >= c.MeetingWindowEnd {
		return fmt.Errorf("meeting window %.2f-%.2f must lie inside the workday %.2f-%.2f",
			c.MeetingWindowStart, c.MeetingWindowEnd, c.WorkdayStart, c.WorkdayEnd)
	}
	if c.StandardHoursPerDay <= 0 {
		return fmt.Errorf("standard_hours_per_day must be positive, got %.2f", c.StandardHoursPerDay)
	}
	if c.FullDayAfternoonStart < c.LunchEnd || c.FullDayAfternoonStart >= c.WorkdayEnd {
		return fmt.Errorf("full_day_afternoon_start %.2f must lie between lunch_end and workday_end", c.FullDayAfternoonStart)
	}
	if c.MeetingHours <= 0 {
		return fmt.Errorf("meeting_hours must be positive, got %.2f", c.MeetingHours)
	}
	return nil
}
