package constants

const (
	// Work config setting keys
	SettingWorkdayStart          = "workday_start"
	SettingWorkdayEnd            = "workday_end"
	SettingLunchStart            = "lunch_start"
	SettingLunchEnd              = "lunch_end"
	SettingMeetingWindowStart    = "meeting_window_start"
	SettingMeetingWindowEnd      = "meeting_window_end"
	SettingStandardHoursPerDay   = "standard_hours_per_day"
	SettingFullDayAfternoonStart = "full_day_afternoon_start"
	SettingMeetingHours          = "meeting_hours"

	// Default work config values, decimal hours
	DefaultWorkdayStart          = 9.0
	DefaultWorkdayEnd            = 18.0
	DefaultLunchStart            = 12.5
	DefaultLunchEnd              = 13.5
	DefaultMeetingWindowStart    = 10.0
	DefaultMeetingWindowEnd      = 17.0
	DefaultStandardHoursPerDay   = 8.0
	DefaultFullDayAfternoonStart = 14.0
	DefaultMeetingHours          = 1.0
)
