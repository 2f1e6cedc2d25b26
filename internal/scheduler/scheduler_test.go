package scheduler

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/models"
)

func employeeWithDayOff(name string, day int) models.Employee {
	return models.Employee{Name: name, FixedDayOff: intPtr(day), Active: true}
}

func newTestScheduler(src *fakeSources) *Scheduler {
	return New(SourcesFrom(src)).WithClock(func() time.Time {
		return time.Date(2025, 2, 20, 12, 0, 0, 0, time.UTC)
	})
}

func request(deadline string, phases ...models.PhaseRequest) models.PlanRequest {
	return models.PlanRequest{
		ClientName:  "ACME Studios",
		ProjectName: "Spring campaign",
		ProjectType: "commercial",
		Phases:      phases,
		Deadline:    deadline,
		Reasoning:   "test",
	}
}

func shoot() models.PhaseRequest {
	return models.PhaseRequest{
		PhaseName:    "Shoot",
		Employees:    []string{"Anna", "Bram"},
		StartDate:    "2025-03-03",
		DurationDays: 2,
		Distribution: models.DistributionContiguous,
	}
}

func blockDates(blocks []models.PlacedBlock, employee string) []string {
	var out []string
	for _, b := range blocks {
		if b.EmployeeName == employee {
			out = append(out, b.WeekStart+"+"+string(rune('0'+b.DayOfWeek)))
		}
	}
	return out
}

func TestPlanProject_TwoEmployeesContiguous(t *testing.T) {
	src := newFakeSources()
	result, err := newTestScheduler(src).PlanProject(request("", shoot()), defaultConfig())
	require.NoError(t, err)

	require.Len(t, result.PlacedBlocks, 4)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "25-001", result.ProjectNumber)

	want := []models.PlacedBlock{
		{EmployeeName: "Anna", PhaseName: "Shoot", Discipline: "production", WeekStart: "2025-03-03", DayOfWeek: 0, StartHour: 9, DurationHours: 9},
		{EmployeeName: "Bram", PhaseName: "Shoot", Discipline: "production", WeekStart: "2025-03-03", DayOfWeek: 0, StartHour: 9, DurationHours: 9},
		{EmployeeName: "Anna", PhaseName: "Shoot", Discipline: "production", WeekStart: "2025-03-03", DayOfWeek: 1, StartHour: 9, DurationHours: 9},
		{EmployeeName: "Bram", PhaseName: "Shoot", Discipline: "production", WeekStart: "2025-03-03", DayOfWeek: 1, StartHour: 9, DurationHours: 9},
	}
	assert.Equal(t, want, result.PlacedBlocks)
	assert.Contains(t, result.SummaryText, "Anna: wk10 Mon 09:00-18:00")
	assert.Contains(t, result.SummaryText, "Bram: wk10 Tue 09:00-18:00")
}

func TestPlanProject_LeaveSkipsOnlyThatDay(t *testing.T) {
	src := newFakeSources()
	src.addLeave("Anna", "2025-03-03", "2025-03-03", constants.LeaveStatusApproved)

	result, err := newTestScheduler(src).PlanProject(request("", shoot()), defaultConfig())
	require.NoError(t, err)

	require.Len(t, result.PlacedBlocks, 3)
	assert.Equal(t, []string{"2025-03-03+1"}, blockDates(result.PlacedBlocks, "Anna"))
	assert.Equal(t, []string{"2025-03-03+0", "2025-03-03+1"}, blockDates(result.PlacedBlocks, "Bram"))

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Anna")
	assert.Contains(t, result.Warnings[0], "2025-03-03")
}

func TestPlanProject_PartTimeDayOff(t *testing.T) {
	src := newFakeSources()
	src.employees["Bram"] = employeeWithDayOff("Bram", 1) // Tuesdays

	result, err := newTestScheduler(src).PlanProject(request("", shoot()), defaultConfig())
	require.NoError(t, err)

	assert.Len(t, result.PlacedBlocks, 3)
	assert.Equal(t, []string{"2025-03-03+0"}, blockDates(result.PlacedBlocks, "Bram"))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "part-time")
	assert.Contains(t, result.Warnings[0], "2025-03-04")
}

func TestPlanProject_AvailabilityLookupFailureStillPlaces(t *testing.T) {
	src := newFakeSources()
	src.failLeave["Anna"] = true

	result, err := newTestScheduler(src).PlanProject(request("", shoot()), defaultConfig())
	require.NoError(t, err)

	assert.Len(t, result.PlacedBlocks, 4)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "assumed available")
}

func TestPlanProject_LeaveLookupFailureKeepsDayOff(t *testing.T) {
	src := newFakeSources()
	src.employees["Anna"] = employeeWithDayOff("Anna", 0) // Mondays
	src.failLeave["Anna"] = true
	phase := shoot()
	phase.Employees = []string{"Anna"}
	phase.DurationDays = 1

	result, err := newTestScheduler(src).PlanProject(request("", phase), defaultConfig())
	require.NoError(t, err)

	assert.Empty(t, result.PlacedBlocks)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "part-time")
	assert.Contains(t, result.Warnings[0], "2025-03-03")
	for _, w := range result.Warnings {
		assert.NotContains(t, w, "assumed available")
	}
}

func TestPlanProject_ProfileLookupFailureKeepsLeave(t *testing.T) {
	src := newFakeSources()
	src.failProfile["Anna"] = true
	src.addLeave("Anna", "2025-03-03", "2025-03-03", constants.LeaveStatusApproved)
	phase := shoot()
	phase.Employees = []string{"Anna"}
	phase.DurationDays = 1

	result, err := newTestScheduler(src).PlanProject(request("", phase), defaultConfig())
	require.NoError(t, err)

	assert.Empty(t, result.PlacedBlocks)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "approved holiday")
}

func TestPlanProject_BookingLookupFailureSkips(t *testing.T) {
	src := newFakeSources()
	src.failBookings["Bram"] = true

	result, err := newTestScheduler(src).PlanProject(request("", shoot()), defaultConfig())
	require.NoError(t, err)

	assert.Len(t, result.PlacedBlocks, 2)
	assert.Empty(t, blockDates(result.PlacedBlocks, "Bram"))
	assert.Len(t, result.Warnings, 2)
}

func TestPlanProject_ExistingBookingBlocksFullDay(t *testing.T) {
	src := newFakeSources()
	src.addBooking("Anna", "2025-03-03", 0, 15, 1)

	result, err := newTestScheduler(src).PlanProject(request("", shoot()), defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-03-03+1"}, blockDates(result.PlacedBlocks, "Anna"))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no free 8h slot for Anna on 2025-03-03")
}

func TestPlanProject_WeekendsSkipped(t *testing.T) {
	src := newFakeSources()
	ph := shoot()
	ph.Employees = []string{"Anna"}
	ph.StartDate = "2025-03-07" // Friday
	ph.DurationDays = 3

	result, err := newTestScheduler(src).PlanProject(request("", ph), defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-03-03+4", "2025-03-10+0", "2025-03-10+1"}, blockDates(result.PlacedBlocks, "Anna"))
}

func TestPlanProject_ContiguousStopsAtDeadline(t *testing.T) {
	src := newFakeSources()
	ph := shoot()
	ph.Employees = []string{"Anna"}
	ph.DurationDays = 5

	result, err := newTestScheduler(src).PlanProject(request("2025-03-05", ph), defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-03-03+0", "2025-03-03+1"}, blockDates(result.PlacedBlocks, "Anna"))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "only 2 of 5 days fit before deadline 2025-03-05")
}

func TestPlanProject_PerWeekOneDayOverThreeWeeks(t *testing.T) {
	src := newFakeSources()
	ph := models.PhaseRequest{
		PhaseName:    "Animation",
		Employees:    []string{"Anna"},
		StartDate:    "2025-03-03",
		DurationDays: 3,
		Distribution: models.DistributionPerWeek,
		DaysPerWeek:  1,
	}

	result, err := newTestScheduler(src).PlanProject(request("", ph), defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-03-03+0", "2025-03-10+0", "2025-03-17+0"}, blockDates(result.PlacedBlocks, "Anna"))
	for _, b := range result.PlacedBlocks {
		assert.LessOrEqual(t, b.DayOfWeek, 4)
	}
	assert.Empty(t, result.Warnings)
}

func TestPlanProject_PerWeekCountsWarnedDays(t *testing.T) {
	src := newFakeSources()
	src.addLeave("Anna", "2025-03-10", "2025-03-14", constants.LeaveStatusApproved)
	ph := models.PhaseRequest{
		PhaseName:    "Animation",
		Employees:    []string{"Anna"},
		StartDate:    "2025-03-03",
		DurationDays: 3,
		Distribution: models.DistributionPerWeek,
		DaysPerWeek:  1,
	}

	result, err := newTestScheduler(src).PlanProject(request("", ph), defaultConfig())
	require.NoError(t, err)

	// three attempts: the middle one lands on leave and is not retried
	assert.Equal(t, []string{"2025-03-03+0", "2025-03-17+0"}, blockDates(result.PlacedBlocks, "Anna"))
	assert.Len(t, result.Warnings, 1)
}

func TestPlanProject_PerWeekFeedbackPinnedToThursday(t *testing.T) {
	src := newFakeSources()
	ph := models.PhaseRequest{
		PhaseName:    "Client feedback",
		Employees:    []string{"Anna"},
		StartDate:    "2025-03-03",
		DurationDays: 4,
		HoursPerDay:  2,
		Distribution: models.DistributionPerWeek,
		DaysPerWeek:  2,
	}

	result, err := newTestScheduler(src).PlanProject(request("", ph), defaultConfig())
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"2025-03-03+3", "2025-03-03+4", "2025-03-10+3", "2025-03-10+4"},
		blockDates(result.PlacedBlocks, "Anna"))
	for _, b := range result.PlacedBlocks {
		assert.Equal(t, 9.0, b.StartHour)
		assert.Equal(t, 2.0, b.DurationHours)
	}
}

func TestPlanProject_PerWeekLateStartRollsForward(t *testing.T) {
	src := newFakeSources()
	ph := models.PhaseRequest{
		PhaseName:    "Design",
		Employees:    []string{"Anna"},
		StartDate:    "2025-03-07", // Friday
		DurationDays: 2,
		Distribution: models.DistributionPerWeek,
		DaysPerWeek:  2,
	}

	result, err := newTestScheduler(src).PlanProject(request("", ph), defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-03-03+4", "2025-03-10+0"}, blockDates(result.PlacedBlocks, "Anna"))
}

func TestPlanProject_PerWeekStopsAtDeadline(t *testing.T) {
	src := newFakeSources()
	ph := models.PhaseRequest{
		PhaseName:    "Design",
		Employees:    []string{"Anna"},
		StartDate:    "2025-03-03",
		DurationDays: 4,
		Distribution: models.DistributionPerWeek,
		DaysPerWeek:  2,
	}

	result, err := newTestScheduler(src).PlanProject(request("2025-03-05", ph), defaultConfig())
	require.NoError(t, err)

	assert.Len(t, result.PlacedBlocks, 2)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "only 2 of 4 days")
}

func TestPlanProject_LastWeek(t *testing.T) {
	src := newFakeSources()
	ph := models.PhaseRequest{
		PhaseName:    "Online edit",
		Employees:    []string{"Anna"},
		StartDate:    "2025-03-03",
		DurationDays: 3,
		Distribution: models.DistributionLastWeek,
	}

	// deadline Tuesday 2025-03-25: anchor is Tuesday 2025-03-18
	result, err := newTestScheduler(src).PlanProject(request("2025-03-25", ph), defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-03-17+1", "2025-03-17+2", "2025-03-17+3"}, blockDates(result.PlacedBlocks, "Anna"))
	assert.Empty(t, result.Warnings)
}

func TestPlanProject_LastWeekAnchorOnWeekendAndDeadlineCutoff(t *testing.T) {
	src := newFakeSources()
	ph := models.PhaseRequest{
		PhaseName:    "Online edit",
		Employees:    []string{"Anna"},
		StartDate:    "2025-03-03",
		DurationDays: 5,
		Distribution: models.DistributionLastWeek,
	}

	result, err := newTestScheduler(src).PlanProject(request("2025-03-19", ph), defaultConfig())
	require.NoError(t, err)

	// deadline Wednesday 03-19: anchor Wednesday 03-12; Wed, Thu, Fri, Mon, Tue fit
	assert.Equal(t,
		[]string{"2025-03-10+2", "2025-03-10+3", "2025-03-10+4", "2025-03-17+0", "2025-03-17+1"},
		blockDates(result.PlacedBlocks, "Anna"))

	// deadline Saturday 03-22: anchor Saturday 03-15 moves to Monday 03-17
	result, err = newTestScheduler(src).PlanProject(request("2025-03-22", ph), defaultConfig())
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"2025-03-17+0", "2025-03-17+1", "2025-03-17+2", "2025-03-17+3", "2025-03-17+4"},
		blockDates(result.PlacedBlocks, "Anna"))
}

func TestPlanProject_LastWeekWithoutDeadline(t *testing.T) {
	src := newFakeSources()
	ph := shoot()
	ph.Distribution = models.DistributionLastWeek

	result, err := newTestScheduler(src).PlanProject(request("", ph), defaultConfig())
	require.NoError(t, err)

	assert.Empty(t, result.PlacedBlocks)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "needs a project deadline")
}

func TestPlanProject_MeetingUsesMeetingWindowAndDefaultHours(t *testing.T) {
	src := newFakeSources()
	src.addBooking("Bram", "2025-03-03", 0, 10, 2)
	ph := models.PhaseRequest{
		PhaseName:    "Kickoff presentation",
		Employees:    []string{"Anna", "Bram"},
		StartDate:    "2025-03-03",
		DurationDays: 1,
	}

	result, err := newTestScheduler(src).PlanProject(request("", ph), defaultConfig())
	require.NoError(t, err)

	require.Len(t, result.PlacedBlocks, 2)
	assert.Equal(t, 10.0, result.PlacedBlocks[0].StartHour)
	assert.Equal(t, 1.0, result.PlacedBlocks[0].DurationHours)
	assert.Equal(t, 14.0, result.PlacedBlocks[1].StartHour)
	assert.Equal(t, "account", result.PlacedBlocks[0].Discipline)
}

func TestPlanProject_LaterPhasesStackOnEarlierOnes(t *testing.T) {
	src := newFakeSources()
	design := models.PhaseRequest{
		PhaseName: "Design", Employees: []string{"Anna"}, StartDate: "2025-03-03", DurationDays: 1, HoursPerDay: 4,
	}
	review := models.PhaseRequest{
		PhaseName: "Design review", Employees: []string{"Anna"}, StartDate: "2025-03-03", DurationDays: 1, HoursPerDay: 2,
	}
	more := models.PhaseRequest{
		PhaseName: "More design", Employees: []string{"Anna"}, StartDate: "2025-03-03", DurationDays: 1, HoursPerDay: 4,
	}

	result, err := newTestScheduler(src).PlanProject(request("", design, review, more), defaultConfig())
	require.NoError(t, err)

	require.Len(t, result.PlacedBlocks, 2)
	assert.Equal(t, 14.0, result.PlacedBlocks[0].StartHour, "4h does not fit before lunch")
	assert.Equal(t, 9.0, result.PlacedBlocks[1].StartHour)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "More design")

	// nothing was written back to the source
	assert.Empty(t, src.bookings)
}

func TestPlanProject_InvalidPhaseSkipped(t *testing.T) {
	src := newFakeSources()
	bad := shoot()
	bad.Employees = nil
	worse := shoot()
	worse.Distribution = "every_other_day"

	result, err := newTestScheduler(src).PlanProject(request("", bad, worse, shoot()), defaultConfig())
	require.NoError(t, err)

	assert.Len(t, result.PlacedBlocks, 4)
	require.Len(t, result.Warnings, 2)
	assert.True(t, strings.HasPrefix(result.Warnings[0], "phase 1 (Shoot) skipped"))
	assert.Contains(t, result.Warnings[1], "every_other_day")
}

func TestPlanProject_FatalErrors(t *testing.T) {
	src := newFakeSources()
	s := newTestScheduler(src)

	req := request("", shoot())
	req.ClientName = "Zzyzx"
	_, err := s.PlanProject(req, defaultConfig())
	assert.ErrorIs(t, err, ErrClientNotFound)

	req = request("", shoot())
	req.ProjectName = "  "
	_, err = s.PlanProject(req, defaultConfig())
	assert.ErrorIs(t, err, ErrProjectName)

	_, err = s.PlanProject(request(""), defaultConfig())
	assert.ErrorIs(t, err, ErrNoPhases)

	_, err = s.PlanProject(request("next friday", shoot()), defaultConfig())
	assert.ErrorIs(t, err, ErrInvalidDeadline)

	cfg := defaultConfig()
	cfg.LunchStart = 8
	_, err = s.PlanProject(request("", shoot()), cfg)
	assert.ErrorIs(t, err, ErrInvalidWorkConfig)
}

func TestResolveClient_Fuzzy(t *testing.T) {
	s := newTestScheduler(newFakeSources())

	c, err := s.ResolveClient("acme studios")
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)

	c, err = s.ResolveClient("bakkerij")
	require.NoError(t, err)
	assert.Equal(t, "c2", c.ID)

	_, err = s.ResolveClient("")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestPlanProject_SummaryAndProject(t *testing.T) {
	src := newFakeSources()
	result, err := newTestScheduler(src).PlanProject(request("2025-03-31", shoot()), defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "c1", result.Client.ID)
	assert.Equal(t, "Spring campaign", result.Project.Name)
	assert.Equal(t, "2025-03-31", result.Project.Deadline)
	assert.Equal(t, "test", result.Project.Reasoning)
	assert.True(t, strings.HasPrefix(result.SummaryText, `Project 25-001 "Spring campaign" for ACME Studios (commercial), deadline 2025-03-31`))
	assert.Contains(t, result.SummaryText, "Shoot [production, normal, contiguous, 8h/day]: 4 block(s)")
}
