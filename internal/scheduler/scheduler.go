package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/logger"
	"github.com/julianstephens/traffic/internal/models"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrProjectName       = errors.New("project name is required")
	ErrNoPhases          = errors.New("at least one phase is required")
	ErrInvalidDeadline   = errors.New("invalid deadline")
	ErrInvalidWorkConfig = errors.New("invalid work config")
)

// Scheduler turns a PlanRequest into a PlanningResult. It holds no state between runs;
// every lookup goes to the injected sources.
type Scheduler struct {
	src Sources
	now func() time.Time
}

func New(src Sources) *Scheduler {
	return &Scheduler{src: src, now: time.Now}
}

// WithClock overrides the clock used for the project number year.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// PlanProject schedules every phase of req in input order. Only an unknown client, a
// missing project name, no phases, a bad deadline or an invalid cfg return an error;
// everything else ends up in the result's warnings.
func (s *Scheduler) PlanProject(req models.PlanRequest, cfg models.WorkConfig) (models.PlanningResult, error) {
	var result models.PlanningResult

	if err := cfg.Validate(); err != nil {
		return result, fmt.Errorf("%w: %v", ErrInvalidWorkConfig, err)
	}
	if strings.TrimSpace(req.ProjectName) == "" {
		return result, ErrProjectName
	}
	if len(req.Phases) == 0 {
		return result, ErrNoPhases
	}

	var deadline time.Time
	hasDeadline := strings.TrimSpace(req.Deadline) != ""
	if hasDeadline {
		d, err := calendar.ParseDate(req.Deadline)
		if err != nil {
			return result, fmt.Errorf("%w: %v", ErrInvalidDeadline, err)
		}
		deadline = d
	}

	client, err := s.ResolveClient(req.ClientName)
	if err != nil {
		return result, err
	}

	number, err := s.src.Clients.NextProjectNumber(s.now().Year())
	if err != nil {
		return result, fmt.Errorf("allocating project number: %w", err)
	}

	logger.Info("planning project", "client", client.Name, "project", req.ProjectName, "number", number, "phases", len(req.Phases))

	r := &run{
		oracle:   NewOracle(s.src.Leave, s.src.Profiles),
		index:    NewBookingIndex(s.src.Bookings),
		finder:   NewSlotFinder(cfg),
		deadline: deadline,
		hasDL:    hasDeadline,
		pending:  make(map[string][]models.Booking),
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "Project %s %q for %s", number, req.ProjectName, client.Name)
	if req.ProjectType != "" {
		fmt.Fprintf(&summary, " (%s)", req.ProjectType)
	}
	if hasDeadline {
		fmt.Fprintf(&summary, ", deadline %s", calendar.FormatDate(deadline))
	}
	summary.WriteString("\n")

	for i, ph := range req.Phases {
		p, err := preparePhase(ph, cfg)
		if err != nil {
			r.warn("phase %d (%s) skipped: %v", i+1, ph.PhaseName, err)
			continue
		}

		placedBefore, linesBefore := len(r.blocks), len(r.lines)
		r.schedulePhase(p)

		fmt.Fprintf(&summary, "\n%s [%s, %s, %s, %s/day]: %d block(s)\n",
			ph.PhaseName, p.class.Discipline, p.class.Kind, p.dist, formatDuration(p.hours), len(r.blocks)-placedBefore)
		for _, line := range r.lines[linesBefore:] {
			summary.WriteString("  " + line + "\n")
		}
	}

	if len(r.warnings) > 0 {
		fmt.Fprintf(&summary, "\n%d warning(s)\n", len(r.warnings))
	}

	result = models.PlanningResult{
		ProjectNumber: number,
		Client:        client,
		Project: models.Project{
			Number:    number,
			ClientID:  client.ID,
			Name:      req.ProjectName,
			Type:      req.ProjectType,
			Deadline:  req.Deadline,
			Reasoning: req.Reasoning,
		},
		PlacedBlocks: r.blocks,
		Warnings:     r.warnings,
		SummaryText:  summary.String(),
	}
	if result.PlacedBlocks == nil {
		result.PlacedBlocks = []models.PlacedBlock{}
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	return result, nil
}

// preparePhase validates a phase and resolves its defaults.
func preparePhase(ph models.PhaseRequest, cfg models.WorkConfig) (phasePlan, error) {
	if len(ph.Employees) == 0 {
		return phasePlan{}, errors.New("no employees")
	}
	if ph.DurationDays < 1 {
		return phasePlan{}, fmt.Errorf("duration_days must be at least 1, got %d", ph.DurationDays)
	}
	if !ph.Distribution.Valid() {
		return phasePlan{}, fmt.Errorf("unknown distribution %q", ph.Distribution)
	}
	start, err := calendar.ParseDate(ph.StartDate)
	if err != nil {
		return phasePlan{}, err
	}
	if ph.HoursPerDay < 0 {
		return phasePlan{}, fmt.Errorf("hours_per_day must not be negative, got %.2f", ph.HoursPerDay)
	}

	class := Classify(ph.PhaseName, ph.HoursPerDay)

	hours := ph.HoursPerDay
	if hours == 0 {
		hours = cfg.StandardHoursPerDay
		if class.Kind == models.KindMeeting {
			hours = cfg.MeetingHours
		}
	}

	dist := ph.Distribution
	if dist == "" {
		dist = models.DistributionContiguous
	}

	perWeek := ph.DaysPerWeek
	if perWeek < 1 {
		perWeek = 1
	}
	if perWeek > 5 {
		perWeek = 5
	}

	return phasePlan{
		req:         ph,
		class:       class,
		start:       start,
		hours:       hours,
		dist:        dist,
		daysPerWeek: perWeek,
	}, nil
}

// ResolveClient finds a client by exact (case-insensitive) name first, then by fuzzy match.
func (s *Scheduler) ResolveClient(name string) (models.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Client{}, fmt.Errorf("%w: empty client name", ErrClientNotFound)
	}
	clients, err := s.src.Clients.GetAllClients()
	if err != nil {
		return models.Client{}, fmt.Errorf("reading clients: %w", err)
	}
	for _, c := range clients {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}

	names := make([]string, len(clients))
	for i, c := range clients {
		names[i] = c.Name
	}
	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return models.Client{}, fmt.Errorf("%w: %q", ErrClientNotFound, name)
	}
	best := clients[matches[0].Index]
	logger.Debug("client resolved by fuzzy match", "query", name, "client", best.Name, "score", matches[0].Score)
	return best, nil
}
