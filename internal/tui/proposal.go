package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/models"
)

var (
	proposalTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	employeeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Width(12)

	slotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// RenderProposal formats a planning result for the terminal: blocks grouped by employee,
// then warnings.
func RenderProposal(r models.PlanningResult) string {
	var b strings.Builder
	title := fmt.Sprintf("%s · %s · %s", r.ProjectNumber, r.Client.Name, r.Project.Name)
	b.WriteString(proposalTitleStyle.Render(title))
	b.WriteString("\n\n")

	byEmployee := map[string][]models.PlacedBlock{}
	var names []string
	for _, pb := range r.PlacedBlocks {
		if _, ok := byEmployee[pb.EmployeeName]; !ok {
			names = append(names, pb.EmployeeName)
		}
		byEmployee[pb.EmployeeName] = append(byEmployee[pb.EmployeeName], pb)
	}
	sort.Strings(names)

	if len(names) == 0 {
		b.WriteString("No blocks placed.\n")
	}
	for _, name := range names {
		blocks := byEmployee[name]
		sort.SliceStable(blocks, func(i, j int) bool {
			if blocks[i].WeekStart != blocks[j].WeekStart {
				return blocks[i].WeekStart < blocks[j].WeekStart
			}
			if blocks[i].DayOfWeek != blocks[j].DayOfWeek {
				return blocks[i].DayOfWeek < blocks[j].DayOfWeek
			}
			return blocks[i].StartHour < blocks[j].StartHour
		})
		for i, pb := range blocks {
			label := ""
			if i == 0 {
				label = name
			}
			b.WriteString(employeeStyle.Render(label))
			b.WriteString(slotStyle.Render(blockLabel(pb)))
			b.WriteString("  " + pb.PhaseName + "\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range r.Warnings {
			b.WriteString(warningStyle.Render("⚠ "+w) + "\n")
		}
	}
	return b.String()
}

func blockLabel(pb models.PlacedBlock) string {
	week := pb.WeekStart
	if monday, err := calendar.ParseDate(pb.WeekStart); err == nil {
		week = fmt.Sprintf("wk%d", calendar.ISOWeek(monday))
	}
	return fmt.Sprintf("%s %s %s-%s", week, calendar.DayName(pb.DayOfWeek),
		calendar.FormatHour(pb.StartHour), calendar.FormatHour(pb.StartHour+pb.DurationHours))
}

// ConfirmCommit asks whether the proposal should be written to the bookings table.
func ConfirmCommit(r models.PlanningResult) (bool, error) {
	confirmed := false
	desc := fmt.Sprintf("%d block(s) for project %s", len(r.PlacedBlocks), r.ProjectNumber)
	if len(r.Warnings) > 0 {
		desc += fmt.Sprintf(", %d warning(s)", len(r.Warnings))
	}
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Commit this proposal?").
				Description(desc).
				Affirmative("Commit").
				Negative("Discard").
				Value(&confirmed),
		),
	).Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}
