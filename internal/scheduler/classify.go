package scheduler

import (
	"strings"
	"unicode"

	"github.com/julianstephens/traffic/internal/constants"
	"github.com/julianstephens/traffic/internal/models"
)

// feedbackMaxHours is the block length at or below which a phase is treated as feedback work.
const feedbackMaxHours = 2.0

// Classification is what the planner derives from a phase name.
type Classification struct {
	Discipline string
	Kind       models.Kind
}

type keywordRule struct {
	prefixes []string
	tag      string
}

// Rules are checked in order; the first rule with a word starting with one of its
// prefixes wins. Dutch and English vocabulary both occur in phase names.
var disciplineRules = []keywordRule{
	{[]string{"kick", "briefing", "presentat", "meeting", "overleg", "call"}, "account"},
	{[]string{"feedback", "review", "revis", "correct", "approval", "akkoord"}, "account"},
	{[]string{"concept", "script", "storyboard", "treatment", "idee"}, "concept"},
	{[]string{"sound", "audio", "voice", "mix", "music", "muziek"}, "sound"},
	{[]string{"design", "ontwerp", "styleframe", "illustrat", "artwork"}, "design"},
	{[]string{"animat", "motion", "rig", "render"}, "animation"},
	{[]string{"shoot", "film", "opname", "draaidag", "fotograf", "photo"}, "production"},
	{[]string{"edit", "montage", "offline", "online", "grading", "grade", "color", "colour"}, "edit"},
	{[]string{"dev", "build", "code", "website", "web"}, "development"},
}

var meetingPrefixes = []string{"kick", "presentat", "meeting", "overleg", "call", "briefing"}

var feedbackPrefixes = []string{"feedback", "review", "revis", "correct", "approval", "akkoord"}

func words(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func matchesAny(ws []string, prefixes []string) bool {
	for _, w := range ws {
		for _, p := range prefixes {
			if strings.HasPrefix(w, p) {
				return true
			}
		}
	}
	return false
}

// ClassifyDiscipline maps a phase name to a discipline tag, falling back to "general".
func ClassifyDiscipline(phaseName string) string {
	ws := words(phaseName)
	for _, rule := range disciplineRules {
		if matchesAny(ws, rule.prefixes) {
			return rule.tag
		}
	}
	return constants.DisciplineGeneral
}

// ClassifyKind decides whether a phase is a meeting, feedback or normal production work.
// hoursPerDay is the requested block length; zero means unset.
func ClassifyKind(phaseName string, hoursPerDay float64) models.Kind {
	ws := words(phaseName)
	switch {
	case matchesAny(ws, meetingPrefixes):
		return models.KindMeeting
	case matchesAny(ws, feedbackPrefixes):
		return models.KindFeedback
	case hoursPerDay > 0 && hoursPerDay <= feedbackMaxHours:
		return models.KindFeedback
	default:
		return models.KindNormal
	}
}

func Classify(phaseName string, hoursPerDay float64) Classification {
	return Classification{
		Discipline: ClassifyDiscipline(phaseName),
		Kind:       ClassifyKind(phaseName, hoursPerDay),
	}
}
