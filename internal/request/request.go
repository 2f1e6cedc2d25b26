// Package request reads plan requests: the typed plan_project call as a YAML or JSON
// document, with human-friendly dates resolved against a reference day.
package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/tj/go-naturaldate"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/traffic/internal/calendar"
	"github.com/julianstephens/traffic/internal/models"
)

type Format int

const (
	YAML Format = iota
	JSON
)

// FormatFor picks JSON for .json files and YAML for everything else.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// Decode reads one request. Unknown fields are rejected so that typos in field names
// do not silently fall back to defaults.
func Decode(r io.Reader, format Format) (models.PlanRequest, error) {
	var req models.PlanRequest
	switch format {
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return models.PlanRequest{}, fmt.Errorf("decoding JSON request: %w", err)
		}
	default:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&req); err != nil {
			if err == io.EOF {
				return models.PlanRequest{}, fmt.Errorf("decoding YAML request: empty document")
			}
			return models.PlanRequest{}, fmt.Errorf("decoding YAML request: %w", err)
		}
	}
	return req, nil
}

// Load reads and decodes the request file at path; "-" reads stdin as YAML.
func Load(path string) (models.PlanRequest, error) {
	if path == "-" {
		return Decode(os.Stdin, YAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return models.PlanRequest{}, fmt.Errorf("reading request: %w", err)
	}
	return Decode(bytes.NewReader(data), FormatFor(path))
}

// ResolveDate accepts YYYY-MM-DD or a natural phrase ("next monday", "in 2 weeks") and
// returns the date as YYYY-MM-DD. Phrases are resolved forward from ref.
func ResolveDate(s string, ref time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if t, err := calendar.ParseDate(s); err == nil {
		return calendar.FormatDate(t), nil
	}
	t, err := naturaldate.Parse(s, ref, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return "", fmt.Errorf("unrecognised date %q: %w", s, err)
	}
	return calendar.FormatDate(t), nil
}

// Normalize resolves the deadline and every phase start date against ref. A phase start
// that cannot be resolved is left as written; the planner reports it and skips the phase.
// An unresolvable deadline is an error.
func Normalize(req models.PlanRequest, ref time.Time) (models.PlanRequest, error) {
	out := req
	deadline, err := ResolveDate(req.Deadline, ref)
	if err != nil {
		return models.PlanRequest{}, fmt.Errorf("deadline: %w", err)
	}
	out.Deadline = deadline

	out.Phases = make([]models.PhaseRequest, len(req.Phases))
	for i, ph := range req.Phases {
		if start, err := ResolveDate(ph.StartDate, ref); err == nil && start != "" {
			ph.StartDate = start
		}
		out.Phases[i] = ph
	}
	return out, nil
}

// Schema returns the JSON Schema of a plan request, the contract for callers that build
// requests programmatically.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}
	s := r.Reflect(&models.PlanRequest{})
	s.Title = "traffic plan request"
	return json.MarshalIndent(s, "", "  ")
}
