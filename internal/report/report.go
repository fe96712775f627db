package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spigell/ai-interviewer/internal/interview"
	"gopkg.in/yaml.v3"
)

// Format selects the report serialization.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Report is the exportable form of a finished (or abandoned) interview.
type Report struct {
	ID          string    `yaml:"id" json:"id"`
	GeneratedAt time.Time `yaml:"generated_at" json:"generated_at"`
	Candidate   Candidate `yaml:"candidate" json:"candidate"`
	Rounds      []Round   `yaml:"rounds" json:"rounds"`
	Evaluation  *Feedback `yaml:"evaluation,omitempty" json:"evaluation,omitempty"`
}

// Candidate captures the interviewee metadata.
type Candidate struct {
	Name            string `yaml:"name" json:"name"`
	JobRole         string `yaml:"job_role" json:"job_role"`
	ExperienceLevel string `yaml:"experience_level" json:"experience_level"`
}

// Round groups the answered questions of one interview phase.
type Round struct {
	Name      string `yaml:"name" json:"name"`
	Questions []QA   `yaml:"questions" json:"questions"`
}

// QA is one exported question/answer pair.
type QA struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// Feedback is the exported evaluation outcome.
type Feedback struct {
	Score           int      `yaml:"score" json:"score"`
	Strengths       []string `yaml:"strengths,omitempty" json:"strengths,omitempty"`
	Weaknesses      []string `yaml:"weaknesses,omitempty" json:"weaknesses,omitempty"`
	Suggestions     []string `yaml:"suggestions,omitempty" json:"suggestions,omitempty"`
	OverallFeedback string   `yaml:"overall_feedback,omitempty" json:"overall_feedback,omitempty"`
}

// FromState builds a report from the interview state, grouping answered
// questions by round in the fixed interview order.
func FromState(state *interview.State) *Report {
	r := &Report{
		ID:          state.ID,
		GeneratedAt: time.Now().UTC(),
		Candidate: Candidate{
			Name:            state.CandidateName,
			JobRole:         state.JobRole,
			ExperienceLevel: state.ExperienceLevel,
		},
	}

	for _, stage := range []interview.Stage{interview.StageTechnical, interview.StageHR, interview.StageManager} {
		round := Round{Name: string(stage)}
		for _, qa := range state.QAPairs {
			if qa.Stage != stage {
				continue
			}
			round.Questions = append(round.Questions, QA{Question: qa.Question, Answer: qa.Answer})
		}
		if len(round.Questions) > 0 {
			r.Rounds = append(r.Rounds, round)
		}
	}

	if state.Evaluation != nil {
		r.Evaluation = &Feedback{
			Score:           state.Evaluation.Score,
			Strengths:       state.Evaluation.Strengths,
			Weaknesses:      state.Evaluation.Weaknesses,
			Suggestions:     state.Evaluation.Suggestions,
			OverallFeedback: state.Evaluation.OverallFeedback,
		}
	}

	return r
}

// Marshal serializes the report in the requested format. YAML is the
// default for an unknown or empty format value.
func (r *Report) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(r, "", "  ")
	default:
		return yaml.Marshal(r)
	}
}

// WriteFile serializes the report to the given path.
func (r *Report) WriteFile(fs afero.Fs, path string, format Format) error {
	data, err := r.Marshal(format)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// DumpToTmpFile writes the report into a temporary file and returns its
// name.
func (r *Report) DumpToTmpFile(fs afero.Fs, format Format) (string, error) {
	data, err := r.Marshal(format)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	pattern := fmt.Sprintf("interview-%s-*.%s", shortID(r.ID), format)
	file, err := afero.TempFile(fs, "", pattern)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return file.Name(), nil
}

func shortID(id string) string {
	if idx := strings.Index(id, "-"); idx > 0 {
		return id[:idx]
	}
	return id
}
