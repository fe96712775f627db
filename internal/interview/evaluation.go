package interview

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/ai-interviewer/internal/ai"
	"go.uber.org/zap"
)

// EvaluationAgent produces the final structured feedback from the full
// interview transcript.
type EvaluationAgent struct {
	generator ai.Generator
	logger    *zap.Logger
}

// NewEvaluationAgent creates the evaluation agent.
func NewEvaluationAgent(generator ai.Generator, logger *zap.Logger) *EvaluationAgent {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EvaluationAgent{
		generator: generator,
		logger:    logger.With(zap.String("round", string(StageEvaluation))),
	}
}

// Evaluate builds a round-grouped summary of all answered questions, asks
// the model for an assessment and parses it. A partially completed
// interview is summarized as-is, not rejected.
func (e *EvaluationAgent) Evaluate(ctx context.Context, state *State) (*Evaluation, error) {
	summary := buildSummary(state.QAPairs)
	prompt := buildEvaluationPrompt(state, summary)

	e.logger.Debug("evaluating interview", zap.Int("qa_pairs", len(state.QAPairs)))

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate evaluation: %w", err)
	}

	evaluation := ParseEvaluation(raw)

	e.logger.Info("evaluation complete",
		zap.Int("score", evaluation.Score),
		zap.Int("strengths", len(evaluation.Strengths)),
		zap.Int("weaknesses", len(evaluation.Weaknesses)),
		zap.Int("suggestions", len(evaluation.Suggestions)),
	)

	return evaluation, nil
}

var roundHeaders = map[Stage]string{
	StageTechnical: "=== TECHNICAL ROUND ===",
	StageHR:        "=== HR ROUND ===",
	StageManager:   "=== MANAGERIAL ROUND ===",
}

// buildSummary renders the answered questions grouped by round in the fixed
// interview order.
func buildSummary(pairs []QuestionAnswer) string {
	if len(pairs) == 0 {
		return "No interview data available."
	}

	var parts []string
	for _, stage := range []Stage{StageTechnical, StageHR, StageManager} {
		num := 0
		for _, qa := range pairs {
			if qa.Stage != stage {
				continue
			}
			if num == 0 {
				parts = append(parts, roundHeaders[stage])
			}
			num++

			answer := qa.Answer
			if answer == "" {
				answer = "No answer provided"
			}
			parts = append(parts, fmt.Sprintf("\nQ%d: %s", num, qa.Question))
			parts = append(parts, fmt.Sprintf("A%d: %s\n", num, answer))
		}
	}

	return strings.Join(parts, "\n")
}

var scorePattern = regexp.MustCompile(`-?\d+`)

// ParseEvaluation turns the model's free-text assessment into a structured
// result. It is a pure function: section headers switch the active list,
// bulleted lines are collected under it, and the score is clamped to
// [0,100]. When no strengths or weaknesses could be extracted the whole
// response is kept verbatim as the overall feedback.
func ParseEvaluation(text string) *Evaluation {
	evaluation := &Evaluation{}

	var (
		section  string
		feedback strings.Builder
	)

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)

		switch {
		case strings.Contains(upper, "SCORE:"):
			if match := scorePattern.FindString(line); match != "" {
				if score, err := strconv.Atoi(match); err == nil {
					evaluation.Score = clampScore(score)
				}
			}
		case strings.Contains(upper, "STRENGTHS:"):
			section = "strengths"
		case strings.Contains(upper, "WEAKNESSES:"), strings.Contains(upper, "AREAS FOR IMPROVEMENT:"):
			section = "weaknesses"
		case strings.Contains(upper, "SUGGESTIONS:"), strings.Contains(upper, "RECOMMENDATIONS:"):
			section = "suggestions"
		case strings.Contains(upper, "OVERALL FEEDBACK:"), strings.Contains(upper, "SUMMARY:"):
			section = "feedback"
		case line != "" && section != "":
			cleaned := strings.TrimSpace(strings.TrimLeft(line, "•-* "))
			if cleaned == "" {
				continue
			}
			switch section {
			case "strengths":
				evaluation.Strengths = append(evaluation.Strengths, cleaned)
			case "weaknesses":
				evaluation.Weaknesses = append(evaluation.Weaknesses, cleaned)
			case "suggestions":
				evaluation.Suggestions = append(evaluation.Suggestions, cleaned)
			case "feedback":
				feedback.WriteString(cleaned)
				feedback.WriteString(" ")
			}
		}
	}

	evaluation.OverallFeedback = strings.TrimSpace(feedback.String())

	// Malformed output degrades to the raw response instead of an error.
	if len(evaluation.Strengths) == 0 && len(evaluation.Weaknesses) == 0 {
		evaluation.OverallFeedback = text
	}

	return evaluation
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
