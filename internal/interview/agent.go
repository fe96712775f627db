package interview

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/ai-interviewer/internal/ai"
	"go.uber.org/zap"
)

// Persona holds the round-specific configuration of an interviewer.
type Persona struct {
	Stage        Stage
	Name         string
	MaxQuestions int
}

// PersonaAgent generates questions for a single interview round. The three
// interviewers (technical, HR, manager) share this shape and differ only in
// configuration.
type PersonaAgent struct {
	persona   Persona
	generator ai.Generator
	logger    *zap.Logger
}

// NewPersonaAgent creates an interviewer for the given persona.
func NewPersonaAgent(persona Persona, generator ai.Generator, logger *zap.Logger) *PersonaAgent {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PersonaAgent{
		persona:   persona,
		generator: generator,
		logger:    logger.With(zap.String("round", string(persona.Stage))),
	}
}

// Stage returns the round this agent belongs to.
func (a *PersonaAgent) Stage() Stage {
	return a.persona.Stage
}

// MaxQuestions returns the question budget for this agent's round.
func (a *PersonaAgent) MaxQuestions() int {
	return a.persona.MaxQuestions
}

// AskQuestion produces the next question for the agent's round. It does not
// mutate the state; the workflow records the question. A model failure is
// returned as-is for the caller to surface.
func (a *PersonaAgent) AskQuestion(ctx context.Context, state *State) (string, error) {
	first := state.Asked(a.persona.Stage) == 0
	prompt := buildPersonaPrompt(a.persona.Stage, a.persona.Name, first, state)

	a.logger.Debug("generating question",
		zap.Bool("first", first),
		zap.Int("asked", state.Asked(a.persona.Stage)),
	)

	question, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate %s question: %w", a.persona.Stage, err)
	}

	question = strings.TrimSpace(question)
	a.logger.Info("question generated", zap.Int("length", utf8.RuneCountInString(question)))

	return question, nil
}
