package interview

import (
	"context"
	"fmt"

	"github.com/spigell/ai-interviewer/internal/ai"
	"go.uber.org/zap"
)

// RoundLimits configures the question budget of each round.
type RoundLimits struct {
	Technical int
	HR        int
	Manager   int
}

// DefaultRoundLimits mirrors the stock interview shape: a long technical
// round followed by short HR and managerial ones.
var DefaultRoundLimits = RoundLimits{
	Technical: 6,
	HR:        3,
	Manager:   2,
}

// DefaultPersonaNames are the interviewer names used when the configuration
// does not override them.
var DefaultPersonaNames = map[Stage]string{
	StageTechnical: "Alex",
	StageHR:        "Olivia",
	StageManager:   "Rahul",
}

// Workflow owns the four agents and advances an interview through its
// rounds: technical, then HR, then managerial, then evaluation. The order
// is total; the only branching predicate is whether the current round's
// question budget is exhausted.
type Workflow struct {
	agents     map[Stage]*PersonaAgent
	evaluation *EvaluationAgent
	logger     *zap.Logger
}

// NewWorkflow builds a workflow from the round limits and persona names.
// Missing names fall back to the defaults.
func NewWorkflow(limits RoundLimits, names map[Stage]string, generator ai.Generator, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}

	personaName := func(stage Stage) string {
		if name, ok := names[stage]; ok && name != "" {
			return name
		}
		return DefaultPersonaNames[stage]
	}

	agents := map[Stage]*PersonaAgent{
		StageTechnical: NewPersonaAgent(Persona{Stage: StageTechnical, Name: personaName(StageTechnical), MaxQuestions: limits.Technical}, generator, logger),
		StageHR:        NewPersonaAgent(Persona{Stage: StageHR, Name: personaName(StageHR), MaxQuestions: limits.HR}, generator, logger),
		StageManager:   NewPersonaAgent(Persona{Stage: StageManager, Name: personaName(StageManager), MaxQuestions: limits.Manager}, generator, logger),
	}

	return &Workflow{
		agents:     agents,
		evaluation: NewEvaluationAgent(generator, logger),
		logger:     logger,
	}
}

// Agent returns the persona agent for the given round, nil for terminal
// stages.
func (w *Workflow) Agent(stage Stage) *PersonaAgent {
	return w.agents[stage]
}

var nextStage = map[Stage]Stage{
	StageTechnical: StageHR,
	StageHR:        StageManager,
	StageManager:   StageEvaluation,
}

// Step advances the interview by exactly one turn: it produces the next
// question for the current round, or runs the evaluation when all rounds
// are exhausted. Calling Step while a question is pending is a no-op, so a
// failed turn can simply be retried.
func (w *Workflow) Step(ctx context.Context, state *State) error {
	if state.CurrentQuestion != "" || state.IsComplete {
		return nil
	}

	for {
		switch state.Stage {
		case StageTechnical, StageHR, StageManager:
			agent := w.agents[state.Stage]
			if state.Asked(state.Stage) >= agent.MaxQuestions() {
				w.logger.Info("round complete",
					zap.String("round", string(state.Stage)),
					zap.Int("questions", state.Asked(state.Stage)),
				)
				state.Stage = nextStage[state.Stage]
				continue
			}

			question, err := agent.AskQuestion(ctx, state)
			if err != nil {
				return err
			}

			state.CurrentQuestion = question
			state.Transcript = append(state.Transcript, Message{
				Role:  RoleInterviewer,
				Text:  question,
				Stage: state.Stage,
			})
			return nil

		case StageEvaluation:
			evaluation, err := w.evaluation.Evaluate(ctx, state)
			if err != nil {
				return err
			}

			state.Evaluation = evaluation
			state.IsComplete = true
			state.Stage = StageComplete
			return nil

		case StageComplete:
			return nil

		default:
			return fmt.Errorf("unknown interview stage: %s", state.Stage)
		}
	}
}

// Answer records the candidate's response to the pending question: it
// appends the transcript entry and the question/answer pair, bumps the
// round counter and clears the pending question so the next Step generates
// a new one.
func (w *Workflow) Answer(state *State, text string) error {
	if state.CurrentQuestion == "" {
		return fmt.Errorf("no pending question to answer")
	}

	state.Transcript = append(state.Transcript, Message{
		Role: RoleCandidate,
		Text: text,
	})

	state.QAPairs = append(state.QAPairs, QuestionAnswer{
		Question: state.CurrentQuestion,
		Answer:   text,
		Stage:    state.Stage,
	})

	switch state.Stage {
	case StageTechnical:
		state.TechnicalAsked++
	case StageHR:
		state.HRAsked++
	case StageManager:
		state.ManagerAsked++
	}

	state.CurrentQuestion = ""

	w.logger.Debug("answer recorded",
		zap.String("round", string(state.Stage)),
		zap.Int("answered", state.Asked(state.Stage)),
	)

	return nil
}
