package interview

import (
	"github.com/google/uuid"
)

// Stage identifies whose turn it is in the interview.
type Stage string

const (
	StageTechnical  Stage = "technical"
	StageHR         Stage = "hr"
	StageManager    Stage = "manager"
	StageEvaluation Stage = "evaluation"
	StageComplete   Stage = "complete"
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleInterviewer Role = "agent"
	RoleCandidate   Role = "candidate"
)

// Message is a single entry in the interview transcript.
type Message struct {
	Role  Role
	Text  string
	Stage Stage // set for interviewer messages, empty for candidate ones
}

// QuestionAnswer pairs a finalized question with the candidate's answer
// and the round it belongs to.
type QuestionAnswer struct {
	Question string
	Answer   string
	Stage    Stage
}

// Evaluation is the structured outcome of the final evaluation pass.
type Evaluation struct {
	Score           int
	Strengths       []string
	Weaknesses      []string
	Suggestions     []string
	OverallFeedback string
}

// State carries everything about one interview session. It is owned by a
// single caller and mutated only through Workflow.Step and Workflow.Answer.
type State struct {
	ID              string
	CandidateName   string
	JobRole         string
	ExperienceLevel string
	ResumeText      string

	Stage           Stage
	TechnicalAsked  int
	HRAsked         int
	ManagerAsked    int
	Transcript      []Message
	QAPairs         []QuestionAnswer
	CurrentQuestion string
	IsComplete      bool
	Evaluation      *Evaluation
}

// NewState creates the initial state for an interview. The resume text may
// be empty when the candidate did not provide one.
func NewState(candidateName, jobRole, experienceLevel, resumeText string) *State {
	return &State{
		ID:              uuid.NewString(),
		CandidateName:   candidateName,
		JobRole:         jobRole,
		ExperienceLevel: experienceLevel,
		ResumeText:      resumeText,
		Stage:           StageTechnical,
	}
}

// Asked returns the number of answered questions for the given round.
func (s *State) Asked(stage Stage) int {
	switch stage {
	case StageTechnical:
		return s.TechnicalAsked
	case StageHR:
		return s.HRAsked
	case StageManager:
		return s.ManagerAsked
	default:
		return 0
	}
}
