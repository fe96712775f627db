package interview

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed templates/*.md
var templateFS embed.FS

const (
	// historyWindow limits how many recent transcript entries are embedded
	// into a persona prompt.
	historyWindow = 5

	// maxResumeRunes caps the resume excerpt embedded into prompts.
	maxResumeRunes = 2000

	resumeContinuesMarker = "...(resume continues)"

	noConversation = "No previous conversation."
)

func loadTemplate(name string) string {
	data, err := templateFS.ReadFile("templates/" + name + ".md")
	if err != nil {
		// Templates are compiled in; a missing one is a programming error.
		panic(fmt.Sprintf("missing prompt template %q: %v", name, err))
	}
	return string(data)
}

// buildPersonaPrompt renders the question prompt for the given round. The
// first question of a round uses the introduction template, follow-ups use
// the regular one with a windowed conversation history.
func buildPersonaPrompt(stage Stage, interviewerName string, first bool, state *State) string {
	name := string(stage)
	if first {
		name += "_first"
	}

	prompt := loadTemplate(name)
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE_NAME}}", state.CandidateName)
	prompt = strings.ReplaceAll(prompt, "{{JOB_ROLE}}", state.JobRole)
	prompt = strings.ReplaceAll(prompt, "{{EXPERIENCE_LEVEL}}", state.ExperienceLevel)
	prompt = strings.ReplaceAll(prompt, "{{INTERVIEWER_NAME}}", interviewerName)
	prompt = strings.ReplaceAll(prompt, "{{CONVERSATION_HISTORY}}", renderHistory(state.Transcript))

	return prompt + resumeContext(state.ResumeText)
}

// buildEvaluationPrompt renders the final evaluation prompt around the
// round-grouped interview summary.
func buildEvaluationPrompt(state *State, summary string) string {
	prompt := loadTemplate("evaluation")
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE_NAME}}", state.CandidateName)
	prompt = strings.ReplaceAll(prompt, "{{JOB_ROLE}}", state.JobRole)
	prompt = strings.ReplaceAll(prompt, "{{EXPERIENCE_LEVEL}}", state.ExperienceLevel)
	prompt = strings.ReplaceAll(prompt, "{{INTERVIEW_SUMMARY}}", summary)
	return prompt
}

// renderHistory formats the most recent transcript entries for prompt
// context, one line per turn.
func renderHistory(messages []Message) string {
	if len(messages) == 0 {
		return noConversation
	}

	recent := messages
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	lines := make([]string, 0, len(recent))
	for _, msg := range recent {
		speaker := "Candidate"
		if msg.Role == RoleInterviewer {
			speaker = "Interviewer"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, msg.Text))
	}

	return strings.Join(lines, "\n")
}

// resumeContext renders the optional resume block appended to persona
// prompts. The excerpt is capped at maxResumeRunes with a continuation
// marker when truncated.
func resumeContext(resume string) string {
	if resume == "" {
		return ""
	}

	excerpt := resume
	marker := ""
	if runes := []rune(resume); len(runes) > maxResumeRunes {
		excerpt = string(runes[:maxResumeRunes])
		marker = resumeContinuesMarker
	}

	return fmt.Sprintf(
		"\n\nCANDIDATE'S RESUME:\n%s\n%s\n\nUse this resume information to ask more personalized and relevant questions based on the candidate's actual experience and skills.",
		excerpt, marker,
	)
}
