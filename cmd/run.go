package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spigell/ai-interviewer/internal/ai"
	"github.com/spigell/ai-interviewer/internal/ai/gemini"
	"github.com/spigell/ai-interviewer/internal/interview"
	"github.com/spigell/ai-interviewer/internal/logger"
	"github.com/spigell/ai-interviewer/internal/report"
	"github.com/spigell/ai-interviewer/internal/resume"
	"github.com/spigell/ai-interviewer/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes            = "Yes"
	PromptNo             = "No"
	PromptShowTranscript = "Show full transcript"
	PromptSaveReport     = "Save report to file"
	PromptQuit           = "Quit"
)

var errExit = errors.New("exit requested")

var experienceLevels = []string{"Junior", "Mid-Level", "Senior"}

var actionPrompt = promptui.Select{
	Label: "Interview finished. What next?",
	Items: []string{PromptShowTranscript, PromptSaveReport, PromptQuit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive interview session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "path to the candidate resume (.pdf or plain text)")
	runCmd.Flags().String("report-file", "", "write the interview report to this file")
	runCmd.Flags().String("report-format", "", "report format: yaml or json (default is yaml)")

	viper.BindPFlag("resume.file", runCmd.Flags().Lookup("resume"))
	viper.BindPFlag("report.file", runCmd.Flags().Lookup("report-file"))
	viper.BindPFlag("report.format", runCmd.Flags().Lookup("report-format"))
}

// run is the main command for the cli.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the ai-interviewer", zap.String("version", version))

	limits := roundLimits(config)
	names, err := personaNames(config)
	if err != nil {
		logger.Fatal("reading persona overrides", zap.Error(err))
	}

	generator, err := buildGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"building the gemini generator",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or the ai.gemini section in the configuration file"),
		)
	}

	resumeText := loadResume(config, logger)

	candidateName, jobRole, level, err := collectCandidateInfo()
	if err != nil {
		logger.Fatal("collecting candidate info", zap.Error(err))
	}

	state := interview.NewState(candidateName, jobRole, level, resumeText)
	workflow := interview.NewWorkflow(limits, names, generator, logger)

	logger.Info("starting the interview",
		zap.String("interview_id", state.ID),
		zap.String("job_role", jobRole),
		zap.String("experience_level", level),
		zap.Bool("resume_attached", resumeText != ""),
	)

	if err := runInterview(ctx, workflow, state); err != nil {
		logger.Fatal("interview aborted", zap.Error(err))
	}

	printEvaluation(state)

	for {
		_, action, err := actionPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, state, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// runInterview drives the workflow until the evaluation completes: one
// question per step, one answer per question. Empty answers are rejected
// here, not by the workflow.
func runInterview(ctx context.Context, workflow *interview.Workflow, state *interview.State) error {
	scanner := bufio.NewScanner(os.Stdin)
	var currentRound interview.Stage

	for !state.IsComplete {
		if err := workflow.Step(ctx, state); err != nil {
			// Step is idempotent over a pending question, so retrying the
			// same turn is always safe.
			if askRetry(err) {
				continue
			}
			return err
		}

		if state.IsComplete {
			break
		}

		if state.Stage != currentRound {
			currentRound = state.Stage
			printRoundHeader(currentRound)
		}

		agent := workflow.Agent(state.Stage)
		fmt.Printf("\nQuestion %d/%d:\n%s\n", state.Asked(state.Stage)+1, agent.MaxQuestions(), state.CurrentQuestion)

		answer, ok := readAnswer(scanner)
		if !ok {
			return errors.New("input closed before the interview finished")
		}

		if err := workflow.Answer(state, answer); err != nil {
			return err
		}
	}

	return nil
}

func askRetry(stepErr error) bool {
	fmt.Printf("\nGenerating the next step failed: %v\n", stepErr)

	retryPrompt := promptui.Select{
		Label: "Retry?",
		Items: []string{PromptYes, PromptNo},
	}

	_, choice, err := retryPrompt.Run()
	return err == nil && choice == PromptYes
}

func readAnswer(scanner *bufio.Scanner) (string, bool) {
	for {
		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			return "", false
		}

		answer := strings.TrimSpace(scanner.Text())
		if answer != "" {
			return answer, true
		}

		fmt.Println("Please provide an answer.")
	}
}

var roundTitles = map[interview.Stage]string{
	interview.StageTechnical: "TECHNICAL ROUND",
	interview.StageHR:        "HR ROUND",
	interview.StageManager:   "MANAGERIAL ROUND",
}

func printRoundHeader(stage interview.Stage) {
	line := strings.Repeat("=", 50)
	fmt.Printf("\n%s\n%s\n%s\n", line, roundTitles[stage], line)
}

func printEvaluation(state *interview.State) {
	line := strings.Repeat("=", 50)
	fmt.Printf("\n%s\nINTERVIEW COMPLETE\n%s\n", line, line)

	evaluation := state.Evaluation
	if evaluation == nil {
		return
	}

	fmt.Printf("\nScore: %d/100\n", evaluation.Score)

	printSection := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Printf("\n%s:\n", title)
		for _, item := range items {
			fmt.Printf("  - %s\n", item)
		}
	}

	printSection("Strengths", evaluation.Strengths)
	printSection("Weaknesses", evaluation.Weaknesses)
	printSection("Suggestions", evaluation.Suggestions)

	if evaluation.OverallFeedback != "" {
		fmt.Printf("\nOverall feedback:\n%s\n\n", evaluation.OverallFeedback)
	}
}

func handleAction(action string, state *interview.State, logger *zap.Logger) error {
	switch action {
	case PromptShowTranscript:
		printTranscript(state)
		return nil
	case PromptSaveReport:
		return saveReport(state, logger)
	case PromptQuit:
		logger.Info("exiting", zap.String("reason", "got quit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printTranscript(state *interview.State) {
	for _, msg := range state.Transcript {
		if msg.Role == interview.RoleInterviewer {
			fmt.Printf("\nInterviewer (%s): %s\n", msg.Stage, msg.Text)
			continue
		}
		fmt.Printf("You: %s\n", msg.Text)
	}
}

func saveReport(state *interview.State, logger *zap.Logger) error {
	rep := report.FromState(state)

	format := report.FormatYAML
	if strings.EqualFold(viper.GetString("report.format"), string(report.FormatJSON)) {
		format = report.FormatJSON
	}

	fs := afero.NewOsFs()

	if path := viper.GetString("report.file"); path != "" {
		if err := rep.WriteFile(fs, path, format); err != nil {
			return err
		}
		logger.Info("report saved", zap.String("filename", path))
		return nil
	}

	filename, err := rep.DumpToTmpFile(fs, format)
	if err != nil {
		return fmt.Errorf("dump report to file: %w", err)
	}

	logger.Info("report saved", zap.String("filename", filename))
	return nil
}

func collectCandidateInfo() (name, jobRole, level string, err error) {
	nonEmpty := func(input string) error {
		if strings.TrimSpace(input) == "" {
			return errors.New("value must not be empty")
		}
		return nil
	}

	namePrompt := promptui.Prompt{Label: "Your name", Validate: nonEmpty}
	if name, err = namePrompt.Run(); err != nil {
		return "", "", "", err
	}

	rolePrompt := promptui.Prompt{Label: "Job role you are applying for", Validate: nonEmpty}
	if jobRole, err = rolePrompt.Run(); err != nil {
		return "", "", "", err
	}

	levelPrompt := promptui.Select{Label: "Experience level", Items: experienceLevels}
	if _, level, err = levelPrompt.Run(); err != nil {
		return "", "", "", err
	}

	return strings.TrimSpace(name), strings.TrimSpace(jobRole), level, nil
}

func buildGenerator(ctx context.Context, cfg *AIConfig, lg *zap.Logger) (ai.Generator, error) {
	if cfg != nil {
		provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
		if provider != "" && provider != "gemini" {
			return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
		}
	}

	gem := &GeminiConfig{}
	if cfg != nil && cfg.Gemini != nil {
		gem = cfg.Gemini
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: firstNonEmpty(gem.APIKey, viper.GetString("ai.gemini.api-key")),
		File:  firstNonEmpty(gem.APIKeyFile, viper.GetString("ai.gemini.api-key-file")),
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithCommonFields(lg, "gemini", gem.Model)

	return gemini.NewGenerator(ctx, apiKey, gem.Model, gem.MaxRetries, gem.MaxLogLength, genLogger)
}

func loadResume(config *Config, logger *zap.Logger) string {
	path := viper.GetString("resume.file")
	if path == "" && config.Resume != nil {
		path = config.Resume.File
	}

	if path == "" {
		return ""
	}

	text, err := resume.Load(afero.NewOsFs(), path)
	if err != nil {
		logger.Warn("continuing without a resume", zap.Error(err))
		return ""
	}

	logger.Info("resume loaded", zap.String("file", path), zap.Int("characters", len(text)))
	return text
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
