package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/spigell/ai-interviewer/internal/interview"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "ai-interviewer"
)

type Config struct {
	Interview *InterviewConfig `mapstructure:"interview"`
	Resume    *ResumeConfig    `mapstructure:"resume"`
	Report    *ReportConfig    `mapstructure:"report"`
	AI        *AIConfig        `mapstructure:"ai"`
}

type InterviewConfig struct {
	TechnicalQuestions int `mapstructure:"technical-questions"`
	HRQuestions        int `mapstructure:"hr-questions"`
	ManagerQuestions   int `mapstructure:"manager-questions"`
	// Personas is a free-form map keyed by round name; decoded separately
	// so unknown rounds can be rejected with a useful error.
	Personas map[string]any `mapstructure:"personas"`
}

type ResumeConfig struct {
	File string `mapstructure:"file"`
}

type ReportConfig struct {
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ai-interviewer is a cli for running simulated multi-round job interviews against a hosted LLM",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load()

	if err := viper.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ai-interviewer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Everything has a default or an env binding, so a missing default
		// config file is fine. An explicitly requested one is not.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

// roundLimits merges configured question budgets over the defaults.
func roundLimits(cfg *Config) interview.RoundLimits {
	limits := interview.DefaultRoundLimits

	if cfg.Interview == nil {
		return limits
	}

	if cfg.Interview.TechnicalQuestions > 0 {
		limits.Technical = cfg.Interview.TechnicalQuestions
	}
	if cfg.Interview.HRQuestions > 0 {
		limits.HR = cfg.Interview.HRQuestions
	}
	if cfg.Interview.ManagerQuestions > 0 {
		limits.Manager = cfg.Interview.ManagerQuestions
	}

	return limits
}

// personaOverride is the decoded shape of one interview.personas entry.
type personaOverride struct {
	Name string `mapstructure:"name"`
}

// personaNames decodes the free-form personas section into per-round
// interviewer names.
func personaNames(cfg *Config) (map[interview.Stage]string, error) {
	names := make(map[interview.Stage]string)

	if cfg.Interview == nil || len(cfg.Interview.Personas) == 0 {
		return names, nil
	}

	decoded := make(map[string]personaOverride)
	decoderCfg := &mapstructure.DecoderConfig{
		Metadata:    nil,
		Result:      &decoded,
		ErrorUnused: true,
	}

	decoder, err := mapstructure.NewDecoder(decoderCfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(cfg.Interview.Personas); err != nil {
		return nil, fmt.Errorf("decoding interview.personas: %w", err)
	}

	for round, override := range decoded {
		stage := interview.Stage(round)
		if _, ok := interview.DefaultPersonaNames[stage]; !ok {
			return nil, fmt.Errorf("unknown interview round in personas: %s", round)
		}
		if override.Name != "" {
			names[stage] = override.Name
		}
	}

	return names, nil
}
