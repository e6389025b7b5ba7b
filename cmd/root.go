package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-copilot"

	defaultCorpusFile = "data/resume_dataset.csv"
	defaultModelDir   = "models"
	defaultOutputDir  = "output"
)

type Config struct {
	// CorpusFile is the labeled resume CSV used by the train command.
	CorpusFile string `mapstructure:"corpus-file"`
	// ModelDir holds the persisted vectorizer and classifier artifacts.
	ModelDir string `mapstructure:"model-dir"`
	// OutputDir receives the generated documents from the run command.
	OutputDir string `mapstructure:"output-dir"`
	// Resume points to the candidate's resume file (.pdf, .docx or .txt).
	Resume string     `mapstructure:"resume"`
	Job    *JobConfig `mapstructure:"job"`
	AI     *AIConfig  `mapstructure:"ai"`
}

type JobConfig struct {
	Company  string `mapstructure:"company"`
	Position string `mapstructure:"position"`
	// Description is a free-text job description and wins over the structured
	// fields below when both are present.
	Description      string `mapstructure:"description"`
	Overview         string `mapstructure:"overview"`
	Responsibilities string `mapstructure:"responsibilities"`
	Requirements     string `mapstructure:"requirements"`
	Preferred        string `mapstructure:"preferred"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	// TimeoutSeconds bounds each generative call.
	TimeoutSeconds int `mapstructure:"timeout-seconds"`
	MaxLogLength   int `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-copilot matches a resume against a job description and generates application documents",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-copilot.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("corpus-file", defaultCorpusFile)
	viper.SetDefault("model-dir", defaultModelDir)
	viper.SetDefault("output-dir", defaultOutputDir)
}

func initConfig() {
	// Config needed only for the train and run commands. The version command
	// works without one.
	if trainCmd.CalledAs() == "" && runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
