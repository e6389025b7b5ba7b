package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"resume-copilot/internal/ai"
	"resume-copilot/internal/ai/gemini"
	"resume-copilot/internal/copilot"
	"resume-copilot/internal/extract"
	"resume-copilot/internal/logger"
	"resume-copilot/internal/secrets"
)

const (
	PromptATSAnalysis = "ATS analysis"
	PromptOptimize    = "Resume optimization"
	PromptCoverLetter = "Cover letter"
	PromptSaveOutputs = "Save outputs"
	PromptExit        = "Exit"

	atsReportFile     = "ats_analysis_report.txt"
	optimizationFile  = "resume_optimization_guide.txt"
	coverLetterPrefix = "cover_letter"

	defaultCallTimeout  = 120 * time.Second
	defaultMaxLogLength = 500
)

var errExit = errors.New("exit requested")

var actionPrompt = promptui.Select{
	Label: "Choose an action",
	Items: []string{PromptATSAnalysis, PromptOptimize, PromptCoverLetter, PromptSaveOutputs, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze a resume against a job description and generate application documents",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("all", "a", false, "run every generative feature sequentially and save outputs without prompting")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-copilot", zap.String("version", version))

	if config == nil {
		logger.Fatal("config is required")
	}

	if strings.TrimSpace(config.Resume) == "" {
		logger.Fatal("resume file is required under the 'resume' key")
	}

	engine, err := copilot.NewEngine(config.ModelDir, logger)
	if err != nil {
		if errors.Is(err, copilot.ErrModelsUnavailable) {
			logger.Fatal("loading model artifacts",
				zap.Error(err),
				zap.String("hint", fmt.Sprintf("run '%s train' to produce them", app)),
			)
		}
		logger.Fatal("loading model artifacts", zap.Error(err))
	}

	logger.Info("model artifacts loaded", zap.Strings("categories", engine.Categories()))

	resumeText, err := extract.File(config.Resume)
	if err != nil {
		logger.Fatal("extracting resume text", zap.Error(err), zap.String("file", config.Resume))
	}

	posting := buildPosting(config.Job)

	session, err := engine.Analyze(resumeText, posting)
	if err != nil {
		if errors.Is(err, copilot.ErrMissingInput) {
			logger.Fatal("analyzing resume",
				zap.Error(err),
				zap.String("hint", "provide a readable resume file and a job description in the configuration file"),
			)
		}
		logger.Fatal("analyzing resume", zap.Error(err))
	}

	logger.Info("analysis complete",
		zap.Float64("similarity", session.Similarity),
		zap.String("match", session.MatchStatus()),
		zap.String("category", session.Category),
	)

	assistant, err := newAssistant(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai assistant",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or GEMINI_API_KEY_FILE"),
		)
	}

	timeout := defaultCallTimeout
	if config.AI != nil && config.AI.Gemini != nil && config.AI.Gemini.TimeoutSeconds > 0 {
		timeout = time.Duration(config.AI.Gemini.TimeoutSeconds) * time.Second
	}

	if cmd.Flag("all").Value.String() == "true" {
		runAll(ctx, assistant, session, config, timeout, logger)
		return
	}

	for {
		_, action, err := actionPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, assistant, session, config, timeout, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, assistant ai.Assistant, session *copilot.Session, config *Config, timeout time.Duration, logger *zap.Logger) error {
	switch action {
	case PromptATSAnalysis:
		session.ATSReport = generateATS(ctx, assistant, session, timeout, logger)
		fmt.Println(session.ATSReport)
		return nil
	case PromptOptimize:
		// The optimization prompt reads much better with an ATS report for
		// context, so produce one first when it is absent.
		if strings.TrimSpace(session.ATSReport) == "" {
			session.ATSReport = generateATS(ctx, assistant, session, timeout, logger)
		}
		session.Optimization = generate(ctx, assistant.OptimizeResume, session, timeout, logger, "resume optimization", "Error optimizing resume")
		fmt.Println(session.Optimization)
		return nil
	case PromptCoverLetter:
		session.CoverLetter = generate(ctx, assistant.CoverLetter, session, timeout, logger, "cover letter", "Error generating cover letter")
		fmt.Println(session.CoverLetter)
		return nil
	case PromptSaveOutputs:
		return saveOutputs(session, config.OutputDir, logger)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// runAll produces all three documents in sequence and saves them. Feature
// failures are recorded per document and never stop the remaining features.
func runAll(ctx context.Context, assistant ai.Assistant, session *copilot.Session, config *Config, timeout time.Duration, logger *zap.Logger) {
	session.ATSReport = generateATS(ctx, assistant, session, timeout, logger)
	session.Optimization = generate(ctx, assistant.OptimizeResume, session, timeout, logger, "resume optimization", "Error optimizing resume")
	session.CoverLetter = generate(ctx, assistant.CoverLetter, session, timeout, logger, "cover letter", "Error generating cover letter")

	if err := saveOutputs(session, config.OutputDir, logger); err != nil {
		logger.Fatal("saving outputs", zap.Error(err))
	}
}

func generateATS(ctx context.Context, assistant ai.Assistant, session *copilot.Session, timeout time.Duration, logger *zap.Logger) string {
	return generate(ctx, assistant.ATSAnalysis, session, timeout, logger, "ats analysis", "Error analyzing ATS score")
}

type featureCall func(ctx context.Context, session *copilot.Session) (string, error)

// generate runs one generative feature with a bounded context. A failure is
// converted into a descriptive message stored in place of the document; the
// session and the other features stay usable.
func generate(ctx context.Context, call featureCall, session *copilot.Session, timeout time.Duration, logger *zap.Logger, feature, errPrefix string) string {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Info("generating", zap.String("feature", feature))

	output, err := call(callCtx, session)
	if err != nil {
		logger.Warn("generation failed", zap.String("feature", feature), zap.Error(err))
		return fmt.Sprintf("%s: %v", errPrefix, err)
	}

	logger.Info("generation complete", zap.String("feature", feature))
	return output
}

func saveOutputs(session *copilot.Session, outputDir string, logger *zap.Logger) error {
	if outputDir == "" {
		outputDir = defaultOutputDir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	saved := 0
	outputs := []struct {
		name    string
		content string
	}{
		{atsReportFile, session.ATSReport},
		{optimizationFile, session.Optimization},
		{coverLetterFilename(session.Company), session.CoverLetter},
	}

	for _, out := range outputs {
		if strings.TrimSpace(out.content) == "" {
			continue
		}
		path := filepath.Join(outputDir, out.name)
		if err := os.WriteFile(path, []byte(out.content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out.name, err)
		}
		logger.Info("saved output", zap.String("filename", path))
		saved++
	}

	if saved == 0 {
		logger.Info("nothing to save", zap.String("hint", "generate a document first"))
	}

	return nil
}

func coverLetterFilename(company string) string {
	company = strings.TrimSpace(company)
	if company == "" {
		return coverLetterPrefix + ".txt"
	}
	return coverLetterPrefix + "_" + strings.ReplaceAll(company, " ", "_") + ".txt"
}

func buildPosting(job *JobConfig) copilot.JobPosting {
	if job == nil {
		return copilot.JobPosting{}
	}
	return copilot.JobPosting{
		Company:          job.Company,
		Position:         job.Position,
		Description:      job.Description,
		Overview:         job.Overview,
		Responsibilities: job.Responsibilities,
		Requirements:     job.Requirements,
		Preferred:        job.Preferred,
	}
}

func newAssistant(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Assistant, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("ai.gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	maxLogLength := cfg.Gemini.MaxLogLength
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	assistantLogger := logger.WithCommonFields(log, "gemini", generator.Model())

	return gemini.NewAssistant(generator, assistantLogger, maxLogLength), nil
}
