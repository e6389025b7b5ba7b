package cmd

import (
	"context"
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"resume-copilot/internal/corpus"
	"resume-copilot/internal/logger"
	"resume-copilot/internal/training"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the category classifier and similarity vectorizer from a labeled resume corpus",
	Run: func(_ *cobra.Command, _ []string) {
		train()
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().Float64("test-fraction", 0, "held-out fraction for evaluation (default 0.2)")
	trainCmd.Flags().Int64("seed", 0, "random seed for the stratified split (default 42)")

	viper.BindPFlag("test-fraction", trainCmd.Flags().Lookup("test-fraction"))
	viper.BindPFlag("seed", trainCmd.Flags().Lookup("seed"))
}

func train() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting training", zap.String("version", version))

	pipeline := &training.Pipeline{
		CorpusPath:   config.CorpusFile,
		ModelDir:     config.ModelDir,
		TestFraction: viper.GetFloat64("test-fraction"),
		Seed:         viper.GetInt64("seed"),
		Logger:       logger,
	}

	report, err := pipeline.Run(ctx)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		switch {
		case errors.Is(err, corpus.ErrSourceNotFound):
			fields = append(fields, zap.String("hint", "check the 'corpus-file' key in the configuration file"))
		case errors.Is(err, corpus.ErrSchema):
			fields = append(fields, zap.String("hint", "the corpus csv must have 'resume' and 'category' columns"))
		case errors.Is(err, corpus.ErrInsufficientData):
			fields = append(fields, zap.String("hint", "every category needs at least 2 examples to split"))
		}
		logger.Fatal("training failed", fields...)
	}

	logger.Info("training complete",
		zap.Int("examples", report.Examples),
		zap.Int("dropped_rows", report.Dropped),
		zap.Int("categories", len(report.Categories)),
		zap.Int("features", report.Features),
		zap.Int("train_size", report.TrainSize),
		zap.Int("test_size", report.TestSize),
		zap.Float64("accuracy", report.Accuracy),
		zap.String("pair_id", report.PairID),
	)
}
