package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	knowledgeFile string
	coursesDir    string
	logger        = zap.NewNop()
)

func main() {
	var debugMode bool
	rootCommand := cobra.Command{
		Use:           "knowledgectl",
		Short:         "Maintenance of drillbot knowledge stores",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = setupLogger(debugMode)
			return err
		},
	}
	rootCommand.PersistentFlags().StringVar(&knowledgeFile, "file", "knowledge.json", "knowledge file path")
	rootCommand.PersistentFlags().StringVar(&coursesDir, "courses", "courses", "course directory")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCommand.AddCommand(
		newMigrateCommand(),
		newImportCommand(),
		newProgressCommand(),
	)
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err)
		os.Exit(1)
	}
}

// setupLogger logs to stderr, verbosely in debug mode
func setupLogger(debugMode bool) (*zap.Logger, error) {
	if debugMode {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
