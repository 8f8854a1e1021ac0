package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/artem13815/resumebuilder/pkg/config"
	"github.com/artem13815/resumebuilder/pkg/llm"
	"github.com/artem13815/resumebuilder/pkg/llm/openai"
	"github.com/artem13815/resumebuilder/pkg/llm/provider"
	"github.com/artem13815/resumebuilder/pkg/logger"
	"github.com/artem13815/resumebuilder/pkg/resume"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:          "resumectl",
	Short:        "Convert, generate and validate canonical resumes",
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logger.Setup(level, "text")
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printValidation lists every offending field of a validation error.
func printValidation(cmd *cobra.Command, err error) {
	var ve *resume.ValidationError
	if !errors.As(err, &ve) {
		return
	}
	for _, f := range ve.Fields {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", f.Field, f.Message)
	}
}

// aiSetup returns the provider factory and default credentials from the
// same configuration the server reads.
func aiSetup() (llm.Factory, llm.Credentials, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, llm.Credentials{}, err
	}
	factory := provider.NewFactory(openai.Options{AppTitle: cfg.AI.AppTitle, Referer: cfg.AI.Referer})
	return factory, cfg.AI.Credentials(), nil
}
