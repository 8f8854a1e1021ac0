package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/artem13815/resumebuilder/pkg/docimport"
	"github.com/artem13815/resumebuilder/pkg/generator"
	"github.com/artem13815/resumebuilder/pkg/importer"
	"github.com/artem13815/resumebuilder/pkg/llm"
	"github.com/artem13815/resumebuilder/pkg/resume"
)

//nolint:gochecknoglobals // Cobra boilerplate
var (
	importFormat   string
	jobDescFile    string
	offline        bool
	timeoutSeconds int
)

//nolint:gochecknoglobals // Cobra boilerplate
var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Convert a JSON resume export into the canonical document",
	Long: `Convert a JSON resume export into the canonical document.

Example:
  resumectl import --format json-resume-json resume.json
  cat export.json | resumectl import --format reactive-resume-json -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		doc, err := importer.Parse(importer.Format(importFormat), string(raw))
		if err != nil {
			printValidation(cmd, err)
			return err
		}
		return printJSON(cmd, doc)
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported JSON import formats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, f := range importer.Formats() {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var validateCmd = &cobra.Command{
	Use:   "validate <file|->",
	Short: "Check a canonical resume document against the schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		if _, err := resume.Parse(raw); err != nil {
			printValidation(cmd, err)
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var generateCmd = &cobra.Command{
	Use:   "generate <profile.json|->",
	Short: "Generate a resume from a master profile",
	Long: `Generate a resume from a master profile.

The AI strategy is used when AI_PROVIDER, AI_MODEL and AI_API_KEY resolve
and --offline is not set; otherwise the profile is mapped onto the resume
deterministically.

Example:
  resumectl generate profile.json --jd job.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		p, err := resume.ParseProfile(raw)
		if err != nil {
			printValidation(cmd, err)
			return err
		}
		var jd string
		if jobDescFile != "" {
			b, err := os.ReadFile(jobDescFile)
			if err != nil {
				return err
			}
			jd = string(b)
		}
		gen := generator.New(nil, llm.Credentials{})
		if !offline {
			factory, defaults, err := aiSetup()
			if err != nil {
				return err
			}
			gen = generator.New(factory, defaults)
		}
		ctx, cancel := commandContext()
		defer cancel()
		doc, err := gen.Generate(ctx, p, jd)
		if err != nil {
			printValidation(cmd, err)
			return err
		}
		return printJSON(cmd, doc)
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var parseCmd = &cobra.Command{
	Use:   "parse <file.pdf|file.docx|file.doc>",
	Short: "Extract a canonical resume from a PDF or Word file with the configured AI provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		data, err := docimport.Encode(f)
		if err != nil {
			return err
		}
		factory, defaults, err := aiSetup()
		if err != nil {
			return err
		}
		svc := docimport.NewService(factory, defaults)
		in := docimport.Input{FileName: filepath.Base(args[0]), Data: data}

		ctx, cancel := commandContext()
		defer cancel()
		var doc resume.Document
		if strings.EqualFold(filepath.Ext(args[0]), ".pdf") {
			doc, err = svc.ParsePDF(ctx, in)
		} else {
			doc, err = svc.ParseDocx(ctx, in)
		}
		if err != nil {
			printValidation(cmd, err)
			return err
		}
		return printJSON(cmd, doc)
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var encodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "Print a file as the {name, data} object the parse endpoints accept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		data, err := docimport.Encode(f)
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]string{"name": filepath.Base(args[0]), "data": data})
	},
}

//nolint:gochecknoglobals // Cobra boilerplate
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Send a tiny prompt to the configured AI provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		factory, defaults, err := aiSetup()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		if err := llm.TestConnection(ctx, factory, nil, defaults); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s/%s ok\n", defaults.Provider, defaults.Model)
		return nil
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(importCmd, formatsCmd, validateCmd, generateCmd, parseCmd, encodeCmd, pingCmd)
	importCmd.Flags().StringVarP(&importFormat, "format", "f", string(importer.FormatReactiveResume), "Import format (see `resumectl formats`)")
	generateCmd.Flags().StringVar(&jobDescFile, "jd", "", "File with the job description to tailor the resume to")
	generateCmd.Flags().BoolVar(&offline, "offline", false, "Skip the AI provider and use the deterministic mapping")
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 180, "Timeout in seconds for AI calls")
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
}
