package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kirostudy/vocabdrill/internal/report"
	"github.com/kirostudy/vocabdrill/internal/review"
)

type statsFlags struct {
	reportPath string
	writePDF   bool
}

func (f *statsFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.reportPath, "report", "", "write a markdown report to this file")
	flags.BoolVar(&f.writePDF, "pdf", false, "also render the report as a PDF")
}

func newStatsCommand() *cobra.Command {
	var flags statsFlags
	command := &cobra.Command{
		Use:   "stats",
		Short: "Show study statistics and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			env, err := newEnvironment(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			loader, catalog, err := newLoader(env)
			if err != nil {
				return err
			}

			stats := review.NewSessionStats(env.store, review.WithDefaultTarget(cfg.Study.DailyTarget))
			today, err := stats.GetToday()
			if err != nil {
				return fmt.Errorf("stats.GetToday > %w", err)
			}
			records, err := review.LoadRecords(env.store)
			if err != nil {
				return fmt.Errorf("review.LoadRecords > %w", err)
			}

			bankNames := map[string]string{}
			bankSizes := map[string]int{}
			for _, id := range catalog.IDs() {
				bank, _ := catalog.Bank(id)
				bankNames[id] = bank.Name
				words, err := loader.LoadIndex(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("loader.LoadIndex > %w", err)
				}
				bankSizes[id] = len(words)
			}

			todayDate, err := review.ParseDate(today.Date)
			if err != nil {
				return fmt.Errorf("review.ParseDate > %w", err)
			}
			summary := report.BuildSummary(records, today, todayDate, bankNames, bankSizes)
			markdown := report.BuildMarkdown(summary)

			if flags.reportPath == "" && !flags.writePDF {
				fmt.Print(markdown)
				return nil
			}

			markdownPath := flags.reportPath
			if markdownPath == "" {
				outputDir := cfg.Reports.OutputDirectory
				if outputDir == "" {
					outputDir = "."
				}
				markdownPath = filepath.Join(outputDir, fmt.Sprintf("progress-%s.md", today.Date))
			}
			if err := os.MkdirAll(filepath.Dir(markdownPath), 0o755); err != nil {
				return fmt.Errorf("os.MkdirAll > %w", err)
			}
			if err := os.WriteFile(markdownPath, []byte(markdown), 0o644); err != nil {
				return fmt.Errorf("os.WriteFile > %w", err)
			}
			fmt.Printf("Wrote %s\n", markdownPath)

			if flags.writePDF {
				pdfPath, err := report.WritePDF(markdownPath, markdown)
				if err != nil {
					return fmt.Errorf("report.WritePDF > %w", err)
				}
				fmt.Printf("Wrote %s\n", pdfPath)
			}
			return nil
		},
	}
	flags.register(command.Flags())
	return command
}
