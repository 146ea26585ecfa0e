package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kirostudy/vocabdrill/internal/cli"
	"github.com/kirostudy/vocabdrill/internal/review"
)

func newStudyCommand() *cobra.Command {
	var bankID string
	var mode string
	var target int
	command := &cobra.Command{
		Use:   "study",
		Short: "Start a flashcard study session",
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

			loader, _, err := newLoader(env)
			if err != nil {
				return err
			}

			settings, err := review.LoadSettings(env.store)
			if err != nil {
				return fmt.Errorf("review.LoadSettings > %w", err)
			}
			if bankID == "" {
				bankID = settings.CurrentBank
			}
			if bankID == "" {
				bankID = cfg.Study.DefaultBank
			}
			if bankID == "" {
				return fmt.Errorf("no bank selected: pass --bank or set study.default_bank")
			}

			selectedMode := review.ModeReview
			if mode != "" {
				selectedMode = review.Mode(mode)
			} else if settings.SelectedMode != "" {
				selectedMode = settings.SelectedMode
			}
			if selectedMode != review.ModeNew && selectedMode != review.ModeReview {
				return fmt.Errorf("unsupported mode %q: use new or review", selectedMode)
			}

			settings.CurrentBank = bankID
			settings.SelectedMode = selectedMode
			if err := review.SaveSettings(env.store, settings); err != nil {
				return fmt.Errorf("review.SaveSettings > %w", err)
			}

			stats := review.NewSessionStats(env.store, review.WithDefaultTarget(cfg.Study.DailyTarget))
			if target > 0 {
				if err := stats.SetDailyTarget(target); err != nil {
					return fmt.Errorf("stats.SetDailyTarget > %w", err)
				}
			}
			today, err := stats.GetToday()
			if err != nil {
				return fmt.Errorf("stats.GetToday > %w", err)
			}

			words, err := loader.LoadIndex(cmd.Context(), bankID)
			if err != nil {
				return fmt.Errorf("loader.LoadIndex > %w", err)
			}
			if len(words) == 0 {
				fmt.Println("The bank has no words available. Try again when you are online.")
				return nil
			}

			scheduler := review.NewScheduler(env.store, stats)
			queue, queueMode, err := scheduler.BuildTodayQueue(bankID, words, selectedMode, today.DailyTarget)
			if err != nil {
				return fmt.Errorf("scheduler.BuildTodayQueue > %w", err)
			}
			if len(queue) == 0 {
				fmt.Println("Nothing to study today. Well done!")
				return nil
			}

			session := review.NewFlashcardSession(bankID, queue, queueMode, scheduler)
			fmt.Printf("Studying %s: %d cards (%s mode)\n\n", bankID, len(queue), queueMode)
			studyCLI := cli.NewStudyCLI(session, loader, stats)
			return studyCLI.Run(cmd.Context())
		},
	}
	command.Flags().StringVar(&bankID, "bank", "", "bank id to study")
	command.Flags().StringVar(&mode, "mode", "", "queue mode: new or review")
	command.Flags().IntVar(&target, "target", 0, "override today's daily target")
	return command
}
