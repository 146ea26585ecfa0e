package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kirostudy/vocabdrill/internal/review"
	"github.com/kirostudy/vocabdrill/internal/storage"
	"github.com/kirostudy/vocabdrill/internal/wordbank"
)

func newBankCommand() *cobra.Command {
	bankCommand := &cobra.Command{
		Use:   "bank",
		Short: "Manage vocabulary banks",
	}

	bankCommand.AddCommand(
		newBankListCommand(),
		newBankSyncCommand(),
		newBankShowCommand(),
	)
	return bankCommand
}

func newBankListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the banks in the catalog with your progress",
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

			_, catalog, err := newLoader(env)
			if err != nil {
				return err
			}
			records, err := review.LoadRecords(env.store)
			if err != nil {
				return fmt.Errorf("review.LoadRecords > %w", err)
			}
			learning, known := countByBank(catalog.IDs(), records)

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tLEARNING\tKNOWN\tCACHED AT")
			for _, id := range catalog.IDs() {
				bank, _ := catalog.Bank(id)
				cachedAt := "-"
				if entry, err := env.cache.Get(id); err == nil && entry != nil {
					cachedAt = entry.CachedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t%s\n",
					bank.ID, bank.Name, learning[id], known[id], cachedAt)
			}
			return writer.Flush()
		},
	}
}

// countByBank tallies records per bank. Record keys are prefixed with
// the bank id, and bank ids may themselves contain underscores, so the
// longest matching catalog id wins.
func countByBank(bankIDs []string, records map[string]review.LearningRecord) (learning, known map[string]int) {
	learning = map[string]int{}
	known = map[string]int{}
	for key, record := range records {
		matched := ""
		for _, id := range bankIDs {
			if strings.HasPrefix(key, id+"_") && len(id) > len(matched) {
				matched = id
			}
		}
		if matched == "" {
			continue
		}
		switch record.Status {
		case review.StatusLearning:
			learning[matched]++
		case review.StatusKnown:
			known[matched]++
		}
	}
	return learning, known
}

func newBankSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [bank]",
		Short: "Refresh cached bank indexes from their sources",
		Args:  cobra.MaximumNArgs(1),
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

			ids := catalog.IDs()
			if len(args) == 1 {
				if _, ok := catalog.Bank(args[0]); !ok {
					return fmt.Errorf("unknown bank %q", args[0])
				}
				ids = args[:1]
			}

			for _, id := range ids {
				if err := env.cache.Delete(id); err != nil {
					return fmt.Errorf("cache.Delete > %w", err)
				}
				words, err := loader.LoadIndex(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("loader.LoadIndex > %w", err)
				}
				fmt.Printf("Synced %s: %d words\n", id, len(words))
			}
			return nil
		},
	}
}

func newBankShowCommand() *cobra.Command {
	var bankID string
	command := &cobra.Command{
		Use:   "show <word>",
		Short: "Look up a word in the current bank",
		Args:  cobra.ExactArgs(1),
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
			if _, ok := catalog.Bank(bankID); !ok {
				return fmt.Errorf("unknown bank %q", bankID)
			}

			words, err := loader.LoadIndex(cmd.Context(), bankID)
			if err != nil {
				return fmt.Errorf("loader.LoadIndex > %w", err)
			}
			var summary *wordbank.WordSummary
			for i := range words {
				if words[i].Word == args[0] || words[i].ID == args[0] {
					summary = &words[i]
					break
				}
			}
			if summary == nil {
				return fmt.Errorf("word %q is not in bank %q", args[0], bankID)
			}

			detail, err := loader.LoadDetail(cmd.Context(), bankID, summary.ID, summary.Word)
			if err != nil {
				return fmt.Errorf("loader.LoadDetail > %w", err)
			}
			printWord(os.Stdout, env.store, bankID, *summary, detail)
			return nil
		},
	}
	command.Flags().StringVar(&bankID, "bank", "", "bank id to look the word up in")
	return command
}

// printWord shows the full detail when it is available and falls back
// to the index summary otherwise.
func printWord(writer io.Writer, store storage.KeyValueStore, bankID string, summary wordbank.WordSummary, detail *wordbank.WordDetail) {
	fmt.Fprintln(writer, summary.Word)
	phonetic := summary.Phonetic
	if detail != nil && detail.Phonetic != "" {
		phonetic = detail.Phonetic
	}
	if phonetic != "" {
		fmt.Fprintln(writer, phonetic)
	}

	if detail == nil {
		fmt.Fprintln(writer, summary.Meaning)
	} else {
		fmt.Fprintln(writer, detail.Meaning)
		for _, sentence := range detail.ExampleSentences {
			fmt.Fprintf(writer, "  %s\n", sentence.Text)
			if sentence.Translation != "" {
				fmt.Fprintf(writer, "  %s\n", sentence.Translation)
			}
		}
		for _, phrase := range detail.Phrases {
			fmt.Fprintf(writer, "  %s  %s\n", phrase.Text, phrase.Translation)
		}
		if detail.Mnemonic != "" {
			fmt.Fprintf(writer, "Mnemonic: %s\n", detail.Mnemonic)
		}
	}

	records, err := review.LoadRecords(store)
	if err != nil {
		return
	}
	record, ok := records[review.RecordKey(bankID, summary.ID)]
	if !ok {
		fmt.Fprintln(writer, "Status: unlearned")
		return
	}
	// Imported records may lack a next review date.
	if record.NextReviewDate == nil {
		fmt.Fprintf(writer, "Status: %s (reviewed %d times, next review unscheduled)\n",
			record.Status, record.ReviewCount)
		return
	}
	fmt.Fprintf(writer, "Status: %s (reviewed %d times, next on %s)\n",
		record.Status, record.ReviewCount, record.NextReviewDate.Format("2006-01-02"))
}
