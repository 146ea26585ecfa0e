package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kirostudy/vocabdrill/internal/backup"
)

func newDataCommand() *cobra.Command {
	dataCommand := &cobra.Command{
		Use:   "data",
		Short: "Export, import or wipe learning data",
	}

	dataCommand.AddCommand(
		newDataExportCommand(),
		newDataImportCommand(),
		newDataWipeCommand(),
	)
	return dataCommand
}

func newDataExportCommand() *cobra.Command {
	var output string
	command := &cobra.Command{
		Use:   "export",
		Short: "Export learning data to a JSON archive",
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

			manager := backup.NewManager(env.store, env.cache)
			if err := manager.Export(output); err != nil {
				return fmt.Errorf("manager.Export > %w", err)
			}
			fmt.Printf("Exported learning data to %s\n", output)
			return nil
		},
	}
	command.Flags().StringVarP(&output, "output", "o", "vocabdrill-backup.json", "archive file to write")
	return command
}

func newDataImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <archive>",
		Short: "Merge a JSON archive into the current learning data",
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

			manager := backup.NewManager(env.store, env.cache)
			result, err := manager.Import(args[0])
			if err != nil {
				return fmt.Errorf("manager.Import > %w", err)
			}
			fmt.Printf("Imported %d records, skipped %d newer local records\n",
				result.RecordsImported, result.RecordsSkipped)
			return nil
		},
	}
}

func newDataWipeCommand() *cobra.Command {
	var yes bool
	command := &cobra.Command{
		Use:   "wipe",
		Short: "Delete all learning data and cached banks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Print("This deletes all learning progress. Type 'yes' to continue: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return fmt.Errorf("bufio.NewReader().ReadString > %w", err)
				}
				if strings.TrimSpace(line) != "yes" {
					fmt.Println("Aborted.")
					return nil
				}
			}

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

			manager := backup.NewManager(env.store, env.cache)
			if err := manager.Wipe(); err != nil {
				return fmt.Errorf("manager.Wipe > %w", err)
			}
			fmt.Println("All learning data removed.")
			return nil
		},
	}
	command.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return command
}
