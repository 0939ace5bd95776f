package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"steam-review-service/internal/config"
	"steam-review-service/internal/logging"
	"steam-review-service/internal/service"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var outFlag string
	var logLevelFlag string

	rootCmd := &cobra.Command{
		Use:           "prepare [input.csv]",
		Short:         "Normalize a Steam review export into dashboard datasets",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configFlag != "" {
				loaded, err := config.LoadConfig(configFlag)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if outFlag != "" {
				cfg.Prepare.OutputDir = outFlag
			}
			if logLevelFlag != "" {
				cfg.Logging.Level = logLevelFlag
			}

			input := cfg.Prepare.Input
			if len(args) == 1 {
				input = args[0]
			}
			if input == "" {
				return errors.New("input path is required (argument or prepare.input)")
			}

			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
			if err != nil {
				return err
			}
			defer logger.Sync()

			summary, err := service.NewPreparer(cfg.Prepare, logger).Run(cmd.Context(), input)
			if err != nil {
				return err
			}

			printSummary(cmd, summary)
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output root (default \"public\")")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "", "Log level override")

	return rootCmd
}

func printSummary(cmd *cobra.Command, s *service.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Input:          %s\n", s.Input)
	fmt.Fprintf(out, "Rows:           %d\n", s.InputRows)
	fmt.Fprintf(out, "End-user rows:  %d\n", s.EndUserRows)
	fmt.Fprintf(out, "Games:          %d\n", s.Games)
	fmt.Fprintf(out, "Flagged rows:   %d\n", s.FlaggedRows)
	if s.ScoreDomain != "" {
		fmt.Fprintf(out, "Score domain:   %s\n", s.ScoreDomain)
	}

	if len(s.TopGames) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTopGames(s.TopGames))
	}

	fmt.Fprintln(out)
	for _, f := range s.Files {
		fmt.Fprintf(out, "Wrote %s\n", f)
	}
}
