package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/vocabtts/internal/cli"
	"codeberg.org/snonux/vocabtts/internal/models"
	"codeberg.org/snonux/vocabtts/internal/processor"
)

var errNoInput = errors.New("no input given, use --file or --string")

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Stop after the current word on Ctrl-C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("vocabtts failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	cli.LoadSettings(flags)

	if flags.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	ctx := cmd.Context()

	// Usage is printed explicitly where it helps
	cmd.SilenceUsage = true

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx, cmd.OutOrStdout())
	}

	if flags.InputFile == "" && flags.InputText == "" {
		_ = cmd.Help()
		return errNoInput
	}
	if flags.InputFile != "" && len(args) > 0 {
		return fmt.Errorf("unexpected arguments %q, words are only accepted with --string", args)
	}

	// Create processor
	proc, err := processor.NewProcessor(flags)
	if err != nil {
		return err
	}

	if flags.InputFile != "" {
		if _, err := proc.ProcessFile(ctx); err != nil {
			return err
		}
		fmt.Printf("\nDone! Audio saved to: %s\n", flags.OutputDir)
		return nil
	}

	// Process single text
	_, err = proc.ProcessString(ctx, flags.Text(args))
	return err
}
