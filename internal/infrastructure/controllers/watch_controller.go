package controllers

import (
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/liquiconvert/internal/domain/commands"
	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

// WatchController handles the "watch" subcommand.
type WatchController struct {
	command commands.Watch
}

// NewWatchController creates a new WatchController.
func NewWatchController(command commands.Watch) *WatchController {
	return &WatchController{command: command}
}

// GetBind returns the Cobra command metadata for the watch controller.
func (it *WatchController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "watch",
		Short: "Convert changelogs again whenever they change",
		Long: `Convert the source directory once, then keep watching it and convert
each changelog again as soon as it is written. New subdirectories are
picked up automatically. Stop with Ctrl+C.`,
	}
}

// Execute watches until interrupted.
func (it *WatchController) Execute(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return err
	}

	if err = it.command.Execute(ctx, settings, commands.WatchOptions{
		RunOptions: commands.RunOptions{DryRun: dryRun, Verbose: verbose},
		Debounce:   debounce,
	}); err != nil {
		logger.Errorf("Watch failed: %v", err)
		return err
	}
	return nil
}

// AddFlags adds the watch-specific flags to the given Cobra command.
func (it *WatchController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Duration("debounce", commands.DefaultDebounce,
		"Quiet period before a changed file is converted")
}
