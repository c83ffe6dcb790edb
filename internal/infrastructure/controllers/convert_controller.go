package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/liquiconvert/internal/domain/commands"
	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

// ConvertController handles the "convert" subcommand and the bare root command.
type ConvertController struct {
	command commands.Run
}

// NewConvertController creates a new ConvertController.
func NewConvertController(command commands.Run) *ConvertController {
	return &ConvertController{command: command}
}

// GetBind returns the Cobra command metadata for the convert controller.
func (it *ConvertController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "convert",
		Short: "Convert every changelog of the source directory",
		Long: `Scan the source directory for changelogs in the source format and
write each one, converted to the target format, under the target directory.
The relative directory structure is preserved and only the extension changes.

A file that fails is reported and does not stop the others, unless
--fail-fast is set. The exit status is non-zero when any file failed.`,
	}
}

// Execute runs one conversion batch.
func (it *ConvertController) Execute(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return err
	}

	report, err := it.command.Execute(commandContext(cmd), settings, commands.RunOptions{
		DryRun:  dryRun,
		Verbose: verbose,
	})
	if err != nil {
		logger.Errorf("Conversion failed: %v", err)
		return err
	}

	if failed := report.Count(entities.StatusFailed); failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed to convert", failed, len(report.Results))
	}
	return nil
}
