package controllers

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/liquiconvert/internal/domain/commands"
	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

// FormatsController handles the "formats" subcommand.
type FormatsController struct {
	command commands.Formats
}

// NewFormatsController creates a new FormatsController.
func NewFormatsController(command commands.Formats) *FormatsController {
	return &FormatsController{command: command}
}

// GetBind returns the Cobra command metadata for the formats controller.
func (it *FormatsController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "formats",
		Short: "List the supported changelog formats",
		Long:  "List every format identifier and whether it can be read, written or both.",
	}
}

// Execute prints the format table.
func (it *FormatsController) Execute(cmd *cobra.Command, _ []string) error {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "FORMAT\tREAD\tWRITE")
	for _, info := range it.command.Execute() {
		fmt.Fprintf(writer, "%s\t%s\t%s\n", info.Name, yesNo(info.Parse), yesNo(info.Serialize))
	}
	return writer.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
