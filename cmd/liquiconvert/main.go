package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/liquiconvert/internal"
	"github.com/rios0rios0/liquiconvert/internal/infrastructure/controllers"
)

func buildRootCommand(convertController *controllers.ConvertController) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "liquiconvert",
		Short: "Convert Liquibase changelogs between XML, YAML, JSON and HCL",
		Long: `Convert a directory of Liquibase database changelogs from one structured
format to another while keeping every change set, change and parameter.

Without a subcommand the source directory is converted once.

Usage modes:
  liquiconvert                                Convert with defaults or the config file
  liquiconvert --source-format yaml --target-format xml
  liquiconvert watch                          Convert again on every change
  liquiconvert formats                        List the supported formats`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, args []string) error {
			return convertController.Execute(command, args)
		},
	}

	// Global persistent flags
	controllers.AddPersistentFlags(cmd)
	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Args:  cobra.NoArgs,
			RunE: func(command *cobra.Command, arguments []string) error {
				return ctrl.Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		if wc, ok := ctrl.(*controllers.WatchController); ok {
			wc.AddFlags(subCmd)
		}

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	// Inject controllers via DIG
	convertController := injectConvertController()
	cobraRoot := buildRootCommand(convertController)

	// Add all subcommands
	appContext := injectAppContext()
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'liquiconvert': %s", err)
	}
}
