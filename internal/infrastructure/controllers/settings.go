package controllers

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

// AddPersistentFlags declares the flags shared by every conversion command.
func AddPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to config file (default: auto-detect)")
	flags.String("source-format", "", "Format of the source changelogs (default: xml)")
	flags.String("target-format", "", "Format of the generated changelogs (default: yaml)")
	flags.String("source-dir", "", "Directory scanned for source changelogs (default: src/main/resources/source)")
	flags.String("target-dir", "", "Directory receiving the generated changelogs (default: target)")
	flags.StringToStringP("param", "p", nil, "Changelog parameter as key=value (repeatable)")
	flags.Int("workers", 0, "Number of files converted in parallel (0: one per CPU)")
	flags.Bool("fail-fast", false, "Stop at the first file that fails")
	flags.String("on-existing", "", "What to do with existing output files: overwrite or skip")
	flags.String("revision", "", "Read sources from this git revision instead of the working tree")
	flags.Bool("dry-run", false, "Show what would be done without writing files")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
}

// loadSettings resolves the configuration: defaults, then the config file,
// then LIQUICONVERT_* variables, then the flags set on the command line.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	flags := cmd.Flags()

	cfgPath, _ := flags.GetString("config")
	if cfgPath == "" {
		if found, err := entities.FindConfigFile(); err == nil {
			cfgPath = found
		} else {
			logger.Debugf("No config file found, using defaults: %v", err)
		}
	}
	if cfgPath != "" {
		logger.Infof("Using config file: %s", cfgPath)
	}

	settings, err := entities.NewSettings(cfgPath)
	if err != nil {
		return nil, err
	}

	stringFlags := map[string]*string{
		"source-format": &settings.SourceFormat,
		"target-format": &settings.TargetFormat,
		"source-dir":    &settings.SourceDir,
		"target-dir":    &settings.TargetDir,
		"revision":      &settings.Revision,
	}
	for name, target := range stringFlags {
		if flags.Changed(name) {
			*target, _ = flags.GetString(name)
		}
	}
	if flags.Changed("on-existing") {
		policy, _ := flags.GetString("on-existing")
		settings.OnExisting = entities.OverwritePolicy(policy)
	}
	if flags.Changed("workers") {
		settings.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("fail-fast") {
		settings.FailFast, _ = flags.GetBool("fail-fast")
	}
	if flags.Changed("param") {
		params, _ := flags.GetStringToString("param")
		for name, value := range params {
			settings.Parameters[name] = value
		}
	}

	if err = settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
