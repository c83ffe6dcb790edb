package commands

import (
	"context"
	"fmt"
	"runtime"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories"
)

// Run is the interface for the run command (batch mode).
type Run interface {
	Execute(ctx context.Context, settings *entities.Settings, opts RunOptions) (*entities.RunReport, error)
}

// RunOptions holds runtime options for a single run.
type RunOptions struct {
	DryRun  bool
	Verbose bool
}

// RunCommand converts every changelog of the source directory with a
// bounded pool of workers: scan -> read -> convert -> write.
type RunCommand struct {
	formats *infraRepos.FormatRegistry
	sources *infraRepos.SourceRegistry
	target  repositories.TargetRepository
	convert Convert
}

// NewRunCommand creates a new RunCommand with the given registries.
func NewRunCommand(
	formats *infraRepos.FormatRegistry,
	sources *infraRepos.SourceRegistry,
	target repositories.TargetRepository,
	convert Convert,
) *RunCommand {
	return &RunCommand{
		formats: formats,
		sources: sources,
		target:  target,
		convert: convert,
	}
}

// Execute runs one batch. Unknown formats and scan failures abort before any
// file is touched. With fail_fast the first file error cancels the rest and
// is returned; otherwise every file is attempted and the report carries the
// per-file errors.
func (it *RunCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts RunOptions,
) (*entities.RunReport, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	start := time.Now()

	parser, err := it.formats.Parser(settings.SourceFormat)
	if err != nil {
		return nil, err
	}
	if _, err = it.formats.Serializer(settings.TargetFormat); err != nil {
		return nil, err
	}

	source, err := it.sources.Get(sourceName(settings), settings.Revision)
	if err != nil {
		return nil, err
	}
	files, err := source.Scan(ctx, settings.SourceDir, sourceExtensions(parser, settings.SourceFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to scan sources: %w", err)
	}

	workers := settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger.Infof(
		"Converting %d file(s) from %s in %q to %s in %q (%d workers, source: %s)",
		len(files), settings.SourceFormat, settings.SourceDir,
		settings.TargetFormat, settings.TargetDir, workers, source.Name(),
	)

	report := &entities.RunReport{Results: make([]entities.FileResult, len(files))}
	for i, file := range files {
		report.Results[i] = entities.FileResult{
			File:   file,
			Output: entities.TargetPath(file.ID, settings.TargetFormat),
			Status: entities.StatusCancelled,
		}
	}

	p := &pipeline{
		convert:  it.convert,
		source:   source,
		target:   it.target,
		settings: settings,
		bindings: settings.Bindings(),
		dryRun:   opts.DryRun,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, file := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}
			result := p.process(groupCtx, file)
			report.Results[i] = result
			if result.Err != nil && settings.FailFast {
				return result.Err
			}
			return nil
		})
	}
	groupErr := group.Wait()
	report.Duration = time.Since(start)

	logger.Infof(
		"Run complete: %d converted, %d skipped, %d planned, %d failed, %d cancelled in %s",
		report.Count(entities.StatusConverted),
		report.Count(entities.StatusSkipped),
		report.Count(entities.StatusPlanned),
		report.Count(entities.StatusFailed),
		report.Count(entities.StatusCancelled),
		report.Duration.Round(time.Millisecond),
	)

	if groupErr != nil {
		return report, groupErr
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return report, ctxErr
	}
	return report, nil
}

func sourceName(settings *entities.Settings) string {
	if settings.Revision != "" {
		return "git"
	}
	return "filesystem"
}
