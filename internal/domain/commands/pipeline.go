package commands

import (
	"context"
	"errors"
	"path"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories"
)

// pipeline is the per-file read -> convert -> write step shared by the
// batch runner and the watcher.
type pipeline struct {
	convert  Convert
	source   repositories.SourceRepository
	target   repositories.TargetRepository
	settings *entities.Settings
	bindings entities.ParameterBindings
	dryRun   bool
}

func (p *pipeline) process(ctx context.Context, file entities.SourceFile) entities.FileResult {
	output := entities.TargetPath(file.ID, p.settings.TargetFormat)
	result := entities.FileResult{File: file, Output: output}

	raw, err := p.source.Read(ctx, file)
	if err != nil {
		return p.fail(ctx, result, &entities.ConversionError{File: file.ID, Stage: entities.StageRead, Err: err})
	}

	content, err := p.convert.Execute(file.ID, raw, p.settings.SourceFormat, p.settings.TargetFormat, p.bindings)
	if err != nil {
		return p.fail(ctx, result, err)
	}

	destination := path.Join(p.settings.TargetDir, output)
	if p.dryRun {
		logger.Infof("[dry-run] Would create file %s", destination)
		result.Status = entities.StatusPlanned
		return result
	}

	written, err := p.target.Write(ctx, p.settings.TargetDir, output, content, p.settings.OnExisting)
	if err != nil {
		return p.fail(ctx, result, &entities.ConversionError{File: file.ID, Stage: entities.StageWrite, Err: err})
	}
	if !written {
		logger.Infof("File %s already exists, skipped", destination)
		result.Status = entities.StatusSkipped
		return result
	}

	logger.Infof("File %s successfully created", destination)
	result.Status = entities.StatusConverted
	return result
}

func (p *pipeline) fail(ctx context.Context, result entities.FileResult, err error) entities.FileResult {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		result.Status = entities.StatusCancelled
		return result
	}
	result.Err = err
	logger.Errorf("Failed to convert %s: %v", result.File.ID, err)
	result.Status = entities.StatusFailed
	return result
}

// sourceExtensions returns the parser's extensions plus the format name itself.
func sourceExtensions(parser repositories.ParserRepository, format string) []string {
	exts := append([]string{}, parser.Extensions()...)
	name := infraRepos.NormalizeFormat(format)
	for _, ext := range exts {
		if ext == name {
			return exts
		}
	}
	return append(exts, name)
}
