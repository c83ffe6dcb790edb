package commands

import (
	"errors"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	infraRepos "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories"
)

// Convert is the interface for the single-file conversion driver.
type Convert interface {
	Execute(
		fileID string,
		raw []byte,
		sourceFormat, targetFormat string,
		bindings entities.ParameterBindings,
	) ([]byte, error)
}

// ConvertCommand runs one file through resolve -> parse -> serialize.
// It keeps no state between files.
type ConvertCommand struct {
	formats *infraRepos.FormatRegistry
}

// NewConvertCommand creates a new ConvertCommand over the given registry.
func NewConvertCommand(formats *infraRepos.FormatRegistry) *ConvertCommand {
	return &ConvertCommand{formats: formats}
}

// Execute converts raw from sourceFormat to targetFormat. Registry lookups
// fail with *entities.UnsupportedFormatError as is; parse and serialize
// failures are wrapped in *entities.ConversionError.
func (it *ConvertCommand) Execute(
	fileID string,
	raw []byte,
	sourceFormat, targetFormat string,
	bindings entities.ParameterBindings,
) ([]byte, error) {
	parser, err := it.formats.Parser(sourceFormat)
	if err != nil {
		return nil, err
	}
	serializer, err := it.formats.Serializer(targetFormat)
	if err != nil {
		return nil, err
	}

	changelog, err := parser.Parse(fileID, raw, bindings)
	if err != nil {
		stage := entities.StageParse
		var unresolved *entities.UnresolvedParameterError
		if errors.As(err, &unresolved) {
			stage = entities.StageParameters
		}
		return nil, &entities.ConversionError{File: fileID, Stage: stage, Err: err}
	}
	logger.Debugf(
		"[%s] parsed %s: %d change sets, %d directives",
		parser.Format(), fileID, len(changelog.ChangeSets), len(changelog.Directives),
	)

	content, err := serializer.Serialize(changelog)
	if err != nil {
		return nil, &entities.ConversionError{File: fileID, Stage: entities.StageSerialize, Err: err}
	}
	return content, nil
}
