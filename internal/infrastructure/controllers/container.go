package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewConvertController); err != nil {
		return err
	}
	if err := container.Provide(NewWatchController); err != nil {
		return err
	}
	if err := container.Provide(NewFormatsController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	convertController *ConvertController,
	watchController *WatchController,
	formatsController *FormatsController,
) *[]entities.Controller {
	return &[]entities.Controller{
		convertController,
		watchController,
		formatsController,
	}
}
