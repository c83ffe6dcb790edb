package main

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/liquiconvert/internal"
	"github.com/rios0rios0/liquiconvert/internal/infrastructure/controllers"
)

func injectAppContext() *internal.AppInternal {
	container := dig.New()

	// Register all providers
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	// Invoke to get AppInternal
	var appInternal *internal.AppInternal
	if err := container.Invoke(func(ai *internal.AppInternal) {
		appInternal = ai
	}); err != nil {
		panic(err)
	}

	return appInternal
}

func injectConvertController() *controllers.ConvertController {
	container := dig.New()

	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	var convertController *controllers.ConvertController
	if err := container.Invoke(func(cc *controllers.ConvertController) {
		convertController = cc
	}); err != nil {
		panic(err)
	}

	return convertController
}
