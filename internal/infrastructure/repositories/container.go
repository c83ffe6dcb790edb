package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	domainRepos "github.com/rios0rios0/liquiconvert/internal/domain/repositories"
	fsRepo "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/filesystem"
	gitRepo "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/git"
	hclRepo "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/hcl"
	jsonRepo "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/json"
	xmlRepo "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/xml"
	yamlRepo "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/yaml"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register format registry with every parser and serializer, then freeze it
	if err := container.Provide(NewDefaultFormatRegistry); err != nil {
		return err
	}

	// Register source registry with all source factories
	if err := container.Provide(NewDefaultSourceRegistry); err != nil {
		return err
	}

	// Bind the target repository to the filesystem writer
	if err := container.Provide(func() domainRepos.TargetRepository {
		return fsRepo.NewTargetRepository()
	}); err != nil {
		return err
	}

	return nil
}

// NewDefaultFormatRegistry builds the frozen registry of the built-in formats.
func NewDefaultFormatRegistry(catalog *entities.Catalog) (*FormatRegistry, error) {
	reg := NewFormatRegistry()
	parsers := []struct {
		parser  domainRepos.ParserRepository
		aliases []string
	}{
		{xmlRepo.NewParserRepository(catalog), nil},
		{yamlRepo.NewParserRepository(catalog), []string{"yml"}},
		{jsonRepo.NewParserRepository(catalog), nil},
		{hclRepo.NewParserRepository(catalog), nil},
	}
	for _, p := range parsers {
		if err := reg.RegisterParser(p.parser, p.aliases...); err != nil {
			return nil, err
		}
	}

	serializers := []struct {
		serializer domainRepos.SerializerRepository
		aliases    []string
	}{
		{xmlRepo.NewSerializerRepository(catalog), nil},
		{yamlRepo.NewSerializerRepository(catalog), []string{"yml"}},
		{jsonRepo.NewSerializerRepository(catalog), nil},
		{hclRepo.NewSerializerRepository(catalog), nil},
	}
	for _, s := range serializers {
		if err := reg.RegisterSerializer(s.serializer, s.aliases...); err != nil {
			return nil, err
		}
	}

	reg.Freeze()
	return reg, nil
}

// NewDefaultSourceRegistry builds the registry of the built-in sources.
func NewDefaultSourceRegistry() *SourceRegistry {
	reg := NewSourceRegistry()
	reg.Register("filesystem", fsRepo.NewSourceRepository)
	reg.Register("git", gitRepo.NewSourceRepository)
	return reg
}
