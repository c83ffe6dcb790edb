package commands

import (
	"sort"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	infraRepos "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories"
)

// Formats is the interface for the formats command.
type Formats interface {
	Execute() []FormatInfo
}

// FormatInfo tells which roles a format identifier supports.
type FormatInfo struct {
	Name      string
	Parse     bool
	Serialize bool
}

// FormatsCommand lists the registered formats.
type FormatsCommand struct {
	formats *infraRepos.FormatRegistry
}

// NewFormatsCommand creates a new FormatsCommand.
func NewFormatsCommand(formats *infraRepos.FormatRegistry) *FormatsCommand {
	return &FormatsCommand{formats: formats}
}

// Execute returns every registered identifier, aliases included, sorted by name.
func (it *FormatsCommand) Execute() []FormatInfo {
	byName := make(map[string]*FormatInfo)
	get := func(name string) *FormatInfo {
		if info, ok := byName[name]; ok {
			return info
		}
		info := &FormatInfo{Name: name}
		byName[name] = info
		return info
	}
	for _, name := range it.formats.Formats(entities.SourceRole) {
		get(name).Parse = true
	}
	for _, name := range it.formats.Formats(entities.TargetRole) {
		get(name).Serialize = true
	}

	infos := make([]FormatInfo, 0, len(byName))
	for _, info := range byName {
		infos = append(infos, *info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
