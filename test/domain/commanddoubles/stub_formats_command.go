//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/liquiconvert/internal/domain/commands"
)

// StubFormatsCommand is a stub implementation of commands.Formats.
type StubFormatsCommand struct {
	Infos []commands.FormatInfo
}

var _ commands.Formats = (*StubFormatsCommand)(nil)

func (s *StubFormatsCommand) Execute() []commands.FormatInfo {
	return s.Infos
}
