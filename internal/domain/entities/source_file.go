package entities

import (
	"path"
	"strings"
)

// SourceFile is one changelog found by a source repository. ID is the
// slash-separated path relative to the scanned root and is used as FileID.
type SourceFile struct {
	ID   string
	Path string // location understood by the repository that found it
}

// TargetPath derives the output path for a source file: its extension is
// replaced by "." + format and the relative directories are kept.
func TargetPath(fileID, format string) string {
	ext := path.Ext(fileID)
	base := strings.TrimSuffix(fileID, ext)
	return base + "." + strings.TrimPrefix(strings.ToLower(format), ".")
}
