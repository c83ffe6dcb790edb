package document

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

var linePattern = regexp.MustCompile(`line (\d+)`)

// SyntaxError converts a yaml decoder error into a ParseError, keeping the
// line number the decoder reports.
func SyntaxError(fileID string, err error) error {
	message := strings.TrimPrefix(err.Error(), "yaml: ")
	parseErr := &entities.ParseError{File: fileID, Message: message, Err: err}
	if match := linePattern.FindStringSubmatch(message); match != nil {
		parseErr.Line, _ = strconv.Atoi(match[1])
		parseErr.Message = strings.TrimSpace(strings.TrimPrefix(
			linePattern.ReplaceAllString(message, ""), ":"))
	}
	return parseErr
}
