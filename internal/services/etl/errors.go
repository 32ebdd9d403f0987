package etl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when no raw sources were supplied or no canonical rows remain
var ErrEmptyInput = errors.New("empty input")

// SchemaError reports required columns absent from one raw source
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source %s is missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}
