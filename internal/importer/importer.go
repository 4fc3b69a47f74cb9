// Package importer reads and writes journey documents on disk.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/journeyctl/internal/domain"
)

// ValidationError carries every problem found in an import file.
type ValidationError struct {
	Path string
	Errs []error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d validation error(s): %v", e.Path, len(e.Errs), errors.Join(e.Errs...))
}

func (e *ValidationError) Unwrap() []error { return e.Errs }

// ReadFile loads and validates the journey document at path.
func ReadFile(path string) (domain.Journey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Journey{}, fmt.Errorf("reading import file: %w", err)
	}
	if errs := Validate(data); len(errs) > 0 {
		return domain.Journey{}, &ValidationError{Path: path, Errs: errs}
	}
	var j domain.Journey
	if err := json.Unmarshal(data, &j); err != nil {
		return domain.Journey{}, fmt.Errorf("decoding import file: %w", err)
	}
	j.Normalize()
	return j, nil
}

// WriteFile writes j to path as indented JSON.
func WriteFile(path string, j domain.Journey) error {
	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding journey: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}
