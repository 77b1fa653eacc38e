package mysqlxml2csv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// validator handles validation logic for options and file arguments
type validator struct {
	// No configuration needed for now, but keeping struct for future extensibility
}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validateOptions checks the separator rules
func (v *validator) validateOptions(o Options) error {
	if o.Separator == "" {
		return fmt.Errorf("%w: separator cannot be empty", ErrInvalidSeparator)
	}
	if strings.ContainsRune(o.Separator, quoteChar) {
		return fmt.Errorf("%w: %q contains a double quote", ErrInvalidSeparator, o.Separator)
	}
	return nil
}

// validatePath validates a single input file path
func (v *validator) validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to stat path %s: %w", path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("input path is a directory: %s", path)
	}

	return nil
}

// validateOutputPath validates that the output file can be created
func (v *validator) validateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("output path cannot be empty")
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("output path is a directory: %s", path)
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
		return fmt.Errorf("failed to check output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output parent is not a directory: %s", dir)
	}
	return nil
}
