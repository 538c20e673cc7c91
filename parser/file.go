package parser

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// ParseFile reads path, validates it as UTF-8, and runs the full
// classify/parse/link pipeline over its contents.
func ParseFile(path string) (*Program, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is the user-supplied program to run
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not valid UTF-8", path)
	}

	program, err := ParseProgram(string(data))
	if err != nil {
		return nil, err
	}
	return program, nil
}
