package main

import (
	"io"
	"os"
	"strings"
)

// readAllStdin reads all of stdin and trims surrounding whitespace, so a
// piped expression with a trailing newline parses the same as one typed
// as a command-line argument.
func readAllStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
