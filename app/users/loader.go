// Package users loads the tracked user list. The list is a plain text
// file with one login per line; everything after a '#' is a comment.
package users

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load reads the user list from path, stripping comments and blank lines.
// Order is preserved; duplicate logins are collapsed to their first
// occurrence so a run never polls the same user twice.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open users file: %w", err)
	}
	defer f.Close()

	var logins []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if pos := strings.Index(line, "#"); pos != -1 {
			line = line[:pos]
		}
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		logins = append(logins, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	return logins, nil
}
