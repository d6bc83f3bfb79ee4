package target

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadList reads a newline-delimited URL list from path.
// Blank lines and lines starting with "#" are ignored. When limit is
// positive, only the first limit URLs are returned.
//
// A missing or unreadable list file is a setup error and aborts the
// whole run, unlike per-target fetch failures which are recorded and
// skipped over.
func LoadList(path string, limit int) ([]Target, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
	}
	defer f.Close()

	targets := make([]Target, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, New(line))
		if limit > 0 && len(targets) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}

	return targets, nil
}
