// Package shellrc manages marker-delimited blocks in shell rc files. A block
// is inserted once and replaced in place on subsequent runs, so applying the
// same snippet twice never duplicates it.
package shellrc

import (
	"fmt"
	"os"
	"strings"
)

const (
	beginTemplate = "# >>> deskctl %s >>>"
	endTemplate   = "# <<< deskctl %s <<<"
)

// BeginMarker returns the opening marker line for a named block.
func BeginMarker(name string) string {
	return fmt.Sprintf(beginTemplate, name)
}

// EndMarker returns the closing marker line for a named block.
func EndMarker(name string) string {
	return fmt.Sprintf(endTemplate, name)
}

// Apply inserts or replaces the named block in the rc file. The file is
// created if it does not exist. Content should not include the markers.
func Apply(path, name, content string) error {
	existing := ""
	data, err := os.ReadFile(path)
	if err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	block := BeginMarker(name) + "\n" + strings.TrimRight(content, "\n") + "\n" + EndMarker(name) + "\n"

	updated, replaced := replaceBlock(existing, name, block)
	if !replaced {
		if updated != "" && !strings.HasSuffix(updated, "\n") {
			updated += "\n"
		}
		if updated != "" {
			updated += "\n"
		}
		updated += block
	}

	if updated == existing {
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Remove deletes the named block from the rc file. Removing a block that is
// not present is not an error.
func Remove(path, name string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated, found := replaceBlock(string(data), name, "")
	if !found {
		return nil
	}

	// Collapse the blank line left behind by the removed block.
	updated = strings.ReplaceAll(updated, "\n\n\n", "\n\n")

	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Contains reports whether the rc file already has the named block.
func Contains(path, name string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), BeginMarker(name))
}

// Block returns the current content of the named block, without markers.
func Block(path, name string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	begin := BeginMarker(name)
	end := EndMarker(name)

	text := string(data)
	start := strings.Index(text, begin)
	if start == -1 {
		return "", false
	}
	rest := text[start+len(begin):]
	stop := strings.Index(rest, end)
	if stop == -1 {
		return "", false
	}
	return strings.Trim(rest[:stop], "\n"), true
}

// replaceBlock swaps the named block (markers included) for replacement.
// Returns the updated text and whether a block was found.
func replaceBlock(text, name, replacement string) (string, bool) {
	begin := BeginMarker(name)
	end := EndMarker(name)

	start := strings.Index(text, begin)
	if start == -1 {
		return text, false
	}
	stop := strings.Index(text[start:], end)
	if stop == -1 {
		// Broken block: opening marker without a close. Drop the stray
		// marker line and keep everything after it, so a later Apply
		// cannot swallow user content.
		lineEnd := start + len(begin)
		if lineEnd < len(text) && text[lineEnd] == '\n' {
			lineEnd++
		}
		return text[:start] + replacement + text[lineEnd:], true
	}
	stop = start + stop + len(end)
	if stop < len(text) && text[stop] == '\n' {
		stop++
	}

	return text[:start] + replacement + text[stop:], true
}
