package logger

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error (go.trai.ch/zerr v0.3.0+).
// If zerr's API changes, errors will gracefully fall back to standard error handling.
type messager interface {
	Message() string
}

// metadataer describes an error that carries structured key/value metadata.
// This matches the Metadata() method provided by zerr.Error.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain: its own message plus any
// structured metadata attached to that link. Metadata is nil for standard
// errors that cannot report it.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries traverses the error chain and collects one entry per
// link. zerr errors contribute their raw message and metadata and traversal
// continues through Unwrap. A standard error contributes its full Error()
// string and ends the traversal, since its message already embeds any
// wrapped causes.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry

	current := err
	for current != nil {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}

		entry := ErrorEntry{Message: m.Message()}
		if md, ok := current.(metadataer); ok {
			entry.Metadata = md.Metadata()
		}
		entries = append(entries, entry)

		current = errors.Unwrap(current)
	}

	return entries
}

// formatErrorEntries renders collected entries hierarchically. The first
// entry becomes the main error line, the rest are listed under a
// "Caused by:" header. Metadata keys are sorted alphabetically so output
// stays stable across runs.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		if i == 0 {
			// Main error, continuation lines align with "Error: "
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			lines = appendMetadata(lines, entry.Metadata, "       ")
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		// Cause lines align with the arrow
		lines = append(lines, "    → "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
		lines = appendMetadata(lines, entry.Metadata, "      ")
	}

	return strings.Join(lines, "\n")
}

func appendMetadata(lines []string, metadata map[string]any, indent string) []string {
	if len(metadata) == 0 {
		return lines
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, metadata[k]))
	}
	return lines
}
