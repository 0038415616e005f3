package seqtext

import (
	"fmt"
	"strings"
)

// Participants returns the declared participant names in source order.
func Participants(text string) []string {
	var names []string
	for _, line := range splitLines(text) {
		if name, ok := declaredName(line); ok {
			names = append(names, name)
		}
	}
	return names
}

// HasParticipant reports whether name is declared in text.
func HasParticipant(text, name string) bool {
	for _, p := range Participants(text) {
		if p == name {
			return true
		}
	}
	return false
}

// AddParticipant inserts a declaration for name after the run of
// declarations that follows the header line. Empty or already declared
// names leave the text unchanged.
func AddParticipant(text, name string) string {
	name = strings.TrimSpace(name)
	if name == "" || HasParticipant(text, name) {
		return text
	}

	lines := splitLines(text)
	insertAt := 1
	for i := 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, declPrefix) {
			insertAt = i + 1
		} else if trimmed != "" {
			break
		}
	}
	if insertAt > len(lines) {
		insertAt = len(lines)
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:insertAt]...)
	out = append(out, "    "+declPrefix+name)
	out = append(out, lines[insertAt:]...)
	return joinLines(out)
}

// RenameParticipant rewrites the declaration of from and every whole-word
// occurrence of from elsewhere in the text. It returns ErrParticipantExists
// without touching the text when to is already declared.
func RenameParticipant(text, from, to string) (string, error) {
	to = strings.TrimSpace(to)
	if to == "" || from == "" || to == from {
		return text, nil
	}
	if HasParticipant(text, to) {
		return text, fmt.Errorf("renaming %q to %q: %w", from, to, ErrParticipantExists)
	}
	m := newWordMatcher(from)
	lines := splitLines(text)
	for i, line := range lines {
		if name, ok := declaredName(line); ok && name == from {
			lines[i] = leadingSpace(line) + declPrefix + to
			continue
		}
		lines[i] = m.replace(line, to)
	}
	return joinLines(lines), nil
}

// DeleteParticipant removes the declaration of name and every arrow line
// that mentions it. Blank lines are kept.
func DeleteParticipant(text, name string) string {
	if name == "" {
		return text
	}
	m := newWordMatcher(name)
	lines := splitLines(text)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			out = append(out, line)
			continue
		}
		if decl, ok := declaredName(line); ok && decl == name {
			continue
		}
		if hasArrow(trimmed) && m.matches(trimmed) {
			continue
		}
		out = append(out, line)
	}
	return joinLines(out)
}

// PruneUnusedParticipants drops the declarations of participants that are
// an endpoint of some action and keeps those that are never used.
//
// The name suggests the opposite; this mirrors what the editor has always
// done and is kept until product decides otherwise.
func PruneUnusedParticipants(text string) string {
	used := make(map[string]bool)
	for _, a := range ListActions(text) {
		if a.From != "" {
			used[a.From] = true
		}
		if a.To != "" {
			used[a.To] = true
		}
	}

	lines := splitLines(text)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if name, ok := declaredName(line); ok && used[name] {
			continue
		}
		out = append(out, line)
	}
	return joinLines(out)
}
