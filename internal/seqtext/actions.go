package seqtext

import (
	"fmt"
	"strings"
)

// Action is one message line of a diagram.
type Action struct {
	Index   int    `json:"index"` // ordinal among actions
	Line    int    `json:"line"`  // zero-based line number in the source
	Text    string `json:"text"`  // trimmed line
	Raw     string `json:"raw"`   // line as written
	From    string `json:"from"`
	Arrow   string `json:"arrow"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// parseAction splits a trimmed action line into its endpoints and message.
// The split happens at the first arrow; "to" ends at the first colon and the
// message is whatever follows the last colon.
func parseAction(trimmed string) (from, arrow, to, message string) {
	pos, tok := findArrow(trimmed)
	if pos < 0 {
		return "", "", "", ""
	}
	from = strings.TrimSpace(trimmed[:pos])
	rest := trimmed[pos+len(tok):]
	if i := strings.Index(rest, ":"); i >= 0 {
		to = strings.TrimSpace(rest[:i])
	} else {
		to = strings.TrimSpace(rest)
	}
	if i := strings.LastIndex(trimmed, ":"); i >= 0 {
		message = strings.TrimSpace(trimmed[i+1:])
	}
	return from, tok, to, message
}

// ListActions returns every action line in source order. Its ordering
// defines action indices for all other action operations.
func ListActions(text string) []Action {
	var actions []Action
	for i, line := range splitLines(text) {
		if !isActionLine(line) {
			continue
		}
		trimmed := strings.TrimSpace(line)
		from, arrow, to, msg := parseAction(trimmed)
		actions = append(actions, Action{
			Index:   len(actions),
			Line:    i,
			Text:    trimmed,
			Raw:     line,
			From:    from,
			Arrow:   arrow,
			To:      to,
			Message: msg,
		})
	}
	return actions
}

// AddAction appends "from->>to: message" to the text. Any empty field makes
// it a no-op.
func AddAction(text, from, to, message string) string {
	from, to, message = strings.TrimSpace(from), strings.TrimSpace(to), strings.TrimSpace(message)
	if from == "" || to == "" || message == "" {
		return text
	}
	return text + fmt.Sprintf("\n    %s->>%s: %s", from, to, message)
}

// actionLine returns the line number of the index-th action, or -1.
func actionLine(lines []string, index int) int {
	if index < 0 {
		return -1
	}
	n := 0
	for i, line := range lines {
		if !isActionLine(line) {
			continue
		}
		if n == index {
			return i
		}
		n++
	}
	return -1
}

// EditActionMessage replaces the text after the last colon of the index-th
// action. Everything up to and including that colon is kept verbatim.
func EditActionMessage(text string, index int, message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return text
	}
	lines := splitLines(text)
	i := actionLine(lines, index)
	if i < 0 {
		return text
	}
	colon := strings.LastIndex(lines[i], ":")
	lines[i] = lines[i][:colon+1] + " " + message
	return joinLines(lines)
}

// DeleteAction removes the index-th action line.
func DeleteAction(text string, index int) string {
	lines := splitLines(text)
	i := actionLine(lines, index)
	if i < 0 {
		return text
	}
	out := make([]string, 0, len(lines)-1)
	out = append(out, lines[:i]...)
	out = append(out, lines[i+1:]...)
	return joinLines(out)
}

// ReorderActions writes newOrder into the action slots in source order,
// keeping each slot's indentation. newOrder must have one entry per action.
func ReorderActions(text string, newOrder []string) (string, error) {
	lines := splitLines(text)
	var slots []int
	for i, line := range lines {
		if isActionLine(line) {
			slots = append(slots, i)
		}
	}
	if len(newOrder) != len(slots) {
		return text, fmt.Errorf("reorder needs %d actions, got %d: %w", len(slots), len(newOrder), ErrInvalidArgument)
	}
	for _, s := range newOrder {
		if strings.ContainsAny(strings.TrimSpace(s), "\r\n") {
			return text, fmt.Errorf("reorder entry spans lines: %w", ErrInvalidArgument)
		}
	}

	for k, i := range slots {
		next := strings.TrimSpace(newOrder[k])
		if next == strings.TrimSpace(lines[i]) {
			continue
		}
		lines[i] = leadingSpace(lines[i]) + next
	}
	return joinLines(lines), nil
}

// MoveAction moves the action at index from to index to, shifting the
// actions in between, the way a drag in the reorder list does.
func MoveAction(text string, from, to int) (string, error) {
	actions := ListActions(text)
	if from < 0 || from >= len(actions) {
		return text, fmt.Errorf("move from %d of %d actions: %w", from, len(actions), ErrInvalidArgument)
	}
	if to < 0 {
		to = 0
	}
	if to >= len(actions) {
		to = len(actions) - 1
	}
	if from == to {
		return text, nil
	}

	order := make([]string, 0, len(actions))
	for _, a := range actions {
		order = append(order, a.Text)
	}
	moved := order[from]
	order = append(order[:from], order[from+1:]...)
	order = append(order[:to], append([]string{moved}, order[to:]...)...)
	return ReorderActions(text, order)
}
