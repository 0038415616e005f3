package seqtext

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Header is the keyword every sequence diagram source starts with.
const Header = "sequenceDiagram"

// DefaultDiagram is the source given to new, empty documents.
const DefaultDiagram = "sequenceDiagram\n    participant Alice\n    participant Bob\n    Alice->>Bob: Hello Bob, how are you?\n    Bob-->>Alice: I am good thanks!"

const declPrefix = "participant "

var (
	// ErrParticipantExists is returned when a rename targets a name that is already declared.
	ErrParticipantExists = errors.New("participant already exists")
	// ErrInvalidArgument is returned when an edit is given arguments that do not fit the text.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ArrowTokens is the canonical set of message arrows, longest first so that
// the first match at a position is the full token.
var ArrowTokens = []string{"-->>", "->>", "--x", "--)", "-->", "->", "-x", "-)"}

// splitLines splits source text into lines. Joining the result with "\n"
// returns the original text.
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// HasHeader reports whether text starts with the sequenceDiagram keyword.
func HasHeader(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), Header)
}

// declaredName returns the participant name declared on line.
func declaredName(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, declPrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, declPrefix)), true
}

// findArrow returns the position and token of the leftmost arrow in s.
func findArrow(s string) (int, string) {
	best, tok := -1, ""
	for _, t := range ArrowTokens {
		i := strings.Index(s, t)
		if i < 0 {
			continue
		}
		// Tokens are ordered longest first, so an equal position keeps the longer one.
		if best < 0 || i < best {
			best, tok = i, t
		}
	}
	return best, tok
}

// hasArrow reports whether s contains any arrow token.
func hasArrow(s string) bool {
	i, _ := findArrow(s)
	return i >= 0
}

// isActionLine is the one rule deciding what counts as an action: an arrow
// token before the first colon.
func isActionLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	colon := strings.Index(trimmed, ":")
	if colon < 0 {
		return false
	}
	return hasArrow(trimmed[:colon])
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func isWordByte(r rune) bool {
	return r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// wordMatcher finds whole-word occurrences of a literal name. The name is
// quoted before it becomes a pattern, so "A.B" only ever matches "A.B".
type wordMatcher struct {
	re          *regexp.Regexp
	wordAtStart bool
	wordAtEnd   bool
}

func newWordMatcher(name string) *wordMatcher {
	first, _ := utf8.DecodeRuneInString(name)
	last, _ := utf8.DecodeLastRuneInString(name)
	return &wordMatcher{
		re:          regexp.MustCompile(regexp.QuoteMeta(name)),
		wordAtStart: isWordByte(first),
		wordAtEnd:   isWordByte(last),
	}
}

// spans returns the byte ranges of whole-word occurrences in s.
func (m *wordMatcher) spans(s string) [][]int {
	var out [][]int
	for _, loc := range m.re.FindAllStringIndex(s, -1) {
		if m.wordAtStart && loc[0] > 0 {
			r, _ := utf8.DecodeLastRuneInString(s[:loc[0]])
			if isWordByte(r) {
				continue
			}
		}
		if m.wordAtEnd && loc[1] < len(s) {
			r, _ := utf8.DecodeRuneInString(s[loc[1]:])
			if isWordByte(r) {
				continue
			}
		}
		out = append(out, loc)
	}
	return out
}

func (m *wordMatcher) matches(s string) bool {
	return len(m.spans(s)) > 0
}

// replace substitutes every whole-word occurrence with the literal repl.
func (m *wordMatcher) replace(s, repl string) string {
	spans := m.spans(s)
	if len(spans) == 0 {
		return s
	}
	var b strings.Builder
	prev := 0
	for _, loc := range spans {
		b.WriteString(s[prev:loc[0]])
		b.WriteString(repl)
		prev = loc[1]
	}
	b.WriteString(s[prev:])
	return b.String()
}
