package patch

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Marker classes and attributes added to rendered diagrams. The browser
// editor looks these up to map a click back to the source text.
const (
	ParticipantLabelClass = "participant-label"
	ParticipantRectClass  = "participant-rect"
	MessageTextClass      = "messageText"
	ActionIndexAttr       = "data-action-idx"
)

var (
	// <text ... data-id="actor-NAME" ...>NAME</text>
	actorLabel = regexp.MustCompile(`(<text[^>]*data-id="actor-([^"]+)"[^>]*>)([^<]+)(</text>)`)

	// <rect ... class="... actor-top ..."> and the actor-bottom twin.
	actorRect = regexp.MustCompile(`<rect[^>]*class="[^"]*actor-(?:top|bottom)[^"]*"[^>]*>`)

	// A text element holding plain text, or text already wrapped by a previous pass.
	textElem = regexp.MustCompile(`(<text[^>]*>)(?:([^<]+)|<tspan ` + ActionIndexAttr + `="(\d+)">([^<]*)</tspan>)(</text>)`)

	numericOnly = regexp.MustCompile(`^\s*\d+\s*$`)

	classAttr = regexp.MustCompile(`\sclass="([^"]*)"`)
)

// Patch tags participant labels, participant boxes and message texts in
// rendered SVG. Rules run in a fixed order: labels first, so the message
// pass can skip them. Message texts get a running zero-based index that
// follows document order. Patching an already patched document returns it
// unchanged. Markup the rules do not recognise is passed through as is.
//
// The message rule tags every remaining plain text element, so note, loop
// and alt labels take an index too. For diagrams that contain them the
// indices run ahead of the action numbering of seqtext.ListActions.
func Patch(svg string) string {
	patched := actorLabel.ReplaceAllStringFunc(svg, func(m string) string {
		sub := actorLabel.FindStringSubmatch(m)
		return addClass(sub[1], ParticipantLabelClass) + sub[3] + sub[4]
	})

	patched = actorRect.ReplaceAllStringFunc(patched, func(tag string) string {
		return addClass(tag, ParticipantRectClass)
	})

	idx := 0
	patched = textElem.ReplaceAllStringFunc(patched, func(m string) string {
		sub := textElem.FindStringSubmatch(m)
		open, plain, wrapped, close := sub[1], sub[2], sub[4], sub[5]
		if hasClass(open, ParticipantLabelClass) {
			return m
		}
		if sub[3] != "" {
			// Tagged by an earlier pass; keep it and its slot.
			idx++
			return addClass(open, MessageTextClass) + `<tspan ` + ActionIndexAttr + `="` + sub[3] + `">` + wrapped + `</tspan>` + close
		}
		if strings.TrimSpace(plain) == "" || numericOnly.MatchString(plain) {
			return m
		}
		out := fmt.Sprintf(`%s<tspan %s="%d">%s</tspan>%s`, addClass(open, MessageTextClass), ActionIndexAttr, idx, plain, close)
		idx++
		return out
	})

	return patched
}

// classes returns the class list of a start tag.
func classes(tag string) []string {
	m := classAttr.FindStringSubmatch(tag)
	if m == nil {
		return nil
	}
	return strings.Fields(m[1])
}

func hasClass(tag, name string) bool {
	for _, c := range classes(tag) {
		if c == name {
			return true
		}
	}
	return false
}

// addClass puts name at the front of the tag's class list, adding the
// attribute if the tag has none. A class that is already present is not
// added again.
func addClass(tag, name string) string {
	if hasClass(tag, name) {
		return tag
	}
	if loc := classAttr.FindStringSubmatchIndex(tag); loc != nil {
		sep := " "
		if loc[3] == loc[2] {
			sep = ""
		}
		return tag[:loc[2]] + name + sep + tag[loc[2]:]
	}
	end := strings.IndexAny(tag[1:], " \t\r\n/>")
	if end < 0 {
		return tag
	}
	end++
	return tag[:end] + ` class="` + name + `"` + tag[end:]
}

// Message is a tagged message text read back from patched markup.
type Message struct {
	Index int
	Text  string
}

var taggedMessage = regexp.MustCompile(`<tspan ` + ActionIndexAttr + `="(\d+)">([^<]*)</tspan>`)

// Messages returns the tagged message texts of patched markup in document order.
func Messages(markup string) []Message {
	var out []Message
	for _, m := range taggedMessage.FindAllStringSubmatch(markup, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, Message{Index: n, Text: html.UnescapeString(strings.TrimSpace(m[2]))})
	}
	return out
}

// ParticipantLabels returns the names of tagged participant labels in
// document order. Each participant usually appears twice, once per box.
func ParticipantLabels(markup string) []string {
	var out []string
	for _, m := range actorLabel.FindAllStringSubmatch(markup, -1) {
		if hasClass(m[1], ParticipantLabelClass) {
			out = append(out, m[2])
		}
	}
	return out
}
