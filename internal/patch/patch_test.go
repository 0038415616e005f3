package patch

import (
	"strings"
	"testing"
)

// sampleSVG mimics the shape of Mermaid's sequence diagram output.
const sampleSVG = `<svg id="d" xmlns="http://www.w3.org/2000/svg">` +
	`<g><rect x="0" y="0" class="actor actor-top" name="Alice"></rect>` +
	`<text x="75" y="32.5" dominant-baseline="central" data-id="actor-Alice" class="actor"><tspan x="75" dy="0">Alice</tspan></text>` +
	`<text x="75" y="32.5" data-id="actor-Alice" class="actor">Alice</text></g>` +
	`<g><rect x="200" y="0" class="actor actor-bottom" name="Bob"/>` +
	`<text x="275" y="32.5" data-id="actor-Bob">Bob</text></g>` +
	`<text x="175" y="80" text-anchor="middle" class="messageText" dy="1em">Hello Bob</text>` +
	`<text x="20" y="80" class="sequenceNumber">1</text>` +
	`<text x="175" y="130" dy="1em">  </text>` +
	`<text x="175" y="130" dy="1em">I am good &amp; you?</text>` +
	`</svg>`

func TestPatchParticipantLabels(t *testing.T) {
	out := Patch(sampleSVG)

	if !strings.Contains(out, `data-id="actor-Alice" class="participant-label actor">Alice</text>`) {
		t.Errorf("Alice label not tagged:\n%s", out)
	}
	if !strings.Contains(out, `<text class="participant-label" x="275" y="32.5" data-id="actor-Bob">Bob</text>`) {
		t.Errorf("Bob label not tagged:\n%s", out)
	}
	// A label wrapped in a tspan does not match the plain-text rule.
	if strings.Contains(out, `class="participant-label actor"><tspan`) {
		t.Errorf("tspan label should be left alone:\n%s", out)
	}

	got := ParticipantLabels(out)
	if len(got) != 2 || got[0] != "Alice" || got[1] != "Bob" {
		t.Errorf("ParticipantLabels = %v", got)
	}
}

func TestPatchParticipantRects(t *testing.T) {
	out := Patch(sampleSVG)
	if !strings.Contains(out, `class="participant-rect actor actor-top"`) {
		t.Errorf("actor-top rect not tagged:\n%s", out)
	}
	if !strings.Contains(out, `class="participant-rect actor actor-bottom"`) {
		t.Errorf("actor-bottom rect not tagged:\n%s", out)
	}
}

func TestPatchMessages(t *testing.T) {
	out := Patch(sampleSVG)

	msgs := Messages(out)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d: %+v", len(msgs), msgs)
	}
	if msgs[0].Index != 0 || msgs[0].Text != "Hello Bob" {
		t.Errorf("message 0 = %+v", msgs[0])
	}
	if msgs[1].Index != 1 || msgs[1].Text != "I am good & you?" {
		t.Errorf("message 1 = %+v", msgs[1])
	}
	if strings.Contains(out, "messageText messageText") {
		t.Error("messageText class duplicated")
	}
	if !strings.Contains(out, `<text class="messageText" x="175" y="130" dy="1em"><tspan data-action-idx="1">`) {
		t.Errorf("class not added to bare text element:\n%s", out)
	}
	if strings.Contains(out, `data-action-idx="2"`) {
		t.Error("numeric or blank text was tagged")
	}
}

func TestPatchIsIdempotent(t *testing.T) {
	once := Patch(sampleSVG)
	twice := Patch(once)
	if once != twice {
		t.Errorf("second patch changed markup:\nonce:  %s\ntwice: %s", once, twice)
	}
}

func TestPatchPassesThroughMalformedMarkup(t *testing.T) {
	inputs := []string{"", "not svg", "<text>unterminated", "<rect class=\"actor-top\"", "<text data-id=\"actor-X\">"}
	for _, in := range inputs {
		if got := Patch(in); got != in {
			t.Errorf("Patch(%q) = %q", in, got)
		}
	}
}

func TestAddClass(t *testing.T) {
	tests := []struct {
		tag, class, want string
	}{
		{`<text x="1">`, "a", `<text class="a" x="1">`},
		{`<text>`, "a", `<text class="a">`},
		{`<rect/>`, "a", `<rect class="a"/>`},
		{`<text class="">`, "a", `<text class="a">`},
		{`<text class="b c">`, "a", `<text class="a b c">`},
		{`<text class="b a">`, "a", `<text class="b a">`},
		{`<text data-class="z" class="b">`, "a", `<text data-class="z" class="a b">`},
	}
	for _, tt := range tests {
		if got := addClass(tt.tag, tt.class); got != tt.want {
			t.Errorf("addClass(%q, %q) = %q, want %q", tt.tag, tt.class, got, tt.want)
		}
	}
}

func TestPatchNumbersNoteTextsLikeMessages(t *testing.T) {
	// Alice->>Bob: Hi, then a note, then Bob-->>Alice: Bye. The note label
	// takes index 1, so the second action's text carries index 2.
	svg := `<svg>` +
		`<text class="messageText" dy="1em">Hi</text>` +
		`<text class="noteText" dy="1em">remember this</text>` +
		`<text class="messageText" dy="1em">Bye</text>` +
		`</svg>`

	msgs := Messages(Patch(svg))
	want := []Message{{Index: 0, Text: "Hi"}, {Index: 1, Text: "remember this"}, {Index: 2, Text: "Bye"}}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d tagged texts, got %+v", len(want), msgs)
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Errorf("text %d = %+v, want %+v", i, msgs[i], want[i])
		}
	}
}
