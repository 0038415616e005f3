package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Task: "Importing", Out: &buf}

	r.Start(2)
	r.Update(1, "login.mmd")
	r.Update(2, "logout.mmd")
	r.Finish()

	want := "Importing 2 diagrams\n[1/2] login.mmd\n[2/2] logout.mmd\nImporting complete\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	r := NewReporter("Exporting")
	ci, ok := r.(*CIReporter)
	if !ok {
		t.Fatalf("expected CIReporter, got %T", r)
	}
	if !strings.EqualFold(ci.Task, "exporting") {
		t.Errorf("task = %q", ci.Task)
	}
}
