package cli

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/chipgrid/trackplan/pkg/pipeline"
)

func testResult(t *testing.T) *pipeline.Result {
	t.Helper()
	runner := pipeline.NewRunner(log.NewWithOptions(io.Discard, log.Options{}))
	result, err := runner.Execute(context.Background(), pipeline.Options{
		Spec: map[string]any{
			"data":   []any{[]any{"vss", "sig", "vdd"}},
			"shared": []any{"vss"},
		},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return result
}

func TestFormatResult_Table(t *testing.T) {
	out, err := formatResult(testResult(t), "table")
	if err != nil {
		t.Fatalf("formatResult: %v", err)
	}
	text := string(out)
	for _, want := range []string{"ORDINAL", "vss<0>", "sig<0>", "vdd<0>", "tracks:"} {
		if !strings.Contains(text, want) {
			t.Errorf("table output missing %q:\n%s", want, text)
		}
	}
}

func TestFormatResult_JSON(t *testing.T) {
	out, err := formatResult(testResult(t), "json")
	if err != nil {
		t.Fatalf("formatResult: %v", err)
	}

	var p placement
	if err := json.Unmarshal(out, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.Wires) != 3 {
		t.Fatalf("wires = %d, want 3", len(p.Wires))
	}
	// Rows come out ordinal-sorted with the shared seam wire first.
	if p.Wires[0].Wire != "vss<0>" || !p.Wires[0].Shared {
		t.Errorf("first row = %+v, want shared vss<0>", p.Wires[0])
	}
	for i := 1; i < len(p.Wires); i++ {
		if p.Wires[i-1].Ordinal > p.Wires[i].Ordinal {
			t.Errorf("rows not sorted by ordinal: %+v", p.Wires)
		}
	}
}

func TestFormatResult_DOT(t *testing.T) {
	out, err := formatResult(testResult(t), "dot")
	if err != nil {
		t.Fatalf("formatResult: %v", err)
	}
	if !strings.Contains(string(out), "digraph wires") {
		t.Errorf("DOT output missing header:\n%s", out)
	}
}

func TestFormatResult_UnknownFormat(t *testing.T) {
	if _, err := formatResult(testResult(t), "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
