package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Stage", KeyStage, "hugr", Stage("hugr")},
		{"Target", KeyTarget, "llvm", Target("llvm")},
		{"Path", KeyPath, "/tmp/x.py", Path("/tmp/x.py")},
		{"Artifact", KeyArtifact, "mermaid", Artifact("mermaid")},
		{"Entrypoint", KeyEntrypoint, "main", Entrypoint("main")},
		{"Symbol", KeySymbol, "_hl.main.1", Symbol("_hl.main.1")},
		{"Locator", KeyLocator, "==0.14.0", Locator("==0.14.0")},
		{"Tool", KeyTool, "opt", Tool("opt")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestNumericAndErrorHelpers(t *testing.T) {
	if a := OptLevel(2); a.Key != KeyOptLevel || a.Value.Int64() != 2 {
		t.Fatalf("unexpected opt level attr: %v", a)
	}
	if a := Duration(1500 * time.Microsecond); a.Value.Float64() != 1.5 {
		t.Fatalf("expected 1.5ms, got %v", a.Value.Float64())
	}
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("expected empty error string, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("expected boom, got %q", a.Value.String())
	}
}
