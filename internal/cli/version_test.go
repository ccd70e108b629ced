package cli

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		wantErr  bool
	}{
		{name: "default", args: []string{"version"}, contains: []string{"tabmon", "Version:"}},
		{name: "table", args: []string{"version", "-o", "table"}, contains: []string{"KEY", "goVersion"}},
		{name: "yaml", args: []string{"version", "-o", "yaml"}, contains: []string{"version: dev"}},
		{name: "unknown", args: []string{"version", "-o", "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runRoot(t, "", tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(stdout, want) {
					t.Errorf("expected output to contain %q:\n%s", want, stdout)
				}
			}
		})
	}
}

func TestVersionCommand_JSON(t *testing.T) {
	stdout, _, err := runRoot(t, "", "version", "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var info map[string]string
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if info["version"] == "" || info["platform"] == "" {
		t.Errorf("unexpected version info %v", info)
	}
}
