package cli

import (
	"strings"
	"testing"
)

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		shell   string
		want    string
		wantErr bool
	}{
		{shell: "bash", want: "# bash completion V2 for tabmon"},
		{shell: "zsh", want: "#compdef tabmon"},
		{shell: "fish", want: "# fish completion for tabmon"},
		{shell: "powershell", want: "Register-ArgumentCompleter"},
		{shell: "tcsh", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			stdout, _, err := runRoot(t, "", "completion", tt.shell)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for shell %q", tt.shell)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(stdout, tt.want) {
				t.Errorf("expected script to contain %q", tt.want)
			}
		})
	}
}

func TestCompletionCommand_RequiresShell(t *testing.T) {
	if _, _, err := runRoot(t, "", "completion"); err == nil {
		t.Error("expected error without a shell argument")
	}
}

// completion scripts call back into the binary through cobra's hidden
// __complete command; these are the values they offer
func TestFlagValueCompletion(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "checks", args: []string{"--checks", ""}, want: []string{"all", "tsm", "systeminfo"}},
		{name: "log format", args: []string{"--log-format", ""}, want: []string{"text", "json"}},
		{name: "status output", args: []string{"status", "-o", ""}, want: []string{"table", "json", "yaml", "line"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runRoot(t, "", append([]string{"__complete"}, tt.args...)...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			lines := strings.Split(strings.TrimSpace(stdout), "\n")
			if len(lines) != len(tt.want)+1 {
				t.Fatalf("expected %d values and a directive, got %q", len(tt.want), stdout)
			}
			for i, want := range tt.want {
				if lines[i] != want {
					t.Errorf("value %d = %q, want %q", i, lines[i], want)
				}
			}
			// no file completion
			if lines[len(lines)-1] != ":4" {
				t.Errorf("unexpected directive %q", lines[len(lines)-1])
			}
		})
	}
}
