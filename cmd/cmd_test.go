package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "facecheck "+Version) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestAdminCreate_RequiresPassword(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := execute(t, "admin", "create", "--email", "ops@example.com")
	if err == nil || !strings.Contains(err.Error(), "password is required") {
		t.Fatalf("expected missing password error, got %v", err)
	}
}
