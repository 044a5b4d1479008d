package acceptance_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// runBcgen executes the bcgen binary and returns stdout, stderr, and exit code.
func runBcgen(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(bcgenBinary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run bcgen: %v", err)
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// runBcgenSuccess runs bcgen expecting exit code 0 and returns stdout.
func runBcgenSuccess(t *testing.T, dir string, args ...string) string {
	t.Helper()
	stdout, stderr, exitCode := runBcgen(t, dir, args...)
	if exitCode != 0 {
		t.Fatalf("expected exit 0, got %d\nargs: %v\nstdout: %s\nstderr: %s", exitCode, args, stdout, stderr)
	}
	return stdout
}

// runBcgenJSON runs bcgen with --json and parses stdout.
func runBcgenJSON(t *testing.T, dir string, args ...string) (map[string]interface{}, int) {
	t.Helper()
	stdout, stderr, exitCode := runBcgen(t, dir, append([]string{"--json"}, args...)...)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nstdout: %s\nstderr: %s", err, stdout, stderr)
	}
	return result, exitCode
}

// writeFile creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// readFile reads a file's content.
func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	return string(content)
}

// fileExists checks if a file exists.
func fileExists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

// csvSequences returns the sequence column of a label,sequence file.
func csvSequences(t *testing.T, content string) []string {
	t.Helper()
	var seqs []string
	for _, line := range strings.Fields(content) {
		_, seq, ok := strings.Cut(line, ",")
		if !ok {
			t.Fatalf("malformed line %q", line)
		}
		seqs = append(seqs, seq)
	}
	return seqs
}
