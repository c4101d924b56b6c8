package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// cliResult is the captured outcome of one CLI invocation.
type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI runs the root command against a file store inside dir, with an
// empty environment so CONTACTS_* variables on the host cannot leak in.
func runCLI(t *testing.T, dir, stdin string, args ...string) cliResult {
	t.Helper()
	base := []string{"--backend", "file", "--db", filepath.Join(dir, "contacts.dat")}
	return runCLIEnv(t, nil, stdin, append(base, args...)...)
}

// runCLIEnv runs the root command with exactly args and the given
// environment.
func runCLIEnv(t *testing.T, env map[string]string, stdin string, args ...string) cliResult {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := newRootCommand(func(key string) string { return env[key] })
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
