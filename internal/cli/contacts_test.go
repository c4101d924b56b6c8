package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSearchUpdateDelete_Text(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, dir, "", "add", "Bob", "--phone", "1", "--email", "b@x")
	require.NoError(t, res.err)
	assert.Equal(t, "Contact 'Bob' added.\n", res.stdout)

	res = runCLI(t, dir, "", "search", "BOB")
	require.NoError(t, res.err)
	assert.Equal(t, "Found: Bob | 1 | b@x\n", res.stdout)

	res = runCLI(t, dir, "", "update", "bob", "--phone", "9")
	require.NoError(t, res.err)
	assert.Equal(t, "Contact 'bob' updated.\n", res.stdout)

	res = runCLI(t, dir, "", "search", "Bob")
	require.NoError(t, res.err)
	assert.Equal(t, "Found: Bob | 9 | b@x\n", res.stdout)

	res = runCLI(t, dir, "", "delete", "Bob")
	require.NoError(t, res.err)
	assert.Equal(t, "Contact 'Bob' deleted.\n", res.stdout)

	res = runCLI(t, dir, "", "list")
	require.NoError(t, res.err)
	assert.Equal(t, "No contacts available.\n", res.stdout)
}

func TestSearch_NotFound(t *testing.T) {
	res := runCLI(t, t.TempDir(), "", "search", "Zed")
	require.Error(t, res.err)

	assert.Equal(t, "Contact not found.\n", res.stdout)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.True(t, IsReported(res.err))
	assert.Empty(t, res.stderr)
}

func TestDelete_NotFoundJSON(t *testing.T) {
	res := runCLI(t, t.TempDir(), "", "--format", "json", "delete", "Zed")
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
	assert.Equal(t, `contact "Zed" not found`, resp.Error.Message)
}

func TestAdd_EmptyNameIsValidationError(t *testing.T) {
	res := runCLI(t, t.TempDir(), "", "add", "   ")
	require.Error(t, res.err)

	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Empty(t, res.stdout)
	assert.Equal(t, "Error [E003]: invalid name: must not be empty\n", res.stderr)
}

func TestAdd_DuplicateRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runCLI(t, dir, "", "add", "Alice", "--phone", "1").err)

	res := runCLI(t, dir, "", "add", "alice", "--phone", "2")
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Equal(t, "Contact 'Alice' already exists.\n", res.stdout)

	res = runCLI(t, dir, "", "search", "alice")
	require.NoError(t, res.err)
	assert.Equal(t, "Found: Alice | 1 | \n", res.stdout)
}

func TestAdd_DuplicateOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runCLI(t, dir, "", "add", "Alice", "--phone", "1").err)

	res := runCLI(t, dir, "", "--on-duplicate", "overwrite", "add", "alice", "--phone", "2")
	require.NoError(t, res.err)
	assert.Equal(t, "Contact 'alice' replaced.\n", res.stdout)

	res = runCLI(t, dir, "", "search", "ALICE")
	require.NoError(t, res.err)
	assert.Equal(t, "Found: alice | 2 | \n", res.stdout)
}

func TestAdd_JSON(t *testing.T) {
	res := runCLI(t, t.TempDir(), "", "--format", "json", "add", "Carol", "--phone", "3", "--email", "c@x")
	require.NoError(t, res.err)

	var resp struct {
		Status string        `json:"status"`
		Data   ContactResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "added", resp.Data.Event)
	assert.Equal(t, "Contact 'Carol' added.", resp.Data.Message)
	require.NotNil(t, resp.Data.Contact)
	assert.Equal(t, "c@x", resp.Data.Contact.Email)
	assert.NotEmpty(t, resp.Data.Revision)
}

func TestUpdate_KeepsBlankFields(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runCLI(t, dir, "", "add", "Alice", "--phone", "2", "--email", "a@x").err)
	require.NoError(t, runCLI(t, dir, "", "update", "alice", "--email", "new@x").err)

	res := runCLI(t, dir, "", "search", "Alice")
	require.NoError(t, res.err)
	assert.Equal(t, "Found: Alice | 2 | new@x\n", res.stdout)
}

func TestList_SortedText(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runCLI(t, dir, "", "add", "Bob", "--phone", "1", "--email", "b@x").err)
	require.NoError(t, runCLI(t, dir, "", "add", "alice", "--phone", "3", "--email", "a@x").err)
	require.NoError(t, runCLI(t, dir, "", "add", "Carol", "--phone", "2", "--email", "c@x").err)

	res := runCLI(t, dir, "", "list")
	require.NoError(t, res.err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "list_text", []byte(res.stdout))
}

func TestList_JSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runCLI(t, dir, "", "add", "Bob").err)
	require.NoError(t, runCLI(t, dir, "", "add", "alice").err)

	res := runCLI(t, dir, "", "--format", "json", "list")
	require.NoError(t, res.err)

	var resp struct {
		Status string     `json:"status"`
		Data   ListResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, 2, resp.Data.Count)
	require.Len(t, resp.Data.Contacts, 2)
	assert.Equal(t, "alice", resp.Data.Contacts[0].Name)
	assert.Equal(t, "Bob", resp.Data.Contacts[1].Name)
}

func TestSQLiteBackend(t *testing.T) {
	db := filepath.Join(t.TempDir(), "contacts.db")
	args := func(a ...string) []string {
		return append([]string{"--backend", "sqlite", "--db", db}, a...)
	}

	require.NoError(t, runCLIEnv(t, nil, "", args("add", "Zoe", "--phone", "7")...).err)
	require.NoError(t, runCLIEnv(t, nil, "", args("add", "adam", "--phone", "8")...).err)

	res := runCLIEnv(t, nil, "", args("list")...)
	require.NoError(t, res.err)
	assert.Equal(t, "--- Contact List ---\nadam | 8 | \nZoe | 7 | \n-------------------\n", res.stdout)
}

func TestEnvironmentSelectsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.dat")
	env := map[string]string{"CONTACTS_BACKEND": "file", "CONTACTS_PATH": path}

	require.NoError(t, runCLIEnv(t, env, "", "add", "Eve").err)
	assert.FileExists(t, path)

	res := runCLIEnv(t, env, "", "search", "eve")
	require.NoError(t, res.err)
	assert.Equal(t, "Found: Eve |  | \n", res.stdout)
}

func TestConfigFileSelectsStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "from-config.db")
	cfgPath := filepath.Join(dir, "contacts.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("backend: sqlite\npath: "+path+"\n"), 0644))

	require.NoError(t, runCLIEnv(t, nil, "", "--config", cfgPath, "add", "Dan").err)
	assert.FileExists(t, path)
}

func TestInvalidConfig(t *testing.T) {
	res := runCLIEnv(t, map[string]string{"CONTACTS_BACKEND": "postgres"}, "", "list")
	require.Error(t, res.err)

	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.True(t, IsReported(res.err))
	assert.Contains(t, res.stderr, "Error [E006]")
}

func TestCorruptStore_DegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contacts.dat"), []byte("not a snapshot"), 0644))

	res := runCLI(t, dir, "", "list")
	require.NoError(t, res.err)
	assert.Equal(t, "No contacts available.\n", res.stdout)
	assert.Contains(t, res.stderr, "store unreadable")
}

func TestCorruptStore_StrictFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contacts.dat"), []byte("not a snapshot"), 0644))

	res := runCLI(t, dir, "", "--strict", "list")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.stderr, "Error [E005]")
}

func TestCorruptSQLiteStore_DegradesToEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "contacts.db")
	require.NoError(t, os.WriteFile(db, bytes.Repeat([]byte("garbage!"), 256), 0644))
	args := func(a ...string) []string {
		return append([]string{"--backend", "sqlite", "--db", db}, a...)
	}

	res := runCLIEnv(t, nil, "", args("list")...)
	require.NoError(t, res.err)
	assert.Equal(t, "No contacts available.\n", res.stdout)
	assert.Contains(t, res.stderr, "store unreadable")

	require.NoError(t, runCLIEnv(t, nil, "", args("add", "Bob", "--phone", "5")...).err)

	res = runCLIEnv(t, nil, "", args("--strict", "list")...)
	require.NoError(t, res.err)
	assert.Equal(t, "--- Contact List ---\nBob | 5 | \n-------------------\n", res.stdout)
}

func TestCorruptSQLiteStore_StrictFails(t *testing.T) {
	db := filepath.Join(t.TempDir(), "contacts.db")
	require.NoError(t, os.WriteFile(db, bytes.Repeat([]byte("garbage!"), 256), 0644))

	res := runCLIEnv(t, nil, "", "--backend", "sqlite", "--db", db, "--strict", "list")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
	assert.Contains(t, res.stderr, "Error [E005]")
}

func TestEmptyStoreFile_LoadsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contacts.dat"), nil, 0644))

	res := runCLI(t, dir, "", "--strict", "list")
	require.NoError(t, res.err)
	assert.Equal(t, "No contacts available.\n", res.stdout)
}
