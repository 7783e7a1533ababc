package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todomvc/internal/auth"
)

func writeConfig(t *testing.T, dir, driver string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	data := "storage:\n" +
		"  driver: " + driver + "\n" +
		"  path: " + filepath.Join(dir, "todos."+driver) + "\n" +
		"ui:\n  color: never\n" +
		"log:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

type result struct {
	code           int
	stdout, stderr string
}

func run(t *testing.T, cfgPath string, args ...string) result {
	t.Helper()
	root := NewRootCmd("1.2.3")
	var out, errb bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errb)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	code := exitCode(&errb, root.Execute())
	return result{code: code, stdout: out.String(), stderr: errb.String()}
}

func TestTodoLifecycle(t *testing.T) {
	for _, driver := range []string{"json", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			cfg := writeConfig(t, t.TempDir(), driver)

			res := run(t, cfg, "add", "Buy", "milk")
			require.Equal(t, 0, res.code, res.stderr)
			assert.Contains(t, res.stdout, "added")

			res = run(t, cfg, "add", "Walk dog")
			require.Equal(t, 0, res.code, res.stderr)

			res = run(t, cfg, "ls")
			require.Equal(t, 0, res.code, res.stderr)
			assert.Contains(t, res.stdout, "Buy milk")
			assert.Contains(t, res.stdout, "Walk dog")
			assert.Contains(t, res.stdout, "[All]")

			res = run(t, cfg, "done", "1")
			require.Equal(t, 0, res.code, res.stderr)
			assert.Contains(t, res.stdout, "#1 marked completed")

			res = run(t, cfg, "ls", "active")
			require.Equal(t, 0, res.code, res.stderr)
			assert.NotContains(t, res.stdout, "Buy milk")
			assert.Contains(t, res.stdout, "Walk dog")
			assert.Contains(t, res.stdout, "[Active]")

			res = run(t, cfg, "edit", "2", "Walk", "the", "dog")
			require.Equal(t, 0, res.code, res.stderr)
			assert.Contains(t, res.stdout, `#2 is "Walk the dog"`)

			res = run(t, cfg, "clear")
			require.Equal(t, 0, res.code, res.stderr)
			assert.Contains(t, res.stdout, "removed #1")

			res = run(t, cfg, "toggle-all")
			require.Equal(t, 0, res.code, res.stderr)
			assert.Contains(t, res.stdout, "#2 marked completed")

			res = run(t, cfg, "ls", "completed")
			require.Equal(t, 0, res.code, res.stderr)
			assert.Contains(t, res.stdout, "Walk the dog")
			assert.NotContains(t, res.stdout, "Buy milk")

			res = run(t, cfg, "reset", "--yes")
			require.Equal(t, 0, res.code, res.stderr)

			res = run(t, cfg, "ls")
			require.Equal(t, 0, res.code, res.stderr)
			assert.Contains(t, res.stdout, "no items")
		})
	}
}

func TestEditWithEmptyTitleRemoves(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), "json")
	require.Equal(t, 0, run(t, cfg, "add", "Buy milk").code)

	res := run(t, cfg, "edit", "1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "removed #1")
}

func TestUsageErrors(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), "json")

	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{"blank title", []string{"add", "   "}, "add: empty title"},
		{"id not a number", []string{"done", "abc"}, "done: not a number: abc"},
		{"unknown todo", []string{"rm", "7"}, "Hint: run `todomvc ls`"},
		{"unknown todo edit", []string{"edit", "7", "x"}, "todo not found"},
		{"unknown filter", []string{"ls", "someday"}, "ls: unknown filter"},
		{"reset needs confirmation", []string{"reset"}, "--yes"},
		{"unknown subcommand", []string{"frobnicate"}, "unknown command"},
		{"missing args", []string{"done"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, cfg, tt.args...)
			assert.Equal(t, 2, res.code)
			assert.Contains(t, res.stderr, tt.stderr)
		})
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "json")
	other := filepath.Join(dir, "other.json")

	require.Equal(t, 0, run(t, cfg, "--data", other, "add", "Buy milk").code)
	_, err := os.Stat(other)
	require.NoError(t, err)

	res := run(t, cfg, "ls")
	assert.Contains(t, res.stdout, "no items")

	res = run(t, cfg, "--storage", "memory", "ls")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "no items")

	res = run(t, cfg, "--color", "sometimes", "ls")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "ui.color")
}

func TestBadConfig(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), "mongo")
	res := run(t, cfg, "ls")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "unknown storage driver")

	res = run(t, cfg, "--storage", "memory", "ls")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "no items")
}

func TestFlagsRepairEnv(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), "json")
	t.Setenv("TODOMVC_STORAGE_DRIVER", "bogus")
	t.Setenv("TODOMVC_THEME", "solarized")

	res := run(t, cfg, "ls")
	assert.Equal(t, 2, res.code)

	res = run(t, cfg, "--storage", "json", "--theme", "mono", "ls")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "no items")
}

func TestVersion(t *testing.T) {
	cfg := writeConfig(t, t.TempDir(), "json")
	res := run(t, cfg, "version")
	require.Equal(t, 0, res.code)
	assert.Equal(t, "todomvc version 1.2.3\n", res.stdout)
}

func TestAuth(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(auth.EnvToken, "")
	cfg := writeConfig(t, t.TempDir(), "json")

	res := run(t, cfg, "auth", "status")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "not logged in")

	res = run(t, cfg, "auth", "whoami")
	assert.Equal(t, 2, res.code)

	// {"sub":"ada"}
	jwt := "eyJhbGciOiJub25lIn0.eyJzdWIiOiJhZGEifQ.sig"
	res = run(t, cfg, "auth", "login", "--token", jwt, "--expires-in", "1h")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "logged in")

	res = run(t, cfg, "auth", "status")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "source: file")
	assert.NotContains(t, res.stdout, "expired")

	res = run(t, cfg, "auth", "whoami")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, `{"sub":"ada"}`)

	res = run(t, cfg, "auth", "logout")
	require.Equal(t, 0, res.code)
	res = run(t, cfg, "auth", "status")
	assert.Contains(t, res.stdout, "not logged in")
}

func TestAuthLoginFromStdin(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(auth.EnvToken, "")
	cfg := writeConfig(t, t.TempDir(), "json")

	root := NewRootCmd("dev")
	var out, errb bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errb)
	root.SetIn(strings.NewReader("Bearer opaque-token\n"))
	root.SetArgs([]string{"--config", cfg, "auth", "login"})
	require.Equal(t, 0, exitCode(&errb, root.Execute()), errb.String())

	ti, err := auth.GetToken()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "opaque-token", ti.Token)
}

func TestSubcommands(t *testing.T) {
	root := NewRootCmd("dev")
	found := map[string]bool{}
	for _, c := range root.Commands() {
		found[c.Name()] = true
	}
	for _, name := range []string{
		"ls", "add", "done", "rm", "edit", "clear", "toggle-all",
		"reset", "tui", "serve", "auth", "version",
	} {
		assert.True(t, found[name], "missing subcommand %s", name)
	}
	assert.True(t, root.SilenceUsage)
}

func TestServeRefusesBadTokens(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(auth.EnvToken, "")
	t.Setenv("TODOMVC_SERVER_TOKEN", "")
	cfg := writeConfig(t, t.TempDir(), "memory")

	res := run(t, cfg, "serve", "--auth", "--addr", "127.0.0.1:0")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "no token found")

	res = run(t, cfg, "auth", "login", "--token", "s3cret", "--expires-in=-1h")
	require.Equal(t, 0, res.code, res.stderr)
	res = run(t, cfg, "auth", "status")
	assert.Contains(t, res.stdout, "(expired)")

	res = run(t, cfg, "serve", "--auth", "--addr", "127.0.0.1:0")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "token expired")
	assert.Contains(t, res.stderr, "auth login")
}

func TestCorruptCredentials(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(auth.EnvToken, "")
	cfg := writeConfig(t, t.TempDir(), "json")

	credPath := filepath.Join(home, ".todomvc", "credentials.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(credPath), 0o700))
	require.NoError(t, os.WriteFile(credPath, []byte("{broken"), 0o600))

	res := run(t, cfg, "auth", "whoami")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "parse credentials")
	assert.NotContains(t, res.stderr, "not logged in")

	res = run(t, cfg, "auth", "logout")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stderr, "parse credentials")
	assert.Contains(t, res.stdout, "logged out")
	_, err := os.Stat(credPath)
	assert.True(t, os.IsNotExist(err))
}
