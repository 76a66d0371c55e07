package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"cccm/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tidwall/gjson"
)

// cmdEnv is an isolated home directory for end-to-end command runs
type cmdEnv struct {
	home     string
	store    string
	settings string
	target   string
}

func setupCmdEnv(t *testing.T) *cmdEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("APPDATA", "")
	t.Setenv("SHELL", "/bin/bash")

	orig := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	return &cmdEnv{
		home:     home,
		store:    filepath.Join(home, "store.cccm"),
		settings: filepath.Join(home, "settings.toml"),
		target:   filepath.Join(home, ".claude", "config.json"),
	}
}

// resetFlags restores every flag to its default so runs don't leak into each other
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes cccm with args and returns stdout and stderr
func (e *cmdEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--store", e.store, "--settings", e.settings))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRun is run that fails the test on error
func (e *cmdEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("cccm %s: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, out, stderr)
	}
	return out
}

func (e *cmdEnv) loadStore(t *testing.T) (names []string, current string) {
	t.Helper()
	store, err := config.Load(e.store)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return config.Names(store), store.CurrentName()
}

func TestAddListShow(t *testing.T) {
	env := setupCmdEnv(t)

	out := env.mustRun(t, "add", "work", "--url", "https://a.example", "--key", "sk-work-000001", "--desc", "Work account")
	if !strings.Contains(out, "Added profile: work") {
		t.Errorf("add output = %q", out)
	}
	env.mustRun(t, "add", "personal", "-u", "https://b.example", "-k", "sk-pers-000002")

	out = env.mustRun(t, "list")
	if !strings.Contains(out, "personal: https://b.example (Key: sk-p****0002)") {
		t.Errorf("list output missing personal:\n%s", out)
	}
	if !strings.Contains(out, "work: https://a.example (Key: sk-w****0001) - Work account") {
		t.Errorf("list output missing work:\n%s", out)
	}
	if strings.Contains(out, "sk-work-000001") {
		t.Error("list must not print full API keys")
	}
	if strings.Index(out, "personal") > strings.Index(out, "work") {
		t.Error("list should be sorted by name")
	}

	out = env.mustRun(t, "show", "work")
	if !strings.Contains(out, "API Key:     sk-w****0001") || !strings.Contains(out, "Description: Work account") {
		t.Errorf("show output:\n%s", out)
	}
	out = env.mustRun(t, "show", "work", "--reveal")
	if !strings.Contains(out, "sk-work-000001") {
		t.Errorf("show --reveal output:\n%s", out)
	}
}

func TestAddWarnsOnOddURL(t *testing.T) {
	env := setupCmdEnv(t)

	_, stderr, err := env.run(t, "add", "odd", "--url", "api.example.com", "--key", "k")
	if err != nil {
		t.Fatalf("add error = %v", err)
	}
	if !strings.Contains(stderr, "not an http(s) URL") {
		t.Errorf("expected a URL warning, stderr = %q", stderr)
	}
}

func TestAddErrors(t *testing.T) {
	env := setupCmdEnv(t)
	env.mustRun(t, "add", "work", "--url", "https://a", "--key", "k")

	t.Run("duplicate name", func(t *testing.T) {
		_, _, err := env.run(t, "add", "work", "--url", "https://b", "--key", "k2")
		if config.KindOf(err) != config.KindValidation {
			t.Errorf("error = %v, want ValidationError", err)
		}
	})

	t.Run("missing key without a terminal", func(t *testing.T) {
		_, _, err := env.run(t, "add", "other", "--url", "https://b")
		if config.KindOf(err) != config.KindValidation {
			t.Errorf("error = %v, want ValidationError", err)
		}
	})

	names, _ := env.loadStore(t)
	if len(names) != 1 {
		t.Errorf("store has %v, want only work", names)
	}
}

func TestSwitchAndStatus(t *testing.T) {
	env := setupCmdEnv(t)
	if err := os.MkdirAll(filepath.Dir(env.target), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(env.target, []byte(`{"baseURL":"old","apiKey":"old","theme":"dark"}`), 0644); err != nil {
		t.Fatal(err)
	}

	env.mustRun(t, "add", "work", "--url", "https://a.example", "--key", "sk-work-000001")

	out := env.mustRun(t, "switch", "work")
	if !strings.Contains(out, "Switched to profile: work") || !strings.Contains(out, "Backup:") {
		t.Errorf("switch output:\n%s", out)
	}

	data, err := os.ReadFile(env.target)
	if err != nil {
		t.Fatal(err)
	}
	if gjson.GetBytes(data, "baseURL").String() != "https://a.example" ||
		gjson.GetBytes(data, "apiKey").String() != "sk-work-000001" ||
		gjson.GetBytes(data, "theme").String() != "dark" {
		t.Errorf("target after switch = %s", data)
	}

	if _, current := env.loadStore(t); current != "work" {
		t.Errorf("current = %q, want work", current)
	}

	out, stderr, err := env.run(t, "status")
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	if !strings.Contains(out, "Current profile: work") || !strings.Contains(out, "https://a.example") {
		t.Errorf("status output:\n%s", out)
	}
	if stderr != "" {
		t.Errorf("status should not warn when in sync: %q", stderr)
	}

	env.mustRun(t, "edit", "work", "--url", "https://changed.example")
	_, stderr, _ = env.run(t, "status")
	if !strings.Contains(stderr, "differs from profile 'work'") {
		t.Errorf("status should warn about drift, stderr = %q", stderr)
	}
}

func TestSwitchUnknownProfile(t *testing.T) {
	env := setupCmdEnv(t)

	_, _, err := env.run(t, "switch", "ghost")
	if config.KindOf(err) != config.KindNotFound {
		t.Errorf("error = %v, want NotFound", err)
	}
	if _, err := os.Stat(env.target); !os.IsNotExist(err) {
		t.Error("a failed switch must not create the target config")
	}
}

func TestSwitchInvalidTargetKeepsCurrent(t *testing.T) {
	env := setupCmdEnv(t)
	env.mustRun(t, "add", "a", "--url", "https://a", "--key", "ka")
	env.mustRun(t, "add", "b", "--url", "https://b", "--key", "kb")
	env.mustRun(t, "switch", "a")

	if err := os.WriteFile(env.target, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	_, _, err := env.run(t, "switch", "b")
	if config.KindOf(err) != config.KindParse {
		t.Fatalf("error = %v, want ParseError", err)
	}
	if _, current := env.loadStore(t); current != "a" {
		t.Errorf("current = %q, want a after a failed switch", current)
	}
}

func TestSwitchSaveFailureRevertsTarget(t *testing.T) {
	env := setupCmdEnv(t)
	env.mustRun(t, "add", "a", "--url", "https://a", "--key", "ka")
	env.mustRun(t, "add", "b", "--url", "https://b", "--key", "kb")
	env.mustRun(t, "switch", "a")

	// A directory where the lock file belongs makes the store save fail
	// after the target has already been written
	if err := os.MkdirAll(filepath.Join(env.home, ".config", "cccm", "store.cccm.lock"), 0755); err != nil {
		t.Fatal(err)
	}

	_, _, err := env.run(t, "switch", "b")
	if config.KindOf(err) != config.KindIO {
		t.Fatalf("error = %v, want IOError", err)
	}

	data, err := os.ReadFile(env.target)
	if err != nil {
		t.Fatal(err)
	}
	if got := gjson.GetBytes(data, "apiKey").String(); got != "ka" {
		t.Errorf("target apiKey = %q, want ka restored", got)
	}
	if _, current := env.loadStore(t); current != "a" {
		t.Errorf("current = %q, want a", current)
	}
}

func TestEditKeepsUnchangedFields(t *testing.T) {
	env := setupCmdEnv(t)
	env.mustRun(t, "add", "work", "--url", "https://a", "--key", "sk-old", "--desc", "keep me")

	env.mustRun(t, "edit", "work", "--key", "sk-new")

	store, err := config.Load(env.store)
	if err != nil {
		t.Fatal(err)
	}
	p := store.Profiles["work"]
	if p.BaseURL != "https://a" || p.APIKey != "sk-new" || p.Description != "keep me" {
		t.Errorf("profile after edit = %+v", p)
	}

	if _, _, err := env.run(t, "edit", "ghost", "--key", "x"); config.KindOf(err) != config.KindNotFound {
		t.Errorf("edit of unknown profile error = %v", err)
	}
}

func TestRemove(t *testing.T) {
	env := setupCmdEnv(t)
	env.mustRun(t, "add", "work", "--url", "https://a", "--key", "k")
	env.mustRun(t, "switch", "work")

	if _, _, err := env.run(t, "remove", "work"); err == nil {
		t.Fatal("remove without --yes and without a terminal should fail")
	}

	out := env.mustRun(t, "rm", "work", "--yes")
	if !strings.Contains(out, "Deleted profile: work") || !strings.Contains(out, "No profile is current") {
		t.Errorf("remove output:\n%s", out)
	}

	names, current := env.loadStore(t)
	if len(names) != 0 || current != "" {
		t.Errorf("store after remove = %v, current %q", names, current)
	}
	if _, err := os.Stat(env.target); err != nil {
		t.Error("remove must leave the target config alone")
	}
}

func TestExportImport(t *testing.T) {
	env := setupCmdEnv(t)
	env.mustRun(t, "add", "work", "--url", "https://a", "--key", "ka")
	env.mustRun(t, "add", "home", "--url", "https://b", "--key", "kb")
	env.mustRun(t, "switch", "home")

	out := env.mustRun(t, "export", "-")
	if gjson.Get(out, "current").String() != "home" || !gjson.Get(out, "profiles.work").Exists() {
		t.Errorf("export - output:\n%s", out)
	}

	exportPath := filepath.Join(env.home, "backup.cccm")
	env.mustRun(t, "export", exportPath)
	if _, _, err := env.run(t, "export", exportPath); config.KindOf(err) != config.KindIO {
		t.Errorf("export over an existing file error = %v, want IOError", err)
	}
	env.mustRun(t, "export", exportPath, "--force")

	env.mustRun(t, "remove", "work", "--yes")
	env.mustRun(t, "add", "scratch", "--url", "https://c", "--key", "kc")

	if _, _, err := env.run(t, "import", exportPath); err == nil {
		t.Fatal("import over existing profiles without --yes should fail")
	}

	out = env.mustRun(t, "import", exportPath, "--yes")
	if !strings.Contains(out, "Imported 2 profile(s)") {
		t.Errorf("import output:\n%s", out)
	}

	names, current := env.loadStore(t)
	if strings.Join(names, ",") != "home,work" || current != "home" {
		t.Errorf("store after import = %v, current %q", names, current)
	}
}

func TestImportRejectsBadInput(t *testing.T) {
	env := setupCmdEnv(t)
	env.mustRun(t, "add", "keep", "--url", "https://a", "--key", "k")

	txt := filepath.Join(env.home, "profiles.txt")
	if err := os.WriteFile(txt, []byte(`{"profiles":{},"current":null}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := env.run(t, "import", txt, "--yes"); config.KindOf(err) != config.KindValidation {
		t.Errorf("import of .txt error = %v, want ValidationError", err)
	}

	bad := filepath.Join(env.home, "bad.cccm")
	if err := os.WriteFile(bad, []byte(`{"profiles": [1]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := env.run(t, "import", bad, "--yes"); config.KindOf(err) != config.KindParse {
		t.Errorf("import of malformed file error = %v, want ParseError", err)
	}

	if names, _ := env.loadStore(t); len(names) != 1 || names[0] != "keep" {
		t.Errorf("store changed by a rejected import: %v", names)
	}
}

func TestBackupsCommands(t *testing.T) {
	env := setupCmdEnv(t)
	env.mustRun(t, "add", "a", "--url", "https://a", "--key", "ka")
	env.mustRun(t, "add", "b", "--url", "https://b", "--key", "kb")

	out := env.mustRun(t, "backups")
	if !strings.Contains(out, "No backups of") {
		t.Errorf("backups output:\n%s", out)
	}

	env.mustRun(t, "switch", "a")
	env.mustRun(t, "switch", "b")

	out = env.mustRun(t, "backups", "list")
	if strings.Count(out, "config.backup.") != 1 {
		t.Errorf("expected exactly one backup:\n%s", out)
	}

	env.mustRun(t, "backups", "restore")
	data, _ := os.ReadFile(env.target)
	if gjson.GetBytes(data, "apiKey").String() != "ka" {
		t.Errorf("restored target = %s", data)
	}

	if _, _, err := env.run(t, "backups", "prune", "--keep", "-1"); err == nil {
		t.Error("prune with a negative --keep should fail")
	}
	out = env.mustRun(t, "backups", "prune", "--keep", "0")
	if !strings.Contains(out, "Removed 1 backup(s)") {
		t.Errorf("prune output:\n%s", out)
	}
}

func TestEnvCommand(t *testing.T) {
	env := setupCmdEnv(t)

	if _, _, err := env.run(t, "env"); err == nil {
		t.Error("env without a current profile should fail")
	}

	env.mustRun(t, "add", "work", "--url", "https://a.example", "--key", "sk-1")
	env.mustRun(t, "switch", "work")

	out := env.mustRun(t, "env")
	want := "export ANTHROPIC_BASE_URL='https://a.example'\nexport ANTHROPIC_AUTH_TOKEN='sk-1'\n"
	if out != want {
		t.Errorf("env output = %q, want %q", out, want)
	}
}

func TestInstallEnablesEnvStep(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("install is Unix only")
	}
	env := setupCmdEnv(t)
	rc := filepath.Join(env.home, ".bashrc")
	envFile := filepath.Join(env.home, ".config", "cccm", config.EnvFileName)

	env.mustRun(t, "add", "work", "--url", "https://a.example", "--key", "sk-1")
	env.mustRun(t, "add", "home", "--url", "https://b.example", "--key", "sk-2")
	env.mustRun(t, "switch", "work")

	out := env.mustRun(t, "install", "--rc", rc)
	if !strings.Contains(out, "Installed shell hook") {
		t.Errorf("install output:\n%s", out)
	}

	hook, err := os.ReadFile(rc)
	if err != nil || !strings.Contains(string(hook), envFile) {
		t.Fatalf("rc file = %q, %v", hook, err)
	}
	settings, err := config.LoadSettings(env.settings)
	if err != nil || !settings.EnvEnabled() {
		t.Fatalf("set_env not persisted: %+v, %v", settings, err)
	}
	seeded, _ := os.ReadFile(envFile)
	if !strings.Contains(string(seeded), "ANTHROPIC_AUTH_TOKEN='sk-1'") {
		t.Errorf("env file not seeded:\n%s", seeded)
	}

	out = env.mustRun(t, "switch", "home")
	if !strings.Contains(out, "ANTHROPIC_BASE_URL, ANTHROPIC_AUTH_TOKEN updated") {
		t.Errorf("switch output:\n%s", out)
	}
	switched, _ := os.ReadFile(envFile)
	if !strings.Contains(string(switched), "ANTHROPIC_AUTH_TOKEN='sk-2'") {
		t.Errorf("env file after switch:\n%s", switched)
	}

	out = env.mustRun(t, "install", "--rc", rc)
	if !strings.Contains(out, "Updated shell hook") {
		t.Errorf("second install output:\n%s", out)
	}
	hook, _ = os.ReadFile(rc)
	if strings.Count(string(hook), "# >>> cccm >>>") != 1 {
		t.Errorf("hook duplicated:\n%s", hook)
	}
}
