package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cccm/config"
	"cccm/config/models"
	"cccm/config/switcher"

	tea "github.com/charmbracelet/bubbletea"
)

// newTestModel builds a model over a store and target config in a temp dir
func newTestModel(t *testing.T, profiles map[string]models.Profile, current string) (Model, string) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", "")
	mgr, err := config.NewManager(config.Options{
		HomeDir:      dir,
		StorePath:    filepath.Join(dir, "store.cccm"),
		SettingsPath: filepath.Join(dir, "settings.toml"),
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	store := models.NewStore()
	for name, p := range profiles {
		store.Profiles[name] = p
	}
	if current != "" {
		store.Current = &current
	}
	if err := mgr.Save(store); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	target := filepath.Join(dir, ".claude", "config.json")
	m := NewModel(mgr, switcher.New([]string{target}))
	m = run(t, m, m.Init())
	return m, target
}

// run executes cmd synchronously and feeds its message back into the model
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		next, nextCmd := m.Update(msg)
		m = next.(Model)
		cmd = nextCmd
	}
	return m
}

// press sends a key and runs any resulting command
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return run(t, next.(Model), cmd)
}

// typeText types s into the focused form input
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

var testProfiles = map[string]models.Profile{
	"alpha": {BaseURL: "https://a.example.com", APIKey: "sk-alpha-0000000001", Created: "2024-01-01T00:00:00.000Z"},
	"beta":  {BaseURL: "https://b.example.com", APIKey: "sk-beta-0000000002", Description: "second"},
}

func TestInitLoadsSortedProfiles(t *testing.T) {
	m, _ := newTestModel(t, testProfiles, "beta")

	if len(m.names) != 2 || m.names[0] != "alpha" || m.names[1] != "beta" {
		t.Fatalf("names = %v, want [alpha beta]", m.names)
	}
	if m.store.CurrentName() != "beta" {
		t.Errorf("current = %q, want beta", m.store.CurrentName())
	}

	view := m.View()
	if !strings.Contains(view, "* beta") {
		t.Errorf("main view should mark current profile:\n%s", view)
	}
}

func TestNavigation(t *testing.T) {
	m, _ := newTestModel(t, testProfiles, "")

	m = press(t, m, "j")
	if m.cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.cursor)
	}
	m = press(t, m, "j")
	if m.cursor != 1 {
		t.Errorf("cursor should stop at last item, got %d", m.cursor)
	}
	m = press(t, m, "g")
	if m.cursor != 0 {
		t.Errorf("cursor after g = %d, want 0", m.cursor)
	}
	m = press(t, m, "G")
	if m.cursor != 1 {
		t.Errorf("cursor after G = %d, want 1", m.cursor)
	}
	m = press(t, m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor after k = %d, want 0", m.cursor)
	}
}

func TestSwitchFromMainView(t *testing.T) {
	m, target := newTestModel(t, testProfiles, "")

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte(`{"theme":"dark"}`), 0644); err != nil {
		t.Fatal(err)
	}

	m = press(t, m, "j")
	m = press(t, m, "s")

	if m.errorMsg != "" {
		t.Fatalf("switch error = %q", m.errorMsg)
	}
	if m.store.CurrentName() != "beta" {
		t.Errorf("current = %q, want beta", m.store.CurrentName())
	}
	if !strings.Contains(m.message, "Switched to: beta") {
		t.Errorf("message = %q", m.message)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"theme": "dark"`, `"baseURL": "https://b.example.com"`, `"apiKey": "sk-beta-0000000002"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("target missing %s:\n%s", want, data)
		}
	}
}

func TestSwitchFailureKeepsCurrent(t *testing.T) {
	m, target := newTestModel(t, testProfiles, "alpha")

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte(`not json`), 0644); err != nil {
		t.Fatal(err)
	}

	m = press(t, m, "j")
	m = press(t, m, "s")

	if m.errorMsg == "" {
		t.Fatal("expected an error for an invalid target config")
	}
	if m.store.CurrentName() != "alpha" {
		t.Errorf("current = %q, want alpha unchanged", m.store.CurrentName())
	}
}

func TestSwitchSaveFailureRestoresTarget(t *testing.T) {
	m, target := newTestModel(t, testProfiles, "alpha")

	original := `{"baseURL":"https://a.example.com","apiKey":"sk-alpha-0000000001","theme":"dark"}`
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte(original), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(m.manager.LockPath(), 0755); err != nil {
		t.Fatal(err)
	}

	m = press(t, m, "j")
	m = press(t, m, "s")

	if m.errorMsg == "" {
		t.Fatal("expected an error when the store cannot be saved")
	}
	if m.store.CurrentName() != "alpha" {
		t.Errorf("current = %q, want alpha unchanged", m.store.CurrentName())
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Errorf("target = %s, want original restored", data)
	}
}

func TestAddProfileThroughForm(t *testing.T) {
	m, _ := newTestModel(t, nil, "")

	m = press(t, m, "a")
	if m.viewState != ViewAdd {
		t.Fatalf("viewState = %v, want ViewAdd", m.viewState)
	}

	m = typeText(t, m, "work")
	m = press(t, m, "tab")
	m = typeText(t, m, "https://api.anthropic.com")
	m = press(t, m, "tab")
	m = typeText(t, m, "sk-ant-work")
	m = press(t, m, "enter")

	if m.errorMsg != "" {
		t.Fatalf("add error = %q", m.errorMsg)
	}
	if m.viewState != ViewMain {
		t.Errorf("viewState = %v, want ViewMain after add", m.viewState)
	}
	p, ok := m.store.Profiles["work"]
	if !ok {
		t.Fatalf("profile not added; names = %v", m.names)
	}
	if p.BaseURL != "https://api.anthropic.com" || p.APIKey != "sk-ant-work" {
		t.Errorf("profile = %+v", p)
	}
	if p.Created == "" {
		t.Error("created timestamp should be set")
	}
}

func TestAddFormRejectsMissingFields(t *testing.T) {
	m, _ := newTestModel(t, nil, "")

	m = press(t, m, "a")
	m = typeText(t, m, "work")
	m = press(t, m, "enter")

	if m.viewState != ViewAdd {
		t.Errorf("viewState = %v, form should stay open", m.viewState)
	}
	if !strings.Contains(m.errorMsg, "baseURL") {
		t.Errorf("errorMsg = %q, want baseURL error", m.errorMsg)
	}
	if len(m.names) != 0 {
		t.Errorf("store should be unchanged, got %v", m.names)
	}
}

func TestAddDuplicateShowsError(t *testing.T) {
	m, _ := newTestModel(t, testProfiles, "")

	m = press(t, m, "a")
	m = typeText(t, m, "alpha")
	m = press(t, m, "tab")
	m = typeText(t, m, "https://other")
	m = press(t, m, "tab")
	m = typeText(t, m, "other")
	m = press(t, m, "enter")

	if !strings.Contains(m.errorMsg, "already exists") {
		t.Errorf("errorMsg = %q, want duplicate error", m.errorMsg)
	}
	if m.store.Profiles["alpha"].APIKey != "sk-alpha-0000000001" {
		t.Error("existing profile must not be overwritten")
	}
}

func TestEditProfileKeepsNameAndCreated(t *testing.T) {
	m, _ := newTestModel(t, testProfiles, "")

	m = press(t, m, "e")
	if m.viewState != ViewEdit {
		t.Fatalf("viewState = %v, want ViewEdit", m.viewState)
	}
	if m.formFocus != FormFieldBaseURL {
		t.Errorf("formFocus = %d, want base URL field", m.formFocus)
	}

	data := GetFormData(m.formInputs)
	if data.Name != "alpha" || data.APIKey != "sk-alpha-0000000001" {
		t.Errorf("form not pre-filled: %+v", data)
	}

	m = press(t, m, "tab")
	m.formInputs[FormFieldAPIKey].SetValue("sk-alpha-new")
	m = press(t, m, "enter")

	if m.errorMsg != "" {
		t.Fatalf("edit error = %q", m.errorMsg)
	}
	p := m.store.Profiles["alpha"]
	if p.APIKey != "sk-alpha-new" {
		t.Errorf("APIKey = %q, want sk-alpha-new", p.APIKey)
	}
	if p.Created != "2024-01-01T00:00:00.000Z" {
		t.Errorf("Created = %q, want it preserved", p.Created)
	}
}

func TestEditFormNeverFocusesName(t *testing.T) {
	m, _ := newTestModel(t, testProfiles, "")
	m = press(t, m, "e")

	for _, k := range []string{"tab", "tab", "tab", "tab", "shift+tab", "shift+tab", "shift+tab", "shift+tab"} {
		m = press(t, m, k)
		if m.formFocus == FormFieldName || m.formInputs[FormFieldName].Focused() {
			t.Fatalf("name field focused after %q", k)
		}
	}

	m = typeText(t, m, "zz")
	if got := GetFormData(m.formInputs).Name; got != "alpha" {
		t.Errorf("Name = %q, want alpha", got)
	}
}

func TestFormEscCancels(t *testing.T) {
	m, _ := newTestModel(t, testProfiles, "")

	m = press(t, m, "a")
	m = typeText(t, m, "gamma")
	m = press(t, m, "esc")

	if m.viewState != ViewMain {
		t.Errorf("viewState = %v, want ViewMain", m.viewState)
	}
	if len(m.formInputs) != 0 {
		t.Error("form inputs should be cleared on cancel")
	}
	if _, ok := m.store.Profiles["gamma"]; ok {
		t.Error("cancelled form must not add a profile")
	}
}

func TestDeleteCurrentProfile(t *testing.T) {
	m, _ := newTestModel(t, testProfiles, "beta")

	m = press(t, m, "G")
	m = press(t, m, "d")
	if m.viewState != ViewDelete {
		t.Fatalf("viewState = %v, want ViewDelete", m.viewState)
	}
	if !strings.Contains(m.View(), "current profile") {
		t.Error("delete dialog should warn about deleting the current profile")
	}

	m = press(t, m, "y")

	if _, ok := m.store.Profiles["beta"]; ok {
		t.Error("beta should be deleted")
	}
	if m.store.Current != nil {
		t.Errorf("current = %q, want nil", *m.store.Current)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}
}

func TestDeleteCancel(t *testing.T) {
	m, _ := newTestModel(t, testProfiles, "")

	m = press(t, m, "d")
	m = press(t, m, "n")

	if m.viewState != ViewMain {
		t.Errorf("viewState = %v, want ViewMain", m.viewState)
	}
	if len(m.names) != 2 {
		t.Errorf("names = %v, nothing should be deleted", m.names)
	}
}

func TestDetailViewMasksKey(t *testing.T) {
	m, _ := newTestModel(t, testProfiles, "")

	m = press(t, m, "enter")
	if m.viewState != ViewDetail {
		t.Fatalf("viewState = %v, want ViewDetail", m.viewState)
	}

	view := m.View()
	if strings.Contains(view, "sk-alpha-0000000001") {
		t.Error("detail view should mask the API key by default")
	}
	if !strings.Contains(view, "sk-a****0001") {
		t.Errorf("detail view should show the masked key:\n%s", view)
	}

	m = press(t, m, "v")
	if !strings.Contains(m.View(), "sk-alpha-0000000001") {
		t.Error("v should reveal the API key")
	}

	m = press(t, m, "esc")
	if m.viewState != ViewMain || m.revealKey {
		t.Error("esc should return to the main view and hide the key")
	}
}

func TestRestoreLatestBackup(t *testing.T) {
	m, target := newTestModel(t, testProfiles, "")

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	original := []byte(`{"theme":"light"}`)
	if err := os.WriteFile(target, original, 0644); err != nil {
		t.Fatal(err)
	}

	m = press(t, m, "s")
	if m.errorMsg != "" {
		t.Fatalf("switch error = %q", m.errorMsg)
	}

	m = press(t, m, "u")
	if m.errorMsg != "" {
		t.Fatalf("restore error = %q", m.errorMsg)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(original) {
		t.Errorf("target = %s, want %s", data, original)
	}
}

func TestRestoreWithoutBackupShowsError(t *testing.T) {
	m, _ := newTestModel(t, testProfiles, "")

	m = press(t, m, "u")
	if m.errorMsg == "" {
		t.Error("expected an error when no backup exists")
	}
}

func TestHelpView(t *testing.T) {
	m, _ := newTestModel(t, nil, "")

	m = press(t, m, "?")
	if m.viewState != ViewHelp {
		t.Fatalf("viewState = %v, want ViewHelp", m.viewState)
	}
	view := m.View()
	for _, want := range []string{"Keyboard shortcuts", "switch", "delete"} {
		if !strings.Contains(view, want) {
			t.Errorf("help view missing %q", want)
		}
	}

	m = press(t, m, "esc")
	if m.viewState != ViewMain {
		t.Errorf("viewState = %v, want ViewMain", m.viewState)
	}
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	profiles := map[string]models.Profile{}
	for _, name := range []string{"p01", "p02", "p03", "p04", "p05", "p06", "p07", "p08", "p09", "p10"} {
		profiles[name] = models.Profile{BaseURL: "https://x", APIKey: "k"}
	}
	m, _ := newTestModel(t, profiles, "")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m = next.(Model)

	m = press(t, m, "G")
	visible := m.getVisibleListHeight()
	if m.cursor < m.scrollOffset || m.cursor >= m.scrollOffset+visible {
		t.Errorf("cursor %d not within [%d, %d)", m.cursor, m.scrollOffset, m.scrollOffset+visible)
	}

	m = press(t, m, "g")
	if m.scrollOffset != 0 {
		t.Errorf("scrollOffset = %d, want 0 after g", m.scrollOffset)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, nil, "")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
