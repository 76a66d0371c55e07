// Package tui provides a terminal user interface for cccm
package tui

import (
	"fmt"
	"path/filepath"

	"cccm/config"
	"cccm/config/models"
	"cccm/config/switcher"
	"cccm/config/validation"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view state
type ViewState int

const (
	ViewMain   ViewState = iota // Main list view
	ViewDetail                  // Detail view
	ViewAdd                     // Add profile form
	ViewEdit                    // Edit profile form
	ViewDelete                  // Delete confirmation dialog
	ViewHelp                    // Help panel
)

// Model is the core state model for TUI
type Model struct {
	store     *models.Store
	names     []string // sorted profile names
	cursor    int
	selected  int // index of the profile shown in the detail view
	viewState ViewState
	keys      KeyMap

	manager  *config.Manager
	switcher *switcher.Switcher

	// Form related
	formInputs []textinput.Model
	formFocus  int

	revealKey bool // show the API key unmasked in the detail view

	message  string
	errorMsg string

	width  int
	height int

	scrollOffset     int
	helpScrollOffset int
}

// NewModel creates a new TUI model
func NewModel(m *config.Manager, s *switcher.Switcher) Model {
	return Model{
		store:      models.NewStore(),
		names:      []string{},
		selected:   -1,
		viewState:  ViewMain,
		keys:       DefaultKeyMap(),
		manager:    m,
		switcher:   s,
		formInputs: []textinput.Model{},
		width:      80,
		height:     24,
	}
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return loadProfiles(m.manager)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.adjustScrollOffset()
		return m, nil

	case ProfilesLoadedMsg:
		m.store = msg.Store
		m.names = config.Names(msg.Store)
		// Keep cursor in bounds after a delete
		if len(m.names) > 0 && m.cursor >= len(m.names) {
			m.cursor = len(m.names) - 1
		}
		if m.selected >= len(m.names) {
			m.selected = -1
		}
		m.adjustScrollOffset()
		return m, nil

	case ProfileSwitchedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.message = "Switched to: " + msg.Name
		if msg.Result != nil && msg.Result.BackupPath != "" {
			m.message += " (backup " + filepath.Base(msg.Result.BackupPath) + ")"
		}
		return m, loadProfiles(m.manager)

	case ProfileAddedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.message = "Profile added: " + msg.Name
		if msg.Warning != "" {
			m.message += " (" + msg.Warning + ")"
		}
		m.closeForm()
		return m, loadProfiles(m.manager)

	case ProfileUpdatedMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.message = "Profile updated: " + msg.Name
		if msg.Warning != "" {
			m.message += " (" + msg.Warning + ")"
		}
		m.closeForm()
		return m, loadProfiles(m.manager)

	case ProfileDeletedMsg:
		m.viewState = ViewMain
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.message = "Profile deleted: " + msg.Name
		return m, loadProfiles(m.manager)

	case BackupRestoredMsg:
		if msg.Err != nil {
			m.errorMsg = msg.Err.Error()
			return m, nil
		}
		m.message = "Claude config restored from " + filepath.Base(msg.BackupPath)
		return m, nil
	}

	return m, nil
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.viewState {
	case ViewMain:
		return m.handleMainViewKeys(msg)
	case ViewDetail:
		return m.handleDetailViewKeys(msg)
	case ViewAdd, ViewEdit:
		return m.handleFormViewKeys(msg)
	case ViewDelete:
		return m.handleDeleteViewKeys(msg)
	case ViewHelp:
		return m.handleHelpViewKeys(msg)
	default:
		return m, nil
	}
}

// clearStatus drops any status or error line
func (m *Model) clearStatus() {
	m.message = ""
	m.errorMsg = ""
}

// cursorName returns the profile name under the cursor
func (m Model) cursorName() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.names) {
		return "", false
	}
	return m.names[m.cursor], true
}

// handleMainViewKeys handles keyboard input in main view
func (m Model) handleMainViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.moveDown()
		m.clearStatus()

	case key.Matches(msg, m.keys.Up):
		m.moveUp()
		m.clearStatus()

	case key.Matches(msg, m.keys.Top):
		m.moveToTop()
		m.clearStatus()

	case key.Matches(msg, m.keys.Bottom):
		m.moveToBottom()
		m.clearStatus()

	case key.Matches(msg, m.keys.Select):
		if _, ok := m.cursorName(); ok {
			m.selected = m.cursor
			m.revealKey = false
			m.viewState = ViewDetail
		}

	case key.Matches(msg, m.keys.Switch):
		if name, ok := m.cursorName(); ok {
			m.clearStatus()
			return m, switchProfile(m.manager, m.switcher, name)
		}

	case key.Matches(msg, m.keys.Add):
		m.initAddForm()

	case key.Matches(msg, m.keys.Edit):
		if _, ok := m.cursorName(); ok {
			m.initEditForm()
		}

	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.cursorName(); ok {
			m.viewState = ViewDelete
			m.clearStatus()
		}

	case key.Matches(msg, m.keys.Restore):
		m.clearStatus()
		return m, restoreLatestBackup(m.switcher)

	case key.Matches(msg, m.keys.Help):
		m.viewState = ViewHelp
		m.helpScrollOffset = 0
	}

	return m, nil
}

// handleDetailViewKeys handles keyboard input in detail view
func (m Model) handleDetailViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.selected < 0 || m.selected >= len(m.names) {
		m.viewState = ViewMain
		return m, nil
	}
	name := m.names[m.selected]

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.viewState = ViewMain
		m.revealKey = false

	case key.Matches(msg, m.keys.Reveal):
		m.revealKey = !m.revealKey

	case key.Matches(msg, m.keys.Switch):
		m.clearStatus()
		return m, switchProfile(m.manager, m.switcher, name)

	case key.Matches(msg, m.keys.Edit):
		m.cursor = m.selected
		m.initEditForm()

	case key.Matches(msg, m.keys.Delete):
		m.cursor = m.selected
		m.viewState = ViewDelete
		m.clearStatus()

	case key.Matches(msg, m.keys.Help):
		m.viewState = ViewHelp
		m.helpScrollOffset = 0
	}

	return m, nil
}

// moveUp moves cursor up
func (m *Model) moveUp() {
	if m.cursor > 0 {
		m.cursor--
		m.adjustScrollOffset()
	}
}

// moveDown moves cursor down
func (m *Model) moveDown() {
	if len(m.names) > 0 && m.cursor < len(m.names)-1 {
		m.cursor++
		m.adjustScrollOffset()
	}
}

// moveToTop moves cursor to top
func (m *Model) moveToTop() {
	m.cursor = 0
	m.scrollOffset = 0
}

// moveToBottom moves cursor to bottom
func (m *Model) moveToBottom() {
	if len(m.names) > 0 {
		m.cursor = len(m.names) - 1
		m.adjustScrollOffset()
	}
}

// getVisibleListHeight returns the number of lines available for the profile list
func (m *Model) getVisibleListHeight() int {
	// Title, separator and blank line above; blank line, separator and
	// status bar below
	headerLines := 3
	footerLines := 4

	available := m.height - headerLines - footerLines
	if available < 1 {
		available = 1
	}
	return available
}

// adjustScrollOffset adjusts the scroll offset to keep cursor visible
func (m *Model) adjustScrollOffset() {
	visibleHeight := m.getVisibleListHeight()

	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visibleHeight {
		m.scrollOffset = m.cursor - visibleHeight + 1
	}

	maxOffset := len(m.names) - visibleHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.scrollOffset > maxOffset {
		m.scrollOffset = maxOffset
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// View renders the UI
func (m Model) View() string {
	switch m.viewState {
	case ViewHelp:
		return m.RenderHelpView()
	case ViewDetail:
		return m.RenderDetailView()
	case ViewAdd, ViewEdit:
		return m.RenderFormViewFull()
	case ViewDelete:
		return m.RenderDeleteConfirm()
	default:
		return m.RenderMainView()
	}
}

// loadProfiles creates a command to load the store
func loadProfiles(mgr *config.Manager) tea.Cmd {
	return func() tea.Msg {
		return ProfilesLoadedMsg{Store: mgr.Load()}
	}
}

// switchProfile writes the profile into the Claude config and marks it current
func switchProfile(mgr *config.Manager, s *switcher.Switcher, name string) tea.Cmd {
	return func() tea.Msg {
		profile, err := config.Get(mgr.Load(), name)
		if err != nil {
			return ProfileSwitchedMsg{Name: name, Err: err}
		}

		result, err := s.Switch(profile)
		if err != nil {
			return ProfileSwitchedMsg{Name: name, Err: err}
		}

		_, err = mgr.Update(func(store *models.Store) error {
			return config.SetCurrent(store, name)
		})
		if err != nil {
			if rbErr := s.Revert(result); rbErr != nil {
				err = fmt.Errorf("%w; restoring %s also failed: %v", err, result.Path, rbErr)
			}
			return ProfileSwitchedMsg{Name: name, Err: err}
		}
		return ProfileSwitchedMsg{Name: name, Result: result}
	}
}

// restoreLatestBackup restores the Claude config from its newest backup
func restoreLatestBackup(s *switcher.Switcher) tea.Cmd {
	return func() tea.Msg {
		backupPath, err := s.RestoreLatest()
		return BackupRestoredMsg{BackupPath: backupPath, Err: err}
	}
}

// formFirstField is the first focusable field; the name is fixed when editing
func (m Model) formFirstField() int {
	if m.viewState == ViewEdit {
		return FormFieldBaseURL
	}
	return FormFieldName
}

// handleFormViewKeys handles keyboard input in form view (add/edit)
func (m Model) handleFormViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.closeForm()
		m.errorMsg = ""
		return m, nil

	case "tab", "down":
		m.formFocus = NextFormField(m.formInputs, m.formFocus, m.formFirstField())
		return m, nil

	case "shift+tab", "up":
		m.formFocus = PrevFormField(m.formInputs, m.formFocus, m.formFirstField())
		return m, nil

	case "enter":
		formData := GetFormData(m.formInputs)
		if err := formData.Validate(); err != nil {
			m.errorMsg = err.Error()
			return m, nil
		}

		m.errorMsg = ""
		if m.viewState == ViewAdd {
			return m, addProfile(m.manager, formData)
		}
		return m, updateProfile(m.manager, formData)

	default:
		if m.formFocus >= 0 && m.formFocus < len(m.formInputs) {
			var cmd tea.Cmd
			m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

// closeForm leaves the add/edit form
func (m *Model) closeForm() {
	m.viewState = ViewMain
	m.formInputs = []textinput.Model{}
	m.formFocus = 0
}

// initAddForm initializes the form for adding a new profile
func (m *Model) initAddForm() {
	m.formInputs = FormInputs()
	m.formFocus = FormFieldName
	m.viewState = ViewAdd
	m.clearStatus()
}

// initEditForm initializes the form for editing the profile under the cursor
func (m *Model) initEditForm() {
	name, ok := m.cursorName()
	if !ok {
		return
	}
	profile := m.store.Profiles[name]

	m.formInputs = FormInputs()
	SetFormData(m.formInputs, FormData{
		Name:        name,
		BaseURL:     profile.BaseURL,
		APIKey:      profile.APIKey,
		Description: profile.Description,
	})
	m.formInputs[FormFieldName].Blur()
	m.formInputs[FormFieldBaseURL].Focus()
	m.formFocus = FormFieldBaseURL
	m.viewState = ViewEdit
	m.clearStatus()
}

// addProfile creates a command to add a new profile
func addProfile(mgr *config.Manager, data FormData) tea.Cmd {
	return func() tea.Msg {
		name := validation.Trimmed(data.Name)
		_, err := mgr.Update(func(store *models.Store) error {
			return config.Add(store, data.Name, data.BaseURL, data.APIKey, data.Description)
		})
		return ProfileAddedMsg{
			Name:    name,
			Warning: validation.NewValidator().URLWarning(validation.Trimmed(data.BaseURL)),
			Err:     err,
		}
	}
}

// updateProfile creates a command to update an existing profile
func updateProfile(mgr *config.Manager, data FormData) tea.Cmd {
	return func() tea.Msg {
		name := validation.Trimmed(data.Name)
		_, err := mgr.Update(func(store *models.Store) error {
			return config.Edit(store, data.Name, data.BaseURL, data.APIKey, data.Description)
		})
		return ProfileUpdatedMsg{
			Name:    name,
			Warning: validation.NewValidator().URLWarning(validation.Trimmed(data.BaseURL)),
			Err:     err,
		}
	}
}

// RenderFormViewFull renders the complete form view
func (m Model) RenderFormViewFull() string {
	title := "Add profile"
	if m.viewState == ViewEdit {
		title = "Edit profile"
	}
	return RenderForm(m.formInputs, m.formFocus, title, m.errorMsg, m.viewState == ViewEdit)
}

// handleDeleteViewKeys handles keyboard input in delete confirmation view
func (m Model) handleDeleteViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "y", "Y":
		if name, ok := m.cursorName(); ok {
			return m, deleteProfile(m.manager, name)
		}
		m.viewState = ViewMain
		return m, nil

	case "n", "N", "esc":
		m.viewState = ViewMain
		m.clearStatus()
		return m, nil
	}

	return m, nil
}

// deleteProfile creates a command to delete a profile
func deleteProfile(mgr *config.Manager, name string) tea.Cmd {
	return func() tea.Msg {
		_, err := mgr.Update(func(store *models.Store) error {
			return config.Delete(store, name)
		})
		return ProfileDeletedMsg{Name: name, Err: err}
	}
}

// handleHelpViewKeys handles keyboard input in help view
func (m Model) handleHelpViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc", "q", "?":
		m.viewState = ViewMain
		m.helpScrollOffset = 0

	case "j", "down":
		m.helpScrollOffset++
		m.adjustHelpScrollOffset()

	case "k", "up":
		if m.helpScrollOffset > 0 {
			m.helpScrollOffset--
		}

	case "g":
		m.helpScrollOffset = 0

	case "G":
		m.helpScrollOffset = m.getHelpContentHeight() - m.getVisibleHelpHeight()
		m.adjustHelpScrollOffset()
	}

	return m, nil
}

// getHelpContentHeight returns the total number of lines in help content
func (m *Model) getHelpContentHeight() int {
	return len(m.buildHelpLines())
}

// getVisibleHelpHeight returns the number of lines available for help content
func (m *Model) getVisibleHelpHeight() int {
	headerLines := 3
	footerLines := 2

	available := m.height - headerLines - footerLines
	if available < 1 {
		available = 1
	}
	return available
}

// adjustHelpScrollOffset adjusts the help scroll offset to stay within bounds
func (m *Model) adjustHelpScrollOffset() {
	maxOffset := m.getHelpContentHeight() - m.getVisibleHelpHeight()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.helpScrollOffset > maxOffset {
		m.helpScrollOffset = maxOffset
	}
	if m.helpScrollOffset < 0 {
		m.helpScrollOffset = 0
	}
}
