package tui

import (
	"cccm/config/models"
	"cccm/config/switcher"
)

// ProfilesLoadedMsg is sent when the store has been (re)loaded
type ProfilesLoadedMsg struct {
	Store *models.Store
}

// ProfileSwitchedMsg is sent when a switch completes or fails
type ProfileSwitchedMsg struct {
	Name   string
	Result *switcher.Result
	Err    error
}

// ProfileAddedMsg is sent when a profile is added
type ProfileAddedMsg struct {
	Name    string
	Warning string // advisory URL warning
	Err     error
}

// ProfileUpdatedMsg is sent when a profile is updated
type ProfileUpdatedMsg struct {
	Name    string
	Warning string
	Err     error
}

// ProfileDeletedMsg is sent when a profile is deleted
type ProfileDeletedMsg struct {
	Name string
	Err  error
}

// BackupRestoredMsg is sent when the target config is restored from a backup
type BackupRestoredMsg struct {
	BackupPath string
	Err        error
}
