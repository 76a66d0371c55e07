package ui

import (
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// ProfileAnswers holds the fields collected by PromptProfile
type ProfileAnswers struct {
	Name        string
	BaseURL     string
	APIKey      string
	Description string
}

// IsTerminal reports whether stdin is an interactive terminal
func IsTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// notBlank is survey.Required but also rejects whitespace-only answers
func notBlank(val interface{}) error {
	if s, ok := val.(string); ok {
		return survey.Required(strings.TrimSpace(s))
	}
	return survey.Required(val)
}

// PromptProfile asks for every field of a that is still empty. Name is only
// asked for when askName is set; edit keeps the name fixed.
func PromptProfile(a *ProfileAnswers, askName bool) error {
	if askName && strings.TrimSpace(a.Name) == "" {
		prompt := &survey.Input{
			Message: "Profile name:",
			Help:    "Unique name used to switch profiles (e.g. work, proxy)",
		}
		if err := survey.AskOne(prompt, &a.Name, survey.WithValidator(notBlank)); err != nil {
			return err
		}
	}

	if strings.TrimSpace(a.BaseURL) == "" {
		prompt := &survey.Input{
			Message: "Base URL:",
			Help:    "API endpoint written to baseURL, e.g. https://api.anthropic.com",
		}
		if err := survey.AskOne(prompt, &a.BaseURL, survey.WithValidator(notBlank)); err != nil {
			return err
		}
	}

	if strings.TrimSpace(a.APIKey) == "" {
		prompt := &survey.Password{
			Message: "API key:",
			Help:    "Credential written to apiKey",
		}
		if err := survey.AskOne(prompt, &a.APIKey, survey.WithValidator(notBlank)); err != nil {
			return err
		}
	}

	if a.Description == "" {
		prompt := &survey.Input{
			Message: "Description (optional):",
		}
		if err := survey.AskOne(prompt, &a.Description); err != nil {
			return err
		}
	}

	return nil
}

// PromptEdit asks for new values with the current ones as defaults. A blank
// API key answer keeps the existing key.
func PromptEdit(a *ProfileAnswers) error {
	questions := []*survey.Question{
		{
			Name:     "BaseURL",
			Prompt:   &survey.Input{Message: "Base URL:", Default: a.BaseURL},
			Validate: notBlank,
		},
		{
			Name:   "APIKey",
			Prompt: &survey.Password{Message: "API key (leave blank to keep):"},
		},
		{
			Name:   "Description",
			Prompt: &survey.Input{Message: "Description:", Default: a.Description},
		},
	}

	current := a.APIKey
	if err := survey.Ask(questions, a); err != nil {
		return err
	}
	if strings.TrimSpace(a.APIKey) == "" {
		a.APIKey = current
	}
	return nil
}

// PromptConfirmation prompts for yes/no confirmation
func PromptConfirmation(message string) (bool, error) {
	var confirmed bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}
