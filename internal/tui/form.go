package tui

import (
	"strings"

	"cccm/config/validation"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// FormField represents the index of each form field
const (
	FormFieldName = iota
	FormFieldBaseURL
	FormFieldAPIKey
	FormFieldDescription
	FormFieldCount // Total number of fields
)

// FormData represents the data collected from the form
type FormData struct {
	Name        string
	BaseURL     string
	APIKey      string
	Description string
}

// Validate checks the required fields the same way the store does
func (f *FormData) Validate() error {
	return validation.NewValidator().ValidateProfile(
		validation.Trimmed(f.Name),
		validation.Trimmed(f.BaseURL),
		validation.Trimmed(f.APIKey),
	)
}

// Form styles
var (
	formLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	formFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	formDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	formErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	formHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// FormInputs creates and initializes form input fields
func FormInputs() []textinput.Model {
	inputs := make([]textinput.Model, FormFieldCount)

	inputs[FormFieldName] = textinput.New()
	inputs[FormFieldName].Placeholder = "work"
	inputs[FormFieldName].CharLimit = 64
	inputs[FormFieldName].Width = 40
	inputs[FormFieldName].Prompt = ""

	inputs[FormFieldBaseURL] = textinput.New()
	inputs[FormFieldBaseURL].Placeholder = "https://api.anthropic.com"
	inputs[FormFieldBaseURL].CharLimit = 256
	inputs[FormFieldBaseURL].Width = 40
	inputs[FormFieldBaseURL].Prompt = ""

	inputs[FormFieldAPIKey] = textinput.New()
	inputs[FormFieldAPIKey].Placeholder = "sk-ant-..."
	inputs[FormFieldAPIKey].CharLimit = 512
	inputs[FormFieldAPIKey].Width = 40
	inputs[FormFieldAPIKey].EchoMode = textinput.EchoPassword
	inputs[FormFieldAPIKey].EchoCharacter = '•'
	inputs[FormFieldAPIKey].Prompt = ""

	inputs[FormFieldDescription] = textinput.New()
	inputs[FormFieldDescription].Placeholder = "optional"
	inputs[FormFieldDescription].CharLimit = 256
	inputs[FormFieldDescription].Width = 40
	inputs[FormFieldDescription].Prompt = ""

	inputs[FormFieldName].Focus()

	return inputs
}

// GetFormData extracts FormData from form inputs
func GetFormData(inputs []textinput.Model) FormData {
	return FormData{
		Name:        inputs[FormFieldName].Value(),
		BaseURL:     inputs[FormFieldBaseURL].Value(),
		APIKey:      inputs[FormFieldAPIKey].Value(),
		Description: inputs[FormFieldDescription].Value(),
	}
}

// SetFormData populates form inputs with existing data
func SetFormData(inputs []textinput.Model, data FormData) {
	inputs[FormFieldName].SetValue(data.Name)
	inputs[FormFieldBaseURL].SetValue(data.BaseURL)
	inputs[FormFieldAPIKey].SetValue(data.APIKey)
	inputs[FormFieldDescription].SetValue(data.Description)
}

// FormLabels returns the labels for each form field
func FormLabels() []string {
	return []string{
		"Name:",
		"Base URL:",
		"API Key:",
		"Description:",
	}
}

// FormHints returns the hint text for each form field
func FormHints() []string {
	return []string{
		"Unique profile name",
		"Written to baseURL in the Claude config",
		"Written to apiKey in the Claude config",
		"Free text (optional)",
	}
}

// RenderForm renders the form view with inputs. When nameLocked is set the
// name field is shown read-only.
func RenderForm(inputs []textinput.Model, focusIndex int, title string, errorMsg string, nameLocked bool) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 50)))
	b.WriteString("\n\n")

	labels := FormLabels()
	hints := FormHints()

	for i, input := range inputs {
		label := labels[i]
		if i == focusIndex {
			b.WriteString(formFocusedStyle.Render(label))
		} else {
			b.WriteString(formLabelStyle.Render(label))
		}
		b.WriteString(" ")

		if i == FormFieldName && nameLocked {
			b.WriteString(formDisabledStyle.Render(input.Value() + " (cannot be changed)"))
		} else {
			b.WriteString(input.View())
		}
		b.WriteString("\n")

		// Hint (only show for focused field)
		if i == focusIndex {
			b.WriteString(formLabelStyle.Render(""))
			b.WriteString(" ")
			b.WriteString(formHintStyle.Render(hints[i]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(formErrorStyle.Render("✗ " + errorMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 50)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Tab/↓: next │ Shift+Tab/↑: previous │ Enter: save │ Esc: cancel"))

	return b.String()
}

// NextFormField moves focus to the next form field, never landing before first
func NextFormField(inputs []textinput.Model, currentFocus, first int) int {
	inputs[currentFocus].Blur()
	nextFocus := currentFocus + 1
	if nextFocus >= len(inputs) {
		nextFocus = first
	}
	inputs[nextFocus].Focus()
	return nextFocus
}

// PrevFormField moves focus to the previous form field, never landing before first
func PrevFormField(inputs []textinput.Model, currentFocus, first int) int {
	inputs[currentFocus].Blur()
	prevFocus := currentFocus - 1
	if prevFocus < first {
		prevFocus = len(inputs) - 1
	}
	inputs[prevFocus].Focus()
	return prevFocus
}
