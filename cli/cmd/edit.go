package cmd

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// editLine opens an interactive single-line editor prefilled with initial
// and returns the submitted text. Esc or Ctrl+C declines the edit.
func editLine(ctx context.Context, prompt, initial string) (string, error) {
	m := newEditModel(prompt, initial)

	p := tea.NewProgram(m, tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return "", err
	}

	result, ok := final.(editModel)
	if !ok || result.declined {
		return "", ErrEditDeclined
	}

	return result.input.Value(), nil
}

const editWidth = 80

//nolint:gochecknoglobals
var editPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

type editModel struct {
	input    textinput.Model
	declined bool
	done     bool
}

func newEditModel(prompt, initial string) editModel {
	ti := textinput.New()
	ti.Prompt = editPromptStyle.Render(prompt)
	ti.SetValue(initial)
	ti.CharLimit = 4096
	ti.Width = editWidth
	ti.Focus()

	return editModel{input: ti}
}

func (m editModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.done = true

			return m, tea.Quit

		case tea.KeyEsc, tea.KeyCtrlC:
			m.declined = true

			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - len(m.input.Prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m editModel) View() string {
	if m.done || m.declined {
		return ""
	}

	return m.input.View() + "\n"
}
