package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jaspreet-dot-casa/deskctl/pkg/apps"
)

// Message types for install progress.
type (
	// eventMsg carries one progress event from the installer.
	eventMsg apps.ProgressEvent

	// doneMsg indicates the event channel was closed.
	doneMsg struct{}
)

// InstallModel renders installer progress with a spinner and progress bar.
type InstallModel struct {
	events <-chan apps.ProgressEvent

	spinner spinner.Model
	bar     progress.Model

	current  apps.ProgressEvent
	active   bool
	finished []string
	done     bool
}

// NewInstallModel creates a model consuming installer progress events.
func NewInstallModel(events <-chan apps.ProgressEvent) *InstallModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return &InstallModel{
		events:  events,
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient()),
	}
}

// Init starts the spinner and event pump.
func (m *InstallModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

func (m *InstallModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(event)
	}
}

// Update handles messages.
func (m *InstallModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd

	case eventMsg:
		return m.handleEvent(apps.ProgressEvent(msg))

	case doneMsg:
		m.done = true
		m.active = false
		return m, tea.Quit
	}

	return m, nil
}

func (m *InstallModel) handleEvent(event apps.ProgressEvent) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitForEvent()}

	switch event.Stage {
	case apps.StageComplete:
		m.active = false
		m.finished = append(m.finished, Success(event.Message))
	case apps.StageError:
		m.active = false
		line := Fail(event.Message)
		if event.Detail != "" {
			line += "\n  " + DimStyle.Render(event.Detail)
		}
		m.finished = append(m.finished, line)
	default:
		m.current = event
		m.active = true
		if event.Percent >= 0 {
			cmds = append(cmds, m.bar.SetPercent(float64(event.Percent)/100))
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders finished lines plus the in-flight step.
func (m *InstallModel) View() string {
	var b strings.Builder
	for _, line := range m.finished {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.active {
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			m.spinner.View(), DimStyle.Render(m.current.Stage.DisplayName()), m.current.Message))
		if m.current.Stage == apps.StageDownloading && m.current.Percent >= 0 {
			b.WriteString(m.bar.View())
			b.WriteString("\n")
		}
	}

	return b.String()
}

// Done reports whether the model has consumed every event.
func (m *InstallModel) Done() bool {
	return m.done
}

// RunInstallUI drives the bubbletea program until the event channel closes.
func RunInstallUI(events <-chan apps.ProgressEvent) error {
	_, err := tea.NewProgram(NewInstallModel(events)).Run()
	return err
}

// PrintEvents writes plain progress lines, for --plain output and pipes.
// Download events are collapsed to one line per artifact.
func PrintEvents(w io.Writer, events <-chan apps.ProgressEvent) {
	lastDownload := ""
	for event := range events {
		switch event.Stage {
		case apps.StageComplete:
			fmt.Fprintln(w, Success(event.Message))
		case apps.StageError:
			fmt.Fprintln(w, Fail(event.Message))
			if event.Detail != "" {
				fmt.Fprintln(w, "  "+event.Detail)
			}
		case apps.StageDownloading:
			if event.Message != lastDownload {
				lastDownload = event.Message
				fmt.Fprintln(w, Step(event.Message))
			}
		default:
			fmt.Fprintln(w, Step(event.Message))
		}
	}
}
