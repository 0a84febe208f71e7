// Package tui implements the interactive export progress dialog.
//
// The dialog runs one export in the background and mirrors the
// orchestrator's status while it progresses, closing on its own once
// the export finishes and the service returns to idle.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fernlea-labs/attest-cli/internal/adapters/driving/tui/styles"
	"github.com/fernlea-labs/attest-cli/internal/core/domain"
	"github.com/fernlea-labs/attest-cli/internal/core/ports/driving"
)

// pollInterval is how often the dialog samples the orchestrator status.
const pollInterval = 100 * time.Millisecond

// resultMsg carries the finished export outcome.
type resultMsg struct {
	record *domain.ExportRecord
	err    error
}

// pollMsg triggers a status refresh.
type pollMsg time.Time

// Model is the bubbletea model for the export progress dialog.
type Model struct {
	spinner  spinner.Model
	styles   *styles.Styles
	exporter driving.Exporter
	start    tea.Cmd

	status driving.ExportStatus
	record *domain.ExportRecord
	err    error
	done   bool
}

// NewModel creates a dialog model. The start command launches the
// export and must resolve to a resultMsg.
func NewModel(exporter driving.Exporter, start tea.Cmd) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	sty := styles.DefaultStyles()
	s.Style = sty.Spinner

	return Model{
		spinner:  s,
		styles:   sty,
		exporter: exporter,
		start:    start,
		status:   driving.ExportStatus{State: domain.StateIdle},
	}
}

// Init starts the export, the spinner and the status poller.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.start, m.spinner.Tick, pollStatus())
}

// Update handles dialog messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.record = msg.record
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case pollMsg:
		if m.done {
			return m, nil
		}
		m.status = m.exporter.Status()
		return m, pollStatus()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the dialog.
func (m Model) View() string {
	if m.done {
		if m.err != nil {
			return m.styles.Dialog.Render(
				m.styles.Error.Render("Export failed: " + m.err.Error()))
		}
		return m.styles.Dialog.Render(
			m.styles.Success.Render("Export complete"))
	}

	detail := m.status.Detail
	if detail == "" {
		detail = "Preparing export..."
	}

	body := m.styles.Title.Render("Exporting") + "\n\n" +
		m.spinner.View() + " " + m.styles.Normal.Render(detail) + "\n" +
		m.styles.Muted.Render("esc to dismiss")
	return m.styles.Dialog.Render(body)
}

// Record returns the finished export record, if any.
func (m Model) Record() *domain.ExportRecord {
	return m.record
}

// Err returns the export failure, if any.
func (m Model) Err() error {
	return m.err
}

func pollStatus() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

// RunExport displays the progress dialog while start runs. It returns
// the export outcome once the dialog closes.
func RunExport(
	ctx context.Context,
	exporter driving.Exporter,
	start func(ctx context.Context) (*domain.ExportRecord, error),
) (*domain.ExportRecord, error) {
	model := NewModel(exporter, func() tea.Msg {
		record, err := start(ctx)
		return resultMsg{record: record, err: err}
	})

	p := tea.NewProgram(model, tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(Model)
	if !ok {
		return nil, nil
	}
	return m.Record(), m.Err()
}
