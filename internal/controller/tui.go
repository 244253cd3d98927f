package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

type (
	sectionStartedMsg struct {
		title string
		depth int
	}
	sectionCompletedMsg struct {
		title string
		depth int
	}
	issueMsg     m.Issue
	artifactsMsg []m.Artifact
	coverageMsg  struct {
		vcrm      m.VCRM
		uncovered []string
	}
	closeMsg struct{}
)

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options)

	t.program = tea.NewProgram(newProgressModel(cfg),
		tea.WithOutput(t.output),
		tea.WithInput(nil),
		tea.WithContext(ctx),
	)
	t.done = make(chan struct{})

	go func(program *tea.Program, done chan struct{}) {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Debug("Progress display stopped", "error", err)
		}
	}(t.program, t.done)

	return nil
}

// Close stops the program and waits for the final frame to be drawn.
func (t *TUI) Close(_ context.Context) {
	if t.program == nil {
		return
	}

	t.program.Send(closeMsg{})
	<-t.done

	t.program = nil
}

// DisplaySectionStarted shows a spinner for the section.
func (t *TUI) DisplaySectionStarted(_ context.Context, title string, depth int) {
	t.send(sectionStartedMsg{title: title, depth: depth})
}

// DisplaySectionCompleted marks the section as done.
func (t *TUI) DisplaySectionCompleted(_ context.Context, title string, depth int) {
	t.send(sectionCompletedMsg{title: title, depth: depth})
}

// DisplayIssue adds a warning line.
func (t *TUI) DisplayIssue(_ context.Context, issue m.Issue) {
	t.send(issueMsg(issue))
}

// DisplayArtifacts lists the written files.
func (t *TUI) DisplayArtifacts(_ context.Context, artifacts []m.Artifact) {
	t.send(artifactsMsg(artifacts))
}

// DisplayCoverage shows the coverage table.
func (t *TUI) DisplayCoverage(_ context.Context, vcrm m.VCRM, uncovered []string) {
	t.send(coverageMsg{vcrm: vcrm, uncovered: uncovered})
}

func (t *TUI) send(msg tea.Msg) {
	if t.program == nil {
		return
	}

	t.program.Send(msg)
}

type activeSection struct {
	title string
	depth int
}

// progressModel is the Bubble Tea model rendering generation progress.
type progressModel struct {
	header  string
	spinner spinner.Model
	active  []activeSection
	lines   []string
	footer  []string
	closed  bool
}

func newProgressModel(cfg StartConfig) progressModel {
	return progressModel{
		header:  fmt.Sprintf("Generating %s for %q", cfg.mode, cfg.title),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (pm progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sectionStartedMsg:
		pm.active = append(pm.active, activeSection(msg))
	case sectionCompletedMsg:
		pm.active = removeActive(pm.active, msg.title)
		pm.lines = append(pm.lines, indent(msg.depth)+doneStyle.Render("✓ ")+msg.title)
	case issueMsg:
		pm.lines = append(pm.lines, warningStyle.Render("! "+FormatIssue(m.Issue(msg))))
	case artifactsMsg:
		for _, artifact := range msg {
			pm.footer = append(pm.footer, FormatArtifact(artifact))
		}
	case coverageMsg:
		pm.footer = append(pm.footer, strings.TrimRight(renderCoverageTable(msg.vcrm), "\n"))
		if len(msg.uncovered) > 0 {
			pm.footer = append(pm.footer, warningStyle.Render("Uncovered requirements: "+strings.Join(msg.uncovered, ", ")))
		}
	case closeMsg:
		pm.closed = true
		return pm, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			pm.closed = true
			return pm, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd
	}

	return pm, nil
}

func (pm progressModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(pm.header))
	b.WriteString("\n\n")

	for _, line := range pm.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if !pm.closed && len(pm.active) > 0 {
		current := pm.active[len(pm.active)-1]
		fmt.Fprintf(&b, "%s%s %s\n", indent(current.depth), pm.spinner.View(), current.title)
		b.WriteString(faintStyle.Render(fmt.Sprintf("%d section(s) in progress", len(pm.active))))
		b.WriteString("\n")
	}

	if len(pm.footer) > 0 {
		b.WriteString("\n")

		for _, line := range pm.footer {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func removeActive(active []activeSection, title string) []activeSection {
	for i := len(active) - 1; i >= 0; i-- {
		if active[i].title == title {
			return append(active[:i:i], active[i+1:]...)
		}
	}

	return active
}
