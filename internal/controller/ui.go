// Package controller provides user interfaces for reporting document
// generation progress.
package controller

import (
	"context"
	"io"
	"os"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeOutline StartMode = iota
	ModeDraft
	ModeVcrm
)

func (s StartMode) String() string {
	switch s {
	case ModeOutline:
		return "outline"
	case ModeDraft:
		return "draft"
	case ModeVcrm:
		return "VCRM"
	default:
		return "document"
	}
}

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode  StartMode
	title string
}

// WithMode sets what the UI is reporting on.
func WithMode(mode StartMode) StartOption {
	return func(c *StartConfig) {
		c.mode = mode
	}
}

// WithTitle sets the document title shown in the header.
func WithTitle(title string) StartOption {
	return func(c *StartConfig) {
		c.title = title
	}
}

func newStartConfig(options []StartOption) StartConfig {
	cfg := StartConfig{}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI defines the interface for reporting progress while documents and
// traceability matrices are produced.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	DisplaySectionStarted(ctx context.Context, title string, depth int)
	DisplaySectionCompleted(ctx context.Context, title string, depth int)
	DisplayIssue(ctx context.Context, issue m.Issue)
	DisplayArtifacts(ctx context.Context, artifacts []m.Artifact)
	DisplayCoverage(ctx context.Context, vcrm m.VCRM, uncovered []string)
}

// NewUI picks the TUI when the command writes to a terminal and the simple
// line printer otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
