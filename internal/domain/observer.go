package domain

import (
	"context"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
)

// Observer receives progress and issue notifications while a model is walked.
// controller.UI implementations satisfy it.
type Observer interface {
	DisplaySectionStarted(ctx context.Context, title string, depth int)
	DisplaySectionCompleted(ctx context.Context, title string, depth int)
	DisplayIssue(ctx context.Context, issue m.Issue)
}

type nopObserver struct{}

func (nopObserver) DisplaySectionStarted(context.Context, string, int)   {}
func (nopObserver) DisplaySectionCompleted(context.Context, string, int) {}
func (nopObserver) DisplayIssue(context.Context, m.Issue)                {}
