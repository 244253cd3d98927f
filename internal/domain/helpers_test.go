package domain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
)

type recordingObserver struct {
	mu        sync.Mutex
	started   []string
	completed []string
	issues    []m.Issue
}

func (o *recordingObserver) DisplaySectionStarted(_ context.Context, title string, depth int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.started = append(o.started, fmt.Sprintf("%d:%s", depth, title))
}

func (o *recordingObserver) DisplaySectionCompleted(_ context.Context, title string, depth int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.completed = append(o.completed, fmt.Sprintf("%d:%s", depth, title))
}

func (o *recordingObserver) DisplayIssue(_ context.Context, issue m.Issue) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.issues = append(o.issues, issue)
}

// fakeGenerator answers every prompt with a fenced paragraph naming the
// section and remembers the prompts it was given.
type fakeGenerator struct {
	prompts map[string]string
	temps   []float64
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{prompts: map[string]string{}}
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string, temperature float64) (string, error) {
	title := promptTitle(prompt)
	g.prompts[title] = prompt
	g.temps = append(g.temps, temperature)

	return "```markdown\nText for " + title + ".\n```\n", nil
}

func promptTitle(prompt string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if title, ok := strings.CutPrefix(line, "Title: "); ok {
			return title
		}
	}

	return ""
}

func req(id, shall string, parents ...string) m.RequirementDef {
	return m.RequirementDef{ID: id, Shall: shall, Parents: parents}
}

func comp(name string) m.ComponentRef {
	return m.ComponentRef{Name: strings.ToLower(name), Model: name}
}
