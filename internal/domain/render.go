package domain

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
)

var (
	contentTemplate  = template.Must(template.New("content").Parse(contentTemplateText))
	appendixTemplate = template.Must(template.New("appendix").Parse(appendixTemplateText))

	headingRe = regexp.MustCompile(`^(#{1,6})(\s|$)`)
)

const contentTemplateText = `# {{ .Title }}

{{ .GeneratedText }}
`

const appendixTemplateText = `## Engineering Details: {{ .Title }}
{{ if .Requirements }}
### Requirements

{{ range .Requirements }}- **{{ .ID }}**: {{ .Shall }}
{{ end }}{{ end }}{{ range .Content }}
### {{ .Heading }}

{{ .Description }}
{{ range .Tests }}
#### Test: {{ .Name }}
{{ if .Requirements }}
Requirements:

{{ range .Requirements }}- **{{ .ID }}**: {{ .Shall }}
{{ end }}{{ end }}{{ if .Criteria }}
Criteria:

{{ range .Criteria }}- {{ . }}
{{ end }}{{ end }}{{ end }}{{ end }}`

// RenderNode renders a fully populated node as markdown at the given depth.
// The engineering appendix is block-quoted and nested one heading level below
// the section content.
func RenderNode(node m.DocumentNode, includeAppendix bool, depth int) (string, error) {
	var content bytes.Buffer
	if err := contentTemplate.Execute(&content, node); err != nil {
		return "", fmt.Errorf("render content: %w", err)
	}

	rendered := strings.TrimRight(ShiftHeadings(content.String(), depth), "\n")
	if !includeAppendix {
		return rendered + "\n", nil
	}

	var appendix bytes.Buffer
	if err := appendixTemplate.Execute(&appendix, node); err != nil {
		return "", fmt.Errorf("render appendix: %w", err)
	}

	quoted := BlockQuote(strings.TrimRight(ShiftHeadings(appendix.String(), depth), "\n"))

	return rendered + "\n\n" + quoted + "\n", nil
}

// ShiftHeadings prefixes every markdown heading outside fenced code blocks
// with depth extra '#' characters.
func ShiftHeadings(markdown string, depth int) string {
	if depth <= 0 {
		return markdown
	}

	prefix := strings.Repeat("#", depth)
	lines := strings.Split(markdown, "\n")
	inFence := false

	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), codeFence) {
			inFence = !inFence
			continue
		}

		if inFence {
			continue
		}

		if headingRe.MatchString(line) {
			lines[i] = prefix + line
		}
	}

	return strings.Join(lines, "\n")
}

// BlockQuote prefixes every line with a markdown quote marker.
func BlockQuote(markdown string) string {
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
			continue
		}

		lines[i] = "> " + line
	}

	return strings.Join(lines, "\n")
}

// DocumentMarkdown serialises a built tree in pre-order: each node's rendered
// output followed by its sections, separated by one blank line.
func DocumentMarkdown(node m.DocumentNode) string {
	parts := make([]string, 0, node.SectionCount())
	collectRendered(node, &parts)

	return strings.Join(parts, "\n\n") + "\n"
}

func collectRendered(node m.DocumentNode, parts *[]string) {
	*parts = append(*parts, strings.TrimRight(node.RenderedOutput, "\n"))
	for _, section := range node.Sections {
		collectRendered(section, parts)
	}
}
