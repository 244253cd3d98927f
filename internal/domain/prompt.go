package domain

import (
	"fmt"
	"strings"

	m "github.com/DevOps-MBSE/aac-doc-mdl/internal/model"
)

// PromptFunc builds the generation prompt for a document node.
type PromptFunc func(node m.DocumentNode) string

// AssemblePrompt appends a structured description of node to the
// instructional template. Sub-sections contribute only their title and
// description.
func AssemblePrompt(template string, node m.DocumentNode) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Title: %s\n", node.Title)
	fmt.Fprintf(&b, "Description: %s\n", node.Description)

	if len(node.Requirements) > 0 {
		b.WriteString("Requirements:\n")

		for _, req := range node.Requirements {
			fmt.Fprintf(&b, "  - %s: %s\n", req.ID, req.Shall)
		}
	}

	if len(node.Sections) > 0 {
		b.WriteString("Sub-sections:\n")

		for _, section := range node.Sections {
			fmt.Fprintf(&b, "  - %s: %s\n", section.Title, section.Description)
		}
	}

	if len(node.Content) > 0 {
		b.WriteString("Content:\n")

		for _, content := range node.Content {
			writeContentBlock(&b, content)
		}
	}

	return template + "\n" + b.String()
}

func writeContentBlock(b *strings.Builder, content m.ContentBlock) {
	fmt.Fprintf(b, "  - %s: %s\n", content.Heading, content.Description)

	if len(content.Tests) == 0 {
		return
	}

	b.WriteString("    Expectations:\n")

	for _, test := range content.Tests {
		fmt.Fprintf(b, "      - %s\n", test.Name)

		if len(test.Requirements) > 0 {
			b.WriteString("        Requirements:\n")

			for _, req := range test.Requirements {
				fmt.Fprintf(b, "          - %s: %s\n", req.ID, req.Shall)
			}
		}

		if len(test.Criteria) > 0 {
			b.WriteString("        Criteria:\n")

			for _, criterion := range test.Criteria {
				fmt.Fprintf(b, "          - %s\n", criterion)
			}
		}
	}
}

// OutlinePrompt builds the prompt used for annotated outlines.
func OutlinePrompt(node m.DocumentNode) string {
	return AssemblePrompt(outlinePromptTemplate, node)
}

// DraftPrompt builds the prompt used for full document drafts.
func DraftPrompt(node m.DocumentNode) string {
	return AssemblePrompt(draftPromptTemplate, node)
}

const outlinePromptTemplate = `
# IDENTITY and PURPOSE

You write clear, concise and accurate section abstracts for formal technical documents, formatted as markdown. Every abstract must satisfy the stakeholder description, requirements and criteria given as input.

# STEPS

- Read the description and requirements and note any stakeholder instructions they contain.

- When sub-sections are listed, acknowledge them without summarising their details. Each sub-section receives its own abstract.

- Check the draft against every criterion and adjust it until all are addressed.

# OUTPUT INSTRUCTIONS

- Output only markdown.

- Do not use headings. Use lists or blockquotes where they aid clarity.

- Keep the abstract to a single concise paragraph where possible.

# INPUT:
`

const draftPromptTemplate = `
# IDENTITY and PURPOSE

You write clear, concise and accurate formal engineering documents, formatted as markdown. The content must satisfy the stakeholder description, requirements and criteria given as input.

# STEPS

- Read the description and requirements and note any stakeholder instructions they contain.

- When sub-sections are listed, frame them without repeating their details. Each sub-section receives its own content.

- Check the draft against every requirement and criterion so reviewers can approve it for publication.

# OUTPUT INSTRUCTIONS

- Output only markdown.

- Use clear headings, lists and blockquotes where they aid readability.

- Favour completeness over brevity when requirements or criteria call for it, but do not pad the text.

# INPUT:
`
