package adapter

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const listBullet = "• "

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

const htmlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 60em; margin: 2em auto; line-height: 1.5; }
blockquote { border-left: 4px solid #ccc; margin-left: 0; padding-left: 1em; color: #444; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.25em 0.5em; }
</style>
</head>
<body>
%s</body>
</html>
`

// RenderHTMLFragment converts GitHub flavoured markdown to an HTML fragment.
func RenderHTMLFragment(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderHTML converts markdown to a standalone HTML page.
func RenderHTML(title string, source []byte) ([]byte, error) {
	body, err := RenderHTMLFragment(source)
	if err != nil {
		return nil, err
	}

	return fmt.Appendf(nil, htmlPage, html.EscapeString(title), body), nil
}

// RenderDOCX converts markdown to a Word document. Headings become bold
// sized runs, list items are bulleted and block quotes are flattened.
func RenderDOCX(source []byte) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()
	root := markdown.Parser().Parse(text.NewReader(source))

	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		writeDocxBlock(doc, child, source)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}

	return buf.Bytes(), nil
}

func writeDocxBlock(doc *docx.Docx, node ast.Node, source []byte) {
	switch n := node.(type) {
	case *ast.Heading:
		doc.AddParagraph().AddText(inlineText(n, source)).Size(headingSize(n.Level)).Bold()
	case *ast.Paragraph, *ast.TextBlock:
		if t := inlineText(n, source); t != "" {
			doc.AddParagraph().AddText(t)
		}
	case *ast.List:
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			doc.AddParagraph().AddText(listBullet + inlineText(item, source))
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			doc.AddParagraph().AddText(strings.TrimRight(string(segment.Value(source)), "\n"))
		}
	case *ast.Blockquote:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			writeDocxBlock(doc, child, source)
		}
	case *ast.ThematicBreak:
	default:
		if t := inlineText(n, source); t != "" {
			doc.AddParagraph().AddText(t)
		}
	}
}

func headingSize(level int) string {
	switch level {
	case 1:
		return "32"
	case 2:
		return "28"
	case 3:
		return "26"
	default:
		return "24"
	}
}

// inlineText flattens the inline content below node into plain text.
func inlineText(node ast.Node, source []byte) string {
	var buf strings.Builder

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))

			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.List:
			if n != node {
				// nested lists are flattened onto the same line
				buf.WriteByte(' ')
			}
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(buf.String())
}
