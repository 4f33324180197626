package ingest

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New()

// extractTitle derives a display title for a document, used in ingest report
// entries. Markdown files take their first level-1 heading, falling back to
// the first level-2 heading; everything else, and markdown without headings,
// uses the filename.
func extractTitle(content []byte, relPath string) string {
	if strings.ToLower(filepath.Ext(relPath)) == ".md" {
		if title := extractMarkdownTitle(content); title != "" {
			return title
		}
	}
	return titleFromFilename(relPath)
}

// extractMarkdownTitle parses markdown and returns the first H1, or the first
// H2 when no H1 exists. Returns "" when the document has neither.
func extractMarkdownTitle(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	doc := markdownParser.Parser().Parse(gtext.NewReader(content))

	var firstH1, firstH2 string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		text := headingText(heading, content)
		switch {
		case heading.Level == 1 && firstH1 == "":
			firstH1 = text
			return ast.WalkStop, nil
		case heading.Level == 2 && firstH2 == "":
			firstH2 = text
		}
		return ast.WalkContinue, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	return firstH2
}

// headingText collects the plain text of a heading node.
func headingText(n ast.Node, content []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// titleFromFilename strips the extension and capitalizes each word.
func titleFromFilename(relPath string) string {
	name := filepath.Base(relPath)
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}

	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
