// Package wiki extracts presentation metadata from generated wiki pages.
package wiki

import (
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Title returns the first level-1 or level-2 heading of a markdown page.
// Pages without a heading fall back to the path's base name.
func Title(pagePath, markdown string) string {
	source := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var title string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level <= 2 {
			title = headingText(h, source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if title != "" {
		return title
	}
	return TitleFromPath(pagePath)
}

// TitleFromPath derives a display title from a path alone.
func TitleFromPath(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." {
		return p
	}
	return base
}

func headingText(h *ast.Heading, source []byte) string {
	var b strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return strings.TrimSpace(b.String())
}
