package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const (
	defaultWrap          = 80
	defaultMarkdownStyle = "dark"
)

// rendererCache keeps one glamour renderer per (width, style). Building a
// renderer parses a full stylesheet, and the browser re-renders on every
// resize and selection change.
type rendererCache struct {
	mu        sync.Mutex
	renderers map[rendererKey]*glamour.TermRenderer
}

type rendererKey struct {
	width int
	style string
}

var renderers = &rendererCache{renderers: make(map[rendererKey]*glamour.TermRenderer)}

func (c *rendererCache) get(width int, style string) (*glamour.TermRenderer, error) {
	if width < 1 {
		width = defaultWrap
	}
	if style == "" {
		style = defaultMarkdownStyle
	}
	key := rendererKey{width: width, style: style}

	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.renderers[key]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	c.renderers[key] = r
	return r, nil
}

func (c *rendererCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderers = make(map[rendererKey]*glamour.TermRenderer)
}

// RenderMarkdownWithStyle renders an entry body with the given glamour
// style ("dark", "light", "notty", or a stylesheet path). The body is
// returned unchanged if rendering fails.
func RenderMarkdownWithStyle(content string, width int, style string) string {
	if content == "" {
		return ""
	}
	r, err := renderers.get(width, style)
	if err != nil {
		return content
	}
	// TermRenderer is not safe for concurrent Render calls.
	renderers.mu.Lock()
	rendered, err := r.Render(content)
	renderers.mu.Unlock()
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// RenderMarkdown renders with the dark style.
func RenderMarkdown(content string, width int) string {
	return RenderMarkdownWithStyle(content, width, defaultMarkdownStyle)
}
