package app

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	markdownStyleDark  = "dark"
	markdownStyleLight = "light"
	markdownStyleASCII = "ascii"

	defaultMarkdownWidth = 80
)

// markdownCache holds one glamour renderer per (palette, width). Terminal
// resizes produce a handful of widths, so the cache stays small.
type markdownCache struct {
	mu        sync.Mutex
	style     string
	renderers map[markdownRendererKey]*glamour.TermRenderer
}

type markdownRendererKey struct {
	style string
	width int
}

var agentMarkdown = &markdownCache{
	style:     markdownStyleDark,
	renderers: map[markdownRendererKey]*glamour.TermRenderer{},
}

// renderMarkdown renders agent text for a bubble of the given width. The
// input is returned unchanged when glamour fails.
func renderMarkdown(input string, width int) string {
	return agentMarkdown.render(input, width)
}

func currentMarkdownStyle() string {
	agentMarkdown.mu.Lock()
	defer agentMarkdown.mu.Unlock()
	return agentMarkdown.style
}

// setMarkdownStyle selects the palette; unknown names mean dark. It reports
// whether the palette changed.
func setMarkdownStyle(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name != markdownStyleLight && name != markdownStyleASCII {
		name = markdownStyleDark
	}
	agentMarkdown.mu.Lock()
	defer agentMarkdown.mu.Unlock()
	if agentMarkdown.style == name {
		return false
	}
	agentMarkdown.style = name
	return true
}

func (c *markdownCache) render(input string, width int) string {
	input = strings.TrimRight(input, "\n")
	if input == "" {
		return ""
	}
	if width <= 0 {
		width = defaultMarkdownWidth
	}
	renderer := c.renderer(width)
	if renderer == nil {
		return input
	}
	out, err := renderer.Render(input)
	if err != nil {
		return input
	}
	// glamour can overshoot on long unbroken tokens such as URLs.
	out = xansi.Hardwrap(strings.TrimRight(out, "\n"), width, true)
	return strings.TrimRight(out, "\n")
}

func (c *markdownCache) renderer(width int) *glamour.TermRenderer {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := markdownRendererKey{style: c.style, width: width}
	if r := c.renderers[key]; r != nil {
		return r
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(buildStyleConfig(key.style)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	c.renderers[key] = r
	return r
}

// buildStyleConfig returns the named glamour palette with the document
// margins removed, since bubbles already pad their content.
func buildStyleConfig(style string) glamouransi.StyleConfig {
	cfg := styles.DarkStyleConfig
	switch style {
	case markdownStyleLight:
		cfg = styles.LightStyleConfig
	case markdownStyleASCII:
		cfg = styles.ASCIIStyleConfig
	}
	var noMargin uint
	cfg.Document.Margin = &noMargin
	cfg.Document.StylePrimitive.BlockPrefix = ""
	cfg.Document.StylePrimitive.BlockSuffix = ""

	quoteFaint, quoteColor := true, "245"
	cfg.BlockQuote.StylePrimitive.Faint = &quoteFaint
	cfg.BlockQuote.StylePrimitive.Color = &quoteColor
	return cfg
}

var markdownBlockMarkers = []string{"#", ">", "- ", "* ", "+ "}

// escapeMarkdown keeps user text literal when it is rendered as markdown:
// backticks are escaped and line-leading block markers are neutralised.
func escapeMarkdown(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.ReplaceAll(line, "`", "\\`")
		body := strings.TrimLeft(line, " \t")
		indent := line[:len(line)-len(body)]
		if startsMarkdownBlock(body) {
			body = "\\" + body
		}
		lines[i] = indent + body
	}
	return strings.Join(lines, "\n")
}

func startsMarkdownBlock(line string) bool {
	for _, marker := range markdownBlockMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return isNumberedList(line)
}

// isNumberedList matches "12. item".
func isNumberedList(line string) bool {
	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	return digits > 0 && strings.HasPrefix(line[digits:], ". ")
}
