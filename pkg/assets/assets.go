// Package assets tracks the static CSS and JS files components declare,
// de-duplicating them across one render so a page pulls each file in
// exactly once.
package assets

import (
	"fmt"
	"html"
	"strings"
)

// Media lists the stylesheet and script paths a component depends on.
type Media struct {
	CSS []string
	JS  []string
}

// IsZero reports whether the media declares no assets.
func (m Media) IsZero() bool {
	return len(m.CSS) == 0 && len(m.JS) == 0
}

// Merge appends other's assets to m, skipping paths m already lists.
// Order is preserved: m's entries first, then other's new entries.
func (m Media) Merge(other Media) Media {
	out := Media{
		CSS: appendUnique(m.CSS, other.CSS),
		JS:  appendUnique(m.JS, other.JS),
	}
	return out
}

// Tags renders the media as HTML link and script tags, one per line.
func (m Media) Tags() string {
	var b strings.Builder
	for _, href := range m.CSS {
		fmt.Fprintf(&b, "<link rel=\"stylesheet\" href=\"%s\">\n", html.EscapeString(href))
	}
	for _, src := range m.JS {
		fmt.Fprintf(&b, "<script src=\"%s\"></script>\n", html.EscapeString(src))
	}
	return b.String()
}

func appendUnique(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing))
	out := make([]string, 0, len(existing)+len(extra))
	for _, path := range existing {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	for _, path := range extra {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	return out
}

// Collector accumulates media across the components touched by one render.
// It belongs to a single render and is not safe for concurrent use.
type Collector struct {
	media Media
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add merges a component's media into the collector.
func (c *Collector) Add(m Media) {
	if m.IsZero() {
		return
	}
	c.media = c.media.Merge(m)
}

// Media returns everything collected so far.
func (c *Collector) Media() Media {
	return c.media
}
