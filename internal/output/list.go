// Package output renders small lists for humans.
package output

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Veraticus/mesos-style/internal/shared"
)

// ListRenderer provides list formatting.
type ListRenderer struct {
	titleStyle  lipgloss.Style
	itemStyle   lipgloss.Style
	bulletStyle lipgloss.Style
	bullet      string
	indent      string
}

// NewListRenderer creates a list renderer using styles.
func NewListRenderer(styles shared.Styles) *ListRenderer {
	return &ListRenderer{
		titleStyle:  styles.Title,
		itemStyle:   styles.Item,
		bulletStyle: styles.Debug,
		bullet:      "•",
		indent:      "  ",
	}
}

// RenderMap formats a title and map of key-value pairs, keys sorted and
// padded to the widest one.
func (l *ListRenderer) RenderMap(title string, items map[string]string) string {
	var sb strings.Builder

	l.writeTitle(&sb, title)

	keys := sortedKeys(items)
	maxKeyWidth := 0
	for _, key := range keys {
		maxKeyWidth = max(maxKeyWidth, runewidth.StringWidth(key))
	}

	for _, key := range keys {
		sb.WriteString(l.indent)
		sb.WriteString(l.bulletStyle.Render(runewidth.FillRight(key, maxKeyWidth)))
		sb.WriteString(": ")
		sb.WriteString(l.itemStyle.Render(items[key]))
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderGrouped formats items grouped by category, groups sorted by name.
func (l *ListRenderer) RenderGrouped(title string, groups map[string][]string) string {
	var sb strings.Builder

	l.writeTitle(&sb, title)
	for _, group := range sortedKeys(groups) {
		sb.WriteString(l.indent)
		sb.WriteString(l.bulletStyle.Render(group))
		sb.WriteString(":\n")

		for _, item := range groups[group] {
			sb.WriteString(l.indent)
			sb.WriteString(l.indent)
			sb.WriteString(l.itemStyle.Render("- " + item))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (l *ListRenderer) writeTitle(sb *strings.Builder, title string) {
	if title == "" {
		return
	}
	sb.WriteString(l.titleStyle.Render(title))
	sb.WriteString("\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
