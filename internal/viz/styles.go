package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/buckingham/internal/quantity"
)

type Styles struct {
	Theme  Theme
	Title  lipgloss.Style
	Value  lipgloss.Style
	Units  lipgloss.Style
	Error  lipgloss.Style
	Muted  lipgloss.Style
	Key    lipgloss.Style
	Header lipgloss.Style
	Panel  lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Value: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Units: lipgloss.NewStyle().Foreground(t.Secondary),
		Error: lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Muted: lipgloss.NewStyle().Foreground(t.Muted),
		Key:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}

var DefaultStyles = NewStyles(ThemeLab)

// Quantity renders q followed by its canonical units. Pure numbers carry no
// unit suffix.
func (s Styles) Quantity(q quantity.Quantity, style quantity.Style, decimals int) string {
	out := s.Value.Render(q.Render(style, decimals))
	if !q.IsPure() {
		out += " " + s.Units.Render(q.Units())
	}
	return out
}

// GradientText colors each rune of text on a linear ramp between two hex
// colors.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	sr, sg, sb := parseHex(string(start))
	er, eg, eb := parseHex(string(end))

	var b strings.Builder
	for i, c := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		col := hexColor(lerp(sr, er, t), lerp(sg, eg, t), lerp(sb, eb, t))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(col)).Render(string(c)))
	}
	return b.String()
}

// Sparkline draws values as block characters, sampled down to width.
func Sparkline(values []float64, width int, style lipgloss.Style) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	blocks := []rune("▁▂▃▄▅▆▇█")

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := max(len(values)/width, 1)
	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / span * float64(len(blocks)-1))
		b.WriteRune(blocks[min(max(idx, 0), len(blocks)-1)])
	}
	return style.Render(b.String())
}

func lerp(a, b int, t float64) int {
	return int(float64(a) + t*float64(b-a))
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func hexColor(r, g, b int) string {
	clamp := func(v int) int { return min(max(v, 0), 255) }
	return "#" + strconv.FormatInt(int64(1<<24|clamp(r)<<16|clamp(g)<<8|clamp(b)), 16)[1:]
}
