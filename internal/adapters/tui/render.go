package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mikey/spam-sorter/internal/core"
)

type paint int

const (
	paintBlank paint = iota
	paintPending
	paintSpam
	paintHam
	paintActive
)

var (
	styles = map[paint]lipgloss.Style{
		paintBlank:   lipgloss.NewStyle(),
		paintPending: lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		paintSpam:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		paintHam:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		paintActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	}

	tokenStyles = map[core.TokenClass]lipgloss.Style{
		core.TokenSpam:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		core.TokenHam:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		core.TokenNeutral: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}

	statusStyle = lipgloss.NewStyle().Faint(true)
)

type cell struct {
	r rune
	p paint
}

// Scale converts layout pixels into terminal cells
type Scale struct {
	PixelsPerColumn float64
	PixelsPerRow    float64
}

func (s Scale) cell(p core.Point, offset core.Point) (col, row int) {
	col = int(math.Floor((p.X + offset.X) / s.PixelsPerColumn))
	row = int(math.Floor((p.Y + offset.Y) / s.PixelsPerRow))
	return col, row
}

// drawItems paints every item as a marker followed by its address
func drawItems(items []core.ItemView, active int, scale Scale, offset core.Point, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	grid := make([][]cell, height)
	for y := range grid {
		grid[y] = make([]cell, width)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' '}
		}
	}

	for i, it := range items {
		col, row := scale.cell(it.Pos, offset)
		if row < 0 || row >= height {
			continue
		}
		p := itemPaint(it)
		if i == active {
			p = paintActive
		}
		label := append([]rune{'■', ' '}, []rune(it.Address)...)
		for j, r := range label {
			x := col + j
			if x < 0 {
				continue
			}
			if x >= width {
				break
			}
			grid[row][x] = cell{r: r, p: p}
		}
	}

	var b strings.Builder
	for y, line := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		writeRuns(&b, line)
	}
	return b.String()
}

func itemPaint(it core.ItemView) paint {
	switch {
	case !it.Classified:
		return paintPending
	case it.Spam:
		return paintSpam
	default:
		return paintHam
	}
}

// writeRuns styles consecutive cells of the same paint together
func writeRuns(b *strings.Builder, line []cell) {
	start := 0
	for i := 1; i <= len(line); i++ {
		if i < len(line) && line[i].p == line[start].p {
			continue
		}
		run := make([]rune, 0, i-start)
		for _, c := range line[start:i] {
			run = append(run, c.r)
		}
		if line[start].p == paintBlank {
			b.WriteString(string(run))
		} else {
			b.WriteString(styles[line[start].p].Render(string(run)))
		}
		start = i
	}
}

// describeHighlight renders the token under inspection
func describeHighlight(h *core.Highlight, items []core.ItemView) string {
	if h == nil {
		return ""
	}
	addr := ""
	if h.Index >= 0 && h.Index < len(items) {
		addr = items[h.Index].Address
	}
	tok := tokenStyles[h.Class].Render(h.Token)
	if !h.Known {
		return fmt.Sprintf("%s  word %d: %s (unseen)", addr, h.TokenIndex+1, tok)
	}
	return fmt.Sprintf("%s  word %d: %s  P(w|spam)=%.4f  P(w|ham)=%.4f",
		addr, h.TokenIndex+1, tok, h.SpamProb, h.HamProb)
}

func countLabels(items []core.ItemView) (spam, ham, pending int) {
	for _, it := range items {
		switch itemPaint(it) {
		case paintSpam:
			spam++
		case paintHam:
			ham++
		default:
			pending++
		}
	}
	return spam, ham, pending
}
