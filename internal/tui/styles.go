package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mcoot/dotriacontordle/internal/model"
)

var (
	tileBase = lipgloss.NewStyle().Padding(0, 1).Bold(true)

	tileColors = map[model.TileState]lipgloss.Color{
		model.TileCorrect: lipgloss.Color("28"),  // Green
		model.TilePresent: lipgloss.Color("136"), // Yellow
		model.TileAbsent:  lipgloss.Color("238"), // Grey
	}
	glowColors = map[model.TileState]lipgloss.Color{
		model.TileCorrect: lipgloss.Color("46"),
		model.TilePresent: lipgloss.Color("226"),
		model.TileAbsent:  lipgloss.Color("240"),
	}

	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	styleSubtle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleTyped    = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("236"))
	styleEmpty    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("240"))
	styleMessage  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	styleError    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleWon      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	styleLost     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleSolved   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleSelected = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12"))
	styleCell     = lipgloss.NewStyle().Border(lipgloss.HiddenBorder())
)

// tileStyle returns the style for a scored tile
func tileStyle(state model.TileState, glow bool) lipgloss.Style {
	colors := tileColors
	if glow {
		colors = glowColors
	}
	color, ok := colors[state]
	if !ok {
		return styleEmpty
	}
	style := tileBase.Background(color).Foreground(lipgloss.Color("15"))
	if glow && state != model.TileAbsent {
		style = style.Foreground(lipgloss.Color("0"))
	}
	return style
}

// renderRow renders word with one tile per letter
func renderRow(word string, tiles []model.TileState, glow bool) string {
	cells := make([]string, 0, len(word))
	for i, r := range word {
		state := model.TileEmpty
		if i < len(tiles) {
			state = tiles[i]
		}
		cells = append(cells, tileStyle(state, glow).Render(string(r)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// renderTyping renders the current guess padded to the word length
func renderTyping(current string, wordLength int) string {
	cells := make([]string, 0, wordLength)
	for i := 0; i < wordLength; i++ {
		if i < len(current) {
			cells = append(cells, styleTyped.Render(current[i:i+1]))
		} else {
			cells = append(cells, styleEmpty.Render("_"))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
