package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/poiesic/remedy/core"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	scoreStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Align(lipgloss.Right)

	lineStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// newTable returns a bordered table whose columns from scoreFrom onwards
// are right aligned.
func newTable(scoreFrom int, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= scoreFrom:
				return scoreStyle
			default:
				return cellStyle
			}
		})
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 4, 64)
}

func renderResults(results []core.RankedResult) string {
	t := newTable(2, "Error", "Resolution", "Accuracy")
	for _, r := range results {
		t.Row(r.Phrase, r.Resolution, formatScore(r.Score))
	}
	return t.String()
}

func renderMultiResults(results []core.MultiRankedResult) string {
	headers := []string{"Error", "Resolution"}
	for _, id := range core.Strategies {
		headers = append(headers, id.String())
	}
	t := newTable(2, headers...)
	for _, r := range results {
		row := []string{r.Phrase, r.Resolution}
		for _, id := range core.Strategies {
			row = append(row, formatScore(r.Scores[id]))
		}
		t.Row(row...)
	}
	return t.String()
}

func renderRecords(records []*core.PhraseRecord) string {
	t := newTable(3, "ID", "Phrase", "Resolution", "Inserted")
	for _, r := range records {
		t.Row(fmt.Sprintf("%016x", uint64(r.Id)), r.Phrase, r.Resolution, r.InsertedAt.Format("2006-01-02 15:04:05"))
	}
	return t.String()
}

func renderLine(line string) string {
	return lineStyle.Render(line)
}
