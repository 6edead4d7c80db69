package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	failedStyle = cellStyle.Foreground(lipgloss.Color("203"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)

// renderTable lays out rows under headers. Rows for which failed returns
// true are highlighted. failed may be nil.
func renderTable(
	headers []string,
	rows [][]string,
	failed func(row []string) bool,
) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			if failed != nil && failed(rows[row]) {
				return failedStyle
			}

			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// hasError tells if the last cell, the error column, is filled.
func hasError(row []string) bool {
	return len(row) > 0 && row[len(row)-1] != "-"
}
