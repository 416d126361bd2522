package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var poseTitleCaser = cases.Title(language.English)

// displayPoseName renders a catalog pose id ("left_side") as a title-cased
// display name ("Left Side") for table output.
func displayPoseName(poseID string) string {
	return poseTitleCaser.String(strings.ReplaceAll(poseID, "_", " "))
}

// column describes one table column. Numeric columns (counts, byte sizes,
// pixel dimensions) right-align so magnitudes line up.
type column struct {
	title   string
	numeric bool
}

func textColumn(title string) column    { return column{title: title} }
func numericColumn(title string) column { return column{title: title, numeric: true} }

func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		align := text.AlignLeft
		if col.numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}
