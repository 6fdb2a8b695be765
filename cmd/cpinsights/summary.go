package main

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"cpinsights/internal/metacache"
	"cpinsights/internal/pipeline"
)

// printSummary renders the files written by a run. Partial results of a
// failed run are printed too, so the user sees what is already on disk.
func printSummary(w io.Writer, result *pipeline.Result) {
	if result == nil || len(result.Steps) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("%s %s", result.Platform, result.Handle)
	t.AppendHeader(table.Row{"Report", "File", "Rows", "Time"})

	total := 0
	for _, s := range result.Steps {
		t.AppendRow(table.Row{s.Name, s.File, s.Rows, s.Duration.Round(time.Millisecond)})
		total += s.Rows
	}
	if result.Workbook != "" {
		t.AppendRow(table.Row{"Workbook", result.Workbook, "", ""})
	}

	t.AppendFooter(table.Row{"", "Total", total, result.Duration.Round(time.Millisecond)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func printCacheStats(w io.Writer, stats metacache.Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Path", "Entries", "Expired", "Oldest", "Newest"})
	t.AppendRow(table.Row{stats.Path, stats.Entries, stats.Expired, formatTime(stats.Oldest), formatTime(stats.Newest)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format(time.RFC3339)
}
