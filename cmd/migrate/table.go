package main

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/johnquangdev/meeting-insights/internal/infrastructure/database"
)

func renderStatus(rows []database.MigrationStatus) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Migration", "State", "Applied At"})

	for _, r := range rows {
		state, at := "pending", ""
		if r.Applied {
			state = "applied"
			if r.AppliedAt != nil {
				at = r.AppliedAt.UTC().Format(time.RFC3339)
			}
		}
		tw.AppendRow(table.Row{r.ID, state, at})
	}
	return tw.Render()
}
