package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"steam-review-service/internal/models"
)

// renderTopGames lays out per-game aggregates, counts right aligned
func renderTopGames(games []models.ProviderAggregate) string {
	if len(games) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Game", "Reviews", "Positive", "Negative", "Neutral", "Helpful", "Positive rate"})

	var reviews, positive, negative, neutral int
	for _, g := range games {
		tw.AppendRow(table.Row{
			g.Game,
			g.TotalReviews,
			g.Positive,
			g.Negative,
			g.Neutral,
			strconv.FormatFloat(g.HelpfulSum, 'f', -1, 64),
			strconv.FormatFloat(g.PositiveRate, 'f', 4, 64),
		})
		reviews += g.TotalReviews
		positive += g.Positive
		negative += g.Negative
		neutral += g.Neutral
	}
	tw.AppendFooter(table.Row{"Shown", reviews, positive, negative, neutral, "", ""})

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for col := 2; col <= 7; col++ {
		configs = append(configs, table.ColumnConfig{Number: col, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
