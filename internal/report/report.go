// Package report renders the end-of-run loss chart as a standalone
// HTML file.
package report

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/SamuelGong/plato/internal/results"
)

// Write renders a line chart of client and server loss per round to
// path. Rows from multiple clients in the same round are averaged.
func Write(path string, rows []results.RoundRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("report: no rounds to plot")
	}

	rounds, clientLoss, serverLoss := averageByRound(rows)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Split Learning Run"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Loss by round",
			Subtitle: fmt.Sprintf("%d rounds", len(rounds)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "round"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "loss"}),
	)

	line.SetXAxis(rounds).
		AddSeries("client loss", lineData(clientLoss)).
		AddSeries("server loss", lineData(serverLoss))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: creating %s: %w", path, err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return fmt.Errorf("report: rendering chart: %w", err)
	}
	return nil
}

func averageByRound(rows []results.RoundRow) (rounds []int, clientLoss, serverLoss []float64) {
	type sums struct {
		client, server float64
		n              int
	}
	byRound := make(map[int]*sums)
	for _, row := range rows {
		s, ok := byRound[row.Round]
		if !ok {
			s = &sums{}
			byRound[row.Round] = s
		}
		s.client += row.ClientLoss
		s.server += row.ServerLoss
		s.n++
	}

	for round := range byRound {
		rounds = append(rounds, round)
	}
	sort.Ints(rounds)

	for _, round := range rounds {
		s := byRound[round]
		clientLoss = append(clientLoss, s.client/float64(s.n))
		serverLoss = append(serverLoss, s.server/float64(s.n))
	}
	return rounds, clientLoss, serverLoss
}

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	return data
}
