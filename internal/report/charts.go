package report

import (
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"

	"github.com/janekbaraniewski/copilot-usage/internal/metrics"
)

// renderLineChart plots one daily series. A chart needs at least two points.
func renderLineChart(data []float64, width, height int, caption string) string {
	if len(data) < 2 {
		return dimStyle.Render("Not enough days to chart")
	}
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// renderModelMixChart plots premium against standard requests per day.
func renderModelMixChart(days []metrics.DailyModelUsage, width, height int) string {
	if len(days) < 2 {
		return dimStyle.Render("Not enough days to chart")
	}
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}
	premium := lo.Map(days, func(d metrics.DailyModelUsage, _ int) float64 { return float64(d.PRUModels) })
	standard := lo.Map(days, func(d metrics.DailyModelUsage, _ int) float64 { return float64(d.StandardModels) })
	return asciigraph.PlotMany([][]float64{premium, standard},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("premium (red) vs standard (blue) requests"),
		asciigraph.SeriesColors(
			asciigraph.Red,
			asciigraph.Blue,
		),
	)
}
