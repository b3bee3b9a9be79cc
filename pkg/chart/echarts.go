package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"trendlens-go/pkg/logger"
	"trendlens-go/pkg/trends"
)

// echartsRenderer renders chart specs to self-contained HTML documents.
type echartsRenderer struct {
	log *logger.Logger
}

// NewRenderer creates the default HTML chart renderer.
func NewRenderer() Renderer {
	return &echartsRenderer{log: logger.ForComponent("chart_renderer")}
}

func (r *echartsRenderer) RenderInterestOverTime(w io.Writer, series *trends.TimeSeries, title string) error {
	spec, err := BuildLineSpec(series, title)
	if err != nil {
		return err
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YLabel, Max: 100}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)

	line.SetXAxis(spec.Dates)
	for _, s := range spec.Series {
		points := make([]opts.LineData, 0, len(s.Values))
		for _, v := range s.Values {
			points = append(points, opts.LineData{Value: v})
		}
		line.AddSeries(s.Name, points)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render line chart: %w", err)
	}

	r.log.WithFields(map[string]interface{}{
		"title": spec.Title,
		"rows":  len(spec.Dates),
	}).Debug("Line chart rendered")
	return nil
}

func (r *echartsRenderer) RenderRegionalInterest(w io.Writer, table *trends.RegionTable, keyword, title string) error {
	spec, err := BuildChoroplethSpec(table, keyword, title)
	if err != nil {
		return err
	}

	geoMap := charts.NewMap()
	geoMap.RegisterMapType("world")
	geoMap.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        0,
			Max:        100,
		}),
	)

	points := make([]opts.MapData, 0, len(spec.Points))
	for _, p := range spec.Points {
		points = append(points, opts.MapData{Name: p.Location, Value: float32(p.Score)})
	}
	geoMap.AddSeries(spec.ColorField, points)

	if err := geoMap.Render(w); err != nil {
		return fmt.Errorf("failed to render choropleth: %w", err)
	}

	r.log.WithFields(map[string]interface{}{
		"title":   spec.Title,
		"regions": len(spec.Points),
	}).Debug("Choropleth rendered")
	return nil
}
