/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	htmltemplate "html/template"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/pulseboard/vitals"
)

// vitalsChartGroup is one rendered chart and the metrics drawn on it.
type vitalsChartGroup struct {
	Title   string
	Unit    string
	Metrics []vitals.Metric
}

var vitalsChartGroups = []vitalsChartGroup{
	{Title: "Blood Pressure & Pulse", Unit: "mmHg / bpm", Metrics: []vitals.Metric{vitals.Systolic, vitals.Diastolic, vitals.Pulse}},
	{Title: "Blood Sugar", Unit: "mg/dL", Metrics: []vitals.Metric{vitals.BloodSugar}},
}

var seriesColors = map[vitals.Metric]string{
	vitals.Systolic:   "#d9534f",
	vitals.Diastolic:  "#5bc0de",
	vitals.Pulse:      "#5cb85c",
	vitals.BloodSugar: "#f0ad4e",
}

// renderVitalsCharts draws every chart group. Groups with no readings in
// the window are skipped.
func renderVitalsCharts(chart vitals.Chart) ([]htmltemplate.HTML, error) {
	rendered := make([]htmltemplate.HTML, 0, len(vitalsChartGroups))

	for _, group := range vitalsChartGroups {
		html, err := renderChartGroup(chart, group)
		if err != nil {
			return nil, err
		}

		if html != "" {
			rendered = append(rendered, html)
		}
	}

	return rendered, nil
}

// lineData converts a series to echarts points. Missing readings become
// "-", which echarts draws as a gap.
func lineData(series []*float64) ([]opts.LineData, bool) {
	data := make([]opts.LineData, 0, len(series))
	hasValue := false

	for _, value := range series {
		if value == nil {
			data = append(data, opts.LineData{Value: "-"})
			continue
		}

		hasValue = true

		data = append(data, opts.LineData{Value: *value})
	}

	return data, hasValue
}

// bandMarkLines draws the normal range of m as dashed lines.
func bandMarkLines(m vitals.Metric) charts.SeriesOpts {
	return func(s *charts.SingleSeries) {
		band, ok := vitals.BandFor(m)
		if !ok {
			return
		}

		s.MarkLines = &opts.MarkLines{
			Data: []interface{}{
				opts.MarkLineNameYAxisItem{Name: m.Label() + " Min", YAxis: band.Min},
				opts.MarkLineNameYAxisItem{Name: m.Label() + " Max", YAxis: band.Max},
			},
			MarkLineStyle: opts.MarkLineStyle{
				Symbol: []string{"none", "none"},
				LineStyle: &opts.LineStyle{
					Color: seriesColors[m],
					Type:  "dashed",
					Width: 1,
				},
			},
		}
	}
}

func renderChartGroup(chart vitals.Chart, group vitalsChartGroup) (htmltemplate.HTML, error) {
	if len(chart.Points) == 0 {
		return "", nil
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: group.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(group.Metrics) > 1), Top: "bottom"}),
		charts.WithYAxisOpts(opts.YAxis{Name: group.Unit, Scale: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
	)
	line.SetXAxis(chart.Labels())

	drawn := false

	for _, m := range group.Metrics {
		data, hasValue := lineData(chart.Series(m))
		if !hasValue {
			continue
		}

		drawn = true

		line.AddSeries(m.Label(), data,
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:       opts.Bool(true),
				ShowSymbol:   opts.Bool(true),
				ConnectNulls: opts.Bool(true),
				Color:        seriesColors[m],
			}),
			bandMarkLines(m),
		)
	}

	if !drawn {
		return "", nil
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}

	return htmltemplate.HTML(buf.String()), nil //nolint:gosec // go-echarts output from numeric data and fixed labels.
}
