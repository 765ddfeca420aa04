// Package analytics renders chart views of normalized medical reports.
// Colours come from medicalreport.SeverityPalette so charts and exports
// always agree on what a tier looks like.
package analytics

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/occhealth/occhealth/internal/domain/medicalreport"
)

// DefaultAssetsHost serves the ECharts bundle referenced by rendered pages.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// riskScore places each status on the bar chart axis.
var riskScore = map[medicalreport.RiskStatus]int{
	medicalreport.RiskNone:   0,
	medicalreport.RiskLow:    1,
	medicalreport.RiskMedium: 2,
	medicalreport.RiskAt:     3,
}

func tierColor(status medicalreport.RiskStatus) *opts.ItemStyle {
	tier := medicalreport.ClassifySeverity(medicalreport.Text(status))
	return &opts.ItemStyle{Color: tier.Colors().Text}
}

// RiskDistributionChart is a pie of the report's risk distribution, one
// slice per tier.
func RiskDistributionChart(report *medicalreport.NormalizedReport) *charts.Pie {
	data := make([]opts.PieData, 0, len(report.RiskDistribution))
	for _, row := range report.RiskDistribution {
		data = append(data, opts.PieData{
			Name:      string(row.Tier),
			Value:     row.Count,
			ItemStyle: tierColor(row.Tier),
		})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Risk Distribution",
			Subtitle: fmt.Sprintf("%d factors", len(report.RiskFactors)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	pie.AddSeries("Risk tiers", data).
		SetSeriesOptions(
			charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c} ({d}%)"}),
		)
	return pie
}

// RiskFactorBars is a horizontal bar per panel factor, its length the
// ordinal of the factor's status.
func RiskFactorBars(report *medicalreport.NormalizedReport) *charts.Bar {
	labels := make([]string, 0, len(report.RiskFactors))
	data := make([]opts.BarData, 0, len(report.RiskFactors))
	for _, f := range report.RiskFactors {
		labels = append(labels, f.Label)
		data = append(data, opts.BarData{
			Name:      string(f.Status),
			Value:     riskScore[f.Status],
			ItemStyle: tierColor(f.Status),
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Cardiovascular & Stroke Risk Factors"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Risk", Min: 0, Max: riskScore[medicalreport.RiskAt]}),
	)
	bar.SetXAxis(labels).
		AddSeries("Status", data).
		XYReversal()
	return bar
}

// RenderRiskPage writes an HTML page holding both risk charts.
func RenderRiskPage(w io.Writer, report *medicalreport.NormalizedReport) error {
	return RenderRiskPageWithAssets(w, report, DefaultAssetsHost)
}

// RenderRiskPageWithAssets is RenderRiskPage with a custom script host.
func RenderRiskPageWithAssets(w io.Writer, report *medicalreport.NormalizedReport, assetsHost string) error {
	if report == nil {
		return fmt.Errorf("report is required")
	}
	page := components.NewPage()
	page.PageTitle = pageTitle(report)
	page.AssetsHost = assetsHost
	initOpts := charts.WithInitializationOpts(opts.Initialization{AssetsHost: assetsHost})
	pie := RiskDistributionChart(report)
	pie.SetGlobalOptions(initOpts)
	bar := RiskFactorBars(report)
	bar.SetGlobalOptions(initOpts)
	page.AddCharts(pie, bar)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render risk charts: %w", err)
	}
	return nil
}

func pageTitle(report *medicalreport.NormalizedReport) string {
	if name := report.PersonalDetails.Fields.Get("name"); !name.IsBlank() {
		return "Risk Profile: " + name.String()
	}
	return "Risk Profile"
}
