package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/Cloudsky01/storeadmin/internal/format"
	"github.com/Cloudsky01/storeadmin/pkg/models"
)

const chartHeight = "360px"

func globalOptions(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "100%",
			Height: chartHeight,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
}

// SensorLines builds one line chart per metric group
func SensorLines(title string, readings []models.SensorReading) []*charts.Line {
	dates := make([]string, len(readings))
	for i, r := range readings {
		dates[i] = r.Date
	}

	var out []*charts.Line
	for _, group := range Groups() {
		line := charts.NewLine()
		line.SetGlobalOptions(globalOptions(title, group)...)
		line.SetXAxis(dates)
		for _, m := range Metrics {
			if m.Group != group {
				continue
			}
			line.AddSeries(m.Label, toLineData(m.Series(readings)))
		}
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		out = append(out, line)
	}
	return out
}

// RenderSensors writes an HTML page with the sensor charts
func RenderSensors(w io.Writer, sensorID string, readings []models.SensorReading) error {
	if len(readings) == 0 {
		return fmt.Errorf("no sensor readings to chart")
	}
	title := "Cảm biến"
	if sensorID != "" {
		title = "Cảm biến #" + sensorID
	}

	page := components.NewPage()
	page.PageTitle = title
	for _, line := range SensorLines(title, readings) {
		page.AddCharts(line)
	}
	return page.Render(w)
}

// OrderStatusPie charts the order count per status
func OrderStatusPie(stats models.OrderStatistics) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOptions("Đơn hàng", "Tổng: "+format.Number(stats.TotalOrders))...)
	pie.AddSeries("Trạng thái", []opts.PieData{
		{Name: format.OrderStatus(models.OrderPending), Value: stats.PendingCount},
		{Name: format.OrderStatus(models.OrderShipping), Value: stats.ShippingCount},
		{Name: format.OrderStatus(models.OrderDelivered), Value: stats.DeliveredCount},
		{Name: format.OrderStatus(models.OrderCancelled), Value: stats.CancelledCount},
	})
	return pie
}

// RenderOrders writes an HTML page with the order status breakdown
func RenderOrders(w io.Writer, stats models.OrderStatistics) error {
	page := components.NewPage()
	page.PageTitle = "Đơn hàng"
	page.AddCharts(OrderStatusPie(stats))
	return page.Render(w)
}

// WriteFile renders into path, creating parent directories
func WriteFile(path string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return f.Close()
}

func toLineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	return data
}
