package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Cloudsky01/storeadmin/internal/api"
	"github.com/Cloudsky01/storeadmin/internal/chart"
	"github.com/Cloudsky01/storeadmin/internal/config"
	"github.com/Cloudsky01/storeadmin/internal/paths"
)

const chartDateLayout = "2006-01-02"

var (
	chartSensor int
	chartStart  string
	chartEnd    string
	chartOrders bool
	chartOutput string

	chartCmd = &cobra.Command{
		Use:   "chart",
		Short: "Export an HTML chart",
		Long: `Export the sensor history of one sensor, or with --orders the order
status breakdown, as a standalone HTML page.

Without --start and --end the last 30 days are charted.`,
		RunE: runChart,
	}
)

func init() {
	chartCmd.Flags().IntVar(&chartSensor, "sensor", 1, "Sensor id")
	chartCmd.Flags().StringVar(&chartStart, "start", "", "First day (YYYY-MM-DD)")
	chartCmd.Flags().StringVar(&chartEnd, "end", "", "Last day (YYYY-MM-DD)")
	chartCmd.Flags().BoolVar(&chartOrders, "orders", false, "Chart order statuses instead of a sensor")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "Output file (default: cache directory)")

	rootCmd.AddCommand(chartCmd)
}

// sensorWindow fills in the default 30 day window ending at now
func sensorWindow(start, end string, now time.Time) (string, string, error) {
	if end == "" {
		end = now.Format(chartDateLayout)
	}
	last, err := time.Parse(chartDateLayout, end)
	if err != nil {
		return "", "", fmt.Errorf("invalid --end %q, expected YYYY-MM-DD", end)
	}
	if start == "" {
		start = last.AddDate(0, 0, -29).Format(chartDateLayout)
	}
	first, err := time.Parse(chartDateLayout, start)
	if err != nil {
		return "", "", fmt.Errorf("invalid --start %q, expected YYYY-MM-DD", start)
	}
	if first.After(last) {
		return "", "", fmt.Errorf("--start %s is after --end %s", start, end)
	}
	return start, end, nil
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, p, err := runtimeConfig(cmd)
	if err != nil {
		return err
	}
	client, err := newClient(cfg, zap.NewNop())
	if err != nil {
		return fmt.Errorf("invalid backend URL: %w", err)
	}

	path, err := exportChart(cmd.Context(), client, cfg, p, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Chart written to "+path)
	return nil
}

func exportChart(ctx context.Context, client *api.Client, cfg *config.Config, p *paths.Paths, now time.Time) (string, error) {
	if cfg.API.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.API.Timeout)
		defer cancel()
	}

	if chartOrders {
		stats, err := client.OrderStatistics(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to load order statistics: %s", api.Message(err))
		}
		path := outputPath(p, "orders.html")
		return path, chart.WriteFile(path, func(w io.Writer) error {
			return chart.RenderOrders(w, stats)
		})
	}

	if chartSensor <= 0 {
		return "", fmt.Errorf("invalid --sensor %d", chartSensor)
	}
	start, end, err := sensorWindow(chartStart, chartEnd, now)
	if err != nil {
		return "", err
	}

	id := strconv.Itoa(chartSensor)
	readings, err := client.SensorHistory(ctx, api.Query{Filters: map[string]string{
		"sensorId": id,
		"start":    start,
		"end":      end,
	}})
	if err != nil {
		return "", fmt.Errorf("failed to load sensor history: %s", api.Message(err))
	}

	path := outputPath(p, "sensor-"+id+".html")
	return path, chart.WriteFile(path, func(w io.Writer) error {
		return chart.RenderSensors(w, id, readings)
	})
}

func outputPath(p *paths.Paths, name string) string {
	if chartOutput != "" {
		return chartOutput
	}
	return p.ChartFile(name)
}
