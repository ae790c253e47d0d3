package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/exporter"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/report"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

func (c *cli) kpisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kpis <file>",
		Short: "Print the key performance indicators of a price file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(cmd); err != nil {
				return err
			}
			format, err := report.ParseFormat(c.v.GetString(flagFormat))
			if err != nil {
				return err
			}

			table, source, err := c.loadTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cfg := c.dashboardConfig()
			cfg.ShowTable = c.v.GetBool(flagShowTable)
			d, err := c.service.Build(cmd.Context(), table, cfg)
			if err != nil {
				return err
			}

			w := report.NewWriter(report.Options{Color: c.color(), WordWrap: c.v.GetInt(flagWordWrap)})
			return w.Write(c.out, format, report.Report{Source: source, Dashboard: d})
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().StringP(flagFormat, "f", string(report.FormatTable), "output format: "+strings.Join(report.Formats(), ", "))
	cmd.Flags().Int(flagWordWrap, 80, "markdown wrap width")
	cmd.Flags().Bool(flagShowTable, false, "include the filtered rows in JSON output")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the filtered table to a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(cmd); err != nil {
				return err
			}
			out := c.v.GetString(flagOut)
			if out == "" {
				return errors.New("--out is required")
			}
			if _, err := exporter.ParseFormat(filepath.Ext(out)); err != nil {
				return err
			}

			table, _, err := c.loadTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			sel, err := c.service.Select(table, c.dashboardConfig())
			if err != nil {
				return err
			}
			c.warn(sel.Warnings...)

			if err := exporter.WriteFile(out, sel.Table); err != nil {
				return fmt.Errorf("export %s: %w", out, err)
			}
			c.logger.Info("export written",
				slog.String("path", out),
				slog.Int("rows", sel.Table.Len()),
				slog.Int("columns", len(sel.Table.Columns())))
			fmt.Fprintf(c.out, "Wrote %d rows to %s\n", sel.Table.Len(), out)
			return nil
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().StringP(flagOut, "o", "", "output file, .csv or .xlsx")
	return cmd
}

func (c *cli) chartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart <file>",
		Short: "Print the Plotly description of one chart as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(cmd); err != nil {
				return err
			}
			kind := domain.ChartKind(c.v.GetString(flagKind))
			if !kind.Valid() {
				return fmt.Errorf("unknown chart kind %q (want one of %s)", kind, chartKindList())
			}

			table, _, err := c.loadTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cfg := c.dashboardConfig()
			cfg.Charts = []domain.ChartKind{kind}
			cfg.Params = domain.ChartParams{
				MovingAverageWindow: c.v.GetInt(flagMAWindow),
				BollingerWindow:     c.v.GetInt(flagBBWindow),
				BollingerStdDev:     c.v.GetFloat64(flagBBStdDev),
				ScatterY:            c.v.GetString(flagScatterY),
			}
			d, err := c.service.Build(cmd.Context(), table, cfg)
			if err != nil {
				return err
			}
			c.warn(d.Warnings...)

			if len(d.ChartErrors) > 0 {
				return fmt.Errorf("chart %s: %s", kind, d.ChartErrors[0].Message)
			}
			return report.WriteJSON(c.out, d.Charts[0])
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().StringP(flagKind, "k", string(domain.ChartLine), "chart kind: "+chartKindList())
	cmd.Flags().Int(flagMAWindow, 0, "moving average window (default from config)")
	cmd.Flags().Int(flagBBWindow, 0, "Bollinger band window (default from config)")
	cmd.Flags().Float64(flagBBStdDev, 0, "Bollinger band width in standard deviations (default from config)")
	cmd.Flags().String(flagScatterY, "", "y column of the scatter chart (default close)")
	return cmd
}

func chartKindList() string {
	kinds := domain.ChartKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
