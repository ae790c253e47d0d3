package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/config"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/dataprocessing"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/files"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/infrastructure"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/middleware"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/services"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/validation"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

// Flag names double as viper keys and, upper-cased with dashes replaced,
// as STOCKDASH_* environment variables.
const (
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagNoColor   = "no-color"
	flagStart     = "start"
	flagEnd       = "end"
	flagStartRow  = "start-row"
	flagEndRow    = "end-row"
	flagColumns   = "columns"
	flagFormat    = "format"
	flagOut       = "out"
	flagKind      = "kind"
	flagMAWindow  = "ma-window"
	flagBBWindow  = "bollinger-window"
	flagBBStdDev  = "bollinger-std-dev"
	flagScatterY  = "scatter-y"
	flagWordWrap  = "word-wrap"
	flagShowTable = "show-table"
)

// cli carries the state shared by the subcommands
type cli struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer

	cfg       *config.Config
	logger    *slog.Logger
	files     *validation.FileValidator
	discovery *files.Discovery
	service   *services.DashboardService
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:          "stockdash",
		Short:        "Stock price dashboard on the command line",
		Long:         "stockdash reads a CSV or XLSX file with date, open, high, low, close and volume columns and prints KPIs, chart descriptions or a filtered export.",
		Version:      config.AppVersion,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.String(flagConfig, "", "path to a config.yaml (defaults to the usual locations)")
	pf.String(flagLogLevel, "warn", "log level written to stderr: debug, info, warn, error")
	pf.Bool(flagNoColor, false, "disable colours")

	root.AddCommand(c.kpisCmd(), c.exportCmd(), c.chartCmd())
	return root
}

// addFilterFlags registers the date, row and column filters
func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String(flagStart, "", "first date to include, YYYY-MM-DD (default: earliest date)")
	f.String(flagEnd, "", "last date to include, YYYY-MM-DD (default: latest date)")
	f.Int(flagStartRow, 0, "first row of the date-filtered table, 0-based")
	f.Int(flagEndRow, 0, "row after the last one to include (default: all rows)")
	f.StringSlice(flagColumns, nil, "columns to keep, comma separated (default: the required columns)")
}

// setup binds the command's flags to viper and builds the stateless
// dashboard service.
func (c *cli) setup(cmd *cobra.Command) error {
	c.v.SetEnvPrefix(config.EnvPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	if err := c.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	var err error
	if path := c.v.GetString(flagConfig); path != "" {
		c.cfg, err = config.LoadFile(path)
	} else {
		c.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	c.logger = infrastructure.NewLogger(c.errOut, c.v.GetString(flagLogLevel)).
		With(slog.String("command", cmd.Name()))
	c.files = validation.NewFileValidator(c.logger, c.cfg.Upload.MaxBytes, c.cfg.Upload.Extensions)
	c.discovery = files.NewDiscovery(c.cfg.Upload.Extensions)
	c.service = services.NewDashboardService(nil, c.files, middleware.NewValidator(), c.cfg.Dashboard, nil, c.logger)
	return nil
}

// loadTable validates, opens and parses the price file at path. A directory
// resolves to its newest price file; the returned name is the file loaded.
func (c *cli) loadTable(ctx context.Context, path string) (*dataprocessing.Table, string, error) {
	path, err := c.discovery.Resolve(path)
	if err != nil {
		return nil, "", err
	}
	if _, err := c.files.ValidateFile(path); err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	table, _, err := c.service.LoadTable(ctx, name, f)
	if err != nil {
		return nil, "", fmt.Errorf("load %s: %w", path, err)
	}
	c.logger.Debug("price file loaded",
		slog.String("path", path),
		slog.Int("rows", table.Len()))
	return table, name, nil
}

// dashboardConfig reads the filter flags
func (c *cli) dashboardConfig() domain.DashboardConfig {
	cfg := domain.DashboardConfig{
		StartDate: c.v.GetString(flagStart),
		EndDate:   c.v.GetString(flagEnd),
		Columns:   splitList(c.v.GetStringSlice(flagColumns)),
	}
	if c.v.IsSet(flagStartRow) {
		n := c.v.GetInt(flagStartRow)
		cfg.StartRow = &n
	}
	if c.v.IsSet(flagEndRow) {
		n := c.v.GetInt(flagEndRow)
		cfg.EndRow = &n
	}
	return cfg
}

// color reports whether output may be coloured
func (c *cli) color() bool {
	if c.v.GetBool(flagNoColor) {
		return false
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	return !noColor
}

func (c *cli) warn(messages ...string) {
	for _, m := range messages {
		fmt.Fprintln(c.errOut, "warning:", m)
	}
}

// splitList flattens comma and whitespace separated values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}) {
			out = append(out, part)
		}
	}
	return out
}
