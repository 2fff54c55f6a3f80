// Package commands implements the snapshot CLI: it reads the feed once
// and prints the normalized summaries as a table.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/okian/vaxtrack/internal/adapters/feed"
	"github.com/okian/vaxtrack/internal/domain/model"
	"github.com/okian/vaxtrack/internal/domain/normalize"
	"github.com/okian/vaxtrack/internal/domain/selection"
)

// Options are the parsed command line flags.
type Options struct {
	Metric   string
	URL      string
	Locale   string
	Limit    int
	Location string
	Timeout  time.Duration
	Retries  int
}

var opts Options

var rootCmd = &cobra.Command{
	Use:           "snapshot",
	Short:         "snapshot prints the latest vaccination totals per location.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return Run(cmd.Context(), opts, cmd.OutOrStdout())
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&opts.Metric, "metric", string(model.MetricTotalVaccinations), "metric column: total_vaccinations or people_vaccinated")
	flags.StringVar(&opts.URL, "url", feed.DefaultURL, "feed URL")
	flags.StringVar(&opts.Locale, "locale", "en", "BCP 47 locale used to group digits")
	flags.IntVar(&opts.Limit, "limit", 0, "print at most this many rows (0 prints all)")
	flags.StringVar(&opts.Location, "location", "", "print only this location")
	flags.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "feed request timeout")
	flags.IntVar(&opts.Retries, "retries", 2, "extra attempts on transport errors and 5xx responses")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Run fetches and normalizes the feed once and writes the result to out.
func Run(ctx context.Context, o Options, out io.Writer) error {
	metric, err := model.ParseMetric(o.Metric)
	if err != nil {
		return err
	}
	tag, err := language.Parse(o.Locale)
	if err != nil {
		return fmt.Errorf("locale %q: %w", o.Locale, err)
	}
	if o.Limit < 0 {
		return errors.New("limit must not be negative")
	}

	client := feed.New(
		feed.WithURL(o.URL),
		feed.WithTimeout(o.Timeout),
		feed.WithRetries(o.Retries),
		feed.WithMetric(metric),
	)
	snap, err := normalize.New(
		normalize.WithSource(client),
		normalize.WithMetric(metric),
		normalize.WithLocale(tag),
	).Run(ctx)
	if err != nil {
		return err
	}

	if o.Location != "" {
		return printLocation(out, snap, o.Location)
	}
	printTable(out, snap, o.Limit)
	return nil
}

func printLocation(out io.Writer, snap model.Snapshot, location string) error {
	c := selection.NewController(snap.Summaries)
	if err := c.Validate(location); err != nil {
		_, err := fmt.Fprintf(out, "no data for %s\n", location)
		return err
	}
	c.OnExternalLocationChange(location)
	cur, _ := c.Current()
	_, err := fmt.Fprintf(out, "%s %s %s\n", cur.MetricDisplay, snap.Metric.Label(), c.View().Heading)
	return err
}

func printTable(out io.Writer, snap model.Snapshot, limit int) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	t.SetTitle(snap.Metric.Label())
	t.AppendHeader(table.Row{"#", "Location", "Value"})

	rows := snap.Summaries
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	for i, s := range rows {
		t.AppendRow(table.Row{i + 1, s.Location, s.MetricDisplay})
	}
	t.AppendFooter(table.Row{"", "locations", snap.Len()})
	t.Render()
}
