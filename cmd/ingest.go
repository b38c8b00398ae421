// Copyright © 2025 Microsoft <wastore@microsoft.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/Olaffson/data-lake-2/common"
	"github.com/Olaffson/data-lake-2/ingest"
	"github.com/Olaffson/data-lake-2/telemetry"
	"github.com/Olaffson/data-lake-2/traverser"
)

// raw flag values, before any validation
type rawIngestCmdArgs struct {
	source      string
	url         string
	destination string
	page        string
	keyword     string
	parallelism int
	logLevel    string
	metricsFile string
	dryRun      bool
}

type cookedIngestCmdArgs struct {
	source      common.SourceKind
	url         string
	destination string
	page        string
	keyword     string

	// zero means: take DATALAKE_PARALLELISM
	parallelism int
	logLevel    common.LogLevel
	metricsFile string
	dryRun      bool
}

func (raw rawIngestCmdArgs) cook() (cookedIngestCmdArgs, error) {
	cooked := cookedIngestCmdArgs{
		url:         raw.url,
		destination: raw.destination,
		page:        raw.page,
		keyword:     raw.keyword,
		parallelism: raw.parallelism,
		metricsFile: raw.metricsFile,
		dryRun:      raw.dryRun,
	}

	if err := cooked.source.Parse(raw.source); err != nil {
		return cooked, fmt.Errorf("invalid --source %q: must be static or discovery", raw.source)
	}

	switch cooked.source {
	case common.ESourceKind.Static():
		if raw.page != "" || raw.keyword != "" {
			return cooked, errors.New("--page and --keyword only apply to --source=discovery")
		}
		if raw.url == "" {
			if raw.destination != "" {
				return cooked, errors.New("--destination requires --url")
			}
			cooked.url = common.DefaultStaticSourceURL
			cooked.destination = common.DefaultStaticDestination
		}
		if cooked.destination == "" {
			cooked.destination = common.DestinationFromURL(cooked.url)
		}
		if cooked.destination == "" {
			return cooked, fmt.Errorf("cannot derive a blob name from %s; use --destination", raw.url)
		}
	case common.ESourceKind.Discovery():
		if raw.url != "" || raw.destination != "" {
			return cooked, errors.New("--url and --destination only apply to --source=static")
		}
		if cooked.page == "" {
			cooked.page = common.DefaultDiscoveryPageURL
		}
		if cooked.keyword == "" {
			cooked.keyword = common.DefaultDiscoveryKeyword
		}
	}

	if raw.parallelism < 0 {
		return cooked, fmt.Errorf("--parallelism must be at least 1, got %d", raw.parallelism)
	}

	logLevel := raw.logLevel
	if logLevel == "" {
		logLevel = common.GetEnvironmentVariable(common.EEnvironmentVariable.LogLevel())
	}
	if err := cooked.logLevel.Parse(logLevel); err != nil {
		return cooked, fmt.Errorf("invalid log level %q", logLevel)
	}

	if cooked.metricsFile == "" {
		cooked.metricsFile = common.GetEnvironmentVariable(common.EEnvironmentVariable.MetricsFile())
	}
	return cooked, nil
}

func (cooked cookedIngestCmdArgs) locator(httpClient *http.Client, observer common.Observer) traverser.Locator {
	if cooked.source == common.ESourceKind.Discovery() {
		return traverser.NewHTMLLocator(cooked.page, cooked.keyword, httpClient, observer)
	}
	return traverser.NewStaticURLLocator(cooked.url, cooked.destination)
}

// process runs the pipeline and reports it. Only a setup failure is returned as an error.
func (cooked cookedIngestCmdArgs) process(ctx context.Context, stdout io.Writer, logSink zapcore.WriteSyncer) error {
	runID := common.NewRunID()
	logger := common.NewRunLogger(runID, cooked.logLevel, outputFormat, logSink)
	defer logger.CloseLog()

	shutdown, err := telemetry.InitTracing(ctx, common.GetEnvironmentVariable(common.EEnvironmentVariable.OtlpEndpoint()))
	if err != nil {
		logger.Log(common.ELogLevel.Warning(), "Tracing disabled: "+err.Error())
	} else {
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(flushCtx)
		}()
	}

	metrics := telemetry.NewMetrics()
	observer := common.MultiObserver{ingest.NewLogObserver(logger), metrics}

	cfg, err := ingest.ConfigFromEnvironment()
	if err != nil {
		return err
	}
	if cooked.parallelism > 0 {
		cfg.Parallelism = cooked.parallelism
	}
	cfg.DryRun = cooked.dryRun

	httpClient := common.NewHTTPClient(cfg.HTTPTimeout)
	p := ingest.NewPipeline(cfg, cooked.locator(httpClient, observer), httpClient, observer)
	p.RunID = runID

	summary, err := p.Run(ctx)
	if summary != nil {
		metrics.ObserveResults(summary.Results)
	}
	if cooked.metricsFile != "" {
		if werr := metrics.WriteToTextfile(cooked.metricsFile); werr != nil {
			logger.Log(common.ELogLevel.Warning(), "Could not write metrics: "+werr.Error())
		}
	}
	if err != nil {
		return err
	}

	return printSummary(stdout, summary)
}

func printSummary(w io.Writer, summary *ingest.Summary) error {
	if outputFormat == common.EOutputFormat.Json() {
		b, err := json.Marshal(summary)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	sanitizer := common.NewIngestLogSanitizer()
	for _, r := range summary.Results {
		line := fmt.Sprintf("%-14s %s", r.Status, r.Item.String())
		if r.StatusCode != 0 && !r.Succeeded() {
			line += fmt.Sprintf(" (HTTP %d)", r.StatusCode)
		}
		if r.Err != nil {
			line += ": " + r.Err.Error()
		}
		_, _ = fmt.Fprintln(w, sanitizer.SanitizeLogMessage(line))
	}
	_, err := fmt.Fprintln(w, "\nRun "+summary.RunID.String()+": "+summary.String())
	return err
}

var rawIngestArgs rawIngestCmdArgs

var ingestCmd = &cobra.Command{
	Use:     "ingest",
	Short:   ingestCmdShortDescription,
	Long:    ingestCmdLongDescription,
	Example: ingestCmdExample,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cooked, err := rawIngestArgs.cook()
		if err != nil {
			return err
		}
		// from here on a failure is not a usage problem
		cmd.SilenceUsage = true

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cooked.process(ctx, cmd.OutOrStdout(), zapcore.Lock(os.Stderr))
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&rawIngestArgs.source, "source", "static", "How files are found: 'static' copies --url, 'discovery' copies every link of --page containing --keyword.")
	ingestCmd.Flags().StringVar(&rawIngestArgs.url, "url", "", "URL of the file to copy with --source=static. Defaults to one parquet shard of the Marqo amazon products dataset.")
	ingestCmd.Flags().StringVar(&rawIngestArgs.destination, "destination", "", "Blob name for --url. Defaults to the last segment of the URL path.")
	ingestCmd.Flags().StringVar(&rawIngestArgs.page, "page", "", "Page scanned with --source=discovery. Defaults to "+common.DefaultDiscoveryPageURL+".")
	ingestCmd.Flags().StringVar(&rawIngestArgs.keyword, "keyword", "", "Case-insensitive text a link must contain with --source=discovery. Defaults to '"+common.DefaultDiscoveryKeyword+"'.")
	ingestCmd.Flags().IntVar(&rawIngestArgs.parallelism, "parallelism", 0, "Files transferred at the same time. Overrides DATALAKE_PARALLELISM.")
	ingestCmd.Flags().StringVar(&rawIngestArgs.logLevel, "log-level", "", "Minimum log level: none, error, warning, info or debug. Overrides DATALAKE_LOG_LEVEL.")
	ingestCmd.Flags().StringVar(&rawIngestArgs.metricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file. Overrides DATALAKE_METRICS_FILE.")
	ingestCmd.Flags().BoolVar(&rawIngestArgs.dryRun, "dry-run", false, "Resolve credentials, issue the SAS token and list the files, but copy nothing.")
}
