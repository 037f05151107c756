package main

import (
	"github.com/jessevdk/go-flags"

	"github.com/j-veylop/artillery-report-tui/internal/config"
	"github.com/j-veylop/artillery-report-tui/internal/version"
)

// Options defines the command line options.
type Options struct {
	Watch    bool   `short:"w" long:"watch" description:"reload the report when the file changes"`
	Database string `long:"db" description:"path of the recent reports database" value-name:"PATH"`
	LogPath  string `long:"log" description:"write logs to this file" value-name:"PATH"`
	Version  bool   `short:"v" long:"version" description:"display the version and exit"`

	Args struct {
		Report string `positional-arg-name:"report.json" description:"Artillery JSON report to open"`
	} `positional-args:"yes"`
}

// parseOptions parses the command line arguments, without the program name.
func parseOptions(args []string) (*Options, error) {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.Default)
	parser.Name = version.Name
	parser.Usage = "[OPTIONS] [report.json]"
	parser.LongDescription = "Browse the metrics of an Artillery load test report in the terminal.\n\n" +
		"Environment: DATABASE_PATH, REPORT_PATH, WATCH_REPORT, RELOAD_DEBOUNCE, CHART_HEIGHT,\n" +
		"NOTIFY_ON_RELOAD, LOG_LEVEL and LOG_PATH, also read from .env files."

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// isHelp reports whether err is the result of printing the help text.
func isHelp(err error) bool {
	return flags.WroteHelp(err)
}

// apply overrides the loaded configuration with the flags that were given.
func (o *Options) apply(cfg *config.Config) {
	if o.Watch {
		cfg.WatchReport = true
	}
	if o.Database != "" {
		cfg.DatabasePath = o.Database
	}
	if o.LogPath != "" {
		cfg.LogPath = o.LogPath
	}
	if o.Args.Report != "" {
		cfg.ReportPath = o.Args.Report
	}
}
