package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/chrissnell/climatequery/internal/app"
	"github.com/chrissnell/climatequery/internal/log"
	"github.com/chrissnell/climatequery/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

// options holds the command-line flags. Flags that were not given on the
// command line leave the loaded configuration untouched.
type options struct {
	cfgFile     string
	dbPath      string
	listen      string
	debug       bool
	strictDates bool
	showVersion bool
	set         map[string]bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	if opts.showVersion {
		fmt.Printf("climatequery %s\n", version)
		os.Exit(0)
	}

	cfgData, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logging
	if err := log.Init(cfgData.Logging); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Create and run the application
	application := app.New(cfgData, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		log.Sync()
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	opts := &options{set: map[string]bool{}}

	fs := flag.NewFlagSet("climatequery", flag.ContinueOnError)
	fs.StringVar(&opts.cfgFile, "config", "", "Path to an optional YAML configuration file")
	fs.StringVar(&opts.dbPath, "db", "", "Path to the climate dataset (default "+config.DefaultDBPath+")")
	fs.StringVar(&opts.listen, "listen", "", "Address to listen on, as host:port")
	fs.BoolVar(&opts.debug, "debug", false, "Turn on debugging output, including SQL statements")
	fs.BoolVar(&opts.strictDates, "strict-dates", false, "Reject start/end dates that are not valid yyyy-mm-dd dates")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	return opts, nil
}

// loadConfig layers defaults, the optional YAML file, the environment and
// finally the command-line flags, then validates the result.
func loadConfig(opts *options) (*config.ConfigData, error) {
	var provider config.ConfigProvider = config.NewDefaultProvider()
	if opts.cfgFile != "" {
		filename, _ := filepath.Abs(opts.cfgFile)
		provider = config.NewYAMLProvider(filename)
	}

	cfgData, err := config.NewEnvProvider(provider).LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error reading configuration. Run with -h for help: %w", err)
	}

	if err := applyFlags(cfgData, opts); err != nil {
		return nil, err
	}

	if err := cfgData.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfgData, nil
}

func applyFlags(cfgData *config.ConfigData, opts *options) error {
	if opts.set["db"] {
		cfgData.Database.Path = opts.dbPath
	}
	if opts.set["debug"] {
		cfgData.Logging.Debug = opts.debug
	}
	if opts.set["strict-dates"] {
		cfgData.Query.StrictDates = opts.strictDates
	}

	if opts.set["listen"] {
		host, port, err := net.SplitHostPort(opts.listen)
		if err != nil {
			return fmt.Errorf("invalid -listen address %q: %w", opts.listen, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid -listen port %q: %w", port, err)
		}
		if host != "" {
			cfgData.Server.ListenAddr = host
		}
		cfgData.Server.HTTPPort = p
	}

	return nil
}
