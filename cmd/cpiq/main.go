package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cpiq/internal/config"
	"cpiq/internal/logging"
	"cpiq/internal/query"
	"cpiq/internal/series"
	"cpiq/internal/store/sqlite"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "inflate":
		runInflate(os.Args[2:])
	case "get":
		runGet(os.Args[2:])
	case "series":
		runSeries(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cpiq <command> [options]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  inflate VALUE DATE_OR_YEAR   adjust a dollar value for inflation")
	fmt.Fprintln(os.Stderr, "  get DATE_OR_YEAR             print the index value for a year or month")
	fmt.Fprintln(os.Stderr, "  series                       list the available series")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "common options:")
	fmt.Fprintln(os.Stderr, "  -config      path to a YAML config file")
	fmt.Fprintln(os.Stderr, "  -db          sqlite dataset path (default: cpi.db)")
	fmt.Fprintln(os.Stderr, "  -series_id   series used for the query (default: CPI-U all items)")
	fmt.Fprintln(os.Stderr, "  -to          year or month to adjust the value to (inflate only)")
}

func runInflate(args []string) {
	fs := flag.NewFlagSet("inflate", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	dbPath := fs.String("db", "", "sqlite dataset path")
	seriesID := fs.String("series_id", "", "series used for the conversion")
	to := fs.String("to", "", "year or month to adjust the value to")
	fs.Parse(reorderArgs(args))

	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: cpiq inflate VALUE DATE_OR_YEAR [-to DATE_OR_YEAR] [-series_id ID]")
		os.Exit(2)
	}

	value, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil {
		fail(fmt.Errorf("value must be a number: %q", fs.Arg(0)))
	}
	key, err := query.ParseTimeKey(fs.Arg(1))
	if err != nil {
		fail(err)
	}
	var target query.TimeKey
	if *to != "" {
		target, err = query.ParseTimeKey(*to)
		if err != nil {
			fail(err)
		}
	}

	engine, sel, cleanup, err := setup(*configPath, *dbPath, *seriesID)
	if err != nil {
		fail(err)
	}
	defer cleanup()

	result, err := engine.Inflate(context.Background(), value, key, target, sel)
	if err != nil {
		fail(err)
	}
	fmt.Println(strconv.FormatFloat(result, 'f', -1, 64))
}

func runGet(args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	dbPath := fs.String("db", "", "sqlite dataset path")
	seriesID := fs.String("series_id", "", "series used for the query")
	fs.Parse(reorderArgs(args))

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cpiq get DATE_OR_YEAR [-series_id ID]")
		os.Exit(2)
	}

	key, err := query.ParseTimeKey(fs.Arg(0))
	if err != nil {
		fail(err)
	}

	engine, sel, cleanup, err := setup(*configPath, *dbPath, *seriesID)
	if err != nil {
		fail(err)
	}
	defer cleanup()

	result, err := engine.Get(context.Background(), key, sel)
	if err != nil {
		fail(err)
	}
	fmt.Println(strconv.FormatFloat(result, 'f', -1, 64))
}

func runSeries(args []string) {
	fs := flag.NewFlagSet("series", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	dbPath := fs.String("db", "", "sqlite dataset path")
	fs.Parse(reorderArgs(args))

	cfg, err := loadConfig(*configPath, *dbPath)
	if err != nil {
		fail(err)
	}
	logging.Init(logging.ParseLevel(cfg.Log.Level), cfg.Log.JSON)

	st, err := sqlite.New(cfg.DBPath)
	if err != nil {
		fail(err)
	}
	defer st.Close()

	registry, err := series.NewRegistry(context.Background(), st, logging.Component("series"))
	if err != nil {
		fail(err)
	}
	all, err := registry.All(context.Background())
	if err != nil {
		fail(err)
	}
	for _, s := range all {
		fmt.Printf("%s\t%s\n", s.ID, s.Title)
	}
}

func loadConfig(configPath, dbPath string) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func setup(configPath, dbPath, seriesID string) (*query.Engine, query.Selector, func(), error) {
	cfg, err := loadConfig(configPath, dbPath)
	if err != nil {
		return nil, query.Selector{}, nil, err
	}
	logging.Init(logging.ParseLevel(cfg.Log.Level), cfg.Log.JSON)

	st, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, query.Selector{}, nil, err
	}

	registry, err := series.NewRegistry(context.Background(), st, logging.Component("series"))
	if err != nil {
		_ = st.Close()
		return nil, query.Selector{}, nil, err
	}

	engine := query.New(registry, query.Config{
		AnnualMaxAge:  time24h(cfg.Staleness.AnnualMaxAgeDays),
		MonthlyMaxAge: time24h(cfg.Staleness.MonthlyMaxAgeDays),
		Logger:        logging.Component("query"),
	})

	if seriesID == "" {
		seriesID = cfg.DefaultSeries
	}
	sel := query.Selector{SeriesID: seriesID}

	return engine, sel, func() { _ = st.Close() }, nil
}

// reorderArgs moves flags ahead of positional arguments so options
// may follow the value and date, as documented. Every flag here takes
// a value.
func reorderArgs(args []string) []string {
	flags := make([]string, 0, len(args))
	positionals := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			flags = append(flags, args[i])
			if !strings.Contains(args[i], "=") && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
			continue
		}
		positionals = append(positionals, args[i])
	}
	return append(flags, positionals...)
}

func time24h(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "cpiq:", err)
	os.Exit(1)
}
