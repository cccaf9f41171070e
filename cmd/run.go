package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/iroquiz/internal/app"
	"github.com/abhisek/iroquiz/internal/config"
	"github.com/abhisek/iroquiz/internal/dataset"
	"github.com/abhisek/iroquiz/internal/logger"
	"github.com/abhisek/iroquiz/internal/screens/datasets"
	"github.com/abhisek/iroquiz/internal/store"
)

// env holds the collaborators shared by the TUI and the subcommands.
type env struct {
	cfg      config.Config
	store    *store.Store
	loader   *dataset.Loader
	closeLog func() error
}

// setup resolves config, starts file logging, opens the dataset library and
// builds the loader. Logging failures are reported but not fatal.
func setup(cmd *cobra.Command) (*env, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	debug, _ := cmd.Flags().GetBool("debug")
	closeLog, err := logger.Setup(logger.Config{Dir: cfg.Log.Dir, Debug: debug || cfg.Log.Debug})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
		closeLog = func() error { return nil }
	}

	dbFlag, _ := cmd.Flags().GetString("db")
	dbPath, err := cfg.DBPath(dbFlag)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open store: %w", err)
	}

	httpCfg := dataset.DefaultHTTPConfig()
	httpCfg.Timeout = cfg.HTTPTimeout()
	web := dataset.NewHTTPFetcher(dataset.NewHTTPClient(httpCfg))

	loader := dataset.NewLoader(
		dataset.WithFetcher(dataset.SchemeHTTP, web),
		dataset.WithFetcher(dataset.SchemeHTTPS, web),
		dataset.WithFetcher(dataset.SchemeDB, st),
		dataset.WithCacheTTL(cfg.CacheTTL()),
		dataset.WithFetchTimeout(cfg.HTTPTimeout()),
		dataset.WithLogger(logger.L()),
	)

	logger.L().Info("iroquiz.start",
		"config", cfg.Path,
		"db", dbPath,
		"version", version,
	)
	return &env{cfg: cfg, store: st, loader: loader, closeLog: closeLog}, nil
}

func (e *env) Close() error {
	err := e.store.Close()
	if cerr := e.closeLog(); err == nil {
		err = cerr
	}
	return err
}

// catalog merges the configured datasets with the library contents.
func (e *env) catalog(ctx context.Context) ([]datasets.Entry, error) {
	refs := e.cfg.Catalog()
	entries := make([]datasets.Entry, 0, len(refs))
	for _, d := range refs {
		entries = append(entries, datasets.Entry{Label: d.Label, Source: d.Source, Detail: d.Source})
	}

	infos, err := e.store.ListDatasets(ctx)
	if err != nil {
		return entries, fmt.Errorf("list library: %w", err)
	}
	for _, info := range infos {
		entries = append(entries, datasets.Entry{
			Label:  info.Name,
			Source: librarySource(info.Name),
			Detail: fmt.Sprintf("library · %d records", info.Records),
		})
	}
	return entries, nil
}

func librarySource(name string) string {
	return dataset.SchemeDB + ":" + name
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	flag, _ := cmd.Flags().GetString("dataset")
	return app.Run(app.Options{
		Loader:      e.loader,
		Lister:      e.catalog,
		StartSource: e.cfg.StartSource(flag),
		Logger:      logger.L(),
		LoadTimeout: e.cfg.HTTPTimeout(),
	})
}
