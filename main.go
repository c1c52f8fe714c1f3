package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/9seconds/whereabouts/storages"
	"github.com/9seconds/whereabouts/wherelib"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

var version = "dev"

var (
	app = kingpin.New(
		"whereabouts",
		"A service which captures locations shared by browsers")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("WHEREABOUTS_DEBUG").
		Bool()
	listen = app.Flag("listen", "An address to listen on, like :5000.").
		Short('l').
		Envar("WHEREABOUTS_LISTEN").
		String()
	databaseURL = app.Flag("database-url", "A connection string of the storage. CSV file is used if empty.").
			Envar("DATABASE_URL").
			String()
	staticDir = app.Flag("static-dir", "A directory with index.html.").
			Envar("WHEREABOUTS_STATIC_DIR").
			String()
	configPath = app.Flag("config", "A path to the config file in HJSON.").
			Short('c').
			Envar("WHEREABOUTS_CONFIG").
			String()
)

func main() {
	godotenv.Load() // nolint: errcheck

	app.Version(version)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	conf, err := parseConfig(*configPath)
	app.FatalIfError(err, "cannot parse config")
	app.FatalIfError(conf.override(*listen, *databaseURL, *staticDir), "incorrect options")

	log := newStderrLogger(*debug)
	ctx, cancel := makeRootContext()

	defer cancel()

	provs, closers, err := makeProviders(conf)

	defer closeAll(closers)

	app.FatalIfError(err, "cannot create providers")

	locator, err := wherelib.NewLocator(provs, log, conf.GetWorkerPoolSize(), conf.GetLookupTimeout())
	app.FatalIfError(err, "cannot create locator")

	defer locator.Shutdown()

	storage, err := storages.New(ctx, conf.GetDatabaseURL(), storages.Opts{
		Logger:          &log.base,
		RedisKey:        conf.RedisKey,
		MongoCollection: conf.MongoCollection,
	})
	app.FatalIfError(err, "cannot create storage")

	defer storage.Close()

	whereabouts, err := wherelib.NewWhereabouts(wherelib.Opts{
		Storage:  storage,
		Enricher: locator,
		Logger:   log,
		StaticFs: afero.NewBasePathFs(afero.NewOsFs(), conf.GetStaticDirectory()),
	})
	app.FatalIfError(err, "cannot create application")

	srv := &http.Server{
		Addr:              conf.GetListen(),
		Handler:           log.accessLog(whereabouts),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		srv.Shutdown(shutdownCtx) // nolint: errcheck
	}()

	log.base.Info().
		Str("listen", conf.GetListen()).
		Str("storage", storage.Name()).
		Int("providers", len(provs)).
		Msg("Start server")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		app.FatalIfError(err, "cannot serve")
	}
}

func closeAll(closers []io.Closer) {
	for _, v := range closers {
		v.Close()
	}
}
