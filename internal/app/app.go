package app

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"go.uber.org/fx"

	"qazaq-scraper/internal/config"
	"qazaq-scraper/internal/crawler"
	"qazaq-scraper/internal/crawler/engine"
	"qazaq-scraper/internal/server"
	"qazaq-scraper/internal/storage"
	"qazaq-scraper/pkg/models"
)

// New builds the process graph: config, logger, pipeline, scheduler and HTTP
// server, with start and stop hooks registered on the fx lifecycle.
func New(conf *config.Config) *fx.App {
	return fx.New(
		fx.NopLogger,
		fx.Supply(conf),
		fx.Provide(
			newLogger,
			newStorage,
			newFetcher,
			newParser,
			newEngine,
			newScheduler,
			newServer,
		),
		fx.Invoke(StartServer, StartScheduler),
	)
}

func newLogger(conf *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	}), nil
}

func newStorage(conf *config.Config) *storage.Storage {
	return storage.NewStorage(conf.SnapshotPath)
}

// newFetcher picks the transport and wraps it with retries and, when enabled,
// the robots.txt gate.
func newFetcher(conf *config.Config, logger *log.Logger) crawler.Fetcher {
	httpFetcher := crawler.NewHTTPFetcher(config.UserAgent, config.FetchTimeout)

	var base crawler.Fetcher = httpFetcher
	if conf.FetchMode == config.FetchModeBrowser {
		base = crawler.NewBrowserFetcher(config.UserAgent, config.FetchTimeout, "body")
	}

	var f crawler.Fetcher = crawler.NewRetryFetcher(base, config.FetchRetries, logger.WithPrefix("fetcher"))
	if conf.RespectRobots {
		f = crawler.NewRobotsGate(f, config.UserAgent, httpFetcher.Client, logger.WithPrefix("robots"))
	}
	return f
}

func newParser(logger *log.Logger) *crawler.Parser {
	return crawler.NewParser(config.Origin, crawler.Selectors{
		Item:  config.ItemSelector,
		Name:  config.NameSelector,
		Price: config.PriceSelector,
	}, logger.WithPrefix("parser"))
}

func newEngine(conf *config.Config, fetcher crawler.Fetcher, parser *crawler.Parser, store *storage.Storage, logger *log.Logger) *engine.Engine[models.Product] {
	return engine.NewEngine[models.Product](
		engine.Config{TargetURL: config.TargetURL, KeepOnEmpty: conf.KeepOnEmpty},
		crawler.NewProductProcessor(fetcher, parser),
		storage.NewSnapshotSink(store, logger.WithPrefix("storage")),
		logger.WithPrefix("engine"),
	)
}

func newScheduler(eng *engine.Engine[models.Product], logger *log.Logger) *engine.Scheduler {
	return engine.NewScheduler(config.Schedule, eng.Run, logger.WithPrefix("scheduler"))
}

func newServer(conf *config.Config, store *storage.Storage, logger *log.Logger) *server.Server {
	httpLogger := logger.WithPrefix("http")
	return server.New(conf.Addr(), server.NewHandler(store, httpLogger), httpLogger)
}

// StartServer binds the listen port before anything else starts.
func StartServer(lc fx.Lifecycle, srv *server.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Listen()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

// StartScheduler triggers the first pipeline run and the hourly schedule.
func StartScheduler(lc fx.Lifecycle, sched *engine.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sched.Start()
		},
		OnStop: func(ctx context.Context) error {
			sched.Stop(ctx)
			return nil
		},
	})
}
