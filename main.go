package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/lost-woods/kingdom/src/catalog"
	"github.com/lost-woods/kingdom/src/config"
	"github.com/lost-woods/kingdom/src/errs"
	"github.com/lost-woods/kingdom/src/kingdom"
	"github.com/lost-woods/kingdom/src/rng"
	"github.com/lost-woods/kingdom/src/server"
	"github.com/lost-woods/kingdom/src/telemetry"
)

type optionFlags []string

func (o *optionFlags) String() string     { return strings.Join(*o, ",") }
func (o *optionFlags) Set(v string) error { *o = append(*o, v); return nil }

func main() {
	os.Exit(execute())
}

// execute runs the program and returns its exit code, so deferred cleanup
// always runs before the process exits.
func execute() int {
	var (
		serve   = flag.Bool("serve", false, "run the HTTP service")
		sets    = flag.String("sets", "", "comma separated set names (default: all sets)")
		seed    = flag.Uint64("seed", 0, "seed for a reproducible kingdom")
		options optionFlags
	)
	flag.Var(&options, "option", "edition toggle, key or key=bool (repeatable)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := newLogger(cfg)
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, r, health, err := setup(cfg, log)
	if err != nil {
		log.Errorw("startup failed", "source", cfg.EntropySource, "error", err)
		return 1
	}

	if *serve {
		shutdown, err := telemetry.Setup(ctx, cfg.OTelEndpoint)
		if err != nil {
			log.Warnw("tracing disabled", "error", err)
		}
		defer shutdown(context.Background()) //nolint:errcheck

		log.Infow("listening", "port", cfg.Port, "source", cfg.EntropySource)
		server.New(ctx, cfg, engine, r, health, log).RunOrDie()
		return 0
	}

	seeded := false
	flag.Visit(func(f *flag.Flag) { seeded = seeded || f.Name == "seed" })
	if seeded {
		engine = engine.WithSeed(*seed)
	}

	return run(os.Stdout, engine, *sets, options, log)
}

// setup loads the catalog and opens the entropy source.
func setup(cfg config.Config, log *zap.SugaredLogger) (*kingdom.Engine, io.Reader, *rng.Health, error) {
	c, err := catalog.Default()
	if err != nil {
		return nil, nil, nil, err
	}

	r, health, err := openSource(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("entropy source unavailable: %w", err)
	}
	r = rng.NewLockedReader(r)

	share, err := cfg.LandscapeShare()
	if err != nil {
		return nil, nil, nil, err
	}
	engine := kingdom.New(c, rng.NewSampler(r, health), log, kingdom.WithLandscapeShare(share))
	return engine, r, health, nil
}

func run(w io.Writer, engine *kingdom.Engine, sets string, options []string, log *zap.SugaredLogger) int {
	opts, err := kingdom.ParseOptions(options)
	if err != nil {
		log.Error(err)
		return 1
	}

	var names []string
	if sets != "" {
		for _, s := range strings.Split(sets, ",") {
			names = append(names, strings.TrimSpace(s))
		}
	}

	lines, err := engine.RandomizeKingdom(names, opts)
	if err != nil {
		log.Errorw("could not build a kingdom", "error", err, "code", errs.CodeOf(err))
		if errors.Is(err, errs.ErrEntropy) {
			return 2
		}
		return 1
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return 0
}

func newLogger(cfg config.Config) *zap.SugaredLogger {
	zcfg := zap.NewProductionConfig()
	if lvl, err := cfg.Level(); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zcfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger.Sugar()
}

func openSource(cfg config.Config) (io.Reader, *rng.Health, error) {
	if cfg.EntropySource == config.SourceSerial {
		return rng.OpenSerial(cfg.Serial())
	}
	return rng.OpenCrypto()
}
