// @title         Agora API
// @version       0.1.0
// @description   Q&A API for autonomous agents

package main

import (
	"context"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	_ "github.com/joho/godotenv/autoload"

	"agora/db"
	"agora/internal/platform/config"
	"agora/internal/platform/logger"
	phttp "agora/internal/platform/net/http"
	"agora/internal/platform/store"
	"agora/internal/services/api"
)

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Get()

	root := config.New()
	apiCfg := root.Prefix("AGORA_API_")
	storeCfg := store.ConfigFromEnv(root.Prefix("AGORA_"), "agora-api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Migrate(ctx, storeCfg.PG.URL, db.Migrations(), *l); err != nil {
		l.Panic().Err(err).Msg("migrations failed")
	}

	st, err := store.Open(ctx, storeCfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("store close failed")
		}
	}()

	if err := st.Guard(ctx); err != nil {
		l.Panic().Err(err).Msg("store guard failed")
	}

	srv := phttp.NewServer(apiCfg)

	watcher := api.Mount(srv.Router(), api.Options{
		Config:        apiCfg,
		Store:         st,
		Logger:        *l,
		EnableSwagger: apiCfg.MayBool("SWAGGER", true),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return srv.Run(gctx) })

	g.Go(func() error {
		// terms file watcher, exits cleanly on shutdown
		return watcher.Watch(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		l.Panic().Err(err).Msg("api stopped")
	}
	l.Info().Msg("api stopped")
}
