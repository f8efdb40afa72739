package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/codeprep/internal/api"
	"github.com/samcharles93/codeprep/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		storeSize   int64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the preprocessing REST API",
		Flags: append([]cli.Flag{
			configKeyFlag(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "store-size",
				Usage:       "number of stored results kept for GET /v1/preprocess/:id",
				Value:       1024,
				Destination: &storeSize,
			},
		}, resourceFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyServeConfig(cmd, LoadConfig(), &addr)
			log := logger.FromContext(ctx)

			store, err := api.NewResultStore(int(storeSize))
			if err != nil {
				return err
			}
			provider := api.NewCachedPreprocessorProvider(api.ProviderConfig{
				DefaultKey: configKey,
				Paths:      resourcePaths(),
				Log:        log,
			})
			server := api.NewServer(store, provider, log)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "default_config", configKey)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
