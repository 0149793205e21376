package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphdraw/graphdraw/pkg/cache"
	"github.com/graphdraw/graphdraw/pkg/pipeline"
	"github.com/graphdraw/graphdraw/pkg/service"
	"github.com/graphdraw/graphdraw/pkg/store"
)

// serveCommand creates the serve command for the layout HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		mongoURI  string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP service",
		Long: `Run the layout HTTP service.

Exposes POST /v1/layout plus stored-layout endpoints. By default results are
cached on disk and layouts persist in memory; pass --redis for a shared cache
and --mongo for durable layout storage.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisAddr, mongoURI, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for the layout cache, e.g. localhost:6379")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for layout storage, e.g. mongodb://localhost:27017")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisAddr, mongoURI string, noCache bool) error {
	var (
		cc  cache.Cache
		err error
	)
	switch {
	case noCache:
		cc = cache.NewNullCache()
	case redisAddr != "":
		cc, err = cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
	default:
		cc, err = newCache(false)
		if err != nil {
			return fmt.Errorf("initialize cache: %w", err)
		}
	}

	var st store.Store
	if mongoURI != "" {
		st, err = store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer st.Close(context.Background())
	} else {
		st = store.NewMemoryStore()
		c.Logger.Warn("no --mongo given, stored layouts will not survive restarts")
	}

	runner := pipeline.NewRunner(cc, nil, c.Logger)
	defer runner.Close()

	svc := service.New(service.Config{Addr: addr}, runner, st, c.Logger)
	return svc.Run(ctx)
}
