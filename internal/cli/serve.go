package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spritepack/pkg/cache"
	"github.com/matzehuels/spritepack/pkg/pipeline"
	"github.com/matzehuels/spritepack/pkg/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		redisAddr  string
		keyPrefix  string
		maxModules int
		maxUpload  int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Layouts and uploaded sheets are stored in Redis when --redis (or ` + redisEnv + `)
is set, so several instances can share them. Otherwise the local cache
directory is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if redisAddr == "" {
				redisAddr = os.Getenv(redisEnv)
			}

			var (
				store cache.Cache
				err   error
			)
			if redisAddr != "" {
				store, err = cache.NewRedisCache(ctx, redisAddr)
				if err != nil {
					return fmt.Errorf("connect to redis: %w", err)
				}
				c.Logger.Info("using redis cache", "addr", redisAddr)
			} else {
				store, err = newCache(false)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
			}

			var keyer cache.Keyer
			if keyPrefix != "" {
				keyer = cache.NewScopedKeyer(nil, keyPrefix)
			}
			runner := pipeline.NewRunner(store, keyer, c.Logger)
			defer runner.Close()

			srv := server.New(server.Config{
				Addr:           addr,
				Runner:         runner,
				Logger:         c.Logger,
				MaxModules:     maxModules,
				MaxUploadBytes: maxUpload,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address or URL (default: $"+redisEnv+")")
	cmd.Flags().StringVar(&keyPrefix, "key-prefix", "", "namespace for cache keys")
	cmd.Flags().IntVar(&maxModules, "max-modules", pipeline.DefaultMaxModules, "maximum images per request")
	cmd.Flags().Int64Var(&maxUpload, "max-upload", server.DefaultMaxUploadBytes, "maximum request body in bytes")

	return cmd
}
