package cli

import (
	"context"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stipple/internal/server"
	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/session"
)

// Session store backends.
const (
	storeMemory = "memory"
	storeFile   = "file"
	storeSQLite = "sqlite"
	storeRedis  = "redis"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	params        pipeline.Options // defaults for first visits
	addr          string
	store         string
	sessionDir    string
	sqlitePath    string
	redisAddr     string
	redisPassword string
	redisDB       int
	sessionTTL    time.Duration
	noCache       bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:       server.DefaultAddr,
		store:      storeMemory,
		redisAddr:  "localhost:6379",
		sessionTTL: session.DefaultTTL,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive page and JSON API",
		Long: `Serve the browser front-end.

Each visitor gets their own current point set, generated from the profile
defaults on the first visit. The page regenerates on submit and offers the
set as canvasData.dxf.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	addParamFlags(cmd, &opts.params)
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.store, "store", opts.store, "session store: memory, file, sqlite, redis")
	cmd.Flags().StringVar(&opts.sessionDir, "session-dir", "", "directory for the file store (default ~/.config/stipple/sessions)")
	cmd.Flags().StringVar(&opts.sqlitePath, "sqlite-path", "", "database file for the sqlite store (default ~/.config/stipple/sessions.db)")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", opts.redisAddr, "Redis address for the redis store")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", opts.sessionTTL, "how long an idle session is kept")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching of seeded runs")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()

	// Profile and flag values become the defaults for first visits.
	defaults, _, err := c.resolveOptions(cmd, opts.params)
	if err != nil {
		return err
	}

	store, err := newStore(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:       opts.addr,
		Store:      store,
		Runner:     runner,
		Logger:     c.Logger,
		SessionTTL: opts.sessionTTL,
		Defaults:   &defaults,
	})

	out := cmd.OutOrStdout()
	printInfo(out, "Serving on %s (%s sessions)", StyleValue.Render(opts.addr), opts.store)
	printNextStep(out, "Open", localURL(opts.addr))
	return srv.Run(ctx)
}

func newStore(ctx context.Context, opts *serveOpts) (session.Store, error) {
	switch opts.store {
	case storeMemory:
		return session.NewMemoryStore(), nil
	case storeFile:
		return session.NewFileStore(opts.sessionDir)
	case storeSQLite:
		return session.NewSQLiteStore(opts.sqlitePath)
	case storeRedis:
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     opts.redisAddr,
			Password: opts.redisPassword,
			DB:       opts.redisDB,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown session store %q (must be one of: memory, file, sqlite, redis)", opts.store)
	}
}

// localURL returns the browser URL for a listen address.
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
