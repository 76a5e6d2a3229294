package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	. "github.com/jimiolaniyan/bookshelf"
	"github.com/jimiolaniyan/bookshelf/auth"
	"github.com/jimiolaniyan/bookshelf/config"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bookshelf",
		Short:        "Book catalog API with account registration and token auth",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg.LogLevel)

	tokens, err := auth.NewTokenService([]byte(cfg.JWTSecret))
	if err != nil {
		return err
	}

	accounts, books, disconnect, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("error connecting to the store")
		return err
	}
	defer disconnect()

	s := services{
		accounts: auth.NewService(accounts, auth.NewBcryptHasher(auth.DefaultCost), tokens, logger),
		books:    NewService(books, logger),
		tokens:   tokens,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(s, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.Port).Info("server started")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStores returns MongoDB-backed repositories when MONGO_URL is set and
// in-memory ones otherwise. Failing to reach MongoDB here is fatal.
func openStores(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (auth.Repository, BookRepository, func(), error) {
	if cfg.MongoURL == "" {
		logger.Warn("MONGO_URL not set, using in-memory stores")
		return auth.NewAccountRepository(), NewBookRepository(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		return nil, nil, nil, err
	}

	disconnect := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.WithError(err).Warn("error disconnecting from MongoDB")
		}
	}

	if err := client.Ping(ctx, nil); err != nil {
		disconnect()
		return nil, nil, nil, err
	}

	db := client.Database(cfg.MongoDatabase)
	users := db.Collection("users")
	if err := auth.EnsureAccountIndexes(ctx, users); err != nil {
		disconnect()
		return nil, nil, nil, err
	}

	logger.WithField("database", cfg.MongoDatabase).Info("connected to MongoDB")
	return auth.NewMongoAccountRepository(users), NewMongoBookRepository(db.Collection("books")), disconnect, nil
}
