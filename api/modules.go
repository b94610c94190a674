package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	signup "github.com/masseurtouch/signup"
	"github.com/masseurtouch/signup/auth"
	"github.com/masseurtouch/signup/internal/config"
	"github.com/masseurtouch/signup/internal/db"
	"github.com/masseurtouch/signup/internal/logger"
	"github.com/masseurtouch/signup/internal/rest"
)

const accessTokenTTL = time.Hour

type configPath string

func newApp(path string) *fx.App {
	return fx.New(
		fx.Supply(configPath(path)),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideRESTClient,
			provideAccountRepository,
			provideAccountEvents,
			provideLocalIdentity,
			provideIdentity,
			provideProfileStore,
			provideSignupService,
			provideRouter,
		),
		fx.Invoke(startServer),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	)
}

func provideConfig(path configPath) (config.Config, error) {
	cfg, err := config.Load(string(path))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

// provideRESTClient carries the hosted service URL and public key, read once at startup.
func provideRESTClient(cfg config.Config) *rest.Client {
	return rest.NewClient(cfg.Identity.URL, cfg.Identity.AnonKey)
}

func provideAccountRepository(lc fx.Lifecycle, cfg config.Config, log *slog.Logger) (auth.Repository, error) {
	if cfg.Identity.Accounts != config.BackendMongo {
		return auth.NewAccountRepository(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	accounts := client.Database(cfg.Mongo.Database).Collection("accounts")
	if err := auth.EnsureIndexes(ctx, accounts); err != nil {
		return nil, fmt.Errorf("ensure account indexes: %w", err)
	}
	log.Info("account repository ready", slog.String("backend", "mongo"), slog.String("database", cfg.Mongo.Database))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})
	return auth.NewMongoAccountRepository(accounts), nil
}

func provideAccountEvents(log *slog.Logger) auth.Events {
	return signup.NewAccountLog(log)
}

func provideLocalIdentity(accounts auth.Repository, events auth.Events, log *slog.Logger) *auth.Service {
	return auth.NewService(accounts, events, log)
}

func provideIdentity(cfg config.Config, local *auth.Service, client *rest.Client, log *slog.Logger) auth.Identity {
	if cfg.Identity.Backend == config.BackendLocal {
		return local
	}
	return auth.NewRemoteClient(client, cfg.Identity.ServiceKey, log)
}

func provideProfileStore(lc fx.Lifecycle, cfg config.Config, client *rest.Client) (signup.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return signup.NewProfileRepository(), nil
	case config.BackendPostgres:
		pool, err := db.Open(context.Background(), cfg.Postgres)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				pool.Close()
				return nil
			},
		})
		return signup.NewPostgresStore(pool, cfg.Store.Table), nil
	default:
		return signup.NewRESTStore(client, cfg.Store.Table), nil
	}
}

func provideSignupService(cfg config.Config, identity auth.Identity, profiles signup.Store, log *slog.Logger) (*signup.Service, error) {
	policy, err := signup.ParseCompensationPolicy(cfg.Signup.Compensation)
	if err != nil {
		return nil, err
	}
	return signup.NewService(identity, profiles, policy, log), nil
}

func provideRouter(cfg config.Config, svc *signup.Service, local *auth.Service, profiles signup.Store, log *slog.Logger) http.Handler {
	router := httprouter.New()
	router.Handler(http.MethodGet, "/", http.RedirectHandler("/signup", http.StatusFound))
	router.Handler(http.MethodGet, "/healthz", signup.HealthHandler())
	router.Handler(http.MethodGet, "/signup", signup.FormPageHandler(svc))
	router.Handler(http.MethodPost, "/signup", signup.SubmitFormHandler(svc))
	router.Handler(http.MethodPost, "/v1/signups", signup.CreateSignupHandler(svc))

	if cfg.Server.ServeLocal {
		table := "/rest/v1/" + cfg.Store.Table
		router.Handler(http.MethodPost, "/auth/v1/signup", auth.SignupHandler(local, auth.NewSigner(cfg.Identity.SigningKey, accessTokenTTL)))
		router.Handler(http.MethodPost, table, signup.RecordsHandler(profiles))
		router.Handler(http.MethodGet, table, signup.RecordsHandler(profiles))
		if cfg.Identity.ServiceKey != "" {
			router.Handler(http.MethodDelete, "/auth/v1/admin/users/:id", auth.DeleteAccountHandler(local, cfg.Identity.ServiceKey))
		}
		log.Info("serving local identity and records endpoints", slog.String("table", cfg.Store.Table))
	}

	return signup.RequestLogger(router, log)
}

func startServer(lc fx.Lifecycle, cfg config.Config, handler http.Handler, log *slog.Logger, shutdowner fx.Shutdowner) {
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("server started", slog.String("addr", cfg.Server.Addr),
					slog.String("identity", cfg.Identity.Backend), slog.String("store", cfg.Store.Backend))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
