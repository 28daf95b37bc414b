package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	pkgconfig "github.com/trafficlearn/platform-auth/pkg/config"
	"github.com/trafficlearn/platform-auth/pkg/csrf"
	"github.com/trafficlearn/platform-auth/pkg/gate"
	"github.com/trafficlearn/platform-auth/pkg/login"
	"github.com/trafficlearn/platform-auth/pkg/login/loginapi"
	"github.com/trafficlearn/platform-auth/pkg/rememberme"
	"github.com/trafficlearn/platform-auth/pkg/session"
	"github.com/trafficlearn/platform-auth/pkg/subscription"
	"github.com/trafficlearn/platform-auth/pkg/user"
)

type PgConfig struct {
	Host     string `env:"PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"PG_PORT" env-default:"5432"`
	Database string `env:"PG_DATABASE" env-default:"platform_db"`
	User     string `env:"PG_USER" env-default:"platform"`
	Password string `env:"PG_PASSWORD" env-default:"pwd"`
}

func (c PgConfig) toDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-default:""`
	Password string `env:"REDIS_PASSWORD" env-default:""`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type Config struct {
	Addr     string `env:"SERVER_ADDR" env-default:"localhost:4000"`
	InMemory bool   `env:"IN_MEMORY" env-default:"false"`
	Pg       PgConfig
	Redis    RedisConfig
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read config", "err", err)
		os.Exit(-1)
	}

	sessionCfg := pkgconfig.NewSessionConfigFromEnv()
	csrfCfg := pkgconfig.NewCsrfConfigFromEnv()
	rememberCfg := pkgconfig.NewRememberMeConfigFromEnv()

	var (
		users  user.Repository
		rmRepo rememberme.Repository
		subs   subscription.Checker
	)
	if cfg.InMemory {
		slog.Info("Running with in-memory stores")
		users, rmRepo, subs = seedInMemory()
	} else {
		pool, err := pgxpool.New(context.Background(), cfg.Pg.toDatabaseURL())
		if err != nil {
			slog.Error("Failed creating dbpool", "db", cfg.Pg.Database, "host", cfg.Pg.Host, "err", err)
			os.Exit(-1)
		}
		users = user.NewPostgresRepository(pool)
		rmRepo = rememberme.NewPostgresRepository(pool)
		subs = subscription.NewPostgresChecker(pool)
	}

	var store session.Store
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			slog.Error("Failed to reach redis", "addr", cfg.Redis.Addr, "err", err)
			os.Exit(-1)
		}
		store = session.NewRedisStore(client)
		slog.Info("Session store: redis", "addr", cfg.Redis.Addr)
	} else {
		store = session.NewInMemStore()
		slog.Info("Session store: in-memory")
	}

	cookieCfg := session.DefaultCookieConfig()
	cookieCfg.Name = sessionCfg.CookieName
	cookieCfg.Secure = sessionCfg.CookieSecure

	manager := session.NewManager(store, sessionCfg.LifetimeDuration(), cookieCfg)
	guard := csrf.NewGuard(csrfCfg.ExpiryDuration())
	loginService := login.NewLoginService(users)
	rememberSvc := rememberme.NewService(rmRepo, users, rememberCfg.LifetimeDuration(), rememberCfg.CookieSecure)

	paths := gate.DefaultPaths()
	g := gate.NewGate(subs, paths)
	h := loginapi.NewHandle(loginService, rememberSvc, guard, paths)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(manager.Middleware(paths.Login))
	r.Use(rememberSvc.Middleware())

	h.Routes(r)

	r.Route("/admin", func(r chi.Router) {
		r.Use(g.RequireRole(user.RoleAdmin))
		r.Get("/dashboard", dashboard)
	})
	r.Route("/learner", func(r chi.Router) {
		r.Use(g.RequireRole(user.RoleLearner))
		r.Get("/dashboard", dashboard)
		r.Get("/subscription", dashboard)
		r.With(g.RequireSubscription(user.RoleLearner)).Get("/lessons", dashboard)
	})
	r.Route("/school", func(r chi.Router) {
		r.Use(g.RequireRole(user.RoleSchool))
		r.Get("/dashboard", dashboard)
		r.Get("/subscription", dashboard)
		r.With(g.RequireSubscription(user.RoleSchool)).Get("/students", dashboard)
	})

	slog.Info("Server starting", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		slog.Error("Server stopped", "err", err)
		os.Exit(-1)
	}
}

// dashboard stands in for the server-rendered pages, which belong to the web
// layer. It echoes the principal and any pending notice.
func dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	flash, err := sess.PopFlash(ctx)
	if err != nil {
		slog.Error("Failed to pop flash", "err", err)
	}

	render.JSON(w, r, map[string]interface{}{
		"principal": sess.Principal(),
		"flash":     flash,
	})
}

// seedInMemory provisions demo accounts for running without a database
func seedInMemory() (user.Repository, rememberme.Repository, subscription.Checker) {
	users := user.NewInMemRepository()
	subs := subscription.NewInMemChecker()

	hasher := login.NewArgon2Hasher()
	seed := func(email string, role user.Role, password string) user.User {
		hash, err := hasher.Hash(password)
		if err != nil {
			slog.Error("Failed to hash seed password", "err", err)
			os.Exit(-1)
		}
		return users.Add(user.User{
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			Status:       user.StatusActive,
			FirstName:    "Demo",
			LastName:     string(role),
			Language:     user.DefaultLanguage,
		})
	}

	seed("admin@example.com", user.RoleAdmin, "admin-pass")
	learner := seed("learner@example.com", user.RoleLearner, "learner-pass")
	seed("school@example.com", user.RoleSchool, "school-pass")

	subs.Grant(learner.ID, time.Now().Add(30*24*time.Hour))

	return users, rememberme.NewInMemRepository(), subs
}
