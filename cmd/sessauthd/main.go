// Command sessauthd serves the challenge-response authentication protocol
// over HTTP: GET /connect, POST /login, POST /logout.
//
// Configuration is read from the environment with the SESSAUTHD prefix:
//
//	SESSAUTHD_LISTEN          listen address (default :8080)
//	SESSAUTHD_TOKEN_MODE      "cookie" or "csrf" (default cookie)
//	SESSAUTHD_TOKEN_NAME      cookie or CSRF header name (default sessauth)
//	SESSAUTHD_REDIS_ADDR      Redis address; empty selects in-memory stores
//	SESSAUTHD_EMBEDDED_REDIS  run an in-process miniredis (development only)
//	SESSAUTHD_AUDIT           emit JSON audit events on stderr
//	SESSAUTHD_SEED_USERS      create demo users alice/demo-password-1 and
//	                          bob/demo-password-2 at startup
package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"

	sessauth "github.com/varekai/sessauth"
	"github.com/varekai/sessauth/federation"
	"github.com/varekai/sessauth/middleware"
	"github.com/varekai/sessauth/password"
)

type serverConfig struct {
	Listen        string `default:":8080"`
	TokenMode     string `envconfig:"TOKEN_MODE" default:"cookie"`
	TokenName     string `envconfig:"TOKEN_NAME" default:"sessauth"`
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	EmbeddedRedis bool   `envconfig:"EMBEDDED_REDIS"`
	Audit         bool
	SeedUsers     bool `envconfig:"SEED_USERS"`
}

func main() {
	var cfg serverConfig
	if err := envconfig.Process("sessauthd", &cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	engineCfg := sessauth.DefaultConfig()
	engineCfg.Token.Name = cfg.TokenName
	switch strings.ToLower(cfg.TokenMode) {
	case "cookie":
		engineCfg.Token.Mode = sessauth.TokenModeCookie
	case "csrf":
		engineCfg.Token.Mode = sessauth.TokenModeCSRF
	default:
		log.Fatalf("config: unknown token mode %q", cfg.TokenMode)
	}
	if cfg.Audit {
		engineCfg.Audit.Verbosity = sessauth.AuditAll
	}

	hasher, err := password.NewHasher(password.DefaultConfig())
	if err != nil {
		log.Fatalf("hasher: %v", err)
	}
	directory := sessauth.NewMemoryDirectory(hasher, federation.NewRegistry())
	if cfg.SeedUsers {
		seedUsers(directory)
	}

	builder := sessauth.New().
		WithConfig(engineCfg).
		WithUserDirectory(directory)

	if cfg.EmbeddedRedis {
		mr, err := miniredis.Run()
		if err != nil {
			log.Fatalf("embedded redis: %v", err)
		}
		defer mr.Close()
		cfg.RedisAddr = mr.Addr()
		log.Printf("embedded redis on %s", cfg.RedisAddr)
	}
	if cfg.RedisAddr != "" {
		builder = builder.WithRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}
	if cfg.Audit {
		builder = builder.WithAuditSink(sessauth.NewJSONWriterSink(log.Writer()))
	}

	engine, err := builder.Build()
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}
	defer engine.Close()

	// Every endpoint accepts the token from the configured transport first,
	// with a query-parameter fallback for clients that cannot set either.
	var scheme sessauth.SecurityScheme
	switch engineCfg.Token.Mode {
	case sessauth.TokenModeCookie:
		scheme = sessauth.SecurityScheme{
			sessauth.Cookie(cfg.TokenName),
			sessauth.Query("token"),
		}
	case sessauth.TokenModeCSRF:
		scheme = sessauth.SecurityScheme{
			sessauth.Header(cfg.TokenName),
			sessauth.Query("token"),
		}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/connect", middleware.Connect(engine, scheme))
	r.Post("/login", middleware.Login(engine))
	r.Post("/logout", middleware.Logout(engine, scheme))

	log.Printf("sessauthd listening on %s (token mode %s)", cfg.Listen, cfg.TokenMode)
	if err := http.ListenAndServe(cfg.Listen, r); err != nil {
		log.Fatal(err)
	}
}

func seedUsers(directory *sessauth.MemoryDirectory) {
	users := []struct{ login, pass string }{
		{"alice", "demo-password-1"},
		{"bob", "demo-password-2"},
	}
	for _, u := range users {
		if _, err := directory.AddLocalUser(u.login, "", u.pass, map[string]string{"display": u.login}); err != nil {
			log.Fatalf("seed %s: %v", u.login, err)
		}
		log.Printf("seeded user %s", u.login)
	}
}
