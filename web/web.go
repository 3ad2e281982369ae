package web

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Nintron27/pillow"
	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/sessions"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/nevofinance/nevo/database"
	"github.com/nevofinance/nevo/internal/dashboard"
	"github.com/nevofinance/nevo/internal/handlers"
	"github.com/nevofinance/nevo/internal/pools"
	"github.com/nevofinance/nevo/internal/routes"
	"github.com/nevofinance/nevo/internal/stellar"
	"github.com/nevofinance/nevo/internal/wallet"
	"github.com/nevofinance/nevo/web/layouts"
	"github.com/stellar/go/clients/horizonclient"
)

type Config struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// DraftTTL bounds how long an untouched pool draft is kept.
	DraftTTL time.Duration
}

// Run sets up all needed dependencies for the server, early returning with
// an error if one occurs.
func Run(ctx context.Context, getenv func(string) string, stdout, stderr io.Writer) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create logger
	logger := slog.New(slog.NewJSONHandler(stdout, nil))

	// Create config
	cfg := Config{
		Port:        getenv("PORT"),
		Env:         getenv("ENV"),
		ReadTimeout: time.Second * 5,
		// Donations stream until the transaction is final, which takes a
		// signature plus up to a minute of polling.
		WriteTimeout: time.Minute * 5,
		DraftTTL:     time.Hour * 24,
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	layouts.HotReload = cfg.Env == "dev"

	stellarCfg, err := stellar.ConfigFromEnv(getenv)
	if err != nil {
		return err
	}
	registry, err := loadRegistry(getenv("ASSETS_FILE"), stellarCfg.NetworkPassphrase)
	if err != nil {
		return err
	}

	// Session cookie
	sessionKey := getenv("SESSION_KEY")
	if sessionKey == "" {
		return errors.New("missing SESSION_KEY environment variable")
	}
	key, err := base64.URLEncoding.DecodeString(sessionKey)
	if err != nil {
		return err
	}
	store := sessions.NewCookieStore(key)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.MaxAge = 60 * 60 * 24 * 30
	store.Options.Secure = cfg.Env == "prod"
	store.Options.SameSite = http.SameSiteLaxMode

	// Start embedded NATS server
	storeDir := getenv("NATS_STORE_DIR")
	if storeDir == "" {
		storeDir = "tmp/js"
	}
	ns, err := pillow.Run(
		pillow.WithNATSServerOptions(&server.Options{
			JetStream: true,
			StoreDir:  storeDir,
		}),
		pillow.WithPlatformAdapter(ctx, cfg.Env == "prod", &pillow.FlyioHubAndSpoke{
			ClusterName:       "nevo_swarm",
			DisableClustering: true,
		}),
	)
	if err != nil {
		return err
	}

	nc, err := ns.NATSClient()
	if err != nil {
		return err
	}

	// Create buckets for wallet connections and pool drafts
	js, err := jetstream.New(nc)
	if err != nil {
		return err
	}
	walletsKV, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: "wallets",
	})
	if err != nil {
		return err
	}
	draftsKV, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: "drafts",
		TTL:    cfg.DraftTTL,
	})
	if err != nil {
		return err
	}

	// Connect pgx and create db struct
	db, err := database.Connect(ctx, getenv("POSTGRES_URI"))
	if err != nil {
		return err
	}

	// Stellar clients
	httpClient := &http.Client{Timeout: 30 * time.Second}
	hc := &horizonclient.Client{HorizonURL: stellarCfg.HorizonURL, HTTP: httpClient}
	rpc := stellar.NewRPCClient(stellarCfg.RPCURL, httpClient)
	svc := stellar.NewService(stellarCfg, hc, rpc, registry, logger)

	feed := &dashboard.Feed{DB: db.Q, Pub: nc, Logger: logger}
	issued, _ := registry.Issued()

	deps := routes.Deps{
		Logger:      logger,
		DB:          db,
		NC:          nc,
		CookieStore: store,
		Wallets:     wallet.NewSessions(walletsKV),
		Drafts:      pools.NewDraftStore(draftsKV),
		Balances:    &wallet.Balances{Horizon: hc, Issued: issued, Logger: logger},
		Service:     svc,
		Feed:        feed,
		NewRegistrar: func(signer stellar.Signer) pools.Registrar {
			return &pools.ContractRegistrar{
				Invoker:  svc,
				Signer:   signer,
				Scale:    stellarCfg.ContractScale,
				Pools:    db.Q,
				Activity: feed,
				Logger:   logger,
			}
		},
		APIToken:  getenv("API_TOKEN"),
		HotReload: layouts.HotReload,
	}
	if secret := getenv("SIGNER_SECRET"); secret != "" {
		signer, err := stellar.NewKeypairSigner(secret)
		if err != nil {
			return err
		}
		deps.APISigner = signer
	}

	// Create and run server
	srv := NewServer(deps)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}
	go func() {
		logger.LogAttrs(
			ctx,
			slog.LevelInfo,
			"server started",
			slog.String("PORT", httpServer.Addr),
			slog.String("network", stellarCfg.ExplorerNetwork),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(stderr, "error listening and serving: %s\n", err)
		}
	}()

	// Handle graceful shutdown
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(stderr, "error shutting down http server: %s\n", err)
		}
		if err := rpc.Close(); err != nil {
			fmt.Fprintf(stderr, "error closing rpc client: %s\n", err)
		}
		db.Close()
		if err := ns.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(stderr, "error shutting down nats server: %s\n", err)
		}
	}()
	wg.Wait()
	return nil
}

func loadRegistry(path, passphrase string) (stellar.Registry, error) {
	if path == "" {
		return stellar.DefaultRegistry(passphrase)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return stellar.LoadRegistry(f)
}

func NewServer(deps routes.Deps) http.Handler {
	mux := chi.NewMux()

	mux.Use(middleware.Logger)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Datastar-Request"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(middleware.Heartbeat("/heartbeat"))
	mux.Use(Compressor(2))

	routes.AddRoutes(mux, deps)

	return mux
}

// Compress is an adapter middleware from Chi that compresses
// the response body of a given content types to a data format based
// on Accept-Encoding request header. Adapted to include Brotli encoding.
//
// NOTE: make sure to set the Content-Type header on your response
// otherwise this middleware will not compress the response body. For ex, in
// your handler you should set w.Header().Set("Content-Type", http.DetectContentType(yourBody))
// or set it manually.
//
// Passing a compression level of 2-5 is sensible value.
func Compressor(level int) func(next http.Handler) http.Handler {
	compressor := middleware.NewCompressor(level)
	compressor.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterV2(w, level)
	})

	return compressor.Handler
}

var _ handlers.Donator = (*stellar.Service)(nil)
