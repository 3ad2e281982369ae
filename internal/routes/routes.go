package routes

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	gsessions "github.com/gorilla/sessions"
	"github.com/nats-io/nats.go"
	"github.com/nevofinance/nevo/database"
	"github.com/nevofinance/nevo/internal/assets"
	"github.com/nevofinance/nevo/internal/dashboard"
	"github.com/nevofinance/nevo/internal/handlers"
	"github.com/nevofinance/nevo/internal/middlewares"
	"github.com/nevofinance/nevo/internal/pools"
	"github.com/nevofinance/nevo/internal/wallet"
)

// Deps is everything the routes hand out to handlers.
type Deps struct {
	Logger       *slog.Logger
	DB           *database.Database
	NC           *nats.Conn
	CookieStore  gsessions.Store
	Wallets      *wallet.Sessions
	Drafts       *pools.DraftStore
	Balances     *wallet.Balances
	Service      handlers.Donator
	Feed         dashboard.Recorder
	NewRegistrar handlers.RegistrarFunc
	APISigner    handlers.APISigner
	APIToken     string
	HotReload    bool
}

func AddRoutes(mux *chi.Mux, d Deps) {
	assets.HttpHandler(mux, os.DirFS(assets.StaticDir))

	explorer := d.Service.Config().ExplorerURL

	mux.Post("/api/donations", handlers.APIDonations(d.Logger, d.DB.Q, d.Service, d.APISigner, d.APIToken, d.Feed))

	mux.Group(func(mux chi.Router) {
		mux.Use(middlewares.Session(d.Logger, d.CookieStore))
		mux.Use(middlewares.Wallet(d.Logger, d.Wallets, false))

		mux.Get("/", handlers.Index(d.Logger, d.DB))
		if d.HotReload {
			mux.Get("/hotreload", handlers.HotReload())
		}

		mux.Get("/dashboard", handlers.Dashboard(d.Logger, d.DB.Q))
		mux.Get("/dashboard/updates", handlers.DashboardUpdates(d.Logger, d.DB.Q, d.NC))
		mux.Get("/dashboard/pools/new", handlers.CreatePool(d.Logger, d.Drafts))
		mux.Post("/dashboard/pools/new/{action}", handlers.WizardAction(d.Logger, d.Drafts, d.NC, d.NewRegistrar, explorer))

		mux.Get("/pools/{id}", handlers.Pool(d.Logger, d.DB, d.Service))
		mux.Post("/pools/{id}/donate", handlers.Donate(d.Logger, d.DB.Q, d.Service, d.NC, d.Feed))

		mux.Get("/receipts/{hash}", handlers.Receipt(d.Logger, d.DB, explorer))
		mux.Get("/receipts/{hash}/pdf", handlers.ReceiptPDF(d.Logger, d.DB, explorer))

		mux.Post("/wallet/connect", handlers.WalletConnect(d.Logger, d.Wallets))
		mux.Post("/wallet/disconnect", handlers.WalletDisconnect(d.Logger, d.Wallets))
		mux.Get("/wallet/widget", handlers.WalletWidget(d.Balances))
		mux.Post("/wallet/sign/{id}", handlers.WalletSign(d.Logger, d.NC))

		mux.NotFound(handlers.NotFound())
	})

	// Pages that only make sense for a connected wallet.
	mux.Group(func(mux chi.Router) {
		mux.Use(middlewares.Session(d.Logger, d.CookieStore))
		mux.Use(middlewares.Wallet(d.Logger, d.Wallets, true))

		mux.Get("/dashboard/my-pools", handlers.MyPools(d.Logger, d.DB))
		mux.Get("/dashboard/contributions", handlers.Contributions(d.Logger, d.DB))
	})
}
