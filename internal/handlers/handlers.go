package handlers

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nevofinance/nevo/database"
	"github.com/nevofinance/nevo/database/gensql"
	"github.com/nevofinance/nevo/internal/sessions"
	"github.com/nevofinance/nevo/web/components"
	"github.com/nevofinance/nevo/web/pages"
	datastar "github.com/starfederation/datastar/sdk/go"
	. "maragu.dev/gomponents"
)

const featuredPools = 6

var validate = validator.New(validator.WithRequiredStructEnabled())

func navFor(r *http.Request) components.NavCfg {
	return components.NavCfg{Connected: sessions.Address(r.Context()) != ""}
}

func render(w http.ResponseWriter, status int, n Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := n.Render(w); err != nil {
		panic(err)
	}
}

func logError(r *http.Request, logger *slog.Logger, msg string, err error) {
	logger.LogAttrs(r.Context(), slog.LevelError, msg, slog.String("error", err.Error()))
}

func Index(logger *slog.Logger, db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		featured, err := db.Q.ListPublicPools(r.Context(), gensql.ListPublicPoolsParams{
			Deadline: now,
			Limit:    featuredPools,
		})
		if err != nil {
			// The homepage still renders without pools.
			logError(r, logger, "failed to list featured pools", err)
		}

		render(w, http.StatusOK, pages.Homepage(navFor(r), featured, now))
	}
}

func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, http.StatusNotFound, pages.NotFound(navFor(r), "Page"))
	}
}

var hotReloadOnce sync.Once

func HotReload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		hotReloadOnce.Do(func() {
			// Refresh the client page as soon as connection
			// is established. This will occur only once
			// after the server starts.
			sse.ExecuteScript(
				"window.location.reload()",
				datastar.WithExecuteScriptRetryDuration(time.Second),
			)
		})

		// Freeze the event stream until the connection
		// is lost for any reason. This will force the client
		// to attempt to reconnect after the server reboots.
		<-r.Context().Done()
	}
}
