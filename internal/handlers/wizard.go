package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"github.com/nevofinance/nevo/internal/pools"
	"github.com/nevofinance/nevo/internal/sessions"
	"github.com/nevofinance/nevo/internal/stellar"
	"github.com/nevofinance/nevo/internal/wallet"
	"github.com/nevofinance/nevo/web/components"
	"github.com/nevofinance/nevo/web/helpers"
	"github.com/nevofinance/nevo/web/pages"
	datastar "github.com/starfederation/datastar/sdk/go"
)

// RegistrarFunc builds a registrar that signs with signer. Registration
// needs the creator's wallet, so one is built per submission.
type RegistrarFunc func(signer stellar.Signer) pools.Registrar

func CreatePool(logger *slog.Logger, drafts *pools.DraftStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sData := sessions.GetSession(r.Context())

		wiz, _, err := drafts.Load(r.Context(), sData.ID)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			logError(r, logger, "failed to load draft", err)
			return
		}

		render(w, http.StatusOK, pages.CreatePool(navFor(r), wiz))
	}
}

// WizardAction applies the edited fields from the form signals, then runs
// one wizard transition and re-renders the wizard.
func WizardAction(logger *slog.Logger, drafts *pools.DraftStore, nc *nats.Conn, newRegistrar RegistrarFunc, explorer func(string) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sData := sessions.GetSession(r.Context())
		addr := sessions.Address(r.Context())
		action := chi.URLParam(r, "action")

		switch action {
		case "field", "next", "back", "goto", "submit":
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}

		signals := map[string]any{}
		if err := datastar.ReadSignals(r, &signals); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		wiz, rev, err := drafts.Load(r.Context(), sData.ID)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			logError(r, logger, "failed to load draft", err)
			return
		}
		applySignals(wiz, signals)

		sse := datastar.NewSSE(w, r)
		today := time.Now().In(pools.DeadlineZone)

		switch action {
		case "next":
			err = wiz.Next(today)
		case "back":
			err = wiz.Back()
		case "goto":
			step, perr := strconv.Atoi(r.URL.Query().Get("step"))
			if perr != nil {
				step = 0
			}
			err = wiz.GoTo(pools.Step(step), today)
		case "submit":
			submitWizard(r, sse, logger, drafts, nc, newRegistrar, explorer, wiz, rev)
			return
		}
		if err != nil && !errors.Is(err, pools.ErrStepInvalid) {
			logger.LogAttrs(r.Context(), slog.LevelDebug, "wizard transition refused",
				slog.String("action", action),
				slog.String("error", err.Error()),
			)
		}

		if _, err := drafts.Save(r.Context(), sData.ID, wiz, rev); err != nil {
			mergeStoredWizard(r, sse, logger, drafts, sData.ID, addr, err)
			return
		}
		sse.MergeFragments(helpers.Fragment(components.Wizard(wiz, addr != "")))
	}
}

func submitWizard(
	r *http.Request,
	sse *datastar.ServerSentEventGenerator,
	logger *slog.Logger,
	drafts *pools.DraftStore,
	nc *nats.Conn,
	newRegistrar RegistrarFunc,
	explorer func(string) string,
	wiz *pools.Wizard,
	rev uint64,
) {
	sid := sessions.GetSession(r.Context()).ID
	addr := sessions.Address(r.Context())

	if addr == "" {
		wiz.Notice = "Connect your wallet to create a pool"
		sse.MergeFragments(helpers.Fragment(components.Wizard(wiz, false)))
		return
	}

	if err := wiz.BeginSubmit(time.Now().In(pools.DeadlineZone)); err != nil {
		if _, serr := drafts.Save(r.Context(), sid, wiz, rev); serr != nil {
			mergeStoredWizard(r, sse, logger, drafts, sid, addr, serr)
			return
		}
		sse.MergeFragments(helpers.Fragment(components.Wizard(wiz, true)))
		return
	}

	// Saving the submitting step claims the draft; a second tab submitting
	// the same draft loses the revision race here.
	rev, err := drafts.Save(r.Context(), sid, wiz, rev)
	if err != nil {
		mergeStoredWizard(r, sse, logger, drafts, sid, addr, err)
		return
	}
	sse.MergeFragments(helpers.Fragment(components.Wizard(wiz, true)))

	signer := &wallet.BridgeSigner{
		NC:  nc,
		SID: sid,
		Prompt: func(req wallet.SignRequest) error {
			return promptSignature(sse, req)
		},
	}
	// A signed registration runs to completion inside the registrar, so the
	// outcome below is stored even if the visitor already left.
	reg, regErr := newRegistrar(signer).Register(r.Context(), addr, wiz.Draft)
	ctx := context.WithoutCancel(r.Context())
	if err := wiz.FinishSubmit(regErr); err != nil {
		logError(r, logger, "failed to finish submission", err)
		return
	}

	if regErr == nil {
		if err := drafts.Delete(ctx, sid); err != nil {
			logError(r, logger, "failed to delete draft", err)
		}
		if r.Context().Err() == nil {
			sse.MergeFragments(helpers.Fragment(components.PoolCreated(reg.PoolID, wiz.Draft.Name, explorer(reg.TxHash))))
		}
		return
	}

	logger.LogAttrs(ctx, slog.LevelWarn, "pool registration failed", slog.String("error", regErr.Error()))
	if _, err := drafts.Save(ctx, sid, wiz, rev); err != nil {
		logError(r, logger, "failed to save draft", err)
	}
	if r.Context().Err() == nil {
		sse.MergeFragments(helpers.Fragment(components.Wizard(wiz, true)))
	}
}

// mergeStoredWizard renders whatever is stored after a save failed. A stale
// revision means another request moved the draft; show that state instead.
func mergeStoredWizard(r *http.Request, sse *datastar.ServerSentEventGenerator, logger *slog.Logger, drafts *pools.DraftStore, sid, addr string, saveErr error) {
	if !errors.Is(saveErr, pools.ErrStaleDraft) {
		logError(r, logger, "failed to save draft", saveErr)
	}
	stored, _, err := drafts.Load(r.Context(), sid)
	if err != nil {
		logError(r, logger, "failed to load draft", err)
		return
	}
	if errors.Is(saveErr, pools.ErrStaleDraft) && stored.Notice == "" {
		stored.Notice = "This draft was changed in another tab"
	}
	sse.MergeFragments(helpers.Fragment(components.Wizard(stored, addr != "")))
}

// applySignals copies changed form values into the draft. Only fields whose
// value differs from the stored draft count as edits, so untouched fields
// keep their errors.
func applySignals(wiz *pools.Wizard, signals map[string]any) {
	for _, f := range components.WizardFields {
		var v string
		switch raw := signals[string(f)].(type) {
		case string:
			v = raw
		case float64:
			v = strconv.FormatFloat(raw, 'f', -1, 64)
		default:
			continue
		}
		if v == wiz.Draft.Get(f) {
			continue
		}
		// Errors here are a submission in progress or a bad visibility
		// value; both leave the draft as it was.
		_ = wiz.Set(f, v)
	}
}

func promptSignature(sse *datastar.ServerSentEventGenerator, req wallet.SignRequest) error {
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return sse.ExecuteScript("nevoSign(" + string(b) + ")")
}
