package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexiz/internal/api"
	"github.com/abhisek/lexiz/internal/app"
	"github.com/abhisek/lexiz/internal/auth"
	"github.com/abhisek/lexiz/internal/backend"
	"github.com/abhisek/lexiz/internal/llm"
	"github.com/abhisek/lexiz/internal/store"
	"github.com/abhisek/lexiz/internal/study"
	"github.com/abhisek/lexiz/internal/translate"
	"github.com/abhisek/lexiz/internal/tts"
	"github.com/abhisek/lexiz/internal/tutor"
)

var (
	errOffline   = errors.New("this command needs the server; run it without --offline")
	errSignedOut = errors.New("not signed in; run `lexiz login` first")
)

// runApp opens the store, builds the services, and launches the TUI.
// modeName, when set, opens the setup screen for that study mode.
func runApp(cmd *cobra.Command, modeName string) error {
	var mode study.Mode
	if modeName != "" {
		m, err := study.ParseMode(modeName)
		if err != nil {
			return err
		}
		mode = m
	}

	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	return app.Run(app.Options{Services: e.services(ctx), Mode: mode})
}

// env is what a command works with: the local store and, unless offline,
// an API client carrying the restored session.
type env struct {
	store  *store.Store
	client *api.Client
}

func openEnv(ctx context.Context) (*env, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	e := &env{store: st}
	if cfg.Offline {
		return e, nil
	}

	authCtx := auth.NewContext(st.Preferences())
	if err := authCtx.Restore(ctx); err != nil {
		warn("could not restore the saved session: %v", err)
	}
	e.client = api.New(cfg.API.BaseURL, authCtx,
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		api.WithLogger(slog.Default()),
	)
	return e, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// resolveDBPath returns the configured path (--db, LEXIZ_DB or the config
// file), falling back to the default XDG path.
func resolveDBPath() (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// deck returns the card backend: the server when online, else the local
// store. Online use needs a signed-in session.
func (e *env) deck() (backend.DeckEditor, error) {
	if e.client == nil {
		return backend.NewLocal(e.store), nil
	}
	if !e.client.Auth().Current().SignedIn() {
		return nil, errSignedOut
	}
	return backend.NewRemote(e.client), nil
}

// services wires the TUI. Results always go to the local history; online
// they are also sent to the server.
func (e *env) services(ctx context.Context) *backend.Services {
	svc := &backend.Services{
		Prefs:   backend.StorePrefs{Repo: e.store.Preferences()},
		History: e.store.Results(),
		Speaker: newSpeaker(),
		Offline: e.client == nil,
	}

	if e.client == nil {
		local := backend.NewLocal(e.store)
		svc.Deck = local
		svc.Profile = local
		svc.Reporter = e.store.Results()
		if chat := e.tutorChat(ctx); chat != nil {
			svc.Chat = chat
		}
		return svc
	}

	remote := backend.NewRemote(e.client)
	svc.Deck = remote
	svc.Profile = remote
	svc.Chat = remote
	svc.Account = remote
	svc.Reporter = backend.FanOut(e.store.Results(), e.client)
	return svc
}

// tutorChat builds the local chat partner, or returns nil when no LLM
// provider is configured.
func (e *env) tutorChat(ctx context.Context) *backend.TutorChat {
	if !cfg.LLM.Configured() {
		return nil
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM, e.store.EventRepo())
	if err != nil {
		warn("chat practice is unavailable: %v", err)
		return nil
	}
	tc := tutor.DefaultConfig()
	return backend.NewTutorChat(
		tutor.NewService(provider, tc),
		tutor.NewCompressor(provider, tutor.DefaultCompressorConfig()),
		tc.HistoryTurns,
	)
}

// newSpeaker returns nil when speech is not configured or no player is
// installed; Listening mode then runs silently.
func newSpeaker() *tts.Speaker {
	if cfg.TTS.Google.APIKey == "" {
		return nil
	}
	synth, err := tts.NewGoogle(cfg.TTS.Google)
	if err != nil {
		slog.Warn("tts disabled", "err", err)
		return nil
	}
	player, err := tts.NewExecPlayer(cfg.TTS.Player)
	if err != nil {
		slog.Warn("tts disabled", "err", err)
		return nil
	}
	sp := tts.NewSpeaker(synth, player)
	sp.Timeout = cfg.TTS.Timeout
	return sp
}

// translator returns nil when translation is not configured.
func translator() *translate.Client {
	c := translate.New(cfg.Translate)
	if !c.Configured() {
		return nil
	}
	return c
}
