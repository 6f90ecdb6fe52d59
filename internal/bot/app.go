package bot

import (
	"fmt"

	"github.com/m3rciful/wishbot/core/bootstrap"
	tg "github.com/m3rciful/wishbot/core/telegram"
	"github.com/m3rciful/wishbot/core/telegram/commands"
	"github.com/m3rciful/wishbot/core/telegram/router"
	"github.com/m3rciful/wishbot/core/telegram/state"
	"github.com/m3rciful/wishbot/internal/wishlist"
)

// App aggregates everything the wishlist bot needs at runtime.
type App struct {
	cfg      *AppConfig
	fsm      state.Manager
	registry *tg.Registry
}

// New bootstraps infrastructure (logger, database, migrations) and wires
// the wishlist service, dialog manager, and command registry.
func New(cfg *AppConfig) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	store := wishlist.NewPostgresStore(res.DB)
	svc := wishlist.NewService(store)
	fsm := state.NewMemoryManager(cfg.Core.Conversation.IdleTTL())
	handlers := NewHandlers(svc, fsm)

	app := &App{
		cfg:      cfg,
		fsm:      fsm,
		registry: buildRegistry(handlers),
	}
	return app, nil
}

func buildRegistry(h *Handlers) *tg.Registry {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Welcome and command overview",
	})
	reg.RegisterCommand("/list", commands.Command{
		Handler:     h.List,
		Description: "Show the wishlist",
	})
	reg.RegisterCommand("/add", commands.Command{
		Handler:     h.AddStart,
		Description: "Add a new gift",
	})
	reg.RegisterCommand("/comment", commands.Command{
		Handler:     h.CommentStart,
		Description: "Comment on a gift",
	})
	reg.RegisterCommand("/reserve", commands.Command{
		Handler:     h.ReserveStart,
		Description: "Reserve a gift",
	})
	reg.RegisterCommand("/unreserve", commands.Command{
		Handler:     h.UnreserveStart,
		Description: "Release your reservation",
	})
	reg.RegisterCommand("/uncomment", commands.Command{
		Handler:     h.UncommentStart,
		Description: "Remove your comment",
	})

	_ = reg.RegisterCallback(cbList, h.List)
	_ = reg.RegisterCallback(cbComment, h.CommentStart)
	_ = reg.RegisterCallback(cbAdd, h.AddStart)
	_ = reg.RegisterCallback(cbReserve, h.ReserveStart)
	_ = reg.RegisterCallback(cbUnreserve, h.UnreserveStart)
	// cbDelete stays unbound: there is no removal flow yet, so pressing
	// the button answers with the unsupported-action toast.

	return reg
}

// TelegramRunOptions assembles routes and middleware for the bot runtime.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	routes := router.CommandRoutes(a.registry)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))
	routes = append(routes, router.TextRoute(a.fsm, a.registry, router.TextOptions{}))

	return tg.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
	}, nil
}
