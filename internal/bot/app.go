// Package bot wires the marketplace flows onto the Telegram transport:
// menu commands, the listing-submission conversation, paginated browsing
// and the moderation surface.
package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/browse"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/config"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/draft"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/logger"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/moderation"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/session"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/storage"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/commands"
	tghelpers "github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/helpers"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/router"
	tgsender "github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/sender"
)

// App holds every long-lived component of the marketplace bot.
type App struct {
	cfg      *config.Config
	users    *storage.UserRepo
	listings *storage.ListingRepo
	drafts   *draft.Manager
	views    *browse.Manager
	mod      *moderation.Coordinator
	modes    *session.Store[domain.Mode]

	dispatcher *tgsender.Dispatcher
}

// New assembles the application over an open database pool.
func New(cfg *config.Config, db *sqlx.DB) *App {
	listings := storage.NewListingRepo(db)
	contact := strings.TrimSpace(cfg.Telegram.AdminUsername)
	if contact != "" && !strings.HasPrefix(contact, "@") {
		contact = "@" + contact
	}
	return &App{
		cfg:      cfg,
		users:    storage.NewUserRepo(db),
		listings: listings,
		drafts:   draft.NewManager(listings),
		views:    browse.NewManager(),
		mod:      moderation.NewCoordinator(listings, contact, cfg.IsAdmin),
		modes:    session.NewStore[domain.Mode](),
	}
}

// actingAsAdmin reports whether the user sees the admin surface right now:
// an administrator who has not switched into user mode.
func (a *App) actingAsAdmin(userID int64) bool {
	if !a.cfg.IsAdmin(userID) {
		return false
	}
	mode, ok := a.modes.Get(userID)
	return !ok || mode != domain.ModeUser
}

func (a *App) menuFor(userID int64) *tele.ReplyMarkup {
	switch {
	case a.actingAsAdmin(userID):
		return adminMenu()
	case a.cfg.IsAdmin(userID):
		return userMenuForAdmin()
	default:
		return userMenu()
	}
}

// requireAdmin gates a handler regardless of which route reached it; menu
// button aliases bypass the command-route admin middleware.
func (a *App) requireAdmin(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !a.cfg.IsAdmin(c.Sender().ID) {
			return tghelpers.SendText(c, "This action is for administrators only.")
		}
		return h(c)
	}
}

func (a *App) buildRegistry() *telegram.Registry {
	reg := telegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Open the main menu",
	})
	reg.RegisterCommand("/listings", commands.Command{
		Handler:     a.handleBrowsePublic,
		Description: "Browse approved listings",
		Aliases:     []string{btnBrowse},
	})
	reg.RegisterCommand("/sell", commands.Command{
		Handler:     a.handleNewListing,
		Description: "Submit a new listing",
		Aliases:     []string{btnNew},
	})
	reg.RegisterCommand("/mylistings", commands.Command{
		Handler:     a.handleBrowseOwn,
		Description: "Your listings",
		Aliases:     []string{btnMine},
	})

	reg.RegisterCommand("/moderation", commands.Command{
		Handler:     a.requireAdmin(a.handleModerationQueue),
		Description: "Review pending listings",
		AdminOnly:   true,
		Aliases:     []string{btnModerate},
	})
	reg.RegisterCommand("/all", commands.Command{
		Handler:     a.requireAdmin(a.handleBrowseAll),
		Description: "Browse all listings",
		AdminOnly:   true,
		Aliases:     []string{btnAdminAll},
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.requireAdmin(a.handleStats),
		Description: "Board statistics",
		AdminOnly:   true,
		Aliases:     []string{btnStats},
	})
	reg.RegisterCommand("/index", commands.Command{
		Handler:     a.requireAdmin(a.handleListingIndex),
		Description: "Listing index",
		AdminOnly:   true,
		Aliases:     []string{btnIndex},
	})
	reg.RegisterCommand("/usermode", commands.Command{
		Handler:     a.requireAdmin(a.handleUserMode),
		Description: "Act as a regular user",
		AdminOnly:   true,
		Hidden:      true,
		Aliases:     []string{btnUserMode},
	})
	reg.RegisterCommand("/adminmode", commands.Command{
		Handler:     a.requireAdmin(a.handleAdminMode),
		Description: "Back to the admin view",
		AdminOnly:   true,
		Hidden:      true,
		Aliases:     []string{btnAdminMode},
	})

	reg.SetTextFallback(a.handleUnknownText)
	return reg
}

func (a *App) registerCallbacks(reg *telegram.Registry) {
	_ = reg.RegisterCallback(cbNoop, func(tele.Context) error { return nil })

	for _, kind := range []domain.BrowseKind{
		domain.BrowsePublic, domain.BrowseOwn, domain.BrowsePending, domain.BrowseAdminAll,
	} {
		prefix := kindPrefix(kind)
		k := kind
		_ = reg.RegisterCallback(prefix+"_prev", func(c tele.Context) error {
			return a.handlePageTurn(c, k, -1)
		})
		_ = reg.RegisterCallback(prefix+"_next", func(c tele.Context) error {
			return a.handlePageTurn(c, k, +1)
		})
		_ = reg.RegisterCallback(prefix+"_close", func(c tele.Context) error {
			return a.handleCloseView(c)
		})
	}

	_ = reg.RegisterCallback(cbApprove, a.requireAdmin(a.handleApprove))
	_ = reg.RegisterCallback(cbReject, a.requireAdmin(a.handleReject))
	_ = reg.RegisterCallback(cbDelete, a.handleDelete)
	_ = reg.RegisterCallback(cbOpenAd, a.requireAdmin(a.handleOpenAd))
	_ = reg.RegisterCallback(cbClosePreview, func(c tele.Context) error {
		return c.Delete()
	})
}

// Run starts the bot and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	startedAt := time.Now()
	reg := a.buildRegistry()
	a.registerCallbacks(reg)

	routes := router.TextRoutes(draftConversation{app: a}, reg, router.TextOptions{
		UnknownPhoto: a.handleUnexpectedPhoto,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		IsAdmin: a.cfg.IsAdmin,
		OnAdminReject: func(c tele.Context) error {
			return tghelpers.SendText(c, "This command is for administrators only.")
		},
	})...)

	return telegram.RunTelegram(ctx, telegram.RunOptions{
		Config:   a.cfg,
		Registry: reg,
		Middlewares: telegram.DefaultMiddlewares(a.cfg, func(c tele.Context) error {
			return tghelpers.SendText(c, "Too many requests, give it a second.")
		}),
		Routes: routes,
		DispatcherOptions: tgsender.Options{
			QueueSize:    256,
			Workers:      4,
			MaxRetries:   3,
			RetryBackoff: 500 * time.Millisecond,
		},
		OnStart: func(ctx context.Context, rt telegram.Runtime) error {
			a.dispatcher = rt.Dispatcher
			logger.Info(ctx, "app", "app.ready",
				slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context, _ telegram.Runtime) error {
			logger.Info(ctx, "app", "app.shutdown")
			return nil
		},
	})
}
