package router

import (
	"time"

	tg "github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Conversation is the minimal interface for an in-progress guided flow.
// While a user has an active flow, free text and photos are routed to it.
type Conversation interface {
	InProgress(userID int64) bool
	HandleText(c tele.Context) error
	HandlePhoto(c tele.Context) error
}

// TextOptions controls fallback behaviour for text/photo updates.
type TextOptions struct {
	UnknownText  tele.HandlerFunc
	UnknownPhoto tele.HandlerFunc
}

// TextRoutes builds handlers for text and photo routing.
// Text goes to the active conversation first, then to registered commands
// (menu button labels are command aliases), then to the fallback.
func TextRoutes(conv Conversation, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if conv != nil && conv.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "conversation", start, "", "", func() error {
				return conv.HandleText(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	photoHandler := func(c tele.Context) error {
		start := time.Now()
		if conv != nil && conv.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "conversation_photo", start, "", "", func() error {
				return conv.HandlePhoto(c)
			})
		}
		if opts.UnknownPhoto != nil {
			return handleWithSummary(c, "unexpected_photo", start, "", "", func() error {
				return opts.UnknownPhoto(c)
			})
		}
		logHandlerSummary(c, "unexpected_photo", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
		{
			Endpoint: tele.OnPhoto,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(photoHandler)),
		},
	}
}
