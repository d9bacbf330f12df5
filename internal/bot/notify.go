package bot

import (
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/logger"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/format"
	tghelpers "github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/helpers"
)

// enqueueNotice sends a best-effort message to another user through the
// async dispatcher. Notifications never fail the primary operation: a user
// who blocked the bot just does not get one.
func (a *App) enqueueNotice(c tele.Context, action string, userID int64, text string) {
	bot := c.Bot()
	run := func() error {
		_, err := bot.Send(&tele.User{ID: userID}, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
		return err
	}
	ctx := tghelpers.BuildContext(c)
	if a.dispatcher == nil {
		if err := run(); err != nil {
			logger.Warn(ctx, "tg", "notify.failed",
				slog.String("action", action),
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
		return
	}
	if err := a.dispatcher.Enqueue(ctx, action, "sendMessage", run); err != nil {
		logger.Warn(ctx, "tg", "notify.dropped",
			slog.String("action", action),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
}

func (a *App) notifyAdminsOfSubmission(c tele.Context, listingID int64, title string) {
	text := fmt.Sprintf("🔔 New listing #%d is waiting for moderation:\n*%s*", listingID, format.EscapeMarkdown(title))
	for _, adminID := range a.cfg.Telegram.AdminIDs {
		a.enqueueNotice(c, "notify.moderation", adminID, text)
	}
}

func (a *App) notifyOwnerOfDecision(c tele.Context, l domain.Listing) {
	var text string
	switch l.Status {
	case domain.StatusApproved:
		text = fmt.Sprintf("✅ Your listing *#%d* was approved and is now public.", l.ID)
		if l.AdminContact != "" {
			text += fmt.Sprintf("\nQuestions? Reach the moderator: %s", l.AdminContact)
		}
	case domain.StatusRejected:
		text = fmt.Sprintf("❌ Your listing *#%d* was rejected by a moderator.\nYou can submit a new one anytime.", l.ID)
	default:
		return
	}
	a.enqueueNotice(c, "notify.decision", l.OwnerID, text)
}
