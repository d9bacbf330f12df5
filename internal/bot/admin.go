package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/moderation"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/callbacks"
	tghelpers "github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/helpers"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/keyboard"
)

func (a *App) handleApprove(c tele.Context) error {
	return a.handleDecision(c, a.mod.Approve)
}

func (a *App) handleReject(c tele.Context) error {
	return a.handleDecision(c, a.mod.Reject)
}

// handleDecision applies a moderation verdict and advances the queue view.
// When two moderators race on the same listing, exactly one verdict lands;
// the loser is told and shown the freshened queue.
func (a *App) handleDecision(c tele.Context, decide func(ctx context.Context, id int64) (moderation.Decision, error)) error {
	ctx := tghelpers.BuildContext(c)

	listingID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.SendText(c, "This button is no longer valid.")
	}

	dec, err := decide(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = tghelpers.SendText(c, "This listing was already handled by another moderator.")
			return a.refreshPendingView(c)
		}
		_ = tghelpers.SendText(c, msgUnavailable)
		return err
	}

	a.notifyOwnerOfDecision(c, dec.Listing)
	return a.refreshView(c, domain.BrowsePending, dec.Queue,
		fmt.Sprintf("Listing *#%d* %s.", dec.Listing.ID, dec.Listing.Status))
}

func (a *App) refreshPendingView(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	queue, err := a.mod.PendingQueue(ctx)
	if err != nil {
		return err
	}
	return a.refreshView(c, domain.BrowsePending, queue, "Queue refreshed.")
}

func (a *App) handleStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	stats, err := a.listings.Counts(ctx)
	if err != nil {
		_ = tghelpers.SendText(c, msgUnavailable)
		return err
	}
	return tghelpers.SendMD(c, statsMessage(stats), adminMenu())
}

// handleListingIndex shows every listing id as a tappable button, four per
// row, so an administrator can jump straight to a specific listing.
func (a *App) handleListingIndex(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	items, err := a.listings.All(ctx)
	if err != nil {
		_ = tghelpers.SendText(c, msgUnavailable)
		return err
	}
	if len(items) == 0 {
		return tghelpers.SendMD(c, "The board is empty.", adminMenu())
	}

	buttons := make([]keyboard.InlineBtn, 0, len(items))
	for _, l := range items {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fmt.Sprintf("%s #%d", statusIcon(l.Status), l.ID),
			Unique: cbOpenAd,
			Data:   strconv.FormatInt(l.ID, 10),
		})
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, 4)
	closeRow := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "✖️ Close", Unique: cbClosePreview},
	})
	markup.InlineKeyboard = append(markup.InlineKeyboard, closeRow.InlineKeyboard...)

	return tghelpers.SendMD(c, "📝 *Listing index* — tap an id to open it:", markup)
}

// handleOpenAd shows a compact detail card for one listing out of the index.
func (a *App) handleOpenAd(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	listingID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.SendText(c, "This button is no longer valid.")
	}
	l, err := a.listings.Listing(ctx, listingID)
	if errors.Is(err, domain.ErrNotFound) {
		return tghelpers.SendText(c, "This listing no longer exists.")
	}
	if err != nil {
		_ = tghelpers.SendText(c, msgUnavailable)
		return err
	}

	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "🗑 Delete", Unique: cbDelete, Data: "index|" + strconv.FormatInt(l.ID, 10)},
		{Text: "✖️ Close", Unique: cbClosePreview},
	})
	return tghelpers.SendMD(c, listingSummary(l), markup)
}
