package bot

import (
	"context"
	"errors"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/browse"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/callbacks"
	tghelpers "github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/helpers"
)

func (a *App) handleBrowsePublic(c tele.Context) error {
	return a.openView(c, domain.BrowsePublic)
}

func (a *App) handleBrowseOwn(c tele.Context) error {
	return a.openView(c, domain.BrowseOwn)
}

func (a *App) handleBrowseAll(c tele.Context) error {
	return a.openView(c, domain.BrowseAdminAll)
}

func (a *App) handleModerationQueue(c tele.Context) error {
	return a.openView(c, domain.BrowsePending)
}

func (a *App) itemsFor(ctx context.Context, kind domain.BrowseKind, userID int64) ([]domain.Listing, error) {
	switch kind {
	case domain.BrowseOwn:
		return a.listings.ByOwner(ctx, userID)
	case domain.BrowsePending:
		return a.mod.PendingQueue(ctx)
	case domain.BrowseAdminAll:
		return a.listings.All(ctx)
	default:
		return a.listings.ByStatus(ctx, domain.StatusApproved)
	}
}

func emptyViewMessage(kind domain.BrowseKind) string {
	switch kind {
	case domain.BrowseOwn:
		return "You have no listings yet. Create one with *" + btnNew + "*!"
	case domain.BrowsePending:
		return "🎉 Nothing to moderate."
	case domain.BrowseAdminAll:
		return "The board is empty."
	default:
		return "No listings yet — check back later!"
	}
}

// openView snapshots the requested feed and shows its first page. Any
// previously open view of this user is retired first.
func (a *App) openView(c tele.Context, kind domain.BrowseKind) error {
	uid := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	items, err := a.itemsFor(ctx, kind, uid)
	if err != nil {
		_ = tghelpers.SendText(c, msgUnavailable)
		return err
	}

	page, retire, ok := a.views.Open(uid, kind, items)
	retireMessages(c.Bot(), retire)
	if !ok {
		return tghelpers.SendMD(c, emptyViewMessage(kind), a.menuFor(uid))
	}
	return a.renderPage(c, kind, page)
}

// renderPage sends the current page and records its messages in the session.
func (a *App) renderPage(c tele.Context, kind domain.BrowseKind, page browse.Page) error {
	uid := c.Sender().ID
	showStatus := kind != domain.BrowsePublic
	canDelete := kind == domain.BrowseOwn || kind == domain.BrowseAdminAll

	markup := pageMarkup(kind, page, strconv.FormatInt(page.Listing.ID, 10), canDelete)
	refs, err := sendListingCard(c, listingCaption(page.Listing, showStatus), page.Listing.Photos, markup)
	a.views.FinishRender(uid, kind, refs)
	return err
}

func (a *App) handlePageTurn(c tele.Context, kind domain.BrowseKind, delta int) error {
	uid := c.Sender().ID

	page, retire, err := a.views.Move(uid, kind, delta)
	if errors.Is(err, domain.ErrSessionExpired) {
		return tghelpers.SendText(c, "This view has expired — open it again from the menu.")
	}
	if err != nil {
		return err
	}
	retireMessages(c.Bot(), retire)
	return a.renderPage(c, kind, page)
}

func (a *App) handleCloseView(c tele.Context) error {
	uid := c.Sender().ID
	retireMessages(c.Bot(), a.views.Close(uid))
	return tghelpers.SendMD(c, "Closed. What's next?", a.menuFor(uid))
}

var prefixKinds = map[string]domain.BrowseKind{
	"view": domain.BrowsePublic,
	"my":   domain.BrowseOwn,
	"mod":  domain.BrowsePending,
	"all":  domain.BrowseAdminAll,
}

// handleDelete removes a listing for its owner or an administrator, then
// refreshes the view the delete button lived in.
func (a *App) handleDelete(c tele.Context) error {
	uid := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	parts, err := callbacks.PayloadParts(c, "|")
	if err != nil || len(parts) != 2 {
		return tghelpers.SendText(c, "This button is no longer valid.")
	}
	listingID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return tghelpers.SendText(c, "This button is no longer valid.")
	}

	if _, err := a.mod.Delete(ctx, uid, listingID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return tghelpers.SendText(c, "This listing is already gone.")
		}
		_ = tghelpers.SendText(c, msgUnavailable)
		return err
	}

	kind, knownView := prefixKinds[parts[0]]
	if !knownView {
		// Deleted from a standalone preview; nothing to refresh.
		return tghelpers.SendMD(c, "🗑 Listing deleted.", a.menuFor(uid))
	}

	items, err := a.itemsFor(ctx, kind, uid)
	if err != nil {
		_ = tghelpers.SendText(c, msgUnavailable)
		return err
	}
	return a.refreshView(c, kind, items, "🗑 Listing deleted.")
}

// refreshView swaps the session snapshot and re-renders, closing the view
// when the snapshot ran empty. notice is sent when there is no live session
// to refresh, so the action is still acknowledged.
func (a *App) refreshView(c tele.Context, kind domain.BrowseKind, items []domain.Listing, notice string) error {
	uid := c.Sender().ID

	page, retire, exhausted, err := a.views.Refresh(uid, kind, items)
	if errors.Is(err, domain.ErrSessionExpired) {
		return tghelpers.SendMD(c, notice, a.menuFor(uid))
	}
	if err != nil {
		return err
	}
	retireMessages(c.Bot(), retire)
	if exhausted {
		return tghelpers.SendMD(c, emptyViewMessage(kind), a.menuFor(uid))
	}
	return a.renderPage(c, kind, page)
}
