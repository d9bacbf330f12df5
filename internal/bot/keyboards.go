package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/browse"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/keyboard"
)

// Menu button labels double as command aliases, so pressing a reply button
// routes like typing the command.
const (
	btnBrowse     = "📋 View listings"
	btnNew        = "➕ New listing"
	btnMine       = "📞 My listings"
	btnModerate   = "⏳ Moderation"
	btnAdminAll   = "📋 All listings"
	btnStats      = "📊 Stats"
	btnIndex      = "📝 Listing index"
	btnUserMode   = "👤 User mode"
	btnAdminMode  = "👑 Admin mode"
	btnCancel     = "❌ Cancel"
	btnMorePhotos = "📸 Add more photos"
	btnFinish     = "✅ Finish photos"
)

// Callback uniques. Pagination keys are prefixed per view so a stale button
// from a replaced session cannot drive the wrong one.
const (
	cbNoop         = "noop"
	cbApprove      = "approve"
	cbReject       = "reject"
	cbDelete       = "delete"
	cbOpenAd       = "open_ad"
	cbClosePreview = "close_preview"
)

func userMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{btnBrowse, btnNew},
		[]string{btnMine},
	)
}

func userMenuForAdmin() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{btnBrowse, btnNew},
		[]string{btnMine},
		[]string{btnAdminMode},
	)
}

func adminMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{btnModerate, btnAdminAll},
		[]string{btnStats, btnIndex},
		[]string{btnUserMode},
	)
}

func cancelOnly() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{btnCancel})
}

func photoControls() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{btnMorePhotos, btnFinish},
		[]string{btnCancel},
	)
}

// kindPrefix keys pagination callbacks per view.
func kindPrefix(kind domain.BrowseKind) string {
	switch kind {
	case domain.BrowseOwn:
		return "my"
	case domain.BrowsePending:
		return "mod"
	case domain.BrowseAdminAll:
		return "all"
	default:
		return "view"
	}
}

// pageMarkup builds the inline navigation for one browse page: prev/next
// around the position indicator, then view-specific actions, then close.
func pageMarkup(kind domain.BrowseKind, page browse.Page, listingID string, canDelete bool) *tele.ReplyMarkup {
	prefix := kindPrefix(kind)

	nav := make([]keyboard.InlineBtn, 0, 3)
	if page.HasPrev {
		nav = append(nav, keyboard.InlineBtn{Text: "⬅️", Unique: prefix + "_prev"})
	}
	nav = append(nav, keyboard.InlineBtn{Text: page.Indicator, Unique: cbNoop})
	if page.HasNext {
		nav = append(nav, keyboard.InlineBtn{Text: "➡️", Unique: prefix + "_next"})
	}

	rows := [][]keyboard.InlineBtn{nav}
	switch {
	case kind == domain.BrowsePending:
		rows = append(rows, []keyboard.InlineBtn{
			{Text: "✅ Approve", Unique: cbApprove, Data: listingID},
			{Text: "❌ Reject", Unique: cbReject, Data: listingID},
		})
	case canDelete:
		// The payload carries the view prefix so the handler knows which
		// session to refresh after the row disappears.
		rows = append(rows, []keyboard.InlineBtn{
			{Text: "🗑 Delete", Unique: cbDelete, Data: prefix + "|" + listingID},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{
		{Text: "✖️ Close", Unique: prefix + "_close"},
	})
	return keyboard.InlineButtonsRows(rows...)
}
