package bot

import (
	"fmt"
	"strings"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/format"
)

func statusIcon(s domain.Status) string {
	switch s {
	case domain.StatusApproved:
		return "✅"
	case domain.StatusRejected:
		return "❌"
	default:
		return "⏳"
	}
}

// listingCaption renders one listing as a Markdown card. User-typed fields
// are escaped so stray formatting characters render literally. showStatus is
// on for the owner's and the administrators' views; public browsing only
// ever sees approved listings, so the icon would be noise there.
func listingCaption(l domain.Listing, showStatus bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📌 *%s*\n\n", format.EscapeMarkdown(l.Title))
	fmt.Fprintf(&b, "%s\n\n", format.EscapeMarkdown(l.Description))
	fmt.Fprintf(&b, "💰 Price: %s\n", format.EscapeMarkdown(l.Price))
	fmt.Fprintf(&b, "📞 Contact: %s\n", format.EscapeMarkdown(l.Contact))
	if l.OwnerName != "" {
		fmt.Fprintf(&b, "👤 Seller: @%s\n", format.EscapeMarkdown(l.OwnerName))
	}
	if l.Status == domain.StatusApproved && l.AdminContact != "" {
		fmt.Fprintf(&b, "🛂 Moderator: %s\n", format.EscapeMarkdown(l.AdminContact))
	}
	fmt.Fprintf(&b, "🕒 %s\n", l.CreatedAt.Format("02.01.2006 15:04"))
	if showStatus {
		fmt.Fprintf(&b, "\n%s %s", statusIcon(l.Status), l.Status)
	}
	return b.String()
}

// listingSummary is the short detail card used by the admin listing index;
// photos are counted rather than sent.
func listingSummary(l domain.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s %s\n\n", l.ID, statusIcon(l.Status), format.EscapeMarkdown(l.Title))
	fmt.Fprintf(&b, "%s\n\n", format.EscapeMarkdown(l.Description))
	fmt.Fprintf(&b, "💰 %s · 📞 %s · 📷 %d\n", format.EscapeMarkdown(l.Price), format.EscapeMarkdown(l.Contact), len(l.Photos))
	fmt.Fprintf(&b, "🕒 %s", l.CreatedAt.Format("02.01.2006 15:04"))
	return b.String()
}

func statsMessage(s domain.Stats) string {
	return fmt.Sprintf(
		"📊 *Board statistics*\n\n"+
			"👥 Users: %d\n"+
			"📋 Listings: %d\n"+
			"✅ Approved: %d\n"+
			"⏳ Pending: %d\n"+
			"❌ Rejected: %d",
		s.Users, s.Listings, s.Approved, s.Pending, s.Rejected,
	)
}
