package bot

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
	tghelpers "github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/helpers"
)

const msgUnavailable = "😕 Service is temporarily unavailable, please try again later."

// handleStart registers the user and shows the menu matching their role.
func (a *App) handleStart(c tele.Context) error {
	sender := c.Sender()
	ctx := tghelpers.BuildContext(c)

	fullName := strings.TrimSpace(sender.FirstName + " " + sender.LastName)
	if err := a.users.Upsert(ctx, sender.ID, sender.Username, fullName); err != nil {
		_ = tghelpers.SendText(c, msgUnavailable)
		return err
	}

	if a.actingAsAdmin(sender.ID) {
		return tghelpers.SendMD(c, "👋 Welcome back! You are in the *admin* view.", adminMenu())
	}
	return tghelpers.SendMD(c,
		"👋 Welcome to the special machinery marketplace!\n\n"+
			"Browse approved listings or submit your own — every listing is "+
			"reviewed by a moderator before it goes public.",
		a.menuFor(sender.ID))
}

func (a *App) handleUserMode(c tele.Context) error {
	uid := c.Sender().ID
	a.modes.Put(uid, domain.ModeUser)
	return tghelpers.SendMD(c, "👤 You are now browsing as a regular user.", userMenuForAdmin())
}

func (a *App) handleAdminMode(c tele.Context) error {
	uid := c.Sender().ID
	a.modes.Delete(uid)
	return tghelpers.SendMD(c, "👑 Back to the admin view.", adminMenu())
}

func (a *App) handleUnknownText(c tele.Context) error {
	if strings.HasPrefix(c.Text(), "/") {
		return tghelpers.SendMD(c, "🤷 Unknown command. Use the menu below.", a.menuFor(c.Sender().ID))
	}
	return tghelpers.SendMD(c, "Use the menu buttons below 👇", a.menuFor(c.Sender().ID))
}

func (a *App) handleUnexpectedPhoto(c tele.Context) error {
	return tghelpers.SendMD(c,
		"Nice photo! To sell something, start with *"+btnNew+"* first.",
		a.menuFor(c.Sender().ID))
}
