package bot

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/domain"
	"github.com/spbbolshoy-create/sale-spectech-bot/internal/draft"
	tghelpers "github.com/spbbolshoy-create/sale-spectech-bot/internal/telegram/helpers"
)

// draftConversation routes free text and photos into the submission flow
// while the user has a draft in progress.
type draftConversation struct {
	app *App
}

func (d draftConversation) InProgress(userID int64) bool {
	return d.app.drafts.Active(userID)
}

func (d draftConversation) HandleText(c tele.Context) error {
	a := d.app
	uid := c.Sender().ID

	switch c.Text() {
	case btnCancel, "/cancel":
		a.drafts.Cancel(uid)
		return tghelpers.SendMD(c, "🚫 Listing cancelled.", a.menuFor(uid))
	case btnMorePhotos:
		count, err := a.drafts.RequestMorePhotos(uid)
		if err != nil {
			return a.replyDraftError(c, err)
		}
		return tghelpers.SendMD(c,
			fmt.Sprintf("Send photo %d of %d.", count+1, domain.MaxPhotos),
			photoControls())
	case btnFinish:
		return a.finishDraft(c)
	}

	next, err := a.drafts.SubmitText(uid, c.Text())
	if err != nil {
		return a.replyDraftError(c, err)
	}
	return a.promptStep(c, next)
}

func (d draftConversation) HandlePhoto(c tele.Context) error {
	a := d.app
	uid := c.Sender().ID

	photo := c.Message().Photo
	if photo == nil {
		return nil
	}
	count, limitReached, err := a.drafts.SubmitPhoto(uid, photo.FileID)
	if err != nil {
		return a.replyDraftError(c, err)
	}
	if limitReached {
		return tghelpers.SendMD(c,
			fmt.Sprintf("📸 Photo %d of %d added — that's the limit. Finish to submit.", count, domain.MaxPhotos),
			photoControls())
	}
	return tghelpers.SendMD(c,
		fmt.Sprintf("📸 Photo %d of %d added. Add more or finish.", count, domain.MaxPhotos),
		photoControls())
}

// handleNewListing starts a fresh draft, replacing an unfinished one.
func (a *App) handleNewListing(c tele.Context) error {
	a.drafts.Begin(c.Sender().ID)
	return tghelpers.SendMD(c,
		"📝 Let's create a listing!\n\n"+
			fmt.Sprintf("*Step 1/5* — send the title (at least %d characters).", domain.MinTitleLen),
		cancelOnly())
}

func (a *App) promptStep(c tele.Context, step draft.Step) error {
	switch step {
	case draft.StepDescription:
		return tghelpers.SendMD(c,
			fmt.Sprintf("*Step 2/5* — send the description (at least %d characters).", domain.MinDescriptionLen),
			cancelOnly())
	case draft.StepPrice:
		return tghelpers.SendMD(c, "*Step 3/5* — send the price.", cancelOnly())
	case draft.StepContact:
		return tghelpers.SendMD(c, "*Step 4/5* — send contact details for buyers.", cancelOnly())
	case draft.StepPhoto:
		return tghelpers.SendMD(c,
			fmt.Sprintf("*Step 5/5* — send up to %d photos.", domain.MaxPhotos),
			photoControls())
	default:
		return nil
	}
}

func (a *App) finishDraft(c tele.Context) error {
	uid := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	id, submitted, err := a.drafts.Finalize(ctx, uid)
	if err != nil {
		return a.replyDraftError(c, err)
	}
	a.notifyAdminsOfSubmission(c, id, submitted.Title)
	return tghelpers.SendMD(c,
		fmt.Sprintf("✅ Listing *#%d* submitted for moderation.\nYou'll get a message once it's reviewed.", id),
		a.menuFor(uid))
}

// replyDraftError turns a flow error into user guidance. Validation keeps
// the draft where it is; an expired session sends the user back to the menu;
// anything else is a real failure and propagates for the summary log.
func (a *App) replyDraftError(c tele.Context, err error) error {
	switch {
	case domain.IsValidation(err):
		return tghelpers.SendText(c, "⚠️ "+err.Error())
	case errors.Is(err, domain.ErrSessionExpired):
		return tghelpers.SendMD(c, "Your draft is gone — start a new one with *"+btnNew+"*.", a.menuFor(c.Sender().ID))
	default:
		_ = tghelpers.SendText(c, msgUnavailable)
		return err
	}
}
