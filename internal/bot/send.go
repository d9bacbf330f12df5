package bot

import (
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/browse"
)

// sendListingCard renders one listing synchronously and returns the message
// references, so the browse session can retire them on the next page turn.
// Zero photos become a plain text card, one photo a captioned photo, more an
// album with the caption on the first photo and the navigation markup on a
// trailing message (Telegram cannot attach buttons to albums).
func sendListingCard(c tele.Context, caption string, photos []string, markup *tele.ReplyMarkup) ([]browse.MessageRef, error) {
	bot := c.Bot()
	to := c.Recipient()
	chatID := c.Chat().ID

	switch len(photos) {
	case 0:
		msg, err := bot.Send(to, caption, &tele.SendOptions{
			ParseMode:   tele.ModeMarkdown,
			ReplyMarkup: markup,
		})
		if err != nil {
			return nil, err
		}
		return []browse.MessageRef{{ChatID: chatID, MessageID: msg.ID}}, nil

	case 1:
		photo := &tele.Photo{File: tele.File{FileID: photos[0]}, Caption: caption}
		msg, err := bot.Send(to, photo, &tele.SendOptions{
			ParseMode:   tele.ModeMarkdown,
			ReplyMarkup: markup,
		})
		if err != nil {
			return nil, err
		}
		return []browse.MessageRef{{ChatID: chatID, MessageID: msg.ID}}, nil

	default:
		album := make(tele.Album, 0, len(photos))
		for i, id := range photos {
			photo := &tele.Photo{File: tele.File{FileID: id}}
			if i == 0 {
				photo.Caption = caption
			}
			album = append(album, photo)
		}
		msgs, err := bot.SendAlbum(to, album, tele.ModeMarkdown)
		if err != nil {
			return nil, err
		}
		refs := make([]browse.MessageRef, 0, len(msgs)+1)
		for _, m := range msgs {
			refs = append(refs, browse.MessageRef{ChatID: chatID, MessageID: m.ID})
		}
		nav, err := bot.Send(to, "⬆️ Use the buttons to navigate", &tele.SendOptions{
			ReplyMarkup: markup,
		})
		if err != nil {
			return refs, err
		}
		return append(refs, browse.MessageRef{ChatID: chatID, MessageID: nav.ID}), nil
	}
}

// retireMessages deletes previously rendered session messages. Failures are
// swallowed: the message may already be gone and the new page is on its way.
func retireMessages(bot tele.API, refs []browse.MessageRef) {
	for _, ref := range refs {
		_ = bot.Delete(&tele.StoredMessage{
			MessageID: strconv.Itoa(ref.MessageID),
			ChatID:    ref.ChatID,
		})
	}
}
