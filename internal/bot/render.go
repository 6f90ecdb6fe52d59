package bot

import (
	"fmt"
	"strings"

	"github.com/m3rciful/wishbot/core/telegram/format"
	"github.com/m3rciful/wishbot/internal/wishlist"
)

const (
	welcomeText = "🎁 Welcome to the Birthday Wishlist Bot!\n\n" +
		"Use /list to see gifts\n" +
		"Use /add to add a new gift\n" +
		"Use /comment to comment on a gift\n" +
		"Use /reserve to reserve a gift\n" +
		"Use /unreserve to unreserve a gift\n" +
		"Use /uncomment to remove your comment\n"

	emptyListText = "🎁 Wishlist is empty… for now 👀"

	addTitlePromptText = "🎁 Let’s add a new gift!\n\n" +
		"Send me a *short title* 👇\n"
	addDescriptionPromptText = "✍️ Nice!\n" +
		"Now send a *description* (or `-` if not needed)\n\n"

	commentGiftIDPromptText = "💬 Which gift do you want to comment on?\n" +
		"Send the *gift number* 👇"
	commentTextPromptText = "✍️ Now send your comment\n"
	commentAddedText      = "✅ Comment added!\n" +
		"Thanks for coordinating like a legend 🎉"

	reservePromptText = "🔒 Send gift number to reserve 👇"
	reservedText      = "🔒 Gift reserved! No duplicates today 😎"

	unreservePromptText = "🔓 Send gift number to unreserve 👇"
	unreservedText      = "🔓 Gift is free again 🎁"
	unreserveDeniedText = "❌ You can only unreserve gifts you reserved."

	uncommentPromptText   = "🗑 Send *comment ID* to remove"
	commentRemovedText    = "🗑 Comment removed."
	uncommentDeniedText   = "❌ You can only remove your own comments."
	commentNotFoundText   = "❌ Comment not found."
	giftNotFoundText      = "❌ Gift not found."
	sendNumberText        = "❌ Please send a number 🙃"
	sendNumberReserveText = "❌ Number please 🙂"

	somethingWrongText = "😵 Something went wrong, try again later."
)

// renderList formats the whole wishlist as a single Markdown message.
func renderList(overview []wishlist.GiftOverview) string {
	lines := []string{"🎂🎁 *Birthday Wishlist* 🎁🎂\n"}

	for _, entry := range overview {
		g := entry.Gift
		lines = append(lines, fmt.Sprintf("%d️⃣ *%s*", g.ID, escapeMD(g.Title)))
		if g.Description != nil && *g.Description != "" {
			lines = append(lines, fmt.Sprintf("_%s_", escapeMD(*g.Description)))
		}
		lines = append(lines, statusLine(g))

		if len(entry.Comments) > 0 {
			lines = append(lines, "\n💬 *Comments:*")
			for _, c := range entry.Comments {
				lines = append(lines, fmt.Sprintf("👤 %d. %s: _%s_", c.ID, escapeMD(c.Author), escapeMD(c.Text)))
			}
		}

		lines = append(lines, "\n──────────────\n")
	}

	return strings.Join(lines, "\n")
}

func statusLine(g wishlist.Gift) string {
	switch g.Status {
	case wishlist.StatusAvailable:
		return "🟢 *Available*"
	case wishlist.StatusCommented:
		return "🟡 *Commented*"
	case wishlist.StatusReserved:
		reserver := format.DerefString(g.ReservedBy, "")
		return fmt.Sprintf("🔴 *Reserved* by *%s*", escapeMD(reserver))
	}
	return string(g.Status)
}

// renderGiftAdded is the confirmation shown after the add flow commits.
func renderGiftAdded(g wishlist.Gift) string {
	desc := format.DerefString(g.Description, "")
	if desc != "" {
		desc = fmt.Sprintf("_%s_", escapeMD(desc))
	}
	return fmt.Sprintf(
		"✅ *Gift added!*\n\n%d️⃣ *%s*\n%s\n\nLet the birthday magic begin 🎂✨",
		g.ID, escapeMD(g.Title), desc,
	)
}

func escapeMD(text string) string {
	escaped, err := format.EscapeMarkdown(text, format.MarkdownV1)
	if err != nil {
		return text
	}
	return escaped
}
