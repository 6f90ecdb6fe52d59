package bot

import (
	"github.com/m3rciful/wishbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Callback button keys.
const (
	cbList      = "list"
	cbComment   = "comment"
	cbAdd       = "add"
	cbReserve   = "reserve"
	cbUnreserve = "unreserve"
	cbDelete    = "delete"
)

// mainActionsKB is the action panel attached to list output and flow
// completions.
func mainActionsKB() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "🎁 List Gifts", Unique: cbList},
			{Text: "💬 Comment", Unique: cbComment},
		},
		[]keyboard.InlineBtn{
			{Text: "🔒 Reserve", Unique: cbReserve},
			{Text: "🔓 Unreserve", Unique: cbUnreserve},
		},
	)
}

// extendedActionsKB adds the add/delete row. The delete button is not
// bound to a handler; pressing it answers with the unsupported-action
// toast until a removal flow ships.
func extendedActionsKB() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "🎁 List Gifts", Unique: cbList},
			{Text: "💬 Comment", Unique: cbComment},
		},
		[]keyboard.InlineBtn{
			{Text: "🔒 Reserve", Unique: cbReserve},
			{Text: "🔓 Unreserve", Unique: cbUnreserve},
		},
		[]keyboard.InlineBtn{
			{Text: "➕ Add", Unique: cbAdd},
			{Text: "🗑 Delete", Unique: cbDelete},
		},
	)
}
