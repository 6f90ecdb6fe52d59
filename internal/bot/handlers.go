package bot

import (
	"errors"
	"strconv"
	"strings"

	tghelpers "github.com/m3rciful/wishbot/core/telegram/helpers"
	"github.com/m3rciful/wishbot/core/telegram/state"
	"github.com/m3rciful/wishbot/internal/wishlist"

	tele "gopkg.in/telebot.v4"
)

// gatewayError marks a transport contract violation (e.g. an update
// without a sender). It never crashes the handler loop.
type gatewayError struct {
	code string
	text string
}

func (e *gatewayError) Error() string { return e.text }
func (e *gatewayError) Code() string  { return e.code }

var errNoSender = &gatewayError{code: "no_sender", text: "update has no sender"}

// Handlers binds the wishlist service and the dialog manager to Telegram
// entry points.
type Handlers struct {
	svc *wishlist.Service
	fsm state.Manager
}

// NewHandlers wires handlers and registers every dialog step with the
// manager.
func NewHandlers(svc *wishlist.Service, fsm state.Manager) *Handlers {
	h := &Handlers{svc: svc, fsm: fsm}

	fsm.Handle(StepAddGiftTitle, h.onAddGiftTitle)
	fsm.Handle(StepAddGiftDescription, h.onAddGiftDescription)
	fsm.Handle(StepAddCommentGiftID, h.onAddCommentGiftID)
	fsm.Handle(StepAddCommentText, h.onAddCommentText)
	fsm.Handle(StepReserveGiftID, h.onReserveGiftID)
	fsm.Handle(StepUnreserveGiftID, h.onUnreserveGiftID)
	fsm.Handle(StepRemoveCommentID, h.onRemoveCommentID)

	return h
}

// displayName returns the stable identity string used for authorship and
// reservations: the @username when present, the full name otherwise.
func displayName(u *tele.User) string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

func sender(c tele.Context) (*tele.User, error) {
	u := c.Sender()
	if u == nil {
		return nil, errNoSender
	}
	return u, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Start greets the user and lists the available commands.
func (h *Handlers) Start(c tele.Context) error {
	return tghelpers.SendText(c, welcomeText)
}

// List renders the full wishlist with comments and the action panel.
func (h *Handlers) List(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	overview, err := h.svc.Overview(ctx)
	if err != nil {
		_ = tghelpers.SendText(c, somethingWrongText)
		return err
	}
	if len(overview) == 0 {
		return tghelpers.SendMD(c, emptyListText, mainActionsKB())
	}
	return tghelpers.SendMD(c, renderList(overview), mainActionsKB())
}

// AddStart opens the add-gift dialog.
func (h *Handlers) AddStart(c tele.Context) error {
	u, err := sender(c)
	if err != nil {
		return err
	}
	h.fsm.Start(u.ID, FlowAddGift, StepAddGiftTitle)
	return tghelpers.SendMD(c, addTitlePromptText)
}

func (h *Handlers) onAddGiftTitle(c tele.Context) error {
	u, err := sender(c)
	if err != nil {
		return err
	}
	h.fsm.SetData(u.ID, dataTitle, c.Text())
	h.fsm.Advance(u.ID, StepAddGiftDescription)
	return tghelpers.SendMD(c, addDescriptionPromptText)
}

func (h *Handlers) onAddGiftDescription(c tele.Context) error {
	u, err := sender(c)
	if err != nil {
		return err
	}

	title, ok := h.fsm.Data(u.ID, dataTitle)
	if !ok {
		h.fsm.Clear(u.ID)
		return tghelpers.SendText(c, somethingWrongText)
	}

	var description *string
	if text := c.Text(); strings.TrimSpace(text) != "-" {
		description = &text
	}

	ctx := tghelpers.BuildContext(c)
	gift, err := h.svc.AddGift(ctx, title, description, displayName(u))
	h.fsm.Clear(u.ID)
	if err != nil {
		_ = tghelpers.SendText(c, somethingWrongText)
		return err
	}
	return tghelpers.SendMD(c, renderGiftAdded(gift), mainActionsKB())
}

// CommentStart opens the add-comment dialog.
func (h *Handlers) CommentStart(c tele.Context) error {
	u, err := sender(c)
	if err != nil {
		return err
	}
	h.fsm.Start(u.ID, FlowAddComment, StepAddCommentGiftID)
	return tghelpers.SendMD(c, commentGiftIDPromptText)
}

func (h *Handlers) onAddCommentGiftID(c tele.Context) error {
	u, err := sender(c)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(c.Text())
	if !isDigits(text) {
		return tghelpers.SendText(c, sendNumberText)
	}
	h.fsm.SetData(u.ID, dataGiftID, text)
	h.fsm.Advance(u.ID, StepAddCommentText)
	return tghelpers.SendText(c, commentTextPromptText)
}

func (h *Handlers) onAddCommentText(c tele.Context) error {
	u, err := sender(c)
	if err != nil {
		return err
	}

	giftID, ok := h.fsm.DataInt64(u.ID, dataGiftID)
	if !ok {
		h.fsm.Clear(u.ID)
		return tghelpers.SendText(c, somethingWrongText)
	}

	ctx := tghelpers.BuildContext(c)
	_, err = h.svc.AddComment(ctx, giftID, displayName(u), c.Text())
	h.fsm.Clear(u.ID)
	if errors.Is(err, wishlist.ErrNotFound) {
		_ = tghelpers.SendText(c, giftNotFoundText)
		return err
	}
	if err != nil {
		_ = tghelpers.SendText(c, somethingWrongText)
		return err
	}
	return tghelpers.SendMD(c, commentAddedText, mainActionsKB())
}

// ReserveStart opens the reserve dialog.
func (h *Handlers) ReserveStart(c tele.Context) error {
	u, err := sender(c)
	if err != nil {
		return err
	}
	h.fsm.Start(u.ID, FlowReserveGift, StepReserveGiftID)
	return tghelpers.SendText(c, reservePromptText)
}

func (h *Handlers) onReserveGiftID(c tele.Context) error {
	u, err := sender(c)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(c.Text())
	if !isDigits(text) {
		return tghelpers.SendText(c, sendNumberReserveText)
	}
	giftID, _ := strconv.ParseInt(text, 10, 64)

	ctx := tghelpers.BuildContext(c)
	err = h.svc.Reserve(ctx, giftID, displayName(u))
	h.fsm.Clear(u.ID)
	if errors.Is(err, wishlist.ErrNotFound) {
		_ = tghelpers.SendText(c, giftNotFoundText)
		return err
	}
	if err != nil {
		_ = tghelpers.SendText(c, somethingWrongText)
		return err
	}
	return tghelpers.SendMD(c, reservedText, mainActionsKB())
}

// UnreserveStart opens the unreserve dialog.
func (h *Handlers) UnreserveStart(c tele.Context) error {
	u, err := sender(c)
	if err != nil {
		return err
	}
	h.fsm.Start(u.ID, FlowUnreserveGift, StepUnreserveGiftID)
	return tghelpers.SendText(c, unreservePromptText)
}

func (h *Handlers) onUnreserveGiftID(c tele.Context) error {
	u, err := sender(c)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(c.Text())
	if !isDigits(text) {
		return tghelpers.SendText(c, sendNumberText)
	}
	giftID, _ := strconv.ParseInt(text, 10, 64)

	ctx := tghelpers.BuildContext(c)
	_, err = h.svc.Unreserve(ctx, giftID, displayName(u))
	h.fsm.Clear(u.ID)
	if errors.Is(err, wishlist.ErrNotFound) {
		_ = tghelpers.SendText(c, giftNotFoundText)
		return err
	}
	if errors.Is(err, wishlist.ErrForbidden) {
		_ = tghelpers.SendText(c, unreserveDeniedText)
		return err
	}
	if err != nil {
		_ = tghelpers.SendText(c, somethingWrongText)
		return err
	}
	return tghelpers.SendMD(c, unreservedText, mainActionsKB())
}

// UncommentStart opens the remove-comment dialog.
func (h *Handlers) UncommentStart(c tele.Context) error {
	u, err := sender(c)
	if err != nil {
		return err
	}
	h.fsm.Start(u.ID, FlowRemoveComment, StepRemoveCommentID)
	return tghelpers.SendMD(c, uncommentPromptText)
}

func (h *Handlers) onRemoveCommentID(c tele.Context) error {
	u, err := sender(c)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(c.Text())
	if !isDigits(text) {
		return tghelpers.SendText(c, sendNumberText)
	}
	commentID, _ := strconv.ParseInt(text, 10, 64)

	ctx := tghelpers.BuildContext(c)
	err = h.svc.RemoveComment(ctx, commentID, displayName(u))
	h.fsm.Clear(u.ID)
	if errors.Is(err, wishlist.ErrNotFound) {
		_ = tghelpers.SendText(c, commentNotFoundText)
		return err
	}
	if errors.Is(err, wishlist.ErrForbidden) {
		_ = tghelpers.SendText(c, uncommentDeniedText)
		return err
	}
	if err != nil {
		_ = tghelpers.SendText(c, somethingWrongText)
		return err
	}
	return tghelpers.SendMD(c, commentRemovedText, mainActionsKB())
}
