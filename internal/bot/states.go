package bot

import "github.com/m3rciful/wishbot/core/telegram/state"

// Dialog flows. One active flow per user; starting a new one replaces it.
const (
	FlowAddGift       state.Flow = "add_gift"
	FlowAddComment    state.Flow = "add_comment"
	FlowReserveGift   state.Flow = "reserve"
	FlowUnreserveGift state.Flow = "unreserve"
	FlowRemoveComment state.Flow = "remove_comment"
)

// Dialog steps, namespaced by flow.
const (
	StepAddGiftTitle       state.Step = "add_gift.waiting_title"
	StepAddGiftDescription state.Step = "add_gift.waiting_description"

	StepAddCommentGiftID state.Step = "add_comment.waiting_gift_id"
	StepAddCommentText   state.Step = "add_comment.waiting_text"

	StepReserveGiftID   state.Step = "reserve.waiting_id"
	StepUnreserveGiftID state.Step = "unreserve.waiting_id"

	StepRemoveCommentID state.Step = "remove_comment.waiting_comment_id"
)

// Session data keys.
const (
	dataTitle  = "title"
	dataGiftID = "gift_id"
)
