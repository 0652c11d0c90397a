package notify

// Queue is the single notification queue; the worker drains it and
// performs the actual Telegram deliveries.
const Queue = "notify.send"

// Inline-button uniques shared between the worker that renders the
// affordances and the bot process that handles their callbacks.
const (
	BtnClaim        = "claim"
	BtnComplete     = "complete"
	BtnBuyerConfirm = "buyer_confirm"
)

const (
	EventPlain          = "plain"
	EventClaimOffer     = "claim_offer"
	EventRetractClaims  = "retract_claims"
	EventConfirmRequest = "confirm_request"
	EventPayload        = "payload"
)

type Button struct {
	Label  string `json:"label"`
	Unique string `json:"unique"`
	Data   string `json:"data"`
}

// Event is one queued delivery. ChatID is the recipient; for
// retract_claims it is the winning fulfiller whose offer message must
// survive. FallbackChatID receives the text when delivery to ChatID
// fails (used to hand payloads to the operator).
type Event struct {
	Type           string  `json:"type"`
	ChatID         int64   `json:"chat_id,omitempty"`
	FallbackChatID int64   `json:"fallback_chat_id,omitempty"`
	Text           string  `json:"text,omitempty"`
	Button         *Button `json:"button,omitempty"`
	OrderID        string  `json:"order_id,omitempty"`
}
