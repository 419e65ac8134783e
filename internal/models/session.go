package models

// ChatState represents a chat's position in the order flow
type ChatState string

const (
	// ChatStateNew means the chat has never been greeted.
	ChatStateNew ChatState = "new"
	// ChatStateIdle means the chat was greeted and is browsing the menu.
	ChatStateIdle ChatState = "idle"
	// ChatStateAwaitingOrderText means the next free-text message is the order detail.
	ChatStateAwaitingOrderText ChatState = "awaiting_order_text"
	// ChatStateAwaitingConfirmation means an order is waiting for the yes/no buttons.
	ChatStateAwaitingConfirmation ChatState = "awaiting_confirmation"
)

// ChatSession is the single per-chat record tracked by the bot. Holding the
// flow state as one enum keeps contradictory states (awaiting order text and
// confirmation at once) unrepresentable.
type ChatSession struct {
	ChatID        string    `json:"chat_id"`
	DisplayName   string    `json:"display_name"`
	State         ChatState `json:"state"`
	PendingOrder  int       `json:"pending_order,omitempty"`
	PendingDetail string    `json:"pending_detail,omitempty"`
}

// Greeted reports whether the welcome message was already sent.
func (s *ChatSession) Greeted() bool {
	return s.State != ChatStateNew
}

// InOrderFlow reports whether the chat is currently collecting order input.
func (s *ChatSession) InOrderFlow() bool {
	return s.State == ChatStateAwaitingOrderText || s.State == ChatStateAwaitingConfirmation
}

// ClearFlow returns the session to the idle menu state.
func (s *ChatSession) ClearFlow() {
	s.State = ChatStateIdle
	s.PendingOrder = 0
	s.PendingDetail = ""
}
