package repositories

import "errors"

// Sentinel errors returned by the repository layer. Handlers map these to
// HTTP responses; storage failures are wrapped separately and surface as a
// generic retry-able message.
var (
	// ErrNotFound and ErrNotAuthorized are surfaced identically to callers
	// so a denied actor cannot probe for record existence.
	ErrNotFound       = errors.New("record not found")
	ErrNotAuthorized  = errors.New("not authorized")
	ErrInvalidStatus  = errors.New("invalid status value")
	ErrEmptyMessage   = errors.New("message body cannot be empty")
	ErrNotParticipant = errors.New("not a conversation participant")

	// ErrConversationExists guards the one-open-conversation-per-pair rule.
	ErrConversationExists = errors.New("an open conversation already exists for this pair")

	// ErrConversationClosed is defined for callers that want to refuse
	// writes to a closed conversation. PostMessage deliberately does not
	// return it: closed conversations still accept messages.
	ErrConversationClosed = errors.New("conversation is closed")
)
