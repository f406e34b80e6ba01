package core

import "context"

// ExchangeRole identifies the author of one transcript entry as it is sent
// to the conversation provider.
type ExchangeRole string

const (
	ExchangeRoleUser  ExchangeRole = "user"
	ExchangeRoleTutor ExchangeRole = "tutor"
)

// Exchange is one (role, text) pair of the prior transcript.
type Exchange struct {
	Role ExchangeRole
	Text string
}

// Conversationalist is the conversation collaborator: given the ordered
// prior transcript, the new user message, and a composed system instruction,
// it returns the tutor's reply text. A failure is always signalled through
// the error, never as an empty reply.
type Conversationalist interface {
	Reply(ctx context.Context, history []Exchange, userText string, instruction string) (string, error)
}
