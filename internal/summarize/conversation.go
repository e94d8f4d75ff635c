package summarize

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a chat conversation.
type Message struct {
	Role    Role
	Content string
}

// Completer performs one chat round-trip: it sends the whole conversation
// and returns the text of the model's reply.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Conversation is a chat session with a fixed system instruction. Each Ask
// is one round-trip; replies are kept so later turns see the earlier ones.
type Conversation struct {
	completer Completer
	messages  []Message
}

// NewConversation opens a conversation with the given system instruction.
func NewConversation(completer Completer, system string) *Conversation {
	return &Conversation{
		completer: completer,
		messages:  []Message{{Role: RoleSystem, Content: system}},
	}
}

// Ask appends a user message, waits for the full reply and records it.
// On error the user message is not kept.
func (c *Conversation) Ask(ctx context.Context, content string) (string, error) {
	pending := append(c.Messages(), Message{Role: RoleUser, Content: content})

	reply, err := c.completer.Complete(ctx, pending)
	if err != nil {
		return "", err
	}

	c.messages = append(pending, Message{Role: RoleAssistant, Content: reply})
	return reply, nil
}

// Messages returns a copy of the conversation so far.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}
