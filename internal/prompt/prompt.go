package prompt

import (
	"encoding/json"
	"fmt"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Example is a few-shot pair: a narration and the draft expected for it.
type Example struct {
	Input  string
	Output string
}

// Assemble builds the conversation sent to the completion endpoint: the
// system message, each example as a user/assistant pair in order, then the
// live input as the final user message.
func Assemble(system string, examples []Example, input string) []Message {
	msgs := make([]Message, 0, len(examples)*2+2)
	msgs = append(msgs, Message{Role: RoleSystem, Content: system})
	for _, ex := range examples {
		msgs = append(msgs,
			Message{Role: RoleUser, Content: ex.Input},
			Message{Role: RoleAssistant, Content: ex.Output},
		)
	}
	return append(msgs, Message{Role: RoleUser, Content: input})
}

// Coerce turns a request payload into prompt text. Strings pass through and
// anything else is sent as its JSON encoding.
func Coerce(payload any) string {
	switch v := payload.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.RawMessage:
		return string(v)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprint(payload)
	}
	return string(b)
}

// LastUser returns the content of the final user message, or "".
func LastUser(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
