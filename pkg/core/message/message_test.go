package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		err  error
	}{
		{"user", NewUserMessage("hi"), nil},
		{"bad role", Message{Role: "robot", Content: "x"}, ErrInvalidRole},
		{"blank content", NewAssistantMessage("  "), ErrEmptyContent},
		{"tool without call id", Message{Role: RoleTool, Content: "42"}, ErrMissingToolCallID},
		{"tool", NewToolMessage("call_1", "calc", "42"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTranscript(t *testing.T) {
	msgs := []Message{
		NewSystemMessage("be brief"),
		NewUserMessage(" what is 6*7? "),
		NewToolMessage("c1", "calc", "42"),
		NewAssistantMessage("42"),
	}
	assert.Equal(t, "system: be brief\nuser: what is 6*7?\ntool(calc): 42\nassistant: 42", Transcript(msgs))
	assert.Equal(t, "", Transcript(nil))
}

func TestLast(t *testing.T) {
	msgs := []Message{NewUserMessage("a"), NewUserMessage("b"), NewUserMessage("c")}

	assert.Len(t, Last(msgs, 2), 2)
	assert.Equal(t, "b", Last(msgs, 2)[0].Content)
	assert.Len(t, Last(msgs, 5), 3)
	assert.Nil(t, Last(msgs, 0))
}
