package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestConversationTurn(t *testing.T) {
	t.Parallel()

	c := &Conversation{}
	assert.Equal(t, TurnTheirs, c.Turn())
	assert.Nil(t, c.LastMessage())

	c.Messages = append(c.Messages, Message{Body: "hi", Direction: DirectionOutbound})
	assert.Equal(t, TurnTheirs, c.Turn())

	c.Messages = append(c.Messages, Message{Body: "hello", Direction: DirectionInbound})
	assert.Equal(t, TurnYours, c.Turn())
	assert.Equal(t, "hello", c.LastMessage().Body)
}

func TestContactFieldMap(t *testing.T) {
	t.Parallel()

	c := &Contact{
		Phone: "+15550001",
		FName: "Amy",
		Fields: datatypes.JSONMap{
			"fname": "ignored",
			"store": "Downtown",
			"visits": 3,
			"empty":  nil,
		},
	}

	fields := c.FieldMap()
	assert.Equal(t, "Amy", fields["fname"])
	assert.Equal(t, "+15550001", fields["phone"])
	assert.Equal(t, "Downtown", fields["store"])
	assert.Equal(t, "3", fields["visits"])
	assert.Equal(t, "", fields["lname"])
	_, ok := fields["empty"]
	assert.False(t, ok)
}

func TestTemplateKindValid(t *testing.T) {
	t.Parallel()

	assert.True(t, TemplateInitial.Valid())
	assert.True(t, TemplateBlock.Valid())
	assert.False(t, TemplateKind("greeting").Valid())
}
