package chat

import (
	"testing"

	"github.com/germanamz/tasksolver/pkg/chats/message"
	"github.com/germanamz/tasksolver/pkg/chats/role"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	m1 := message.New(role.User, "hello")
	m2 := message.New(role.Assistant, "hi")
	c := New(m1, m2)

	assert.Equal(t, 2, c.Len())
}

func TestChat_ZeroValue(t *testing.T) {
	var c Chat

	assert.Equal(t, 0, c.Len())

	_, ok := c.Last()
	assert.False(t, ok)
	assert.Empty(t, c.Messages())
}

func TestChat_Append_PreservesOrder(t *testing.T) {
	c := New()
	c.Append(message.New(role.User, "one"))
	c.Append(
		message.New(role.Assistant, "two"),
		message.New(role.User, "three"),
	)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "one", c.At(0).Text())
	assert.Equal(t, "two", c.At(1).Text())
	assert.Equal(t, "three", c.At(2).Text())
}

func TestChat_At_Panics(t *testing.T) {
	c := New()
	assert.Panics(t, func() { c.At(0) })
}

func TestChat_Last(t *testing.T) {
	c := New(
		message.New(role.User, "first"),
		message.New(role.Assistant, "second"),
	)

	last, ok := c.Last()
	assert.True(t, ok)
	assert.Equal(t, "second", last.Text())
}

func TestChat_Messages_ReturnsCopy(t *testing.T) {
	c := New(message.New(role.User, "hello"))

	msgs := c.Messages()
	msgs[0] = message.New(role.User, "mutated")

	assert.Equal(t, "hello", c.At(0).Text())
}

func TestChat_Each_StopsEarly(t *testing.T) {
	c := New(
		message.New(role.User, "a"),
		message.New(role.Assistant, "b"),
		message.New(role.User, "c"),
	)

	var seen []string
	c.Each(func(_ int, m message.Message) bool {
		seen = append(seen, m.Text())
		return len(seen) < 2
	})

	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestChat_Reset(t *testing.T) {
	c := New(message.New(role.User, "a"), message.New(role.Assistant, "b"))
	c.Reset()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Last()
	assert.False(t, ok)
}
