package assembler_test

import (
	"testing"

	"github.com/germanamz/tasksolver/pkg/assembler"
	"github.com/germanamz/tasksolver/pkg/chats/chat"
	"github.com/germanamz/tasksolver/pkg/chats/message"
	"github.com/germanamz/tasksolver/pkg/chats/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest_HistoryAndNewTurnWithImages(t *testing.T) {
	c := chat.New(
		message.New(role.User, "first question"),
		message.New(role.Assistant, "first answer"),
	)

	req := assembler.BuildRequest(c, "second question", []string{"img1", "img2"})

	require.Len(t, req.History, 2)
	assert.Equal(t, "first question", req.History[0].Text)
	assert.Equal(t, "first answer", req.History[1].Text)

	require.Len(t, req.NewTurn.Parts, 3)
	assert.Equal(t, "second question", req.NewTurn.Parts[0].Text)
	assert.Equal(t, []string{"img1", "img2"}, req.Images)
	assert.Equal(t, "second question "+assembler.DefaultLanguageDirective, req.AugmentedText)

	assert.Equal(t, 2, c.Len())
}

func TestBuildRequest_Turn(t *testing.T) {
	req := assembler.BuildRequest(chat.New(), "q", []string{"a"})

	assert.Equal(t, role.User, req.Turn.Role)
	assert.Equal(t, "q", req.Turn.Text())
	assert.Equal(t, []string{"a"}, req.Turn.Images())
}

func TestBuildRequest_DoesNotAliasImages(t *testing.T) {
	images := []string{"a"}
	req := assembler.BuildRequest(chat.New(), "q", images)

	images[0] = "changed"
	assert.Equal(t, []string{"a"}, req.Images)
}

func TestWithDirective(t *testing.T) {
	a := assembler.New(assembler.WithDirective("(answer in English)"))
	assert.Equal(t, "(answer in English)", a.Directive())

	req := a.BuildRequest(chat.New(), "q", nil)
	assert.Equal(t, "q (answer in English)", req.AugmentedText)
}

func TestWithDirective_Empty(t *testing.T) {
	a := assembler.New(assembler.WithDirective(""))
	assert.Equal(t, "q", a.Augment("q"))
}

func TestRequest_Payload(t *testing.T) {
	c := chat.New(message.New(role.User, "h"), message.New(role.Assistant, "r"))
	req := assembler.BuildRequest(c, "q", []string{"a"})

	p := req.Payload("user_42")
	assert.Equal(t, "user_42", p.UserID)
	assert.Equal(t, req.AugmentedText, p.Task)
	assert.Equal(t, []string{"a"}, p.ImagesBase64)
	assert.Empty(t, p.ImageBase64)
	assert.Equal(t, req.History, p.Messages)
}
