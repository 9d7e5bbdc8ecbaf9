package server

import (
	"testing"

	"chatter-io/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary(t *testing.T) {
	lib := NewLibrary([]domain.Chat{
		{ID: "thomas", Name: "Thomas"},
		{ID: "thomas", Name: "Thomas"},
		{ID: "", Name: "Алиса"},
		{ID: "thomas-2", Name: "thomas 2"},
	})

	chats := lib.Chats()
	require.Len(t, chats, 4)
	assert.Equal(t, "thomas", chats[0].ID)
	assert.Equal(t, "thomas-2", chats[1].ID)
	assert.Equal(t, "chat", chats[2].ID)
	assert.Equal(t, "thomas-2-2", chats[3].ID)

	got, err := lib.Get("chat")
	require.NoError(t, err)
	assert.Equal(t, "Алиса", got.Name)

	_, err = lib.Get("missing")
	assert.ErrorIs(t, err, ErrChatNotFound)

	chats[0].Name = "changed"
	got, _ = lib.Get("thomas")
	assert.Equal(t, "Thomas", got.Name)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page, p := paginate(items, 3, 3)
	assert.Equal(t, []int{7}, page)
	assert.Equal(t, Pagination{CurrentPage: 3, PageSize: 3, TotalItems: 7, TotalPages: 3}, p)

	page, p = paginate([]int(nil), 1, 50)
	assert.NotNil(t, page)
	assert.Equal(t, 0, p.TotalPages)
}
