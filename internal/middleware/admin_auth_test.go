package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminSessionStore(t *testing.T) {
	t.Parallel()

	store := NewAdminSessionStore()

	assert.False(t, store.Valid(""))
	assert.False(t, store.Valid("no-such-token"))

	token := store.Create()
	assert.NotEmpty(t, token)
	assert.True(t, store.Valid(token))

	other := store.Create()
	assert.NotEqual(t, token, other)

	store.Revoke(token)
	assert.False(t, store.Valid(token))
	assert.True(t, store.Valid(other))
}
