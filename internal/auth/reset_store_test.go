package auth

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryResetTokenStore_PutGetDelete(t *testing.T) {
	store := NewMemoryResetTokenStore()

	rt := ResetToken{Email: "alice@example.com", ExpiresAt: time.Now().Add(24 * time.Hour)}
	store.Put("tok-1", rt)

	got, ok := store.Get("tok-1")
	assert.True(t, ok)
	assert.Equal(t, "alice@example.com", got.Email)

	store.Delete("tok-1")
	_, ok = store.Get("tok-1")
	assert.False(t, ok)
}

func TestMemoryResetTokenStore_GetMissing(t *testing.T) {
	store := NewMemoryResetTokenStore()
	_, ok := store.Get("unknown")
	assert.False(t, ok)
}

func TestResetToken_Expired(t *testing.T) {
	assert.False(t, ResetToken{ExpiresAt: time.Now().Add(time.Hour)}.Expired())
	assert.True(t, ResetToken{ExpiresAt: time.Now().Add(-time.Second)}.Expired())
}

func TestMemoryResetTokenStore_Concurrent(t *testing.T) {
	store := NewMemoryResetTokenStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := fmt.Sprintf("tok-%d", i)
			store.Put(token, ResetToken{Email: "u@example.com", ExpiresAt: time.Now().Add(time.Hour)})
			store.Get(token)
			store.Delete(token)
		}(i)
	}
	wg.Wait()
}
