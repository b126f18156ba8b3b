package boardview

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPinStore(t *testing.T) {
	store := NewPinStore()
	project := uuid.Must(uuid.NewV4())
	status := uuid.Must(uuid.NewV4())

	assert.False(t, store.IsPinned("s1", project, status))

	assert.True(t, store.TogglePin("s1", project, status))
	assert.True(t, store.IsPinned("s1", project, status))

	// Закрепления не видны из другой сессии
	assert.False(t, store.IsPinned("s2", project, status))

	assert.False(t, store.TogglePin("s1", project, status))
	assert.False(t, store.IsPinned("s1", project, status))
}

func TestPinStorePinned(t *testing.T) {
	store := NewPinStore()
	project := uuid.Must(uuid.NewV4())
	other := uuid.Must(uuid.NewV4())
	first := uuid.Must(uuid.NewV4())
	second := uuid.Must(uuid.NewV4())

	store.TogglePin("s1", project, first)
	store.TogglePin("s1", project, second)
	store.TogglePin("s1", other, first)

	assert.ElementsMatch(t, []uuid.UUID{first, second}, store.Pinned("s1", project))
	assert.ElementsMatch(t, []uuid.UUID{first}, store.Pinned("s1", other))
	assert.Empty(t, store.Pinned("s2", project))
}

func TestPinStoreDropSession(t *testing.T) {
	store := NewPinStore()
	project := uuid.Must(uuid.NewV4())
	status := uuid.Must(uuid.NewV4())

	store.TogglePin("s1", project, status)
	store.TogglePin("s2", project, status)

	store.DropSession("s1")

	assert.False(t, store.IsPinned("s1", project, status))
	assert.True(t, store.IsPinned("s2", project, status))
}
