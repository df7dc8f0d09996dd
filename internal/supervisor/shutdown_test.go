package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestShutdownManager(t *testing.T) {
	m := NewShutdownManager(time.Second, zerolog.Nop())

	var order []string
	m.AddHook("store", func(context.Context) error {
		order = append(order, "store")
		return nil
	})
	m.AddHook("http", func(ctx context.Context) error {
		order = append(order, "http")
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return errors.New("boom")
	})

	err := m.Shutdown(context.Background())
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"http", "store"}, order)
}
