package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter é um agregado mínimo usado para exercitar o AggregateRoot
type counter struct {
	AggregateRoot
	Value int
}

type incrementedPayload struct {
	Delta int `json:"delta"`
}

func (c *counter) Apply(e Event) error {
	var p incrementedPayload
	if err := e.DecodeData(&p); err != nil {
		return err
	}
	c.Value += p.Delta
	return nil
}

func (c *counter) Increment(delta int) error {
	return c.Raise(c, "counter", "counter.incremented", "user-1", incrementedPayload{Delta: delta})
}

func newCounter() *counter {
	c := &counter{}
	c.ID = "agg-1"
	c.TenantID = "tenant-1"
	return c
}

func TestRaiseIncrementaVersaoEBuffer(t *testing.T) {
	c := newCounter()

	require.NoError(t, c.Increment(2))
	require.NoError(t, c.Increment(3))

	assert.Equal(t, 5, c.Value)
	assert.Equal(t, 2, c.Version())

	events := c.UncommittedEvents()
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].AggregateVersion)
	assert.Equal(t, 2, events[1].AggregateVersion)
	assert.Equal(t, "agg-1", events[0].AggregateID)
	assert.Equal(t, "tenant-1", events[0].TenantID)
	assert.Equal(t, "counter", events[0].AggregateType)
	assert.Equal(t, "counter.incremented", events[0].Type)
}

func TestClearUncommittedEvents(t *testing.T) {
	c := newCounter()
	require.NoError(t, c.Increment(1))

	c.ClearUncommittedEvents()

	assert.Empty(t, c.UncommittedEvents())
	// Estado e versão não são afetados
	assert.Equal(t, 1, c.Value)
	assert.Equal(t, 1, c.Version())
}

func TestLoadFromHistoryReconstroiOEstado(t *testing.T) {
	original := newCounter()
	require.NoError(t, original.Increment(10))
	require.NoError(t, original.Increment(-4))
	require.NoError(t, original.Increment(1))

	rebuilt := &counter{}
	require.NoError(t, rebuilt.LoadFromHistory(rebuilt, original.UncommittedEvents()))

	assert.Equal(t, original.Value, rebuilt.Value)
	assert.Equal(t, original.Version(), rebuilt.Version())
	// Eventos reaplicados nunca entram no buffer
	assert.Empty(t, rebuilt.UncommittedEvents())
}

func TestLoadFromHistoryEventoForaDeOrdem(t *testing.T) {
	c := newCounter()
	require.NoError(t, c.Increment(1))
	require.NoError(t, c.Increment(1))

	events := c.UncommittedEvents()
	events[0], events[1] = events[1], events[0]

	rebuilt := &counter{}
	err := rebuilt.LoadFromHistory(rebuilt, events)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEventOutOfOrder)
}

func TestLoadFromHistoryAgregadoErrado(t *testing.T) {
	c := newCounter()
	require.NoError(t, c.Increment(1))

	other := &counter{}
	other.ID = "agg-2"
	err := other.LoadFromHistory(other, c.UncommittedEvents())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAggregateMismatch)
}

func TestRestoreDefineIdentidadeEVersao(t *testing.T) {
	c := &counter{}
	c.Restore("agg-9", "tenant-9", 7)

	assert.Equal(t, "agg-9", c.ID)
	assert.Equal(t, "tenant-9", c.TenantID)
	assert.Equal(t, 7, c.Version())
	assert.Empty(t, c.UncommittedEvents())
}
