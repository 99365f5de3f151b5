package blobstore

import (
	"context"
	"testing"

	"github.com/ipfs/go-datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	Agent string  `json:"agent"`
	Price float64 `json:"price"`
}

func TestIPFSStore_RoundTrip(t *testing.T) {
	store := NewIPFSStore(datastore.NewMapDatastore())
	ctx := context.Background()

	hash, err := store.StoreAndSend(ctx, observation{Agent: "agent_1", Price: 42.5})
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	var out observation
	require.NoError(t, store.GetAndRead(ctx, hash, &out))
	assert.Equal(t, observation{Agent: "agent_1", Price: 42.5}, out)
}

func TestIPFSStore_ContentAddressed(t *testing.T) {
	store := NewIPFSStore(datastore.NewMapDatastore())
	ctx := context.Background()

	h1, err := store.StoreAndSend(ctx, observation{Agent: "agent_1", Price: 1})
	require.NoError(t, err)
	h2, err := store.StoreAndSend(ctx, observation{Agent: "agent_1", Price: 1})
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "identical content must hash to the same address")

	h3, err := store.StoreAndSend(ctx, observation{Agent: "agent_1", Price: 2})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestIPFSStore_GetUnknownHash(t *testing.T) {
	store := NewIPFSStore(datastore.NewMapDatastore())
	ctx := context.Background()

	hash, err := store.StoreAndSend(ctx, observation{Agent: "agent_1", Price: 1})
	require.NoError(t, err)

	var out observation
	err = store.GetAndRead(ctx, hash, &out)
	require.NoError(t, err)

	_, err = store.StoreAndSend(ctx, observation{Agent: "agent_2", Price: 2})
	require.NoError(t, err)

	err = store.GetAndRead(ctx, "bafkqaaa", &out)
	require.Error(t, err)
	var ie *InteractionError
	assert.ErrorAs(t, err, &ie)
}

func TestIPFSStore_InvalidHash(t *testing.T) {
	store := NewIPFSStore(datastore.NewMapDatastore())
	var out observation
	err := store.GetAndRead(context.Background(), "not-a-cid", &out)
	require.Error(t, err)
}
