// Copyright (c) 2026 The StakeVault developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/lvldb"
)

func newStore(t *testing.T) kv.GetPutter {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBucketIsolation(t *testing.T) {
	store := newStore(t)

	b1 := kv.Bucket("x").NewStore(store)
	b2 := kv.Bucket("y").NewStore(store)

	require.NoError(t, b1.Put([]byte("k"), []byte("1")))
	require.NoError(t, b2.Put([]byte("k"), []byte("2")))

	v, err := b1.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	v, err = b2.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)

	require.NoError(t, b1.Delete([]byte("k")))
	_, err = b1.Get([]byte("k"))
	assert.True(t, b1.IsNotFound(err))

	// b2 untouched
	has, err := b2.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestBucketIterator(t *testing.T) {
	store := newStore(t)

	b := kv.Bucket("x").NewStore(store)
	require.NoError(t, b.Put([]byte("a"), []byte("1")))
	require.NoError(t, b.Put([]byte("b"), []byte("2")))

	// a key outside the bucket must not leak into the walk
	require.NoError(t, store.Put([]byte("z"), []byte("9")))

	iter := kv.Bucket("x").NewGetter(store).NewIterator(kv.Range{})
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestBucketBatch(t *testing.T) {
	store := newStore(t)

	b := kv.Bucket("x").NewPutter(store)
	batch := b.NewBatch()
	require.NoError(t, batch.Put([]byte("k"), []byte("v")))
	require.NoError(t, batch.Write())

	v, err := kv.Bucket("x").NewGetter(store).Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
