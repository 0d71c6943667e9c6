package rememberme

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/persistauth/crypto"
	"github.com/tech-arch1tect/persistauth/testutils"
)

func newTestStore(t *testing.T) TokenStore {
	t.Helper()
	return NewGormStore(testutils.SetupTestDB(t, Models()...))
}

func testRecord(userID uint) *RememberMeToken {
	raw, _ := crypto.GenerateToken()
	now := time.Now()
	return &RememberMeToken{
		TokenID:   raw[:32],
		UserID:    userID,
		TokenHash: crypto.HashToken(raw),
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestGormStore_InsertAndFind(t *testing.T) {
	store := newTestStore(t)

	rec := testRecord(1)
	require.NoError(t, store.Insert(rec))

	t.Run("finds by hash", func(t *testing.T) {
		found, err := store.FindByHash(rec.TokenHash)

		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, rec.TokenID, found.TokenID)
		assert.Equal(t, rec.UserID, found.UserID)
	})

	t.Run("absent hash is nil, nil", func(t *testing.T) {
		found, err := store.FindByHash("no-such-hash")

		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("duplicate hash fails with persistence error", func(t *testing.T) {
		dup := testRecord(1)
		dup.TokenHash = rec.TokenHash

		err := store.Insert(dup)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPersistence)
	})

	t.Run("finds by token id scoped to user", func(t *testing.T) {
		found, err := store.FindByTokenID(rec.UserID, rec.TokenID)
		require.NoError(t, err)
		require.NotNil(t, found)

		other, err := store.FindByTokenID(rec.UserID+1, rec.TokenID)
		require.NoError(t, err)
		assert.Nil(t, other)
	})
}

func TestGormStore_TouchLastUsed(t *testing.T) {
	store := newTestStore(t)

	rec := testRecord(1)
	require.NoError(t, store.Insert(rec))
	require.Nil(t, rec.LastUsedAt)

	at := time.Now()
	require.NoError(t, store.TouchLastUsed(rec.TokenHash, at))

	found, err := store.FindByHash(rec.TokenHash)
	require.NoError(t, err)
	require.NotNil(t, found.LastUsedAt)
	assert.WithinDuration(t, at, *found.LastUsedAt, time.Second)

	t.Run("touching an absent hash is a no-op", func(t *testing.T) {
		require.NoError(t, store.TouchLastUsed("no-such-hash", at))
	})
}

func TestGormStore_Delete(t *testing.T) {
	store := newTestStore(t)

	rec := testRecord(1)
	require.NoError(t, store.Insert(rec))

	require.NoError(t, store.DeleteByHash(rec.TokenHash))

	found, err := store.FindByHash(rec.TokenHash)
	require.NoError(t, err)
	assert.Nil(t, found)

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.DeleteByHash(rec.TokenHash))
	})

	t.Run("hash is reusable after hard delete", func(t *testing.T) {
		again := testRecord(1)
		again.TokenHash = rec.TokenHash
		require.NoError(t, store.Insert(again))
	})
}

func TestGormStore_DeleteAllForUser(t *testing.T) {
	store := newTestStore(t)

	a := testRecord(1)
	b := testRecord(1)
	c := testRecord(2)
	require.NoError(t, store.Insert(a))
	require.NoError(t, store.Insert(b))
	require.NoError(t, store.Insert(c))

	require.NoError(t, store.DeleteAllForUser(1))

	mine, err := store.ListForUser(1)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := store.ListForUser(2)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)

	t.Run("idempotent for a user with no tokens", func(t *testing.T) {
		require.NoError(t, store.DeleteAllForUser(99))
	})
}

func TestGormStore_ListForUser_ExcludesExpired(t *testing.T) {
	store := newTestStore(t)

	live := testRecord(1)
	require.NoError(t, store.Insert(live))

	dead := testRecord(1)
	dead.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, store.Insert(dead))

	recs, err := store.ListForUser(1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, live.TokenID, recs[0].TokenID)
}

func TestGormStore_RevocationEpoch(t *testing.T) {
	store := newTestStore(t)

	t.Run("zero value before any bulk revoke", func(t *testing.T) {
		epoch, err := store.RevocationEpoch(1)

		require.NoError(t, err)
		assert.True(t, epoch.IsZero())
	})

	t.Run("set and read back", func(t *testing.T) {
		at := time.Now()
		require.NoError(t, store.SetRevocationEpoch(1, at))

		epoch, err := store.RevocationEpoch(1)
		require.NoError(t, err)
		assert.WithinDuration(t, at, epoch, time.Second)
	})

	t.Run("second set moves the epoch forward", func(t *testing.T) {
		later := time.Now().Add(time.Hour)
		require.NoError(t, store.SetRevocationEpoch(1, later))

		epoch, err := store.RevocationEpoch(1)
		require.NoError(t, err)
		assert.WithinDuration(t, later, epoch, time.Second)
	})

	t.Run("epochs are per user", func(t *testing.T) {
		epoch, err := store.RevocationEpoch(2)

		require.NoError(t, err)
		assert.True(t, epoch.IsZero())
	})
}
