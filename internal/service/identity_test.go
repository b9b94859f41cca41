package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolbay/internal/models"
)

func TestResolveCreatesOnFirstSight(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewIdentityService(repo, zap.NewNop())

	user, err := svc.Resolve("aabbccdd00112233aabbccdd00112233")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, models.DefaultTrustScore, user.TrustScore)
	assert.Zero(t, user.TotalContributions)
	assert.False(t, user.IsBanned)
}

func TestResolveIsIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewIdentityService(repo, zap.NewNop())

	first, err := svc.Resolve("aabbccdd00112233aabbccdd00112233")
	require.NoError(t, err)
	second, err := svc.Resolve("aabbccdd00112233aabbccdd00112233")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	count, _ := repo.Count()
	assert.Equal(t, 1, count, "resolving twice must never create two records")
}

func TestResolveConcurrentFirstSight(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewIdentityService(repo, zap.NewNop())

	const goroutines = 16
	ids := make([]string, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := svc.Resolve("ffeeddcc00112233ffeeddcc00112233")
			if assert.NoError(t, err) {
				ids[i] = user.ID
			}
		}(i)
	}
	wg.Wait()

	count, _ := repo.Count()
	require.Equal(t, 1, count, "a creation race must resolve to one record")
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestResolveRejectsEmptyFingerprint(t *testing.T) {
	svc := NewIdentityService(newFakeUserRepo(), zap.NewNop())
	_, err := svc.Resolve("")
	assert.Error(t, err)
}

func TestAdjustTrustClampsScore(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewIdentityService(repo, zap.NewNop())
	user, err := svc.Resolve("aabbccdd00112233aabbccdd00112233")
	require.NoError(t, err)

	score, err := svc.AdjustTrust(user.ID, 500, "verified contribution", "test")
	require.NoError(t, err)
	assert.Equal(t, models.MaxTrustScore, score)

	score, err = svc.AdjustTrust(user.ID, -500, "content removed", "test")
	require.NoError(t, err)
	assert.Equal(t, models.MinTrustScore, score)

	assert.Len(t, repo.events, 2, "every adjustment must be recorded in the ledger")
}

func TestBanRecordsReasonAndEvent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewIdentityService(repo, zap.NewNop())
	user, err := svc.Resolve("aabbccdd00112233aabbccdd00112233")
	require.NoError(t, err)

	require.NoError(t, svc.Ban(user.ID, "spam", "moderator"))

	banned, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, banned.IsBanned)
	require.NotNil(t, banned.BanReason)
	assert.Equal(t, "spam", *banned.BanReason)
	assert.NotEmpty(t, repo.events)

	require.NoError(t, svc.Unban(user.ID, "moderator"))
	unbanned, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.False(t, unbanned.IsBanned)
	assert.Nil(t, unbanned.BanReason)
}

func TestBanUnknownUser(t *testing.T) {
	svc := NewIdentityService(newFakeUserRepo(), zap.NewNop())
	err := svc.Ban("missing", "spam", "moderator")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
