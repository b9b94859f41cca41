package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolbay/internal/broadcast"
	"toolbay/internal/models"
)

type voteFixture struct {
	svc      VoteService
	votes    *fakeVoteRepo
	opinions *fakeOpinionRepo
	users    *fakeUserRepo
	hub      *broadcast.Hub
	opinion  *models.Opinion
	voter    *models.User
}

func newVoteFixture(t *testing.T) *voteFixture {
	t.Helper()
	votes := newFakeVoteRepo()
	f := &voteFixture{
		votes:    votes,
		opinions: newFakeOpinionRepo(votes),
		users:    newFakeUserRepo(),
		hub:      broadcast.NewHub(16, zap.NewNop()),
	}
	f.svc = NewVoteService(f.votes, f.opinions, f.users, f.hub, zap.NewNop())

	author, err := f.users.Create("aabbccdd00112233aabbccdd00112233")
	require.NoError(t, err)
	f.voter, err = f.users.Create("bbccddee00112233bbccddee00112233")
	require.NoError(t, err)

	f.opinion = &models.Opinion{
		ID:      "op-1",
		ToolID:  "tool-1",
		UserID:  author.ID,
		Content: "A perfectly reasonable review.",
	}
	require.NoError(t, f.opinions.Create(f.opinion))
	return f
}

func TestToggleCreateFlipRemove(t *testing.T) {
	f := newVoteFixture(t)

	created, err := f.svc.Toggle(f.voter, f.opinion.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, models.VoteActionCreated, created.Action)
	assert.Equal(t, 1, created.VoteScore)
	assert.Equal(t, 1, created.TotalVotes)

	// Opposite type flips the row in place: score goes 1 -> -1, still one row.
	flipped, err := f.svc.Toggle(f.voter, f.opinion.ID, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, models.VoteActionUpdated, flipped.Action)
	assert.Equal(t, -1, flipped.VoteScore)
	assert.Equal(t, 1, flipped.TotalVotes)
	assert.Equal(t, 1, f.votes.rowCount(f.opinion.ID), "flip must update, not insert a second row")

	// Same type again removes the vote entirely.
	removed, err := f.svc.Toggle(f.voter, f.opinion.ID, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, models.VoteActionRemoved, removed.Action)
	assert.Zero(t, removed.VoteScore)
	assert.Zero(t, removed.TotalVotes)
	assert.Zero(t, f.votes.rowCount(f.opinion.ID))
}

func TestToggleSameTypeIsPeriodTwo(t *testing.T) {
	f := newVoteFixture(t)

	first, err := f.svc.Toggle(f.voter, f.opinion.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, models.VoteActionCreated, first.Action)

	second, err := f.svc.Toggle(f.voter, f.opinion.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, models.VoteActionRemoved, second.Action)

	third, err := f.svc.Toggle(f.voter, f.opinion.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, models.VoteActionCreated, third.Action, "repeating the same vote cycles with period two")
	assert.Equal(t, 1, third.VoteScore)
}

func TestToggleCachedTotalsMatchRows(t *testing.T) {
	f := newVoteFixture(t)
	other, err := f.users.Create("ccddeeff00112233ccddeeff00112233")
	require.NoError(t, err)

	sequence := []struct {
		voter *models.User
		vote  string
	}{
		{f.voter, models.VoteUp},
		{other, models.VoteUp},
		{f.voter, models.VoteDown},
		{other, models.VoteUp}, // removes other's vote
		{f.voter, models.VoteDown},
	}
	for _, step := range sequence {
		_, err := f.svc.Toggle(step.voter, f.opinion.ID, step.vote)
		require.NoError(t, err)
	}

	score, total := f.votes.totalsFor(f.opinion.ID)
	opinion, err := f.opinions.GetByID(f.opinion.ID)
	require.NoError(t, err)
	assert.Equal(t, score, opinion.VoteScore, "cached score must equal aggregate of vote rows")
	assert.Equal(t, total, opinion.TotalVotes)
}

func TestToggleInvalidType(t *testing.T) {
	f := newVoteFixture(t)

	_, err := f.svc.Toggle(f.voter, f.opinion.ID, "sideways")
	assert.ErrorIs(t, err, ErrInvalidVoteType)
	assert.Zero(t, f.votes.rowCount(f.opinion.ID), "invalid vote type must be rejected before touching storage")
}

func TestToggleUnknownOpinion(t *testing.T) {
	f := newVoteFixture(t)

	_, err := f.svc.Toggle(f.voter, "missing", models.VoteUp)
	assert.ErrorIs(t, err, ErrOpinionNotFound)
}

func TestToggleBannedVoter(t *testing.T) {
	f := newVoteFixture(t)
	reason := "vote manipulation"
	require.NoError(t, f.users.SetBanned(f.voter.ID, true, &reason))
	f.voter.IsBanned = true

	_, err := f.svc.Toggle(f.voter, f.opinion.ID, models.VoteUp)
	assert.ErrorIs(t, err, ErrAccountBanned)
}

func TestToggleIncrementsVoterCounter(t *testing.T) {
	f := newVoteFixture(t)

	_, err := f.svc.Toggle(f.voter, f.opinion.ID, models.VoteUp)
	require.NoError(t, err)

	voter, err := f.users.GetByID(f.voter.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, voter.TotalVotes)
}
