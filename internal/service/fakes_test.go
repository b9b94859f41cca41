package service

import (
	"errors"
	"sync"
	"time"

	"toolbay/internal/models"
	"toolbay/internal/repository"
)

// In-memory repository fakes. They enforce the same unique constraints the
// Postgres schema declares, so conflict handling is exercised without a
// live database.

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User // by fingerprint
	events []models.TrustEvent
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) GetByFingerprint(fp string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[fp]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(fp string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[fp]; ok {
		return nil, repository.ErrConflict
	}
	u := &models.User{
		ID:          "user-" + fp[:8],
		Fingerprint: fp,
		TrustScore:  models.DefaultTrustScore,
		CreatedAt:   time.Now(),
		LastActive:  time.Now(),
	}
	f.users[fp] = u
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) RecordContribution(id string) error {
	return f.mutate(id, func(u *models.User) {
		u.TotalContributions++
		u.LastActive = time.Now()
	})
}

func (f *fakeUserRepo) RecordVote(id string) error {
	return f.mutate(id, func(u *models.User) {
		u.TotalVotes++
		u.LastActive = time.Now()
	})
}

func (f *fakeUserRepo) SetBanned(id string, banned bool, reason *string) error {
	return f.mutate(id, func(u *models.User) {
		u.IsBanned = banned
		u.BanReason = reason
	})
}

func (f *fakeUserRepo) AdjustTrust(id string, delta int, reason, actor string) (int, error) {
	var score int
	err := f.mutate(id, func(u *models.User) {
		u.TrustScore += delta
		if u.TrustScore > models.MaxTrustScore {
			u.TrustScore = models.MaxTrustScore
		}
		if u.TrustScore < models.MinTrustScore {
			u.TrustScore = models.MinTrustScore
		}
		score = u.TrustScore
	})
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	f.events = append(f.events, models.TrustEvent{UserID: id, Delta: delta, Reason: reason, Actor: actor})
	f.mu.Unlock()
	return score, nil
}

func (f *fakeUserRepo) Count() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

func (f *fakeUserRepo) mutate(id string, fn func(*models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			fn(u)
			return nil
		}
	}
	return errors.New("user not found")
}

type fakeToolRepo struct {
	mu    sync.Mutex
	tools map[string]*models.Tool
}

func newFakeToolRepo() *fakeToolRepo {
	return &fakeToolRepo{tools: make(map[string]*models.Tool)}
}

func (f *fakeToolRepo) List(repository.ToolFilter) ([]*models.Tool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Tool
	for _, t := range f.tools {
		if t.IsActive && t.IsApproved {
			copied := *t
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeToolRepo) GetByID(id string) (*models.Tool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tools[id]; ok && t.IsActive {
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeToolRepo) GetActiveByURL(url string) (*models.Tool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tools {
		if t.IsActive && t.URL == url {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeToolRepo) Create(tool *models.Tool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tools {
		if t.IsActive && t.URL == tool.URL {
			return repository.ErrConflict
		}
	}
	tool.IsActive = true
	tool.IsApproved = false
	tool.CreatedAt = time.Now()
	tool.UpdatedAt = tool.CreatedAt
	copied := *tool
	f.tools[tool.ID] = &copied
	return nil
}

func (f *fakeToolRepo) Update(tool *models.Tool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.tools[tool.ID]
	if !ok || !existing.IsActive {
		return errors.New("no rows")
	}
	copied := *tool
	copied.IsActive = existing.IsActive
	copied.IsApproved = existing.IsApproved
	f.tools[tool.ID] = &copied
	return nil
}

func (f *fakeToolRepo) SoftDelete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tools[id]; ok && t.IsActive {
		t.IsActive = false
		return nil
	}
	return errors.New("no rows")
}

func (f *fakeToolRepo) SetApproved(id string, approved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tools[id]; ok && t.IsActive {
		t.IsApproved = approved
		return nil
	}
	return errors.New("no rows")
}

func (f *fakeToolRepo) RecomputeRatingAggregates(string) (float64, int, error) { return 0, 0, nil }
func (f *fakeToolRepo) RecomputeOpinionCount(string) (int, error)             { return 0, nil }

func (f *fakeToolRepo) CountActive() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tools), nil
}

type fakeOpinionRepo struct {
	mu       sync.Mutex
	opinions map[string]*models.Opinion
	votes    *fakeVoteRepo
}

func newFakeOpinionRepo(votes *fakeVoteRepo) *fakeOpinionRepo {
	return &fakeOpinionRepo{opinions: make(map[string]*models.Opinion), votes: votes}
}

func (f *fakeOpinionRepo) ListByTool(toolID string, _, _ int) ([]*models.Opinion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Opinion
	for _, o := range f.opinions {
		if o.ToolID == toolID {
			copied := *o
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeOpinionRepo) GetByID(id string) (*models.Opinion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.opinions[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeOpinionRepo) GetByToolAndUser(toolID, userID string) (*models.Opinion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.opinions {
		if o.ToolID == toolID && o.UserID == userID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeOpinionRepo) Create(op *models.Opinion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.opinions {
		if o.ToolID == op.ToolID && o.UserID == op.UserID {
			return repository.ErrConflict
		}
	}
	op.IsApproved = true
	op.CreatedAt = time.Now()
	op.UpdatedAt = op.CreatedAt
	copied := *op
	f.opinions[op.ID] = &copied
	return nil
}

func (f *fakeOpinionRepo) Update(op *models.Opinion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.opinions[op.ID]
	if !ok {
		return errors.New("no rows")
	}
	existing.Content = op.Content
	existing.Rating = op.Rating
	existing.UpdatedAt = time.Now()
	return nil
}

func (f *fakeOpinionRepo) RecomputeVoteTotals(id string) (int, int, error) {
	score, total := f.votes.totalsFor(id)
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.opinions[id]; ok {
		o.VoteScore = score
		o.TotalVotes = total
	}
	return score, total, nil
}

func (f *fakeOpinionRepo) Count() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.opinions), nil
}

type fakeVoteRepo struct {
	mu    sync.Mutex
	votes map[string]*models.Vote
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{votes: make(map[string]*models.Vote)}
}

func (f *fakeVoteRepo) GetByOpinionAndUser(opinionID, userID string) (*models.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.votes {
		if v.OpinionID == opinionID && v.UserID == userID {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeVoteRepo) Create(vote *models.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.votes {
		if v.OpinionID == vote.OpinionID && v.UserID == vote.UserID {
			return repository.ErrConflict
		}
	}
	vote.CreatedAt = time.Now()
	copied := *vote
	f.votes[vote.ID] = &copied
	return nil
}

func (f *fakeVoteRepo) UpdateType(id, voteType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.votes[id]; ok {
		v.VoteType = voteType
		return nil
	}
	return errors.New("no rows")
}

func (f *fakeVoteRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.votes, id)
	return nil
}

func (f *fakeVoteRepo) totalsFor(opinionID string) (score, total int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.votes {
		if v.OpinionID != opinionID {
			continue
		}
		total++
		if v.VoteType == models.VoteUp {
			score++
		} else {
			score--
		}
	}
	return score, total
}

func (f *fakeVoteRepo) rowCount(opinionID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.votes {
		if v.OpinionID == opinionID {
			n++
		}
	}
	return n
}

type fakeRatingRepo struct {
	mu      sync.Mutex
	ratings map[string]*models.Rating
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: make(map[string]*models.Rating)}
}

func (f *fakeRatingRepo) GetByToolAndUser(toolID, userID string) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.ratings {
		if r.ToolID == toolID && r.UserID == userID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRatingRepo) Create(rating *models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.ratings {
		if r.ToolID == rating.ToolID && r.UserID == rating.UserID {
			return repository.ErrConflict
		}
	}
	rating.CreatedAt = time.Now()
	rating.UpdatedAt = rating.CreatedAt
	copied := *rating
	f.ratings[rating.ID] = &copied
	return nil
}

func (f *fakeRatingRepo) Update(id string, value int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.ratings[id]; ok {
		r.Rating = value
		r.UpdatedAt = time.Now()
		return nil
	}
	return errors.New("no rows")
}

func (f *fakeRatingRepo) rowCount(toolID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.ratings {
		if r.ToolID == toolID {
			n++
		}
	}
	return n
}

type fakeCategoryRepo struct{}

func (fakeCategoryRepo) GetActive() ([]*models.Category, error) { return nil, nil }
func (fakeCategoryRepo) Exists(string) (bool, error)            { return true, nil }

type fakeFeedbackRepo struct {
	mu    sync.Mutex
	items []*models.Feedback
}

func (f *fakeFeedbackRepo) Create(fb *models.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fb.CreatedAt = time.Now()
	f.items = append(f.items, fb)
	return nil
}

func (f *fakeFeedbackRepo) List(_, _ int) ([]*models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Feedback(nil), f.items...), nil
}
