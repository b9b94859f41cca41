package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"toolbay/internal/middleware"
	"toolbay/internal/models"
	"toolbay/internal/service"
)

type stubVoteService struct {
	result *service.VoteResult
	err    error
}

func (s *stubVoteService) Toggle(identity *models.User, opinionID, voteType string) (*service.VoteResult, error) {
	return s.result, s.err
}

func voteRequest(t *testing.T, svc service.VoteService, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	_, router := gin.CreateTestContext(w)

	h := NewVoteHandler(svc, zap.NewNop())
	router.POST("/api/opinions/:opinionId/votes", func(c *gin.Context) {
		c.Set("toolbay.identity", &models.User{ID: "user-1"})
		h.Toggle(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/opinions/op-1/votes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestToggleFirstCastAnswers201(t *testing.T) {
	svc := &stubVoteService{result: &service.VoteResult{Action: models.VoteActionCreated, VoteScore: 1, TotalVotes: 1}}

	w := voteRequest(t, svc, `{"vote_type":"up"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"action":"created"`)
}

func TestToggleRemovalAnswers200(t *testing.T) {
	svc := &stubVoteService{result: &service.VoteResult{Action: models.VoteActionRemoved}}

	w := voteRequest(t, svc, `{"vote_type":"up"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"action":"removed"`)
}

func TestToggleMissingVoteTypeAnswers400(t *testing.T) {
	svc := &stubVoteService{result: &service.VoteResult{Action: models.VoteActionCreated}}

	w := voteRequest(t, svc, `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), CodeValidation)
}

func TestToggleDuplicateVoteAnswers409(t *testing.T) {
	svc := &stubVoteService{err: service.ErrDuplicateVote}

	w := voteRequest(t, svc, `{"vote_type":"down"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// The identity middleware key must line up with what handlers read back.
func TestIdentityContextKeyRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("toolbay.identity", &models.User{ID: "user-7"})

	identity, ok := middleware.IdentityFrom(c)
	assert.True(t, ok)
	assert.Equal(t, "user-7", identity.ID)
}
