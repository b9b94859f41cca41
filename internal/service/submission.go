package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"toolbay/internal/broadcast"
	"toolbay/internal/models"
	"toolbay/internal/repository"
)

// Notifier forwards moderation-relevant events to an out-of-band channel.
// Implementations must be nil-receiver safe so the service can run without
// one configured.
type Notifier interface {
	NotifyNewTool(tool *models.Tool)
	NotifyFeedback(feedback *models.Feedback)
}

// SubmitToolRequest carries a new tool submission.
type SubmitToolRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	URL         string   `json:"url" binding:"required"`
	CategoryID  string   `json:"category_id" binding:"required"`
	Pricing     string   `json:"pricing"`
	Tags        []string `json:"tags"`
}

// SubmitOpinionRequest carries opinion content with an optional 1-5 rating.
type SubmitOpinionRequest struct {
	Content string `json:"content" binding:"required"`
	Rating  *int   `json:"rating"`
}

// RatingResult reports the outcome of a rating upsert together with the
// refreshed tool aggregates.
type RatingResult struct {
	Rating        *models.Rating `json:"rating"`
	Created       bool           `json:"-"`
	AverageRating float64        `json:"average_rating"`
	TotalVotes    int            `json:"total_votes"`
}

// SubmissionService is the gatekeeper in front of every anonymous write:
// it checks the ban flag first, then per-identity uniqueness, and only then
// lets the write reach storage.
type SubmissionService interface {
	SubmitTool(identity *models.User, req SubmitToolRequest) (*models.Tool, error)
	SubmitOpinion(identity *models.User, toolID string, req SubmitOpinionRequest) (*models.Opinion, error)
	UpdateOpinion(identity *models.User, opinionID string, req SubmitOpinionRequest) (*models.Opinion, error)
	MyOpinion(identity *models.User, toolID string) (*models.Opinion, error)
	SubmitRating(identity *models.User, toolID string, rating int) (*RatingResult, error)
	MyRating(identity *models.User, toolID string) (*models.Rating, error)
	SubmitFeedback(identity *models.User, subject, message string, email *string) (*models.Feedback, error)
}

type submissionService struct {
	tools      repository.ToolRepository
	opinions   repository.OpinionRepository
	ratings    repository.RatingRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	feedback   repository.FeedbackRepository
	hub        *broadcast.Hub
	notifier   Notifier
	logger     *zap.Logger
}

func NewSubmissionService(
	tools repository.ToolRepository,
	opinions repository.OpinionRepository,
	ratings repository.RatingRepository,
	users repository.UserRepository,
	categories repository.CategoryRepository,
	feedback repository.FeedbackRepository,
	hub *broadcast.Hub,
	notifier Notifier,
	logger *zap.Logger,
) SubmissionService {
	return &submissionService{
		tools:      tools,
		opinions:   opinions,
		ratings:    ratings,
		users:      users,
		categories: categories,
		feedback:   feedback,
		hub:        hub,
		notifier:   notifier,
		logger:     logger,
	}
}

func (s *submissionService) SubmitTool(identity *models.User, req SubmitToolRequest) (*models.Tool, error) {
	if identity.IsBanned {
		return nil, ErrAccountBanned
	}

	canonical, favicon, err := canonicalizeURL(req.URL)
	if err != nil {
		return nil, ErrInvalidURL
	}
	pricing := req.Pricing
	if pricing == "" {
		pricing = models.PricingUnknown
	}
	if !models.ValidPricing(pricing) {
		return nil, ErrInvalidPricing
	}
	exists, err := s.categories.Exists(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return nil, ErrUnknownCategory
	}

	existing, err := s.tools.GetActiveByURL(canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing URL: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateURL
	}

	categoryID := req.CategoryID
	tool := &models.Tool{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		URL:         canonical,
		Favicon:     &favicon,
		CategoryID:  &categoryID,
		Pricing:     pricing,
		Tags:        req.Tags,
		SubmittedBy: &identity.ID,
	}
	if err := s.tools.Create(tool); err != nil {
		if err == repository.ErrConflict {
			// A concurrent submission won the URL race.
			return nil, ErrDuplicateURL
		}
		return nil, fmt.Errorf("failed to create tool: %w", err)
	}

	if err := s.users.RecordContribution(identity.ID); err != nil {
		s.logger.Error("Failed to record contribution", zap.String("user_id", identity.ID), zap.Error(err))
	}

	s.hub.Publish(broadcast.GlobalRoom, broadcast.EventNewTool, tool)
	if s.notifier != nil {
		s.notifier.NotifyNewTool(tool)
	}

	s.logger.Info("Tool submitted", zap.String("tool_id", tool.ID), zap.String("url", tool.URL))
	return tool, nil
}

func (s *submissionService) SubmitOpinion(identity *models.User, toolID string, req SubmitOpinionRequest) (*models.Opinion, error) {
	if identity.IsBanned {
		return nil, ErrAccountBanned
	}
	if err := validateOpinion(req); err != nil {
		return nil, err
	}

	tool, err := s.tools.GetByID(toolID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tool: %w", err)
	}
	if tool == nil {
		return nil, ErrToolNotFound
	}

	existing, err := s.opinions.GetByToolAndUser(toolID, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing opinion: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateOpinion
	}

	opinion := &models.Opinion{
		ID:      uuid.NewString(),
		ToolID:  toolID,
		UserID:  identity.ID,
		Content: strings.TrimSpace(req.Content),
		Rating:  req.Rating,
	}
	if err := s.opinions.Create(opinion); err != nil {
		if err == repository.ErrConflict {
			// The unique index caught a concurrent double submission.
			return nil, ErrDuplicateOpinion
		}
		return nil, fmt.Errorf("failed to create opinion: %w", err)
	}
	opinion.AuthorTrustScore = &identity.TrustScore

	if err := s.users.RecordContribution(identity.ID); err != nil {
		s.logger.Error("Failed to record contribution", zap.String("user_id", identity.ID), zap.Error(err))
	}
	if _, err := s.tools.RecomputeOpinionCount(toolID); err != nil {
		s.logger.Error("Failed to recompute opinion count", zap.String("tool_id", toolID), zap.Error(err))
	}

	s.hub.Publish(broadcast.RoomForTool(toolID), broadcast.EventNewOpinion, opinion)
	return opinion, nil
}

func (s *submissionService) UpdateOpinion(identity *models.User, opinionID string, req SubmitOpinionRequest) (*models.Opinion, error) {
	if identity.IsBanned {
		return nil, ErrAccountBanned
	}
	if err := validateOpinion(req); err != nil {
		return nil, err
	}

	opinion, err := s.opinions.GetByID(opinionID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up opinion: %w", err)
	}
	if opinion == nil {
		return nil, ErrOpinionNotFound
	}
	if opinion.UserID != identity.ID {
		return nil, ErrNotOwner
	}

	opinion.Content = strings.TrimSpace(req.Content)
	opinion.Rating = req.Rating
	if err := s.opinions.Update(opinion); err != nil {
		return nil, fmt.Errorf("failed to update opinion: %w", err)
	}

	s.hub.Publish(broadcast.RoomForTool(opinion.ToolID), broadcast.EventOpinionUpdated, opinion)
	return opinion, nil
}

func (s *submissionService) MyOpinion(identity *models.User, toolID string) (*models.Opinion, error) {
	opinion, err := s.opinions.GetByToolAndUser(toolID, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up opinion: %w", err)
	}
	return opinion, nil // nil means "no opinion yet", not an error
}

func (s *submissionService) MyRating(identity *models.User, toolID string) (*models.Rating, error) {
	rating, err := s.ratings.GetByToolAndUser(toolID, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up rating: %w", err)
	}
	return rating, nil
}

// SubmitRating upserts: repeat submissions update the existing row in place
// and never error. This is deliberate -- ratings are idempotent preferences,
// unlike opinions which are unique authored content.
func (s *submissionService) SubmitRating(identity *models.User, toolID string, value int) (*RatingResult, error) {
	if identity.IsBanned {
		return nil, ErrAccountBanned
	}
	if !models.ValidRating(value) {
		return nil, ErrInvalidRating
	}

	tool, err := s.tools.GetByID(toolID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tool: %w", err)
	}
	if tool == nil {
		return nil, ErrToolNotFound
	}

	existing, err := s.ratings.GetByToolAndUser(toolID, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing rating: %w", err)
	}

	result := &RatingResult{}
	if existing != nil {
		if err := s.ratings.Update(existing.ID, value); err != nil {
			return nil, fmt.Errorf("failed to update rating: %w", err)
		}
		existing.Rating = value
		result.Rating = existing
	} else {
		rating := &models.Rating{
			ID:     uuid.NewString(),
			ToolID: toolID,
			UserID: identity.ID,
			Rating: value,
		}
		err := s.ratings.Create(rating)
		if err == repository.ErrConflict {
			// Concurrent first rating: fall back to updating the winner's row.
			winner, ferr := s.ratings.GetByToolAndUser(toolID, identity.ID)
			if ferr != nil || winner == nil {
				return nil, fmt.Errorf("failed to resolve rating conflict: %w", ferr)
			}
			if err := s.ratings.Update(winner.ID, value); err != nil {
				return nil, fmt.Errorf("failed to update rating: %w", err)
			}
			winner.Rating = value
			result.Rating = winner
		} else if err != nil {
			return nil, fmt.Errorf("failed to create rating: %w", err)
		} else {
			result.Rating = rating
			result.Created = true
		}
	}

	avg, total, err := s.tools.RecomputeRatingAggregates(toolID)
	if err != nil {
		s.logger.Error("Failed to recompute rating aggregates", zap.String("tool_id", toolID), zap.Error(err))
	} else {
		result.AverageRating = avg
		result.TotalVotes = total
	}

	if result.Created {
		if err := s.users.RecordContribution(identity.ID); err != nil {
			s.logger.Error("Failed to record contribution", zap.String("user_id", identity.ID), zap.Error(err))
		}
	}

	s.hub.Publish(broadcast.RoomForTool(toolID), broadcast.EventRatingUpdated, map[string]interface{}{
		"tool_id":        toolID,
		"average_rating": result.AverageRating,
		"total_votes":    result.TotalVotes,
	})
	return result, nil
}

func (s *submissionService) SubmitFeedback(identity *models.User, subject, message string, email *string) (*models.Feedback, error) {
	if identity != nil && identity.IsBanned {
		return nil, ErrAccountBanned
	}

	feedback := &models.Feedback{
		ID:      uuid.NewString(),
		Subject: strings.TrimSpace(subject),
		Message: strings.TrimSpace(message),
		Email:   email,
	}
	if identity != nil {
		feedback.UserID = &identity.ID
	}
	if err := s.feedback.Create(feedback); err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyFeedback(feedback)
	}
	return feedback, nil
}

func validateOpinion(req SubmitOpinionRequest) error {
	if len(strings.TrimSpace(req.Content)) < models.MinOpinionLength {
		return ErrContentTooShort
	}
	if req.Rating != nil && !models.ValidRating(*req.Rating) {
		return ErrInvalidRating
	}
	return nil
}

// canonicalizeURL validates the submitted URL and derives a favicon address
// from its host.
func canonicalizeURL(raw string) (canonical, favicon string, err error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", err
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", "", fmt.Errorf("unsupported url %q", raw)
	}
	parsed.Fragment = ""
	canonical = strings.TrimSuffix(parsed.String(), "/")
	favicon = "https://www.google.com/s2/favicons?sz=64&domain=" + parsed.Hostname()
	return canonical, favicon, nil
}
