package service

import (
	"context"
	"errors"
	"strings"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/store"
)

type VoteService struct {
	store store.Store
}

func NewVoteService(st store.Store) *VoteService {
	return &VoteService{store: st}
}

// Cast records voterID's vote on a profile, replacing any earlier vote by the
// same voter. It returns the profile's new total.
func (s *VoteService) Cast(ctx context.Context, voterID, profileID uint, upvote bool) (*models.ProfileVote, int64, error) {
	if voterID == profileID {
		return nil, 0, apperrors.Validation("You cannot vote on your own profile")
	}
	vote := &models.ProfileVote{VoterID: voterID, ProfileID: profileID, IsUpvote: upvote}
	if err := s.store.Votes().Upsert(ctx, vote); err != nil {
		return nil, 0, storeErr(err, "Profile")
	}
	total, err := s.total(ctx, profileID)
	if err != nil {
		return nil, 0, err
	}
	return vote, total, nil
}

// Retract deletes voterID's vote on a profile.
func (s *VoteService) Retract(ctx context.Context, voterID, profileID uint) (int64, error) {
	if err := s.store.Votes().Delete(ctx, voterID, profileID); err != nil {
		return 0, storeErr(err, "Vote")
	}
	return s.total(ctx, profileID)
}

func (s *VoteService) total(ctx context.Context, profileID uint) (int64, error) {
	tally, err := s.store.Votes().Tally(ctx, []uint{profileID})
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return tally[profileID], nil
}

type CommentService struct {
	store store.Store
}

func NewCommentService(st store.Store) *CommentService {
	return &CommentService{store: st}
}

// Create adds commenterID's single comment on a profile. The commenter must
// have voted on the profile first.
func (s *CommentService) Create(ctx context.Context, commenterID, profileID uint, text string) (*models.ProfileComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Validation("comment cannot be empty")
	}
	if commenterID == profileID {
		return nil, apperrors.Validation("You cannot comment on your own profile")
	}
	if _, err := s.store.Profiles().Get(ctx, profileID); err != nil {
		return nil, storeErr(err, "Profile")
	}

	if _, err := s.store.Votes().Get(ctx, commenterID, profileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Validation("You must vote on a profile before commenting")
		}
		return nil, apperrors.Internal(err)
	}

	c := &models.ProfileComment{CommenterID: commenterID, ProfileID: profileID, Comment: text}
	if err := s.store.Comments().Create(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Conflict("You have already commented on this profile")
		}
		return nil, storeErr(err, "Profile")
	}
	return c, nil
}

// Update edits a comment. Only its author may do so.
func (s *CommentService) Update(ctx context.Context, actorID, commentID uint, text string) (*models.ProfileComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Validation("comment cannot be empty")
	}
	c, err := s.owned(ctx, actorID, commentID)
	if err != nil {
		return nil, err
	}
	c.Comment = text
	if err := s.store.Comments().Update(ctx, c); err != nil {
		return nil, storeErr(err, "Comment")
	}
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, actorID, commentID uint) error {
	if _, err := s.owned(ctx, actorID, commentID); err != nil {
		return err
	}
	if err := s.store.Comments().Delete(ctx, commentID); err != nil {
		return storeErr(err, "Comment")
	}
	return nil
}

func (s *CommentService) owned(ctx context.Context, actorID, commentID uint) (*models.ProfileComment, error) {
	c, err := s.store.Comments().Get(ctx, commentID)
	if err != nil {
		return nil, storeErr(err, "Comment")
	}
	if c.CommenterID != actorID {
		return nil, apperrors.Forbidden("You can only change your own comments")
	}
	return c, nil
}
