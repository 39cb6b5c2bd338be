package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/logger"
	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/store"
)

// ProfileInput carries profile fields to set. Nil fields are left unchanged.
type ProfileInput struct {
	UserType          *string
	FirstName         *string
	LastName          *string
	StreetAddress     *string
	City              *string
	State             *string
	Country           *string
	PhoneNumber       *string
	YearsOfExperience *int
	Description       *string
	IsAnonymous       *bool
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	Profile  ProfileInput
}

// ProfileView is a profile with the data its response shapes need.
// Comments is only loaded for the detail shape.
type ProfileView struct {
	Profile         models.Profile
	VoteCount       int64
	CurrentUserVote *bool
	Comments        []models.ProfileComment
}

type ProfileService struct {
	store store.Store
}

func NewProfileService(st store.Store) *ProfileService {
	return &ProfileService{store: st}
}

// Signup creates an account and its profile together.
func (s *ProfileService) Signup(ctx context.Context, in SignupInput) (*models.Profile, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.Validation("username, email and password are required")
	}

	profile := &models.Profile{}
	if err := applyProfileInput(profile, in.Profile); err != nil {
		return nil, err
	}

	_, err := s.store.Users().FindByUsernameOrEmail(ctx, in.Username, in.Email)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("Username or email already taken")
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperrors.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		user := &models.User{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: string(hash),
			Role:         models.RoleUser,
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return apperrors.Conflict("Username or email already taken")
			}
			return err
		}
		profile.UserID = user.ID
		return tx.Profiles().Create(ctx, profile)
	})
	if err != nil {
		return nil, storeErr(err, "Profile")
	}

	logger.FromContext(ctx).Info("account created", "profile_id", profile.UserID)
	return s.Get(ctx, profile.UserID)
}

func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.Profile, error) {
	p, err := s.store.Profiles().Get(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "Profile")
	}
	return p, nil
}

// Update applies in to the caller's own profile.
func (s *ProfileService) Update(ctx context.Context, userID uint, in ProfileInput) (*models.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := applyProfileInput(p, in); err != nil {
		return nil, err
	}
	if err := s.store.Profiles().Update(ctx, p); err != nil {
		return nil, storeErr(err, "Profile")
	}
	return s.Get(ctx, userID)
}

// Delete removes the caller's profile with its taggings and the votes and
// comments it received. The account itself stays.
func (s *ProfileService) Delete(ctx context.Context, userID uint) error {
	if err := s.store.Profiles().Delete(ctx, userID); err != nil {
		return storeErr(err, "Profile")
	}
	logger.FromContext(ctx).Info("profile deleted", "profile_id", userID)
	return nil
}

// Views loads vote totals, the viewer's own vote and, for detail, comments.
// viewerID 0 means an anonymous viewer.
func (s *ProfileService) Views(ctx context.Context, viewerID uint, profiles []models.Profile, detail bool) ([]ProfileView, error) {
	views := make([]ProfileView, 0, len(profiles))
	if len(profiles) == 0 {
		return views, nil
	}

	ids := make([]uint, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}

	tally, err := s.store.Votes().Tally(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	var own map[uint]models.ProfileVote
	if viewerID != 0 {
		if own, err = s.store.Votes().ByVoter(ctx, viewerID, ids); err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	for _, p := range profiles {
		v := ProfileView{Profile: p, VoteCount: tally[p.UserID]}
		if vote, ok := own[p.UserID]; ok {
			up := vote.IsUpvote
			v.CurrentUserVote = &up
		}
		if detail {
			if v.Comments, err = s.store.Comments().ListForProfile(ctx, p.UserID); err != nil {
				return nil, apperrors.Internal(err)
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func applyProfileInput(p *models.Profile, in ProfileInput) error {
	if in.UserType != nil {
		t := models.UserType(strings.ToLower(strings.TrimSpace(*in.UserType)))
		if !t.Valid() {
			return apperrors.Validation("user_type must be one of missionary, supporter, other")
		}
		p.UserType = t
	}
	if in.YearsOfExperience != nil && *in.YearsOfExperience < 0 {
		return apperrors.Validation("years_of_experience cannot be negative")
	}

	setString(&p.FirstName, in.FirstName)
	setString(&p.LastName, in.LastName)
	setString(&p.StreetAddress, in.StreetAddress)
	setString(&p.City, in.City)
	setString(&p.State, in.State)
	setString(&p.Country, in.Country)
	setString(&p.PhoneNumber, in.PhoneNumber)
	setString(&p.Description, in.Description)
	if in.YearsOfExperience != nil {
		years := *in.YearsOfExperience
		p.YearsOfExperience = &years
	}
	if in.IsAnonymous != nil {
		p.IsAnonymous = *in.IsAnonymous
	}
	p.Normalize()
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
