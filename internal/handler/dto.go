package handler

import (
	"encoding/json"
	"time"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/service"
)

// region --- Requests ---

// SignupInput creates an account together with its profile.
type SignupInput struct {
	Username string `json:"username" binding:"required,max=150" example:"jdoe"`
	Email    string `json:"email" binding:"required,email" example:"jdoe@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
	ProfileInput
}

// ProfileInput holds editable profile fields. Omitted fields stay unchanged.
type ProfileInput struct {
	UserType          *string `json:"user_type" example:"missionary"`
	FirstName         *string `json:"first_name" binding:"omitempty,max=100" example:"David"`
	LastName          *string `json:"last_name" binding:"omitempty,max=100" example:"Kim"`
	StreetAddress     *string `json:"street_address" binding:"omitempty,max=100"`
	City              *string `json:"city" binding:"omitempty,max=100" example:"Nairobi"`
	State             *string `json:"state" binding:"omitempty,max=100"`
	Country           *string `json:"country" binding:"omitempty,max=100" example:"Kenya"`
	PhoneNumber       *string `json:"phone_number" binding:"omitempty,max=100"`
	YearsOfExperience *int    `json:"years_of_experience" binding:"omitempty,min=0"`
	Description       *string `json:"description"`
	IsAnonymous       *bool   `json:"is_anonymous"`
}

func (in ProfileInput) toService() service.ProfileInput {
	return service.ProfileInput{
		UserType:          in.UserType,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		StreetAddress:     in.StreetAddress,
		City:              in.City,
		State:             in.State,
		Country:           in.Country,
		PhoneNumber:       in.PhoneNumber,
		YearsOfExperience: in.YearsOfExperience,
		Description:       in.Description,
		IsAnonymous:       in.IsAnonymous,
	}
}

type TagInput struct {
	TagName        string `json:"tag_name" binding:"required,max=100" example:"Teaching"`
	TagDescription string `json:"tag_description"`
}

type TagUpdateInput struct {
	TagName         *string `json:"tag_name" binding:"omitempty,max=100"`
	TagDescription  *string `json:"tag_description"`
	TagIsPredefined *bool   `json:"tag_is_predefined"`
}

// AddTagInput names the tag by ID or by name.
type AddTagInput struct {
	ProfileID uint   `json:"profile_id" binding:"required" example:"2"`
	TagID     uint   `json:"tag_id" example:"1"`
	TagName   string `json:"tag_name" example:"Teaching"`
}

type RemoveTagInput struct {
	ProfileID uint `json:"profile_id" binding:"required" example:"2"`
	TagID     uint `json:"tag_id" binding:"required" example:"1"`
}

type VoteInput struct {
	IsUpvote *bool `json:"is_upvote" binding:"required"`
}

type CommentInput struct {
	Comment string `json:"comment" binding:"required"`
}

type FriendRequestInput struct {
	ReceiverID uint `json:"receiver_id" binding:"required" example:"3"`
}

type RespondInput struct {
	Action string `json:"action" binding:"required,oneof=accept reject" example:"accept"`
}

type MediaInput struct {
	MediaURL    string `json:"media_url" binding:"required,url,max=255" example:"https://example.com/video.mp4"`
	Description string `json:"description"`
}

// endregion

// region --- Responses ---

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error   string            `json:"error" example:"An error message"`
	Code    string            `json:"code" example:"VALIDATION_FAILED"`
	Details map[string]string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TagResponse struct {
	ID              uint      `json:"id"`
	TagName         string    `json:"tag_name"`
	TagDescription  string    `json:"tag_description"`
	TagIsPredefined bool      `json:"tag_is_predefined"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newTagResponse(tag models.Tag) TagResponse {
	return TagResponse{
		ID:              tag.ID,
		TagName:         tag.TagName,
		TagDescription:  tag.TagDescription,
		TagIsPredefined: tag.TagIsPredefined,
		CreatedAt:       tag.CreatedAt,
		UpdatedAt:       tag.UpdatedAt,
	}
}

// ProfileTagResponse is a tag as it appears on a profile.
type ProfileTagResponse struct {
	ID          uint   `json:"id"`
	TagName     string `json:"tag_name"`
	IsSelfAdded bool   `json:"is_self_added"`
}

type TaggingResponse struct {
	ID          uint      `json:"id"`
	ProfileID   uint      `json:"profile_id"`
	TagID       uint      `json:"tag_id"`
	TagName     string    `json:"tag_name"`
	AddedByID   *uint     `json:"added_by_id"`
	IsSelfAdded bool      `json:"is_self_added"`
	AddedAt     time.Time `json:"added_at"`
}

func newTaggingResponse(t models.ProfileTagging) TaggingResponse {
	return TaggingResponse{
		ID:          t.ID,
		ProfileID:   t.ProfileID,
		TagID:       t.TagID,
		TagName:     t.Tag.TagName,
		AddedByID:   t.AddedByID,
		IsSelfAdded: t.IsSelfAdded,
		AddedAt:     t.AddedAt,
	}
}

// ProfileSummary is the list shape of a profile (view=summary).
type ProfileSummary struct {
	UserID    uint                 `json:"user_id"`
	Username  string               `json:"username"`
	UserType  models.UserType      `json:"user_type"`
	FirstName string               `json:"first_name"`
	LastName  string               `json:"last_name"`
	City      string               `json:"city"`
	State     string               `json:"state"`
	Country   string               `json:"country"`
	Tags      []ProfileTagResponse `json:"tags"`
	VoteCount int64                `json:"vote_count"`
	CreatedAt time.Time            `json:"created_at"`
}

// ProfileDetail is the full shape of a profile (view=detail).
type ProfileDetail struct {
	ProfileSummary
	StreetAddress     string            `json:"street_address"`
	PhoneNumber       string            `json:"phone_number"`
	YearsOfExperience *int              `json:"years_of_experience"`
	Description       string            `json:"description"`
	IsAnonymous       bool              `json:"is_anonymous"`
	CurrentUserVote   *bool             `json:"current_user_vote"`
	Comments          []CommentResponse `json:"comments"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func newProfileSummary(v service.ProfileView) ProfileSummary {
	p := v.Profile
	tags := make([]ProfileTagResponse, 0, len(p.Taggings))
	for _, t := range p.Taggings {
		tags = append(tags, ProfileTagResponse{ID: t.TagID, TagName: t.Tag.TagName, IsSelfAdded: t.IsSelfAdded})
	}
	return ProfileSummary{
		UserID:    p.UserID,
		Username:  p.User.Username,
		UserType:  p.UserType,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		City:      p.City,
		State:     p.State,
		Country:   p.Country,
		Tags:      tags,
		VoteCount: v.VoteCount,
		CreatedAt: p.CreatedAt,
	}
}

func newProfileDetail(v service.ProfileView) ProfileDetail {
	p := v.Profile
	comments := make([]CommentResponse, 0, len(v.Comments))
	for _, c := range v.Comments {
		comments = append(comments, newCommentResponse(c))
	}
	return ProfileDetail{
		ProfileSummary:    newProfileSummary(v),
		StreetAddress:     p.StreetAddress,
		PhoneNumber:       p.PhoneNumber,
		YearsOfExperience: p.YearsOfExperience,
		Description:       p.Description,
		IsAnonymous:       p.IsAnonymous,
		CurrentUserVote:   v.CurrentUserVote,
		Comments:          comments,
		UpdatedAt:         p.UpdatedAt,
	}
}

type VoteResponse struct {
	ProfileID uint  `json:"profile_id"`
	IsUpvote  *bool `json:"is_upvote"`
	VoteCount int64 `json:"vote_count"`
}

type CommentResponse struct {
	ID                uint      `json:"id"`
	ProfileID         uint      `json:"profile_id"`
	CommenterID       uint      `json:"commenter_id"`
	CommenterUsername string    `json:"commenter_username"`
	Comment           string    `json:"comment"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func newCommentResponse(c models.ProfileComment) CommentResponse {
	return CommentResponse{
		ID:                c.ID,
		ProfileID:         c.ProfileID,
		CommenterID:       c.CommenterID,
		CommenterUsername: c.Commenter.Username,
		Comment:           c.Comment,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

type FriendshipResponse struct {
	ID               uint                    `json:"id"`
	SenderID         uint                    `json:"sender_id"`
	SenderUsername   string                  `json:"sender_username"`
	ReceiverID       uint                    `json:"receiver_id"`
	ReceiverUsername string                  `json:"receiver_username"`
	Status           models.FriendshipStatus `json:"status"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

func newFriendshipResponse(f models.Friendship) FriendshipResponse {
	return FriendshipResponse{
		ID:               f.ID,
		SenderID:         f.SenderID,
		SenderUsername:   f.Sender.Username,
		ReceiverID:       f.ReceiverID,
		ReceiverUsername: f.Receiver.Username,
		Status:           f.Status,
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}

type NotificationResponse struct {
	ID               uint                    `json:"id"`
	NotificationType models.NotificationType `json:"notification_type"`
	Message          string                  `json:"message"`
	IsRead           bool                    `json:"is_read"`
	RelatedObjectID  *uint                   `json:"related_object_id"`
	CreatedAt        time.Time               `json:"created_at"`
}

func newNotificationResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:               n.ID,
		NotificationType: n.NotificationType,
		Message:          n.Message,
		IsRead:           n.IsRead,
		RelatedObjectID:  n.RelatedObjectID,
		CreatedAt:        n.CreatedAt,
	}
}

type SearchHistoryResponse struct {
	ID               uint            `json:"id"`
	SearchTime       time.Time       `json:"search_time"`
	SearchText       string          `json:"search_text"`
	SearchParameters json.RawMessage `json:"search_parameters" swaggertype:"object"`
}

func newSearchHistoryResponse(h models.SearchHistory) SearchHistoryResponse {
	params := json.RawMessage(h.SearchParameters)
	if len(params) == 0 {
		params = json.RawMessage("null")
	}
	return SearchHistoryResponse{
		ID:               h.ID,
		SearchTime:       h.SearchTime,
		SearchText:       h.SearchText,
		SearchParameters: params,
	}
}

type MediaResponse struct {
	ID          uint      `json:"id"`
	MediaURL    string    `json:"media_url"`
	Description string    `json:"description"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func newMediaResponse(m models.ExternalMedia) MediaResponse {
	return MediaResponse{
		ID:          m.ID,
		MediaURL:    m.MediaURL,
		Description: m.Description,
		UploadedAt:  m.UploadedAt,
	}
}

// endregion

func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
