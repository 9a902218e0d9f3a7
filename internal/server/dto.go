package server

import (
	"time"

	"chorus/internal/models"

	"github.com/samber/lo"
)

const avatarPathPrefix = "/api/v1/files/avatars/"

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Bio       *string `json:"bio"`
	Avatar    *string `json:"avatar"`
	AvatarURL *string `json:"avatarUrl"`
	CreatedAt string  `json:"createdAt"`
}

// AuthorResponse is the compact author shown on posts and comments.
type AuthorResponse struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatarUrl"`
}

type CommentResponse struct {
	ID        uint           `json:"id"`
	PostID    uint           `json:"postId"`
	Text      string         `json:"text"`
	Author    AuthorResponse `json:"author"`
	CreatedAt string         `json:"createdAt"`
}

// PostResponse is a post with the viewer-specific fields flattened in.
type PostResponse struct {
	ID            uint              `json:"id"`
	Text          string            `json:"text"`
	Author        AuthorResponse    `json:"author"`
	CreatedAt     string            `json:"createdAt"`
	LikesCount    int64             `json:"likesCount"`
	IsLiked       bool              `json:"isLiked"`
	CommentsCount int64             `json:"commentsCount"`
	Comments      []CommentResponse `json:"comments"`
}

type FollowResponse struct {
	ID          uint   `json:"id"`
	FollowerID  uint   `json:"followerId"`
	FollowingID uint   `json:"followingId"`
	CreatedAt   string `json:"createdAt"`
}

type ProfileResponse struct {
	UserResponse
	PostsCount     int64 `json:"postsCount"`
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
	IsFollowing    bool  `json:"isFollowing"`
	IsOwnProfile   bool  `json:"isOwnProfile"`
}

type SearchUserResponse struct {
	AuthorResponse
	Bio         *string `json:"bio"`
	IsFollowing bool    `json:"isFollowing"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func avatarURL(key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	return lo.ToPtr(avatarPathPrefix + *key)
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		AvatarURL: avatarURL(u.Avatar),
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func toAuthorResponse(u models.User) AuthorResponse {
	return AuthorResponse{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: avatarURL(u.Avatar),
	}
}

func toCommentResponse(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Text:      c.Text,
		Author:    toAuthorResponse(c.Author),
		CreatedAt: formatTime(c.CreatedAt),
	}
}

func toCommentResponses(comments []models.Comment) []CommentResponse {
	return lo.Map(comments, func(c models.Comment, _ int) CommentResponse {
		return toCommentResponse(c)
	})
}

// toPlainPostResponse renders a freshly created post, which has no likes or comments yet.
func toPlainPostResponse(p models.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Text:      p.Text,
		Author:    toAuthorResponse(p.Author),
		CreatedAt: formatTime(p.CreatedAt),
		Comments:  []CommentResponse{},
	}
}

func toPostResponse(ep models.EnrichedPost) PostResponse {
	resp := toPlainPostResponse(ep.Post)
	resp.LikesCount = ep.LikesCount
	resp.IsLiked = ep.IsLiked
	resp.CommentsCount = ep.CommentsCount
	resp.Comments = toCommentResponses(ep.Comments)
	return resp
}

func toPostResponses(posts []models.EnrichedPost) []PostResponse {
	return lo.Map(posts, func(ep models.EnrichedPost, _ int) PostResponse {
		return toPostResponse(ep)
	})
}

func toFollowResponse(f models.Follow) FollowResponse {
	return FollowResponse{
		ID:          f.ID,
		FollowerID:  f.FollowerID,
		FollowingID: f.FollowingID,
		CreatedAt:   formatTime(f.CreatedAt),
	}
}

func toProfileResponse(p models.UserProfile) ProfileResponse {
	return ProfileResponse{
		UserResponse:   toUserResponse(p.User),
		PostsCount:     p.PostsCount,
		FollowersCount: p.FollowersCount,
		FollowingCount: p.FollowingCount,
		IsFollowing:    p.IsFollowing,
		IsOwnProfile:   p.IsOwnProfile,
	}
}

func toSearchResponses(results []models.UserSearchResult) []SearchUserResponse {
	return lo.Map(results, func(r models.UserSearchResult, _ int) SearchUserResponse {
		return SearchUserResponse{
			AuthorResponse: toAuthorResponse(r.User),
			Bio:            r.User.Bio,
			IsFollowing:    r.IsFollowing,
		}
	})
}
