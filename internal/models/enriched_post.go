package models

// CommentPreviewSize bounds the comments attached to an enriched post.
const CommentPreviewSize = 5

// EnrichedPost is a Post paired with values derived for one viewer.
// The embedded Post is never modified by enrichment.
type EnrichedPost struct {
	Post          Post      `json:"post"`
	LikesCount    int64     `json:"likesCount"`
	IsLiked       bool      `json:"isLiked"`
	CommentsCount int64     `json:"commentsCount"`
	Comments      []Comment `json:"comments"`
}
