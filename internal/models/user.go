// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a registered account. Avatar holds an object storage key, never a URL.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Bio       *string   `gorm:"size:500" json:"bio"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// UserProfile is a user plus relationship counters as seen by a viewer.
type UserProfile struct {
	User           User  `json:"user"`
	PostsCount     int64 `json:"postsCount"`
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
	IsFollowing    bool  `json:"isFollowing"`
	IsOwnProfile   bool  `json:"isOwnProfile"`
}

// UserSearchResult is a search hit annotated with the viewer's follow state.
type UserSearchResult struct {
	User        User `json:"user"`
	IsFollowing bool `json:"isFollowing"`
}
