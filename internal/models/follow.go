package models

import "time"

// Follow is a directed edge: Follower subscribes to Following's posts.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_followers_pair" json:"followerId"`
	Follower    *User     `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_followers_pair;index" json:"followingId"`
	Following   *User     `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName keeps the historical table name.
func (Follow) TableName() string {
	return "followers"
}
