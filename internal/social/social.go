package social

import (
	"time"

	"socialapi/internal/user"
)

// Follow is a directed edge: Follower follows Followee. The pair is the key.
type Follow struct {
	FollowerID string    `gorm:"primaryKey;size:36"`
	FolloweeID string    `gorm:"primaryKey;size:36;index"`
	Follower   user.User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followee   user.User `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"index"`
}

type followResult struct {
	FolloweeID   string `json:"followeeId"`
	FolloweeName string `json:"followeeName"`
}

type listMeta struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Count    int    `json:"count"`
}

type status struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	IsFollowing bool   `json:"isFollowing"`
}
