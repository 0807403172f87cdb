package like

import (
	"time"

	"socialapi/internal/post"
	"socialapi/internal/user"
)

type Like struct {
	UserID    string    `gorm:"primaryKey;size:36"`
	PostID    string    `gorm:"primaryKey;size:36;index"`
	User      user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post      post.Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

type liked struct {
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type unliked struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

type likeView struct {
	UserID    string      `json:"userId"`
	CreatedAt time.Time   `json:"createdAt"`
	User      user.Public `json:"user"`
}

type listMeta struct {
	PostID string `json:"postId"`
	Count  int    `json:"count"`
}
