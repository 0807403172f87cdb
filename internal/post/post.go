package post

import (
	"strings"
	"time"

	"socialapi/internal/shared/validate"
	"socialapi/internal/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Text      string    `gorm:"size:500;not null"`
	MediaURL  *string   `gorm:"size:500"`
	AuthorID  string    `gorm:"size:36;not null;index:idx_posts_author_created,priority:1"`
	Author    user.User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"index;index:idx_posts_author_created,priority:2"`
	UpdatedAt time.Time
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type CreateReq struct {
	Text     string `json:"text" validate:"required,max=500"`
	MediaURL string `json:"mediaUrl" validate:"omitempty,url,max=500"`
}

func (r *CreateReq) normalize() {
	r.Text = strings.TrimSpace(validate.Sanitize(r.Text))
	r.MediaURL = strings.TrimSpace(r.MediaURL)
}

// View is the wire shape of a post, enriched for a particular viewer.
type View struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	MediaURL  *string      `json:"mediaUrl"`
	AuthorID  string       `json:"authorId"`
	Author    *user.Public `json:"author,omitempty"`
	LikeCount int64        `json:"likeCount"`
	IsLiked   bool         `json:"isLiked"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func toView(p *Post) View {
	v := View{
		ID:        p.ID,
		Text:      p.Text,
		MediaURL:  p.MediaURL,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Author.ID != "" {
		a := user.ToPublic(&p.Author)
		v.Author = &a
	}
	return v
}

type publicMeta struct {
	Count int    `json:"count"`
	Limit int    `json:"limit"`
	Skip  int    `json:"skip"`
	Type  string `json:"type"`
}

type userPostsMeta struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Count    int    `json:"count"`
	Limit    int    `json:"limit"`
}

type deleted struct {
	ID        string `json:"id"`
	DeletedAt string `json:"deletedAt"`
}
