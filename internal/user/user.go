package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Username  string  `gorm:"uniqueIndex;size:30;not null"`
	Email     string  `gorm:"uniqueIndex;size:255;not null"`
	Password  string  `gorm:"size:255;not null"`
	Name      *string `gorm:"size:100"`
	Bio       *string `gorm:"size:500"`
	Avatar    *string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Public is the wire shape of a user. It has no password field.
type Public struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Bio       *string   `json:"bio"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToPublic(u *User) Public {
	return Public{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToPublicList(us []User) []Public {
	out := make([]Public, 0, len(us))
	for i := range us {
		out = append(out, ToPublic(&us[i]))
	}
	return out
}

type Stats struct {
	Posts     int64 `json:"posts"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

type Profile struct {
	Public
	Stats Stats `json:"stats"`
}
