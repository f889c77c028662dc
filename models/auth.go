package models

import "time"

type JsonModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GoogleAuthSignIn struct {
	IdToken  string `json:"idToken" validate:"required"`
	Platform string `json:"platform" validate:"required"`
}

type SignUpIn struct {
	ProfileIn
	IdToken  string `json:"idToken" validate:"required"`
	Platform string `json:"platform" validate:"required"`
}

type ProfileIn struct {
	Name      string `json:"name" validate:"required"`
	UTMSource string `json:"utm_source"`
}

type GoogleSignInOut struct {
	Email string `json:"email"`

	// null in first step
	Id string `json:"id"`

	New         bool   `json:"new"`
	Avatar      string `json:"avatar"`
	AccessToken string `json:"access_token"`
}

type UserMeInfoOut struct {
	Id                   string   `json:"id"`
	Name                 string   `json:"name"`
	Email                string   `json:"email"`
	Status               string   `json:"-"`
	AvatarURL            string   `json:"avatar_url"`
	ReceiveNotifications bool     `json:"receive_notifications"`
	BodyShape            string   `json:"body_shape"`
	SkinTone             string   `json:"skin_tone"`
	Location             string   `json:"location"`
	StyleProfile         string   `json:"style_profile"`
	PreferredColors      []string `json:"preferred_colors"`
	DislikedColors       []string `json:"disliked_colors"`
	PreferredStyles      []string `json:"preferred_styles"`
	WardrobeItemCount    int64    `json:"wardrobe_item_count"`
}
