package models

import (
	"time"

	"github.com/lib/pq"
)

type UserAccount struct {
	JsonModel
	Name   string `json:"name"`
	Email  string `json:"email" gorm:"unique"`
	Banned bool   `gorm:"default:false" json:"-"`
	LastIp string `json:"-"`
	//"STARTED_AUTH", "FINISHED_AUTH"
	Status              string     `json:"-"`
	GoogleID            string     `json:"-"`
	UTMSource           string     `json:"utm_source"`
	Platform            Platform   `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`
	TelegramUsername    string     `json:"telegram_username"`
	TelegramChatID      *int64     `json:"-"`
	ConfirmedDeleteDate *time.Time `json:"-"`
	// Notifications settings
	ReceiveNotifications bool `json:"receive_notifications"`
	// user app image/avatar
	AvatarURL string `json:"avatar_url"`

	// style profile, feeds suggestion prompts
	BodyShape       string         `json:"body_shape"`
	SkinTone        string         `json:"skin_tone"`
	Location        string         `json:"location"`
	StyleProfile    string         `json:"style_profile"`
	PreferredColors pq.StringArray `gorm:"type:text[]" json:"preferred_colors"`
	DislikedColors  pq.StringArray `gorm:"type:text[]" json:"disliked_colors"`
	PreferredStyles pq.StringArray `gorm:"type:text[]" json:"preferred_styles"`
}

type UserPushToken struct {
	JsonModel
	UserAccountID uint
	UserAccount   UserAccount `json:"user_account"`
	Platform      Platform    `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`
	Token         string      `json:"token"`
	Active        bool        `gorm:"default:false" json:"-"`
}

type UserPushIn struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type UserSettingsIn struct {
	ReceiveNotifications bool `json:"receive_notifications"`
}

type StylePreferencesIn struct {
	PreferredColors *[]string `json:"preferred_colors"`
	DislikedColors  *[]string `json:"disliked_colors"`
	PreferredStyles *[]string `json:"preferred_styles"`
	BodyShape       *string   `json:"body_shape"`
	SkinTone        *string   `json:"skin_tone"`
	Location        *string   `json:"location"`
	StyleProfile    *string   `json:"style_profile"`
}
