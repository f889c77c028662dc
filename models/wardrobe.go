package models

import (
	"time"

	"github.com/lib/pq"
)

type WardrobeItem struct {
	JsonModel
	Name        string      `json:"name"`
	Owner       UserAccount `json:"-"`
	OwnerID     uint        `json:"-"`
	Category    Category    `json:"category"`
	SubCategory string      `json:"sub_category"`
	Fabric      string      `json:"fabric"`
	Color       string      `json:"color"`
	Pattern     string      `json:"pattern"`
	Style       string      `json:"style"`
	Season      string      `json:"season"`
	Gender      string      `json:"gender"`
	Brand       *string     `json:"brand"`
	// e.g. casual, office, party
	Occasions pq.StringArray `gorm:"type:text[]" json:"occasions"`

	Status      string `json:"status"`       // temporary, in_closet
	ImageStatus string `json:"image_status"` // draft, uploaded
	// opaque storage key, presigned on read
	ImageURL *string `json:"image_url"`

	DetectionStatus       string  `json:"detection_status"` // idle, detecting, completed, failed
	DetectionRetryTimes   int     `json:"detection_retry_times"`
	DetectionErrorMessage *string `json:"detection_error_message"`

	WearCount int        `gorm:"default:0" json:"wear_count"`
	LastWorn  *time.Time `json:"last_worn"`
}

type OutfitSuggestionRun struct {
	JsonModel
	UserAccountID uint        `json:"-"`
	UserAccount   UserAccount `json:"user_account"`

	Occasion     string  `json:"occasion"`
	Mode         string  `json:"mode"` // narrative, structured, prompt
	ResponseText *string `gorm:"type:text" json:"response_text"`
	Fallback     bool    `json:"fallback"`

	Status   string   `json:"status"`   // pending, completed, failed
	Duration *float64 `json:"duration"` // in seconds

	LLMModel              *string `json:"llm_model"`
	LLMInputTokenCount    *int32  `json:"llm_input_token_usage"`
	LLMOutputTokenCount   *int32  `json:"llm_output_token_usage"`
	LLMTotalTokenCount    *int32  `json:"llm_total_token_usage"`
	LLMThoughtsTokenCount *int32  `json:"llm_thoughts_token_count"`
}
