package models

type WardrobeItemIn struct {
	Name        string   `json:"name" validate:"required"`
	Category    string   `json:"category" validate:"required,category"`
	SubCategory string   `json:"sub_category"`
	Fabric      string   `json:"fabric"`
	Color       string   `json:"color"`
	Pattern     string   `json:"pattern"`
	Style       string   `json:"style"`
	Season      string   `json:"season"`
	Gender      string   `json:"gender"`
	Brand       *string  `json:"brand"`
	Occasions   []string `json:"occasions"`
}

type WardrobeItemUpdateIn struct {
	Name        *string   `json:"name"`
	Category    *string   `json:"category"`
	SubCategory *string   `json:"sub_category"`
	Fabric      *string   `json:"fabric"`
	Color       *string   `json:"color"`
	Pattern     *string   `json:"pattern"`
	Style       *string   `json:"style"`
	Season      *string   `json:"season"`
	Gender      *string   `json:"gender"`
	Brand       *string   `json:"brand"`
	Occasions   *[]string `json:"occasions"`
}

type WeatherIn struct {
	TemperatureCelsius float64 `json:"temperature_celsius"`
	FeelsLike          float64 `json:"feels_like"`
	Condition          string  `json:"condition"`
	HumidityPercent    int     `json:"humidity_percent"`
	RainProbability    int     `json:"rain_probability"`
	UVIndex            int     `json:"uv_index"`
	Season             string  `json:"season"`
}

type OutfitSuggestIn struct {
	Occasion     string     `json:"occasion" validate:"required"`
	EventDetails string     `json:"event_details"`
	AvoidDays    int        `json:"avoid_days"`
	Weather      *WeatherIn `json:"weather"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
}

type OutfitSuggestOut struct {
	Suggestions string    `json:"suggestions"`
	Weather     WeatherIn `json:"weather"`
	Fallback    bool      `json:"fallback"`
}

type StructuredOutfitOut struct {
	Name               string `json:"name"`
	Items              []uint `json:"items"`
	Reasoning          string `json:"reasoning"`
	WeatherAppropriate bool   `json:"weather_appropriate"`
	StyleScore         int    `json:"style_score"`
}

type StructuredSuggestOut struct {
	Outfits  []StructuredOutfitOut `json:"outfits"`
	Weather  WeatherIn             `json:"weather"`
	Fallback bool                  `json:"fallback"`
}

type PromptOutfitIn struct {
	Prompt string `json:"prompt" validate:"required"`
}

type MissingItemOut struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type PromptOutfitOut struct {
	OutfitDescription string           `json:"outfit_description"`
	MatchedItems      []uint           `json:"matched_items"`
	MissingItems      []MissingItemOut `json:"missing_items"`
	StyleNotes        string           `json:"style_notes"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatIn struct {
	Message             string     `json:"message" validate:"required"`
	ConversationHistory []ChatTurn `json:"conversation_history"`
}

type ChatOut struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}

type ShoppingIn struct {
	Intent          string  `json:"intent" validate:"required"`
	BudgetMin       *int    `json:"budget_min"`
	BudgetMax       *int    `json:"budget_max"`
	StylePreference *string `json:"style_preference"`
	ColorPreference *string `json:"color_preference"`
	Sustainability  *string `json:"sustainability"`
}

type ShoppingProduct struct {
	Name         string `json:"name"`
	Brand        string `json:"brand"`
	Price        string `json:"price"`
	PriceNumeric int    `json:"price_numeric"`
	Image        string `json:"image"`
	Url          string `json:"url"`
	Rating       string `json:"rating"`
	Store        string `json:"store"`
	IsEco        bool   `json:"is_eco"`
}

type ScoredProduct struct {
	ShoppingProduct
	MatchScore     int      `json:"match_score"`
	MatchReasons   []string `json:"match_reasons"`
	Recommendation string   `json:"recommendation"`
}

type ShoppingUserContext struct {
	Size      string `json:"size"`
	BodyShape string `json:"body_shape"`
	Style     string `json:"style"`
	Budget    string `json:"budget"`
}

type ShoppingOut struct {
	Gaps            []string            `json:"gaps"`
	Recommendations []ScoredProduct     `json:"recommendations"`
	UserContext     ShoppingUserContext `json:"user_context"`
}
