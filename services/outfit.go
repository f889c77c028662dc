package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"wardrobeapi/models"
)

// ErrInsufficientWardrobe is the only pipeline error callers surface to the
// client. Everything else degrades into a deterministic fallback.
var ErrInsufficientWardrobe = errors.New("at least 3 wardrobe items are required for suggestions")

const (
	// caps keep the assembled prompt inside the model token window
	narrativeItemLimit = 50
	promptOutfitLimit  = 30

	minSuggestionItems = 3

	DefaultAvoidDays = 7
)

// DefaultWeather is used whenever no snapshot was supplied and the live
// provider is unavailable.
func DefaultWeather() models.WeatherIn {
	return models.WeatherIn{
		TemperatureCelsius: 28,
		FeelsLike:          32,
		Condition:          "sunny",
		HumidityPercent:    75,
		RainProbability:    20,
		UVIndex:            7,
		Season:             "summer",
	}
}

type stylePreferences struct {
	PreferredColors []string
	DislikedColors  []string
	PreferredStyles []string
	BodyShape       string
	StyleProfile    string
}

// preferencesFor fills unset profile fields with neutral defaults so the
// prompt never carries empty sections.
func preferencesFor(user models.UserAccount) stylePreferences {
	prefs := stylePreferences{
		PreferredColors: user.PreferredColors,
		DislikedColors:  user.DislikedColors,
		PreferredStyles: user.PreferredStyles,
		BodyShape:       user.BodyShape,
		StyleProfile:    user.StyleProfile,
	}
	if len(prefs.PreferredColors) == 0 {
		prefs.PreferredColors = []string{"navy blue", "black", "grey", "white"}
	}
	if len(prefs.PreferredStyles) == 0 {
		prefs.PreferredStyles = []string{"casual", "smart_casual"}
	}
	if prefs.BodyShape == "" {
		prefs.BodyShape = "average"
	}
	if prefs.StyleProfile == "" {
		prefs.StyleProfile = "classic"
	}
	return prefs
}

// FilterRecentlyWorn drops items worn within avoidDays of now. Items that were
// never worn always stay. When the filter would leave nothing, the original
// set is returned so the stylist still has something to work with.
func FilterRecentlyWorn(items []models.WardrobeItem, avoidDays int, now time.Time) []models.WardrobeItem {
	cutoff := now.AddDate(0, 0, -avoidDays)

	var filtered []models.WardrobeItem
	for _, item := range items {
		if item.LastWorn == nil {
			filtered = append(filtered, item)
			continue
		}
		if item.LastWorn.Before(cutoff) {
			filtered = append(filtered, item)
		}
	}

	if len(filtered) == 0 {
		return items
	}
	return filtered
}

func formatWardrobeLines(items []models.WardrobeItem, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}
	var lines []string
	for _, item := range items {
		fabric := item.Fabric
		if fabric == "" {
			fabric = "unknown"
		}
		lines = append(lines, fmt.Sprintf(
			"- %s (ID: %d, Type: %s, Color: %s, Pattern: %s, Style: %s, Fabric: %s, Season: %s, Gender: %s, Worn: %d times)",
			item.Name, item.ID, item.SubCategory, item.Color, item.Pattern, item.Style, fabric, item.Season, item.Gender, item.WearCount,
		))
	}
	return strings.Join(lines, "\n")
}

func joinOrDefault(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

// BuildNarrativePrompt assembles the full stylist prompt: event block, weather
// block, capped wardrobe listing, preference block and the output contract.
func BuildNarrativePrompt(occasion, eventDetails string, items []models.WardrobeItem, weather models.WeatherIn, user models.UserAccount, avoidDays int) string {
	prefs := preferencesFor(user)
	location := user.Location
	if location == "" {
		location = "your city"
	}
	details := eventDetails
	if details == "" {
		details = "no extra details provided"
	}

	return fmt.Sprintf(`You are a world-class fashion stylist AI. Create THREE stunning outfit suggestions for a user's upcoming event.

## EVENT DETAILS
Event Type: %s
Details: %s
Location: %s

## WEATHER CONDITIONS
Temperature: %.0f°C (feels like %.0f°C)
Condition: %s
Humidity: %d%%
Rain Chance: %d%%
Season: %s
UV Index: %d

## USER'S WARDROBE (Available Items)
%s

## USER STYLE PREFERENCES
- Preferred Colors: %s
- Disliked Colors: %s
- Style Profile: %s
- Body Shape: %s
- Preferred Styles: %s

## IMPORTANT RULES
- Do NOT use items worn in the last %d days
- Create COMPLETE outfits (top + bottom + optional accessories/shoes)
- Match items by color, style, and occasion
- Consider weather appropriateness
- Use ONLY items from the wardrobe above
- If essential items are missing, clearly state them

## OUTPUT FORMAT (CRITICAL - NO JSON!)
Write a warm, friendly, stylish response with three clearly separated outfits. For each outfit give it a creative name, list the wardrobe items to use with their ID numbers, mark missing items, and explain in 2-3 sentences why it works for the event and weather. Finish with a short list of styling tips based on the user's body shape, preferred colors, the event type and the season. NO JSON, NO technical formatting.`,
		strings.ToUpper(occasion), details, location,
		weather.TemperatureCelsius, weather.FeelsLike, weather.Condition,
		weather.HumidityPercent, weather.RainProbability, weather.Season, weather.UVIndex,
		formatWardrobeLines(items, narrativeItemLimit),
		joinOrDefault(prefs.PreferredColors, "any color"),
		joinOrDefault(prefs.DislikedColors, "none"),
		prefs.StyleProfile, prefs.BodyShape,
		joinOrDefault(prefs.PreferredStyles, "casual"),
		avoidDays)
}

// FallbackNarrative is returned whenever the stylist backend fails. Fixed
// content, safe to show to the user as-is.
func FallbackNarrative() string {
	return `AI OUTFIT SUGGESTIONS TEMPORARILY UNAVAILABLE

We're having trouble connecting to our AI stylist right now.
Please try again in a few moments!

In the meantime, try browsing your wardrobe and mixing:
- A neutral top with colorful bottoms
- Monochrome looks for elegance
- Layering pieces for versatility`
}

type promptItem struct {
	Id    uint   `json:"id"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Style string `json:"style"`
}

// OutfitService runs the suggestion pipeline: recency filter, prompt assembly,
// one model call, extraction with deterministic fallbacks.
type OutfitService struct {
	Stylist LLMStylist
	Model   LLMModelName
}

// SuggestNarrative returns UI-ready styled text. The fallback flag tells the
// caller the canned response was used instead of a live generation.
func (s *OutfitService) SuggestNarrative(user models.UserAccount, items []models.WardrobeItem, occasion, eventDetails string, avoidDays int, weather models.WeatherIn) (string, bool, *LLMResponse, error) {
	available := FilterRecentlyWorn(items, avoidDays, time.Now())
	if len(available) < minSuggestionItems {
		return "", false, nil, ErrInsufficientWardrobe
	}

	prompt := BuildNarrativePrompt(occasion, eventDetails, available, weather, user, avoidDays)
	resp, err := s.Stylist.GenerateText(prompt, "", s.Model)
	if err != nil {
		if !errors.Is(err, ErrGenerationUnavailable) {
			sentry.CaptureException(err)
		}
		fmt.Printf("[User %v] narrative suggestion failed, using fallback: %v\n", user.ID, err)
		return FallbackNarrative(), true, nil, nil
	}

	text := strings.TrimSpace(resp.Response)
	if text == "" {
		fmt.Printf("[User %v] empty narrative response, using fallback\n", user.ID)
		return FallbackNarrative(), true, resp, nil
	}
	return text, false, resp, nil
}

func fallbackStructured(occasion string, available []models.WardrobeItem) []models.StructuredOutfitOut {
	itemIds := []uint{}
	for i, item := range available {
		if i == 3 {
			break
		}
		itemIds = append(itemIds, item.ID)
	}
	return []models.StructuredOutfitOut{
		{
			Name:               fmt.Sprintf("%s Outfit", occasion),
			Items:              itemIds,
			Reasoning:          fmt.Sprintf("A stylish outfit for %s", occasion),
			WeatherAppropriate: true,
			StyleScore:         80,
		},
	}
}

// SuggestStructured returns machine-readable outfits parsed out of the model
// output, falling back to a single deterministic outfit of the first items.
func (s *OutfitService) SuggestStructured(user models.UserAccount, items []models.WardrobeItem, occasion string, avoidDays int, weather models.WeatherIn) ([]models.StructuredOutfitOut, bool, *LLMResponse, error) {
	available := FilterRecentlyWorn(items, avoidDays, time.Now())
	if len(available) < minSuggestionItems {
		return nil, false, nil, ErrInsufficientWardrobe
	}

	capped := available
	if len(capped) > narrativeItemLimit {
		capped = capped[:narrativeItemLimit]
	}
	var listed []promptItem
	for _, item := range capped {
		listed = append(listed, promptItem{Id: item.ID, Type: item.SubCategory, Color: item.Color, Style: item.Style})
	}
	itemsJson, _ := json.Marshal(listed)

	prefs := preferencesFor(user)
	prefsJson, _ := json.Marshal(map[string]interface{}{
		"preferred_colors": prefs.PreferredColors,
		"disliked_colors":  prefs.DislikedColors,
		"preferred_styles": prefs.PreferredStyles,
		"body_shape":       prefs.BodyShape,
		"style_profile":    prefs.StyleProfile,
	})

	prompt := fmt.Sprintf(`Generate 3 outfit suggestions for a %s event.

Weather: %s, %.0f°C
User preferences: %s
Available wardrobe items: %s

Return JSON array with 3 outfits:
[
    {
        "name": "Outfit 1 Name",
        "items": [1, 2],
        "reasoning": "Why this outfit works",
        "weather_appropriate": true,
        "style_score": 85
    }
]`, occasion, weather.Condition, weather.TemperatureCelsius, string(prefsJson), string(itemsJson))

	resp, err := s.Stylist.GenerateText(prompt, "", s.Model)
	if err != nil {
		if !errors.Is(err, ErrGenerationUnavailable) {
			sentry.CaptureException(err)
		}
		fmt.Printf("[User %v] structured suggestion failed, using fallback: %v\n", user.ID, err)
		return fallbackStructured(occasion, available), true, nil, nil
	}

	var outfits []models.StructuredOutfitOut
	if err := ExtractJSONArray(resp.Response, &outfits); err != nil || len(outfits) == 0 {
		fmt.Printf("[User %v] could not parse structured outfits, using fallback: %v\n", user.ID, err)
		return fallbackStructured(occasion, available), true, resp, nil
	}
	return outfits, false, resp, nil
}

func fallbackPromptOutfit(items []models.WardrobeItem) models.PromptOutfitOut {
	matched := []uint{}
	for i, item := range items {
		if i == 3 {
			break
		}
		matched = append(matched, item.ID)
	}
	return models.PromptOutfitOut{
		OutfitDescription: "Custom outfit based on your request",
		MatchedItems:      matched,
		MissingItems:      []models.MissingItemOut{},
		StyleNotes:        "Great choice!",
	}
}

// PromptOutfit builds one outfit from a free-text user request.
func (s *OutfitService) PromptOutfit(user models.UserAccount, items []models.WardrobeItem, request string) (models.PromptOutfitOut, bool, *LLMResponse, error) {
	capped := items
	if len(capped) > promptOutfitLimit {
		capped = capped[:promptOutfitLimit]
	}
	var listed []promptItem
	for _, item := range capped {
		listed = append(listed, promptItem{Id: item.ID, Type: item.SubCategory, Color: item.Color, Style: item.Style})
	}
	itemsJson, _ := json.Marshal(listed)

	prompt := fmt.Sprintf(`User request: "%s"

Available wardrobe: %s

Create an outfit matching the request. Return JSON:
{
    "outfit_description": "Description of the outfit",
    "matched_items": [list of item IDs from wardrobe],
    "missing_items": [
        {"type": "item type", "description": "what's needed"}
    ],
    "style_notes": "Additional styling tips"
}`, request, string(itemsJson))

	resp, err := s.Stylist.GenerateText(prompt, "", s.Model)
	if err != nil {
		if !errors.Is(err, ErrGenerationUnavailable) {
			sentry.CaptureException(err)
		}
		fmt.Printf("[User %v] prompt outfit failed, using fallback: %v\n", user.ID, err)
		return fallbackPromptOutfit(items), true, nil, nil
	}

	var out models.PromptOutfitOut
	if err := ExtractJSONObject(resp.Response, &out); err != nil || out.OutfitDescription == "" {
		fmt.Printf("[User %v] could not parse prompt outfit, using fallback: %v\n", user.ID, err)
		return fallbackPromptOutfit(items), true, resp, nil
	}
	if out.MatchedItems == nil {
		out.MatchedItems = []uint{}
	}
	if out.MissingItems == nil {
		out.MissingItems = []models.MissingItemOut{}
	}
	return out, false, resp, nil
}
