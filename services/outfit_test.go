package services

import (
	"fmt"
	"testing"
	"time"

	"wardrobeapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStylist struct {
	response string
	err      error
}

func (s stubStylist) GenerateText(prompt string, systemInstruction string, modelName LLMModelName) (*LLMResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &LLMResponse{Response: s.response, InputTokenCount: 5, OutputTokenCount: 7, TotalTokenCount: 12}, nil
}

func (s stubStylist) DetectClothing(filePath string, prompt string, modelName LLMModelName) (*LLMResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &LLMResponse{Response: s.response}, nil
}

func timePointer(t time.Time) *time.Time {
	return &t
}

func makeItems(count int) []models.WardrobeItem {
	items := make([]models.WardrobeItem, 0, count)
	for i := 0; i < count; i++ {
		item := models.WardrobeItem{
			Name:     fmt.Sprintf("Item %d", i+1),
			Category: models.CategoryTops,
			Color:    "blue",
			Style:    "casual",
		}
		item.ID = uint(i + 1)
		items = append(items, item)
	}
	return items
}

func TestFilterRecentlyWornKeepsNeverWorn(t *testing.T) {
	now := time.Now()
	items := makeItems(3)
	items[0].LastWorn = timePointer(now.AddDate(0, 0, -1))

	filtered := FilterRecentlyWorn(items, 7, now)

	require.Len(t, filtered, 2)
	for _, item := range filtered {
		assert.Nil(t, item.LastWorn)
	}
}

func TestFilterRecentlyWornKeepsOldWears(t *testing.T) {
	now := time.Now()
	items := makeItems(2)
	items[0].LastWorn = timePointer(now.AddDate(0, 0, -10))
	items[1].LastWorn = timePointer(now.AddDate(0, 0, -2))

	filtered := FilterRecentlyWorn(items, 7, now)

	require.Len(t, filtered, 1)
	assert.Equal(t, items[0].ID, filtered[0].ID)
}

func TestFilterRecentlyWornReturnsOriginalWhenAllRecent(t *testing.T) {
	now := time.Now()
	items := makeItems(3)
	for i := range items {
		items[i].LastWorn = timePointer(now.AddDate(0, 0, -1))
	}

	filtered := FilterRecentlyWorn(items, 7, now)

	assert.Len(t, filtered, len(items))
}

func TestSuggestNarrativeInsufficientWardrobe(t *testing.T) {
	service := &OutfitService{Stylist: stubStylist{response: "anything"}, Model: Flash25}

	_, _, _, err := service.SuggestNarrative(models.UserAccount{}, makeItems(2), "casual", "", DefaultAvoidDays, DefaultWeather())

	require.ErrorIs(t, err, ErrInsufficientWardrobe)
}

func TestSuggestNarrativeOk(t *testing.T) {
	service := &OutfitService{Stylist: stubStylist{response: "OUTFIT 1: Blue shirt with chinos"}, Model: Flash25}

	text, fallback, llmResponse, err := service.SuggestNarrative(models.UserAccount{}, makeItems(5), "office", "team meeting", DefaultAvoidDays, DefaultWeather())

	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, "OUTFIT 1: Blue shirt with chinos", text)
	require.NotNil(t, llmResponse)
	assert.Equal(t, int32(12), llmResponse.TotalTokenCount)
}

func TestSuggestNarrativeFallbackWhenUnavailable(t *testing.T) {
	service := &OutfitService{Stylist: stubStylist{err: ErrGenerationUnavailable}, Model: Flash25}

	text, fallback, _, err := service.SuggestNarrative(models.UserAccount{}, makeItems(5), "casual", "", DefaultAvoidDays, DefaultWeather())

	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Contains(t, text, "TEMPORARILY UNAVAILABLE")
}

func TestSuggestStructuredParsesOutfits(t *testing.T) {
	response := `Here you go:
` + "```json" + `
[{"name": "Office Ready", "items": [1, 2], "reasoning": "Clean lines", "weather_appropriate": true, "style_score": 92}]
` + "```"
	service := &OutfitService{Stylist: stubStylist{response: response}, Model: Flash25}

	outfits, fallback, _, err := service.SuggestStructured(models.UserAccount{}, makeItems(4), "office", DefaultAvoidDays, DefaultWeather())

	require.NoError(t, err)
	assert.False(t, fallback)
	require.Len(t, outfits, 1)
	assert.Equal(t, "Office Ready", outfits[0].Name)
	assert.Equal(t, []uint{1, 2}, outfits[0].Items)
	assert.Equal(t, 92, outfits[0].StyleScore)
}

func TestSuggestStructuredFallbackOnGarbage(t *testing.T) {
	service := &OutfitService{Stylist: stubStylist{response: "sorry, no json today"}, Model: Flash25}

	outfits, fallback, _, err := service.SuggestStructured(models.UserAccount{}, makeItems(5), "party", DefaultAvoidDays, DefaultWeather())

	require.NoError(t, err)
	assert.True(t, fallback)
	require.Len(t, outfits, 1)
	assert.Equal(t, "party Outfit", outfits[0].Name)
	assert.Equal(t, []uint{1, 2, 3}, outfits[0].Items)
	assert.Equal(t, 80, outfits[0].StyleScore)
}

func TestPromptOutfitOk(t *testing.T) {
	response := `{"outfit_description": "Linen shirt and shorts", "matched_items": [2, 3], "missing_items": [{"type": "shoes", "description": "white sneakers"}], "style_notes": "Keep it light"}`
	service := &OutfitService{Stylist: stubStylist{response: response}, Model: Flash25}

	result, fallback, _, err := service.PromptOutfit(models.UserAccount{}, makeItems(5), "something breezy for brunch")

	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, "Linen shirt and shorts", result.OutfitDescription)
	assert.Equal(t, []uint{2, 3}, result.MatchedItems)
	require.Len(t, result.MissingItems, 1)
	assert.Equal(t, "shoes", result.MissingItems[0].Type)
}

func TestPromptOutfitFallback(t *testing.T) {
	service := &OutfitService{Stylist: stubStylist{err: ErrGenerationUnavailable}, Model: Flash25}

	result, fallback, _, err := service.PromptOutfit(models.UserAccount{}, makeItems(5), "date night look")

	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, []uint{1, 2, 3}, result.MatchedItems)
	assert.Equal(t, "Great choice!", result.StyleNotes)
}

func TestBuildNarrativePromptIncludesContext(t *testing.T) {
	user := models.UserAccount{PreferredColors: []string{"olive"}, PreferredStyles: []string{"minimal"}}
	items := makeItems(3)
	items[0].WearCount = 4

	prompt := BuildNarrativePrompt("wedding", "outdoor ceremony", items, DefaultWeather(), user, DefaultAvoidDays)

	assert.Contains(t, prompt, "WEDDING")
	assert.Contains(t, prompt, "outdoor ceremony")
	assert.Contains(t, prompt, "Item 1")
	assert.Contains(t, prompt, "olive")
	assert.Contains(t, prompt, "Worn: 4 times")
}

func TestDefaultWeather(t *testing.T) {
	weather := DefaultWeather()

	assert.Equal(t, 28.0, weather.TemperatureCelsius)
	assert.Equal(t, "sunny", weather.Condition)
	assert.Equal(t, "summer", weather.Season)
}
