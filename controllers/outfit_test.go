package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"wardrobeapi/dbhelper"
	"wardrobeapi/models"
	"wardrobeapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestNarrativeEndpointOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{TextResponse: "OUTFIT 1: White Shirt with Jeans"}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)
	test.FakeWardrobeItem(db, user.ID, "White Shirt", models.CategoryTops, "white", nil)
	test.FakeWardrobeItem(db, user.ID, "Blue Jeans", models.CategoryBottoms, "blue", nil)
	test.FakeWardrobeItem(db, user.ID, "Sneakers", models.CategoryFootwear, "white", nil)

	reqBody := models.OutfitSuggestIn{Occasion: "casual", EventDetails: "weekend brunch"}

	req := test.NewJSONAuthRequest("POST", "/api/outfits/suggest", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response models.OutfitSuggestOut
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "OUTFIT 1: White Shirt with Jeans", response.Suggestions)
	assert.False(t, response.Fallback)
	assert.Equal(t, "sunny", response.Weather.Condition)

	var run models.OutfitSuggestionRun
	db.First(&run)
	assert.Equal(t, user.ID, run.UserAccountID)
	assert.Equal(t, "narrative", run.Mode)
	assert.Equal(t, "completed", run.Status)
	require.NotNil(t, run.LLMTotalTokenCount)
	assert.Equal(t, int32(11), *run.LLMTotalTokenCount)
}

func TestSuggestNarrativeInsufficientItems(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)
	test.FakeWardrobeItem(db, user.ID, "Lonely Shirt", models.CategoryTops, "white", nil)

	reqBody := models.OutfitSuggestIn{Occasion: "office"}

	req := test.NewJSONAuthRequest("POST", "/api/outfits/suggest", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response map[string]string
	json.Unmarshal(rec.Body.Bytes(), &response)
	assert.Contains(t, response["error"], "at least 3 items")
}

func TestSuggestNarrativeMissingOccasion(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("POST", "/api/outfits/suggest", strconv.FormatUint(uint64(user.ID), 10), models.OutfitSuggestIn{})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestStructuredEndpoint(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	structured := `[{"name": "Brunch Look", "items": [1], "reasoning": "Relaxed", "weather_appropriate": true, "style_score": 88}]`
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{TextResponse: structured}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)
	test.FakeWardrobeItem(db, user.ID, "White Shirt", models.CategoryTops, "white", nil)
	test.FakeWardrobeItem(db, user.ID, "Blue Jeans", models.CategoryBottoms, "blue", nil)
	test.FakeWardrobeItem(db, user.ID, "Sneakers", models.CategoryFootwear, "white", nil)

	reqBody := models.OutfitSuggestIn{Occasion: "brunch"}

	req := test.NewJSONAuthRequest("POST", "/api/outfits/suggest-structured", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response models.StructuredSuggestOut
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Len(t, response.Outfits, 1)
	assert.Equal(t, "Brunch Look", response.Outfits[0].Name)
	assert.Equal(t, 88, response.Outfits[0].StyleScore)
	assert.False(t, response.Fallback)
}

func TestSuggestWithExplicitWeather(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)
	test.FakeWardrobeItem(db, user.ID, "Wool Coat", models.CategoryOuterwear, "camel", nil)
	test.FakeWardrobeItem(db, user.ID, "Black Jeans", models.CategoryBottoms, "black", nil)
	test.FakeWardrobeItem(db, user.ID, "Boots", models.CategoryFootwear, "brown", nil)

	reqBody := models.OutfitSuggestIn{
		Occasion: "dinner",
		Weather:  &models.WeatherIn{TemperatureCelsius: 8, FeelsLike: 5, Condition: "snow", Season: "winter"},
	}

	req := test.NewJSONAuthRequest("POST", "/api/outfits/suggest", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response models.OutfitSuggestOut
	json.Unmarshal(rec.Body.Bytes(), &response)
	assert.Equal(t, "snow", response.Weather.Condition)
	assert.Equal(t, "winter", response.Weather.Season)
}

func TestPromptOutfitEndpoint(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	promptResponse := `{"outfit_description": "Flowy dress with sandals", "matched_items": [1], "missing_items": [], "style_notes": "Light fabrics"}`
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{TextResponse: promptResponse}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)
	test.FakeWardrobeItem(db, user.ID, "Floral Dress", models.CategoryDresses, "yellow", nil)

	reqBody := models.PromptOutfitIn{Prompt: "something summery for a garden party"}

	req := test.NewJSONAuthRequest("POST", "/api/outfits/prompt", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response models.PromptOutfitOut
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "Flowy dress with sandals", response.OutfitDescription)
	assert.Equal(t, "Light fabrics", response.StyleNotes)
}
