package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"wardrobeapi/dbhelper"
	"wardrobeapi/models"
	"wardrobeapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWardrobeItemOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{MockUrl: "https://cache.example.com"}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)

	reqBody := map[string]interface{}{
		"name":         "Navy Cotton Shirt",
		"category":     "Tops",
		"sub_category": "shirt",
		"color":        "navy",
		"file_name":    "shirt.jpg",
	}

	req := test.NewJSONAuthRequest("POST", "/api/wardrobe/items", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, "Expected status code 201 Created, got %d", rec.Code)

	var response WardrobeItemCreatedResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	require.Equal(t, "Navy Cotton Shirt", response.Item.Name)
	require.Equal(t, "Tops", response.Item.Category)
	require.Equal(t, "in_closet", response.Item.Status)
	require.NotEmpty(t, response.FileUploadUrl)

	var item models.WardrobeItem
	db.First(&item, response.Item.ID)
	assert.Equal(t, user.ID, item.OwnerID)
	require.NotNil(t, item.ImageURL)
	assert.Equal(t, fmt.Sprintf("wardrobe/%v/shirt.jpg", user.ID), *item.ImageURL)
}

func TestCreateWardrobeItemInvalidCategory(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)

	reqBody := map[string]interface{}{
		"name":     "Strange Item",
		"category": "Spaceships",
	}

	req := test.NewJSONAuthRequest("POST", "/api/wardrobe/items", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateWardrobeItemUnauthorized(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})

	reqBody := map[string]interface{}{
		"name":     "Navy Shirt",
		"category": "Tops",
	}

	req := test.NewJSONRequest("POST", "/api/wardrobe/items", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListWardrobeItemsGroupsByCategory(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{MockUrl: "https://cache.example.com"}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)
	test.FakeWardrobeItem(db, user.ID, "White Shirt", models.CategoryTops, "white", nil)
	test.FakeWardrobeItem(db, user.ID, "Blue Jeans", models.CategoryBottoms, "blue", nil)
	test.FakeWardrobeItem(db, user.ID, "Black Heels", models.CategoryFootwear, "black", nil)

	req := test.NewJSONAuthRequest("GET", "/api/wardrobe/items", strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response WardrobeListResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, 3, response.Total)
	assert.Len(t, response.Tops, 1)
	assert.Len(t, response.Bottoms, 1)
	assert.Len(t, response.Footwear, 1)
	assert.Empty(t, response.Dresses)
	assert.Equal(t, "White Shirt", response.Tops[0].Name)
}

func TestListWardrobeItemsOnlyOwn(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)
	other := test.FakeUserV2(db, "Other", "other@example.com")
	test.FakeWardrobeItem(db, other.ID, "Not Mine", models.CategoryTops, "red", nil)

	req := test.NewJSONAuthRequest("GET", "/api/wardrobe/items", strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response WardrobeListResponse
	json.Unmarshal(rec.Body.Bytes(), &response)
	assert.Equal(t, 0, response.Total)
}

func TestUpdateWardrobeItemConfirmsTemporary(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)
	item := test.FakeWardrobeItem(db, user.ID, "Analyzing...", models.CategoryTops, "blue", nil)
	db.Model(&item).Update("status", "temporary")

	reqBody := map[string]interface{}{
		"name":  "Blue Kurta",
		"color": "royal blue",
	}

	req := test.NewJSONAuthRequest("PUT", fmt.Sprintf("/api/wardrobe/items/%v", item.ID), strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.WardrobeItem
	db.First(&updated, item.ID)
	assert.Equal(t, "Blue Kurta", updated.Name)
	assert.Equal(t, "royal blue", updated.Color)
	assert.Equal(t, "in_closet", updated.Status)
}

func TestUpdateWardrobeItemNotOwn(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)
	other := test.FakeUserV2(db, "Other", "other@example.com")
	item := test.FakeWardrobeItem(db, other.ID, "Not Mine", models.CategoryTops, "red", nil)

	req := test.NewJSONAuthRequest("PUT", fmt.Sprintf("/api/wardrobe/items/%v", item.ID), strconv.FormatUint(uint64(user.ID), 10), map[string]interface{}{"name": "Hijacked"})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteWardrobeItem(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)
	item := test.FakeWardrobeItem(db, user.ID, "Old Shirt", models.CategoryTops, "grey", nil)

	req := test.NewJSONAuthRequest("DELETE", fmt.Sprintf("/api/wardrobe/items/%v", item.ID), strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	db.Model(&models.WardrobeItem{}).Where("id = ?", item.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestLogWearBumpsCounter(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)
	item := test.FakeWardrobeItem(db, user.ID, "White Shirt", models.CategoryTops, "white", nil)

	req := test.NewJSONAuthRequest("POST", fmt.Sprintf("/api/wardrobe/items/%v/wear", item.ID), strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var worn models.WardrobeItem
	db.First(&worn, item.ID)
	assert.Equal(t, 1, worn.WearCount)
	require.NotNil(t, worn.LastWorn)
	assert.WithinDuration(t, time.Now(), *worn.LastWorn, time.Minute)
}

func TestAnalyzeImageRejectsBadExtension(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)

	reqBody := AnalyzeImageIn{FileName: stringPtr("malware.exe")}

	req := test.NewJSONAuthRequest("POST", "/api/wardrobe/items/analyze", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func stringPtr(s string) *string {
	return &s
}
