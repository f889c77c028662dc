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

func TestUpdateStylePreferences(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)

	colors := []string{"emerald", "cream"}
	shape := "Pear"
	reqBody := models.StylePreferencesIn{
		PreferredColors: &colors,
		BodyShape:       &shape,
	}

	req := test.NewJSONAuthRequest("PUT", "/api/profile/style", strconv.FormatUint(uint64(user.ID), 10), reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.UserAccount
	db.First(&updated, user.ID)
	assert.Equal(t, []string{"emerald", "cream"}, []string(updated.PreferredColors))
	assert.Equal(t, "Pear", updated.BodyShape)
	// untouched fields keep their values
	assert.Equal(t, []string{"casual"}, []string(updated.PreferredStyles))
}

func TestGetStylePreferences(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, nil, test.URLCacheMock{}, test.MockStylist{}, test.WeatherProviderMock{}, test.ShoppingProviderMock{})
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("GET", "/api/profile/style", strconv.FormatUint(uint64(user.ID), 10), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response map[string]interface{}
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Contains(t, response, "preferred_colors")
	assert.Contains(t, response, "body_shape")
}
