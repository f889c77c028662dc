package test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"wardrobeapi/models"
	"wardrobeapi/services"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lib/pq"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {

	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func GenerateUserToken(userPk string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userPk,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	t, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Fatalf("Error when signing user token for %s. Error %s ", userPk, err)
	}
	return t
}

func NewJSONAuthRequest(method string, target string, userPk string, param interface{}) *http.Request {
	log.Println(JsonString(param))
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	token := GenerateUserToken(userPk)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}

func NewJSONAuthRequestRaw(method string, target string, userPk string, json string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(json))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	token := GenerateUserToken(userPk)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}

func Int64Pointer(i int64) *int64 {
	return &i
}

func FakeUser(db *gorm.DB) *models.UserAccount {
	user := &models.UserAccount{
		Name:                 "OurName",
		Email:                "email@example.com",
		GoogleID:             "12232",
		Platform:             models.PlatformIOS,
		LastIp:               "123.122.122.122",
		Status:               "FINISHED_AUTH",
		AvatarURL:            "pictureurl",
		ReceiveNotifications: true,
		PreferredColors:      pq.StringArray{"navy blue", "white"},
		PreferredStyles:      pq.StringArray{"casual"},
	}
	db.Create(&user)

	tokenDb := models.UserPushToken{
		UserAccountID: user.ID,
		Platform:      "android",
		Token:         "cX-UZ3zwQEiPt-2GJkG2gA:APA91bGqRflaGrJrnynhRwZ442HdgUjVcO7mWMFnx6IwAdJ9RRKopvSP4QU7hbvTmk1XAp8XGvtHZLvo5JmOPTVKBbGqqvhfbZWKlXA9csEjx1hgpNvrWepU-rqG1sxS8_WCF5cGZchf",
		Active:        true,
	}
	db.Save(&tokenDb)
	db.First(&user, user.ID)

	return user
}

func FakeUserV2(db *gorm.DB, userName string, email string) *models.UserAccount {

	if email == "" {
		email = "email@example.com"
	}
	user := &models.UserAccount{
		Name:                 userName,
		Email:                email,
		GoogleID:             "12232",
		Platform:             models.PlatformIOS,
		LastIp:               "123.122.122.122",
		Status:               "FINISHED_AUTH",
		AvatarURL:            "pictureurl",
		ReceiveNotifications: true,
	}
	db.Create(&user)
	db.First(&user, user.ID)
	return user
}

func FakeWardrobeItem(db *gorm.DB, ownerID uint, name string, category models.Category, color string, lastWorn *time.Time) *models.WardrobeItem {
	item := &models.WardrobeItem{
		Name:            name,
		OwnerID:         ownerID,
		Category:        category,
		SubCategory:     strings.ToLower(string(category)),
		Color:           color,
		Style:           "casual",
		Season:          "summer",
		Gender:          "female",
		Status:          "in_closet",
		DetectionStatus: "completed",
		LastWorn:        lastWorn,
	}
	db.Create(&item)
	return item
}

func Contains(items []string, lookFor string) bool {

	for i := 0; i < len(items); i++ {

		if items[i] == lookFor {
			return true
		}
	}
	return false
}

func NewRefString(data string) *string {
	return &data
}

type GoogleServiceMock struct{}

func (gsm GoogleServiceMock) ValidateIdToken(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error) {

	return &idtoken.Payload{Issuer: "Issue", Audience: "AAA", Expires: 119919191919, IssuedAt: 12312321321, Subject: "fake@example.com", Claims: map[string]interface{}{
		"email":   "fake@example.com",
		"picture": "pictureurl",
		"sub":     "123googleid",
	}}, nil

}

type AWSProviderMock struct {
	MockUrl string
}

func (awsService AWSProviderMock) InitPresignClient(ctx context.Context) error {
	return nil
}

func (awsService AWSProviderMock) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {

	return fmt.Sprintf("https://fakebucketurl.com/%s", fileName), nil
}

func (awsService AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	return awsService.MockUrl, nil
}

func (awsService AWSProviderMock) UploadToPresignedURL(ctx context.Context, bucketName, url string, fileContent []byte) (string, int, error) {
	return url, 204, nil
}

type URLCacheMock struct {
	MockUrl string
}

func (cache URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	return fmt.Sprintf("%s/%s", cache.MockUrl, objectKey), nil
}

// MockStylist returns canned generations. Set Err to simulate an unavailable
// backend, leave TextResponse empty to use the default narrative.
type MockStylist struct {
	TextResponse   string
	DetectResponse string
	Err            error
}

func (m MockStylist) GenerateText(prompt string, systemInstruction string, modelName services.LLMModelName) (*services.LLMResponse, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	response := m.TextResponse
	if response == "" {
		response = "OUTFIT 1: THE SMART PICK\nTop: White Shirt (ID: 1)\nBottom: Navy Chinos (ID: 2)\nShoes: Loafers (ID: 3)"
	}
	return &services.LLMResponse{
		Response:           response,
		InputTokenCount:    10,
		TotalTokenCount:    11,
		ThoughtsTokenCount: 12,
		OutputTokenCount:   13,
	}, nil
}

func (m MockStylist) DetectClothing(filePath string, prompt string, modelName services.LLMModelName) (*services.LLMResponse, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	response := m.DetectResponse
	if response == "" {
		response = `{
		"item_name": "blue cotton shirt",
		"category": "Tops",
		"sub_category": "shirt",
		"fabric": "cotton",
		"color": "blue",
		"pattern": "solid",
		"style": "casual",
		"season": "summer",
		"gender": "female",
		"brand": "",
		"occasions": ["casual", "office"]
		}`
	}
	return &services.LLMResponse{
		Response:           response,
		InputTokenCount:    10,
		TotalTokenCount:    11,
		ThoughtsTokenCount: 12,
		OutputTokenCount:   13,
	}, nil
}

type WeatherProviderMock struct {
	Reading *models.WeatherIn
	Err     error
}

func (w WeatherProviderMock) CurrentByCity(ctx context.Context, city string) (*models.WeatherIn, error) {
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Reading, nil
}

func (w WeatherProviderMock) CurrentByCoords(ctx context.Context, lat, lon float64) (*models.WeatherIn, error) {
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Reading, nil
}

type ShoppingProviderMock struct {
	Products []models.ShoppingProduct
	Err      error
}

func (s ShoppingProviderMock) SearchProducts(ctx context.Context, query string, budgetMin, budgetMax int) ([]models.ShoppingProduct, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Products, nil
}
