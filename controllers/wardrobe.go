package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"wardrobeapi/models"
	"wardrobeapi/services"
	"wardrobeapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type AnalyzeImageIn struct {
	FileName *string `json:"file_name" validate:"required,max=200"`
}

type WardrobeItemResponse struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	SubCategory     string     `json:"sub_category"`
	Fabric          string     `json:"fabric"`
	Color           string     `json:"color"`
	Pattern         string     `json:"pattern"`
	Style           string     `json:"style"`
	Season          string     `json:"season"`
	Gender          string     `json:"gender"`
	Brand           *string    `json:"brand"`
	Occasions       []string   `json:"occasions"`
	Status          string     `json:"status"`
	DetectionStatus string     `json:"detection_status"`
	WearCount       int        `json:"wear_count"`
	LastWorn        *time.Time `json:"last_worn"`
	Uri             *string    `json:"uri,omitempty"`
	CreatedAt       string     `json:"created_at"`
	UpdatedAt       string     `json:"updated_at"`
}

type WardrobeItemCreatedResponse struct {
	Item          WardrobeItemResponse `json:"item"`
	FileUploadUrl string               `json:"file_upload_url"`
}

type WardrobeListResponse struct {
	Tops        []WardrobeItemResponse `json:"tops"`
	Bottoms     []WardrobeItemResponse `json:"bottoms"`
	Dresses     []WardrobeItemResponse `json:"dresses"`
	Outerwear   []WardrobeItemResponse `json:"outerwear"`
	Footwear    []WardrobeItemResponse `json:"footwear"`
	Accessories []WardrobeItemResponse `json:"accessories"`
	Total       int                    `json:"total"`
}

type WardrobeController struct {
	AWSService  services.AWSServiceProvider
	FirebaseApp *firebase.App
	URLCache    services.URLCacheServiceProvider
}

func (controller *WardrobeController) WardrobeRoutes(g *echo.Group) {
	g.POST("/items", controller.CreateItem)
	g.POST("/items/analyze", controller.AnalyzeImage)
	g.GET("/items", controller.ListItems)
	g.GET("/items/:itemId", controller.GetItem)
	g.PUT("/items/:itemId", controller.UpdateItem)
	g.DELETE("/items/:itemId", controller.DeleteItem)
	g.POST("/items/:itemId/wear", controller.LogWear)
}

func itemToResponse(item models.WardrobeItem, uri *string) WardrobeItemResponse {
	return WardrobeItemResponse{
		ID:              item.ID,
		Name:            item.Name,
		Category:        string(item.Category),
		SubCategory:     item.SubCategory,
		Fabric:          item.Fabric,
		Color:           item.Color,
		Pattern:         item.Pattern,
		Style:           item.Style,
		Season:          item.Season,
		Gender:          item.Gender,
		Brand:           item.Brand,
		Occasions:       item.Occasions,
		Status:          item.Status,
		DetectionStatus: item.DetectionStatus,
		WearCount:       item.WearCount,
		LastWorn:        item.LastWorn,
		Uri:             uri,
		CreatedAt:       item.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:       item.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// CreateItem stores a manually described item. When a file name is passed a
// presigned upload URL comes back with the response.
func (controller *WardrobeController) CreateItem(c echo.Context) error {
	type createItemIn struct {
		models.WardrobeItemIn
		FileName *string `json:"file_name" validate:"omitempty,max=200"`
	}
	var req createItemIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	item := models.WardrobeItem{
		Name:            req.Name,
		OwnerID:         user.ID,
		Category:        models.Category(req.Category),
		SubCategory:     req.SubCategory,
		Fabric:          req.Fabric,
		Color:           req.Color,
		Pattern:         req.Pattern,
		Style:           req.Style,
		Season:          req.Season,
		Gender:          req.Gender,
		Brand:           req.Brand,
		Occasions:       req.Occasions,
		Status:          "in_closet",
		DetectionStatus: "idle",
	}

	var uploadUrl string
	if req.FileName != nil && *req.FileName != "" {
		if !services.ValidImageFileName(*req.FileName) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported image file type"})
		}
		var bucketName = services.GetEnv("R2_BUCKET_NAME", "")
		safeFileName := fmt.Sprintf("wardrobe/%v/%s", user.ID, *req.FileName)
		var presignErr error
		uploadUrl, presignErr = controller.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
		if presignErr != nil {
			log.Printf("Unable to presign upload for %s!, %s", item.Name, presignErr)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Error while creating item with attachment",
			})
		}
		item.ImageURL = &safeFileName
		item.ImageStatus = "draft"
	}

	if err := db.Create(&item).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	return c.JSON(http.StatusCreated, WardrobeItemCreatedResponse{
		Item:          itemToResponse(item, nil),
		FileUploadUrl: uploadUrl,
	})
}

// AnalyzeImage creates a temporary item, presigns the image upload and queues
// attribute detection. The item stays editable whatever detection decides.
func (controller *WardrobeController) AnalyzeImage(c echo.Context) error {
	var req AnalyzeImageIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}
	asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
	}

	if !services.ValidImageFileName(*req.FileName) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported image file type"})
	}

	var bucketName = services.GetEnv("R2_BUCKET_NAME", "")
	safeFileName := fmt.Sprintf("wardrobe/%v/%s", user.ID, *req.FileName)
	uploadUrl, presignErr := controller.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
	if presignErr != nil {
		log.Printf("Unable to presign upload for analyze, user %v, %s", user.ID, presignErr)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Error while preparing image upload",
		})
	}

	item := models.WardrobeItem{
		Name:            "Analyzing...",
		OwnerID:         user.ID,
		Status:          "temporary",
		ImageStatus:     "draft",
		ImageURL:        &safeFileName,
		DetectionStatus: "pending",
	}
	if err := db.Create(&item).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	task, err := tasks.NewAttributeDetectionTask(item.ID)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not analyze image, please try again"})
	}
	info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("generate"), asynq.ProcessIn(15*time.Second))
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not analyze image, please try again"})
	}
	fmt.Println("[Queue] Attribute detection task submitted, Item ID: ", item.ID, " Task ID: ", info.ID)

	return c.JSON(http.StatusAccepted, WardrobeItemCreatedResponse{
		Item:          itemToResponse(item, nil),
		FileUploadUrl: uploadUrl,
	})
}

// populatePresignedItemImages enriches raw items with presigned read URLs
// concurrently, with a direct R2 failsafe when the cache layer fails.
func (controller *WardrobeController) populatePresignedItemImages(ctx context.Context, items []models.WardrobeItem) []WardrobeItemResponse {
	if len(items) == 0 {
		return []WardrobeItemResponse{}
	}

	var wg sync.WaitGroup
	processedResponses := make([]WardrobeItemResponse, len(items))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, wardrobeItem := range items {
		wg.Add(1)
		go func(index int, item models.WardrobeItem) {
			defer wg.Done()

			var imageUrl string
			if item.ImageURL != nil && *item.ImageURL != "" {
				objectKey := *item.ImageURL

				url, err := controller.URLCache.GetReadURL(ctx, objectKey)
				if err == nil {
					imageUrl = url
				} else {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})

					fallbackUrl, fallbackErr := controller.AWSService.GetPresignedR2FileReadURL(ctx, bucketName, objectKey)
					if fallbackErr != nil {
						log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, fallbackErr)
						sentry.CaptureException(fallbackErr)
					} else {
						imageUrl = fallbackUrl
					}
				}
			}
			processedResponses[index] = itemToResponse(item, &imageUrl)
		}(i, wardrobeItem)
	}

	wg.Wait()
	return processedResponses
}

func (controller *WardrobeController) ListItems(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	var items []models.WardrobeItem
	if err := db.Where("owner_id = ?", user.ID).Order("created_at desc").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe items"})
	}

	processedResponses := controller.populatePresignedItemImages(c.Request().Context(), items)

	response := WardrobeListResponse{
		Tops:        []WardrobeItemResponse{},
		Bottoms:     []WardrobeItemResponse{},
		Dresses:     []WardrobeItemResponse{},
		Outerwear:   []WardrobeItemResponse{},
		Footwear:    []WardrobeItemResponse{},
		Accessories: []WardrobeItemResponse{},
		Total:       len(processedResponses),
	}

	for _, resp := range processedResponses {
		switch models.Category(resp.Category) {
		case models.CategoryTops:
			response.Tops = append(response.Tops, resp)
		case models.CategoryBottoms:
			response.Bottoms = append(response.Bottoms, resp)
		case models.CategoryDresses:
			response.Dresses = append(response.Dresses, resp)
		case models.CategoryOuterwear:
			response.Outerwear = append(response.Outerwear, resp)
		case models.CategoryFootwear:
			response.Footwear = append(response.Footwear, resp)
		case models.CategoryAccessories:
			response.Accessories = append(response.Accessories, resp)
		}
	}

	return c.JSON(http.StatusOK, response)
}

func (controller *WardrobeController) fetchOwnedItem(c echo.Context) (*models.WardrobeItem, *gorm.DB, error) {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return nil, nil, c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	var itemId uint
	if err := echo.PathParamsBinder(c).Uint("itemId", &itemId).BindError(); err != nil {
		return nil, nil, c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid item id"})
	}

	var item models.WardrobeItem
	result := db.Where("id = ? AND owner_id = ?", itemId, user.ID).Limit(1).Find(&item)
	if result.Error != nil {
		return nil, nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch item"})
	}
	if result.RowsAffected == 0 {
		return nil, nil, c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}
	return &item, db, nil
}

func (controller *WardrobeController) GetItem(c echo.Context) error {
	item, _, err := controller.fetchOwnedItem(c)
	if item == nil {
		return err
	}

	responses := controller.populatePresignedItemImages(c.Request().Context(), []models.WardrobeItem{*item})
	return c.JSON(http.StatusOK, responses[0])
}

func (controller *WardrobeController) UpdateItem(c echo.Context) error {
	item, db, err := controller.fetchOwnedItem(c)
	if item == nil {
		return err
	}

	var req models.WardrobeItemUpdateIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.Category != nil && !models.ValidateCategoryRaw(*req.Category) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid category"})
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = models.Category(*req.Category)
	}
	if req.SubCategory != nil {
		item.SubCategory = *req.SubCategory
	}
	if req.Fabric != nil {
		item.Fabric = *req.Fabric
	}
	if req.Color != nil {
		item.Color = *req.Color
	}
	if req.Pattern != nil {
		item.Pattern = *req.Pattern
	}
	if req.Style != nil {
		item.Style = *req.Style
	}
	if req.Season != nil {
		item.Season = *req.Season
	}
	if req.Gender != nil {
		item.Gender = *req.Gender
	}
	if req.Brand != nil {
		item.Brand = req.Brand
	}
	if req.Occasions != nil {
		item.Occasions = *req.Occasions
	}
	// editing a temporary item confirms it into the closet
	if item.Status == "temporary" {
		item.Status = "in_closet"
	}

	if err := db.Save(item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update item"})
	}
	return c.JSON(http.StatusOK, itemToResponse(*item, nil))
}

func (controller *WardrobeController) DeleteItem(c echo.Context) error {
	item, db, err := controller.fetchOwnedItem(c)
	if item == nil {
		return err
	}

	if err := db.Delete(item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete item"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// LogWear bumps the wear counter and stamps last worn with the current time.
func (controller *WardrobeController) LogWear(c echo.Context) error {
	item, db, err := controller.fetchOwnedItem(c)
	if item == nil {
		return err
	}

	now := time.Now()
	item.WearCount++
	item.LastWorn = &now
	if err := db.Save(item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to log wear"})
	}

	fmt.Printf("[User %v] wear logged for item %v, count %v\n", item.OwnerID, item.ID, item.WearCount)
	return c.JSON(http.StatusOK, itemToResponse(*item, nil))
}
