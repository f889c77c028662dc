package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wardrobeapi/models"
	"wardrobeapi/services"
	"wardrobeapi/telegram"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type AttributeDetectionPayload struct {
	ItemID uint `json:"item_id"`
}

// items untouched for this long get a wear reminder
const nudgeUnwornDays = 14

// Client initializes an asynq client for enqueuing tasks
func NewClient() (*asynq.Client, error) {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: "your-redis-connection-string"}), nil
}

func NewAttributeDetectionTask(itemID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(AttributeDetectionPayload{ItemID: itemID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask("detect:attributes", payload), nil

}

func NewUnwornNudgeTask() (*asynq.Task, error) {
	return asynq.NewTask("notify:unworn", nil), nil
}

func getFileForItem(awsService services.AWSServiceProvider, item models.WardrobeItem) ([]byte, string, error) {
	bucketName := os.Getenv("R2_BUCKET_NAME")
	fmt.Printf("[Item: %v] Bucket name: %s\n", item.ID, bucketName)
	fmt.Printf("[Item: %v] Request presigned download url.. ", item.ID)
	if item.ImageURL == nil {
		return nil, "", fmt.Errorf("[Item: %v] Image URL is nil", item.ID)
	}
	fileUrl, err := awsService.GetPresignedR2FileReadURL(context.TODO(), bucketName, *item.ImageURL)
	fileName := filepath.Base(*item.ImageURL)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on getting presigned URL for file %s", item.ID, *item.ImageURL))
		return nil, fileName, err
	}
	fmt.Printf("Downloading... %s\n", fileUrl)
	fileBytes, err := services.ReadFileFromUrl(fileUrl)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on downloading file %s: %v", item.ID, *item.ImageURL, err))
		return nil, fileName, err
	}

	return fileBytes, fileName, nil
}

// HandleAttributeDetectionTask downloads the item image, asks the model for
// clothing attributes and writes them back. The item remains usable even when
// the model output is unusable, fallback attributes mark it for manual edit.
func HandleAttributeDetectionTask(
	ctx context.Context, t *asynq.Task, db *gorm.DB, stylist services.LLMStylist,
	awsService services.AWSServiceProvider, fbApp *firebase.App) error {
	google_key := os.Getenv("GOOGLE_API_KEY")
	if google_key == "" {
		sentry.CaptureException(fmt.Errorf("[QUEUE] %s Google API key is not set", string(t.Payload())))
		return fmt.Errorf("[QUEUE] %s Google API key is not set", string(t.Payload()))
	}
	var payload AttributeDetectionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return err
	}
	fmt.Printf("[Item: %v] Start attribute detection\n", payload.ItemID)
	var item models.WardrobeItem
	res := db.First(&item, payload.ItemID)
	if res.Error != nil {
		sentry.CaptureException(fmt.Errorf("[QUEUE] Error on retrieving item for detection %v", payload.ItemID))
		return res.Error
	}
	if item.DetectionStatus == "completed" {
		fmt.Printf("[Item: %v] Already detected, skipping\n", payload.ItemID)
		return nil
	}

	item.DetectionStatus = "detecting"
	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	fileBytes, fileName, err := getFileForItem(awsService, item)
	if err != nil {
		saveDetectionFail(db, item, "Failed to read item image, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on getting image file: %v", payload.ItemID, err))
		return err
	}
	fmt.Printf("[Item: %v] Downloaded file size: %d bytes\n", payload.ItemID, len(fileBytes))

	filePath, err := services.CreateTempFile(fileBytes, fileName)
	if err != nil {
		saveDetectionFail(db, item, "Failed to prepare item image, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on creating temp file %s: %v", payload.ItemID, fileName, err))
		return err
	}
	defer os.Remove(filePath)

	model := services.Flash25
	fmt.Printf("[Item: %v] Model: %s\n", payload.ItemID, model.String())

	llmResponse, err := stylist.DetectClothing(filePath, services.BuildDetectionPrompt(), model)
	if err != nil {
		saveDetectionFail(db, item, "Failed to analyze item image, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on detecting attributes: %v", payload.ItemID, err))
		return err
	}
	if llmResponse == nil {
		saveDetectionFail(db, item, "Failed to analyze item image, please try again", true)
		sentry.CaptureException(fmt.Errorf("[Item: %v] Response is nil but no error provided on detection", payload.ItemID))
		return fmt.Errorf("[Item: %v] Response is nil but no error provided on detection", payload.ItemID)
	}

	attributes, fallbackUsed := services.ParseDetection(llmResponse.Response)
	fmt.Printf("[Item: %v] LLM Processed: %q, IT: %d, OT: %d, TT: %d, Fallback: %v\n", payload.ItemID, attributes.ItemName, llmResponse.InputTokenCount, llmResponse.OutputTokenCount, llmResponse.TotalTokenCount, fallbackUsed)

	item.Name = services.TitleItemName(attributes.ItemName)
	item.Category = models.Category(attributes.Category)
	item.SubCategory = attributes.SubCategory
	item.Fabric = attributes.Fabric
	item.Color = attributes.Color
	item.Pattern = attributes.Pattern
	item.Style = attributes.Style
	item.Season = attributes.Season
	item.Gender = attributes.Gender
	if attributes.Brand != "" {
		item.Brand = &attributes.Brand
	}
	item.Occasions = attributes.Occasions
	item.ImageStatus = "uploaded"
	item.DetectionStatus = "completed"
	item.DetectionErrorMessage = nil

	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on saving detected attributes: %v", payload.ItemID, err))
		return err
	}

	services.SendNotification(fbApp, db, item.OwnerID, "Item Analyzed", fmt.Sprintf("Your item %s is ready in the wardrobe", item.Name), map[string]string{"item_id": fmt.Sprintf("%d", item.ID), "type": "item_detected"})
	return nil
}

func saveDetectionFail(db *gorm.DB, item models.WardrobeItem, msg string, shouldRetry bool) error {
	item.DetectionRetryTimes = item.DetectionRetryTimes + 1
	item.DetectionErrorMessage = &msg
	if !shouldRetry || item.DetectionRetryTimes >= 3 {

		item.DetectionStatus = "failed"
	}
	tx := db.Save(&item)
	if tx.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Fail Item %v] Error on saving item for failed status", item.ID))
		return tx.Error
	}
	return nil
}

// ScheduledUnwornNudgeTask reminds users about items gathering dust
func ScheduledUnwornNudgeTask(ctx context.Context, t *asynq.Task, db *gorm.DB, stylist services.LLMStylist, fbApp *firebase.App) error {

	fmt.Printf("[Nudge] Processing for all users\n")

	var users []models.UserAccount
	result := db.Where("banned = ? AND receive_notifications = ?", false, true).Find(&users)
	if result.Error != nil {
		sentry.CaptureException(fmt.Errorf("[Nudge] Error fetching users: %v", result.Error))
		return result.Error
	}

	fmt.Printf("[Nudge] Found %d users to send reminders\n", len(users))

	for _, user := range users {
		err := sendUnwornNudgeToUser(ctx, db, stylist, fbApp, user)
		if err != nil {
			fmt.Printf("[Nudge] Failed to send to user %d: %v\n", user.ID, err)
			sentry.CaptureException(fmt.Errorf("[Nudge] Failed to send to user %d: %v", user.ID, err))
			continue
		}
		time.Sleep(1 * time.Second) // To avoid hitting rate limits
	}

	return nil
}

func sendUnwornNudgeToUser(ctx context.Context, db *gorm.DB, stylist services.LLMStylist, fbApp *firebase.App, user models.UserAccount) error {
	cutoff := time.Now().AddDate(0, 0, -nudgeUnwornDays)

	var items []models.WardrobeItem
	result := db.Where("owner_id = ? AND status = ? AND last_worn IS NOT NULL AND last_worn < ?",
		user.ID, "in_closet", cutoff).Order("last_worn asc").Limit(1).Find(&items)
	if result.Error != nil {
		return fmt.Errorf("error fetching user items: %v", result.Error)
	}
	if len(items) == 0 {
		fmt.Printf("[Nudge] No unworn items found for user %d\n", user.ID)
		return nil
	}

	item := items[0]
	daysUnworn := int(time.Since(*item.LastWorn).Hours() / 24)
	message := services.GenerateNudge(stylist, services.FlashLite25, item.Name, daysUnworn, item.WearCount)

	if len(message) > 150 {
		message = message[:147] + "..."
	}

	fmt.Println("[Nudge] Sending reminder to user", user.ID, "for item", item.ID)
	services.SendNotification(fbApp, db, user.ID, "Wardrobe Reminder", message, map[string]string{"item_id": fmt.Sprintf("%d", item.ID), "type": "unworn_nudge"})

	if err := telegram.SendNudgeMessage(user, message); err != nil {
		fmt.Printf("[Nudge] Telegram delivery failed for user %d: %v\n", user.ID, err)
		sentry.CaptureException(err)
	}

	return nil
}
