package controllers

import (
	"net/http"

	"wardrobeapi/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type ProfileController struct {
}

func (controller *ProfileController) ProfileRoutes(g *echo.Group) {
	g.GET("/style", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)

		return c.JSON(http.StatusOK, echo.Map{
			"preferred_colors": user.PreferredColors,
			"disliked_colors":  user.DislikedColors,
			"preferred_styles": user.PreferredStyles,
			"body_shape":       user.BodyShape,
			"skin_tone":        user.SkinTone,
			"location":         user.Location,
			"style_profile":    user.StyleProfile,
		})
	})

	g.PUT("/style", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)

		var req models.StylePreferencesIn
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		}

		if req.PreferredColors != nil {
			user.PreferredColors = *req.PreferredColors
		}
		if req.DislikedColors != nil {
			user.DislikedColors = *req.DislikedColors
		}
		if req.PreferredStyles != nil {
			user.PreferredStyles = *req.PreferredStyles
		}
		if req.BodyShape != nil {
			user.BodyShape = *req.BodyShape
		}
		if req.SkinTone != nil {
			user.SkinTone = *req.SkinTone
		}
		if req.Location != nil {
			user.Location = *req.Location
		}
		if req.StyleProfile != nil {
			user.StyleProfile = *req.StyleProfile
		}

		if err := db.Save(&user).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Something happened",
			})
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "saved"})
	})
}
