package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"sparkmatch/storage"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
)

type ProfileUpdateRequest struct {
	Username        *string   `json:"username"`
	DisplayName     *string   `json:"displayName"`
	Age             *int      `json:"age"`
	Bio             *string   `json:"bio"`
	Location        *string   `json:"location"`
	Occupation      *string   `json:"occupation"`
	Education       *string   `json:"education"`
	Interests       *[]string `json:"interests"`
	Photos          *[]string `json:"photos"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	ProfileComplete *bool     `json:"profileComplete"`
}

// GetMyProfile returns the caller's own profile.
func GetMyProfile(c *gin.Context) {
	user, ok := resolveCurrentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMyProfile applies a partial profile edit. Absent fields keep their
// stored values.
func UpdateMyProfile(c *gin.Context) {
	authUID := c.GetString("authUid")
	if authUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON data"})
		return
	}

	user, err := store.UpdateUser(authUID, storage.ProfileUpdate{
		Username:        req.Username,
		DisplayName:     req.DisplayName,
		Age:             req.Age,
		Bio:             req.Bio,
		Location:        req.Location,
		Occupation:      req.Occupation,
		Education:       req.Education,
		Interests:       req.Interests,
		Photos:          req.Photos,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		ProfileComplete: req.ProfileComplete,
	})
	if err == storage.ErrUserNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UploadPhoto pushes the photo to Cloudinary and appends the resulting URL
// to the caller's profile.
func UploadPhoto(c *gin.Context) {
	user, ok := resolveCurrentUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse form data"})
		return
	}

	photoFile, _, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No photo file provided"})
		return
	}
	defer photoFile.Close()

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cloudinary configuration error"})
		return
	}

	uploadParams := uploader.UploadParams{
		Folder:         "sparkmatch/photos",
		PublicID:       user.AuthUID + "_" + time.Now().Format("20060102150405"),
		Transformation: "c_limit,w_800,h_800,q_auto",
	}

	uploadResult, err := cld.Upload.Upload(ctx, photoFile, uploadParams)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo to Cloudinary"})
		return
	}

	photos := append(user.Photos, uploadResult.SecureURL)
	if _, err := store.UpdateUser(user.AuthUID, storage.ProfileUpdate{Photos: &photos}); err != nil {
		log.Printf("[UploadPhoto] Failed to save photo URL: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": uploadResult.SecureURL})
}

// GetMyStats returns aggregate swipe/match counts for the caller.
func GetMyStats(c *gin.Context) {
	user, ok := resolveCurrentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.GetUserStats(user.ID))
}
