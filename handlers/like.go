package handlers

import (
	"net/http"

	"sparkmatch/models"

	"github.com/gin-gonic/gin"
)

type LikeRequest struct {
	ToUserID    int  `json:"toUserId" binding:"required"`
	IsLike      bool `json:"isLike"`
	IsSuperLike bool `json:"isSuperLike"`
}

// LikeUser records a swipe. On a mutual like it creates the match plus its
// conversation and returns the matched profile.
func LikeUser(c *gin.Context) {
	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fromUser, ok := resolveCurrentUser(c)
	if !ok {
		return
	}

	like, _, isMatch := store.LikeAndMatch(fromUser.ID, req.ToUserID, req.IsLike, req.IsSuperLike)

	var matchedUser *models.User
	if isMatch {
		if target, ok := store.GetUser(req.ToUserID); ok {
			matchedUser = &target
			SendMatchPush(target.ID, fromUser.DisplayName)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"like":        like,
		"isMatch":     isMatch,
		"matchedUser": matchedUser,
	})
}

// GetMatches returns the caller's matches.
func GetMatches(c *gin.Context) {
	user, ok := resolveCurrentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, store.GetUserMatches(user.ID))
}
