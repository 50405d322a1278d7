package models

type Like struct {
	ID          int   `json:"id"`
	FromUserID  int   `json:"fromUserId"`
	ToUserID    int   `json:"toUserId"`
	IsLike      bool  `json:"isLike"` // true for like, false for pass
	IsSuperLike bool  `json:"isSuperLike"`
	CreatedAt   int64 `json:"createdAt"`
}
