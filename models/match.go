package models

type Match struct {
	ID        int   `json:"id"`
	UserID1   int   `json:"userId1"`
	UserID2   int   `json:"userId2"`
	IsMatch   bool  `json:"isMatch"`
	CreatedAt int64 `json:"createdAt"`
}
