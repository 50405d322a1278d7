package models

type User struct {
	ID                   int      `json:"id"`
	AuthUID              string   `json:"authUid"`
	Email                string   `json:"email"`
	Username             string   `json:"username"`
	DisplayName          string   `json:"displayName"`
	Age                  int      `json:"age"`
	Bio                  string   `json:"bio"`
	Location             string   `json:"location"`
	Occupation           string   `json:"occupation"`
	Education            string   `json:"education"`
	Interests            []string `json:"interests"`
	Photos               []string `json:"photos"` // array of image URLs
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	ProfileComplete      bool     `json:"profileComplete"`
	IsPremium            bool     `json:"isPremium"`
	StripeCustomerID     string   `json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID string   `json:"stripeSubscriptionId,omitempty"`
	PasswordHash         *string  `json:"-"`
	LastActive           int64    `json:"lastActive"`
	CreatedAt            int64    `json:"createdAt"`
}

type UserStats struct {
	TotalMatches    int `json:"totalMatches"`
	TotalLikes      int `json:"totalLikes"`
	TotalSuperLikes int `json:"totalSuperLikes"`
	ProfileViews    int `json:"profileViews"`
}
