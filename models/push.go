package models

import "github.com/SherClockHolmes/webpush-go"

// PushSubscription ties a browser push subscription to a user.
type PushSubscription struct {
	ID     int                  `json:"id"`
	UserID int                  `json:"userId"`
	Sub    webpush.Subscription `json:"sub"`
}
