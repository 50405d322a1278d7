package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/subscription"
	"github.com/stripe/stripe-go/v76/webhook"
)

var stripeEnabled bool

// SetupStripe configures the Stripe client. Payments stay disabled (503)
// when no secret key is set.
func SetupStripe() {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		log.Println("⚠️  STRIPE_SECRET_KEY not set - payment endpoints disabled")
		return
	}
	stripe.Key = key
	stripeEnabled = true
	log.Println("✅ Stripe configured")
}

func subscriptionPriceID() string {
	if price := os.Getenv("STRIPE_PRICE_ID"); price != "" {
		return price
	}
	return "price_default"
}

func clientSecretFrom(sub *stripe.Subscription) *string {
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		return &sub.LatestInvoice.PaymentIntent.ClientSecret
	}
	return nil
}

// GetOrCreateSubscription returns the caller's active premium subscription,
// creating the Stripe customer and subscription on first use.
func GetOrCreateSubscription(c *gin.Context) {
	if !stripeEnabled {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment processing not available. Please contact support."})
		return
	}

	user, ok := resolveCurrentUser(c)
	if !ok {
		return
	}

	// Reuse an already-active subscription.
	if user.StripeSubscriptionID != "" {
		params := &stripe.SubscriptionParams{}
		params.AddExpand("latest_invoice.payment_intent")

		sub, err := subscription.Get(user.StripeSubscriptionID, params)
		if err == nil && sub.Status == stripe.SubscriptionStatusActive {
			c.JSON(http.StatusOK, gin.H{
				"subscriptionId": sub.ID,
				"clientSecret":   clientSecretFrom(sub),
			})
			return
		}
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		custParams := &stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Name:  stripe.String(user.DisplayName),
		}
		custParams.AddMetadata("userId", strconv.Itoa(user.ID))
		custParams.AddMetadata("authUid", user.AuthUID)

		cust, err := customer.New(custParams)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		customerID = cust.ID
		if _, err := store.UpdateUserStripeInfo(user.ID, customerID, ""); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save customer"})
			return
		}
	}

	subParams := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(subscriptionPriceID())},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
	}
	subParams.AddExpand("latest_invoice.payment_intent")

	sub, err := subscription.New(subParams)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := store.UpdateUserStripeInfo(user.ID, customerID, sub.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscriptionId": sub.ID,
		"clientSecret":   clientSecretFrom(sub),
	})
}

// StripeWebhook flips the premium flag from subscription lifecycle events.
func StripeWebhook(c *gin.Context) {
	if !stripeEnabled {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment processing not available"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), os.Getenv("STRIPE_WEBHOOK_SECRET"))
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}

	switch event.Type {
	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice payload"})
			return
		}
		if invoice.Subscription != nil {
			if user, ok := store.GetUserByStripeSubscriptionID(invoice.Subscription.ID); ok {
				if _, err := store.UpdateUserPremiumStatus(user.ID, true); err != nil {
					log.Printf("Failed to activate premium for user %d: %v", user.ID, err)
				}
			}
		}

	case "invoice.payment_failed":
		// Stripe retries on its own; nothing to do yet.

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription payload"})
			return
		}
		if user, ok := store.GetUserByStripeSubscriptionID(sub.ID); ok {
			if _, err := store.UpdateUserPremiumStatus(user.ID, false); err != nil {
				log.Printf("Failed to deactivate premium for user %d: %v", user.ID, err)
			}
		}

	default:
		log.Printf("Unhandled event type %s", event.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
