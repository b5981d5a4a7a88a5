package domain

import "time"

type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"` // CUSTOMER | RESTAURANT_OWNER
}

type Restaurant struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Cuisine     string  `json:"cuisine_type,omitempty"`
	Rating      float64 `json:"rating"`
	DeliveryFee Money   `json:"delivery_fee"`
	IsVeg       bool    `json:"is_veg"`
	IsActive    bool    `json:"is_active"`
	OwnerID     int64   `json:"owner_id,omitempty"`
}

type MenuItem struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Price        Money  `json:"price"`
	Category     string `json:"category,omitempty"`
	IsVeg        bool   `json:"is_veg"`
	IsAvailable  bool   `json:"is_available"`
}

type Review struct {
	ID             int64     `json:"id"`
	RestaurantID   int64     `json:"restaurant_id"`
	OrderID        int64     `json:"order_id,omitempty"`
	Rating         int       `json:"rating"`
	FoodRating     int       `json:"food_rating,omitempty"`
	DeliveryRating int       `json:"delivery_rating,omitempty"`
	Comment        string    `json:"comment,omitempty"`
	Reviewer       string    `json:"reviewer,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AverageRating over the primary rating field; 0 for no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// PaymentIntent is the backend-issued reference handed to the payment
// widget to authorize a charge.
type PaymentIntent struct {
	KeyID           string `json:"key_id"`
	AmountPaise     int64  `json:"amount"`
	Currency        string `json:"currency"`
	RazorpayOrderID string `json:"razorpay_order_id"`
}

// PaymentProof is what the widget hands back on a successful charge.
type PaymentProof struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}
