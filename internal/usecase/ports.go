package usecase

import (
	"context"
	"fmt"
	"time"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
)

// TokenPair is the upstream access/refresh pair issued at login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Credentials identify one gateway session and carry its upstream tokens.
// Every gateway port takes them explicitly; nothing here is ambient.
type Credentials struct {
	SessionID string
	TokenPair
}

// Session is the state parked in redis for the lifetime of a login.
type Session struct {
	ID        string       `json:"id"`
	Tokens    TokenPair    `json:"tokens"`
	User      *domain.User `json:"user"`
	PromoCode string       `json:"promo_code,omitempty"`
	PromoPct  int          `json:"promo_pct,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

func (s *Session) Credentials() Credentials {
	return Credentials{SessionID: s.ID, TokenPair: s.Tokens}
}

// UpstreamError carries the backend's HTTP status and its best-effort
// error/detail message through the port boundary.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*domain.User, TokenPair, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, TokenPair, error)
	Me(ctx context.Context, cr Credentials) (*domain.User, error)
	Logout(ctx context.Context, cr Credentials) error
}

type AddressGateway interface {
	ListAddresses(ctx context.Context, cr Credentials) ([]domain.Address, error)
	CreateAddress(ctx context.Context, cr Credentials, a domain.Address) (*domain.Address, error)
}

type CartGateway interface {
	ListCartLines(ctx context.Context, cr Credentials) ([]domain.CartLine, error)
	AddCartLine(ctx context.Context, cr Credentials, menuItemID int64, qty int) error
	UpdateCartLine(ctx context.Context, cr Credentials, lineID int64, qty int) error
	DeleteCartLine(ctx context.Context, cr Credentials, lineID int64) error
}

// OrderDraft is the order-create payload; amounts are snapshotted from the
// cart totals and the address is copied by value.
type OrderDraft struct {
	RestaurantID  int64
	Totals        domain.CartTotals
	Address       domain.Address
	PaymentMethod domain.PaymentMethod
}

type OrderItemDraft struct {
	OrderID    int64
	MenuItemID int64
	Quantity   int
	UnitPrice  domain.Money
}

type OrderQuery struct {
	RestaurantID int64
}

type OrderGateway interface {
	CreateOrder(ctx context.Context, cr Credentials, idemKey string, d OrderDraft) (*domain.Order, error)
	CreateOrderItem(ctx context.Context, cr Credentials, idemKey string, d OrderItemDraft) error
	GetOrder(ctx context.Context, cr Credentials, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, cr Credentials, q OrderQuery) ([]domain.Order, error)
	ListOrderItems(ctx context.Context, cr Credentials, orderID int64) ([]domain.OrderItem, error)
	StatusHistory(ctx context.Context, cr Credentials, orderID int64) ([]domain.StatusHistoryEntry, error)
	UpdateOrderStatus(ctx context.Context, cr Credentials, orderID int64, to domain.Status) error
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, cr Credentials, orderID int64, amount domain.Money) (*domain.PaymentIntent, error)
	VerifyPayment(ctx context.Context, cr Credentials, proof domain.PaymentProof) error
}

type RestaurantQuery struct {
	Search  string
	Cuisine string
	VegOnly bool
	Sort    string // rating | delivery_fee | name
}

type MenuItemInput struct {
	RestaurantID int64
	Name         string
	Description  string
	Price        domain.Money
	Category     string
	IsVeg        bool
}

type ReviewInput struct {
	RestaurantID   int64
	OrderID        int64
	Rating         int
	FoodRating     int
	DeliveryRating int
	Comment        string
}

type CatalogGateway interface {
	ListRestaurants(ctx context.Context, cr Credentials, q RestaurantQuery) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, cr Credentials, id int64) (*domain.Restaurant, error)
	ListMenuItems(ctx context.Context, cr Credentials, restaurantID int64, category string) ([]domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, cr Credentials, in MenuItemInput) (*domain.MenuItem, error)
	ListReviews(ctx context.Context, cr Credentials, restaurantID int64) ([]domain.Review, error)
	CreateReview(ctx context.Context, cr Credentials, in ReviewInput) (*domain.Review, error)
}

// CatalogCache holds short-lived shared copies of hot catalog reads. A
// miss or cache error degrades to the upstream fetch, never to a failure.
type CatalogCache interface {
	GetRestaurants(ctx context.Context) ([]domain.Restaurant, bool, error)
	SetRestaurants(ctx context.Context, list []domain.Restaurant) error
}

type SessionStore interface {
	Put(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Unlock(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

type WorkflowStore interface {
	Save(ctx context.Context, sessionID string, wf *Workflow) error
	Load(ctx context.Context, sessionID string) (*Workflow, error)
	Clear(ctx context.Context, sessionID string) error
}

type Toast struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"` // success | error | info
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ToastStore queues ephemeral user-facing messages per session.
type ToastStore interface {
	Push(ctx context.Context, sessionID string, t Toast) error
	Drain(ctx context.Context, sessionID string) ([]Toast, error)
}
