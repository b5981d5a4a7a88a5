package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
)

var ErrNotOwner = errors.New("restaurant is not owned by this account")

// Console is the restaurant-owner side: derived analytics over the raw
// order list, constrained status advancement, menu management and reviews.
type Console struct {
	orders  OrderGateway
	catalog CatalogGateway
	notify  *Notifier
	now     func() time.Time
}

func NewConsole(orders OrderGateway, catalog CatalogGateway, notify *Notifier) *Console {
	return &Console{orders: orders, catalog: catalog, notify: notify, now: time.Now}
}

type PopularItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Overview struct {
	OrdersToday      int           `json:"orders_today"`
	OrdersThisWeek   int           `json:"orders_this_week"`
	OrdersThisMonth  int           `json:"orders_this_month"`
	RevenueThisMonth domain.Money  `json:"revenue_this_month"`
	PopularItems     []PopularItem `json:"popular_items"`
	AverageRating    float64       `json:"average_rating"`
	ReviewCount      int           `json:"review_count"`
}

// ownedRestaurant resolves the restaurant and checks the session user owns
// it before any console operation touches its data.
func (uc *Console) ownedRestaurant(ctx context.Context, cr Credentials, sess *Session, restaurantID int64) (*domain.Restaurant, error) {
	r, err := uc.catalog.GetRestaurant(ctx, cr, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("fetch restaurant: %w", err)
	}
	if sess.User == nil || r.OwnerID != sess.User.ID {
		return nil, ErrNotOwner
	}
	return r, nil
}

// Overview computes the analytics tab gateway-side from the raw order and
// review lists: recency-window counts, current-month revenue over final
// amounts, and a naive popular-items tally by summed quantities.
func (uc *Console) Overview(ctx context.Context, cr Credentials, sess *Session, restaurantID int64) (*Overview, error) {
	if _, err := uc.ownedRestaurant(ctx, cr, sess, restaurantID); err != nil {
		return nil, err
	}
	orders, err := uc.orders.ListOrders(ctx, cr, OrderQuery{RestaurantID: restaurantID})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	now := uc.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	ov := &Overview{}
	tally := map[string]int{}
	for _, o := range orders {
		if !o.CreatedAt.Before(dayStart) {
			ov.OrdersToday++
		}
		if !o.CreatedAt.Before(weekStart) {
			ov.OrdersThisWeek++
		}
		if !o.CreatedAt.Before(monthStart) {
			ov.OrdersThisMonth++
			if o.Status != domain.StatusCancelled && o.Status != domain.StatusRefunded {
				ov.RevenueThisMonth += o.FinalAmount
			}
		}
		for _, it := range o.Items {
			tally[it.Name] += it.Quantity
		}
	}
	for name, qty := range tally {
		ov.PopularItems = append(ov.PopularItems, PopularItem{Name: name, Quantity: qty})
	}
	sort.Slice(ov.PopularItems, func(i, j int) bool {
		if ov.PopularItems[i].Quantity != ov.PopularItems[j].Quantity {
			return ov.PopularItems[i].Quantity > ov.PopularItems[j].Quantity
		}
		return ov.PopularItems[i].Name < ov.PopularItems[j].Name
	})
	if len(ov.PopularItems) > 5 {
		ov.PopularItems = ov.PopularItems[:5]
	}

	reviews, err := uc.catalog.ListReviews(ctx, cr, restaurantID)
	if err == nil {
		ov.AverageRating = domain.AverageRating(reviews)
		ov.ReviewCount = len(reviews)
	}
	return ov, nil
}

func (uc *Console) Orders(ctx context.Context, cr Credentials, sess *Session, restaurantID int64) ([]domain.Order, error) {
	if _, err := uc.ownedRestaurant(ctx, cr, sess, restaurantID); err != nil {
		return nil, err
	}
	return uc.orders.ListOrders(ctx, cr, OrderQuery{RestaurantID: restaurantID})
}

// AdvanceOrder moves an order to the requested status, which must be the
// single legal next step for its current status. Illegal jumps are
// rejected before any upstream PATCH goes out.
func (uc *Console) AdvanceOrder(ctx context.Context, cr Credentials, sess *Session, restaurantID, orderID int64, to domain.Status) (*domain.Order, error) {
	if _, err := uc.ownedRestaurant(ctx, cr, sess, restaurantID); err != nil {
		return nil, err
	}
	order, err := uc.orders.GetOrder(ctx, cr, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order: %w", err)
	}
	next, ok := order.Status.NextStatus()
	if !ok || next != to {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, order.Status, to)
	}
	if err := uc.orders.UpdateOrderStatus(ctx, cr, orderID, to); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	uc.notify.Success(ctx, cr.SessionID, fmt.Sprintf("Order %s moved to %s", order.OrderNumber, to))
	return uc.orders.GetOrder(ctx, cr, orderID)
}

func (uc *Console) Menu(ctx context.Context, cr Credentials, sess *Session, restaurantID int64) ([]domain.MenuItem, error) {
	if _, err := uc.ownedRestaurant(ctx, cr, sess, restaurantID); err != nil {
		return nil, err
	}
	return uc.catalog.ListMenuItems(ctx, cr, restaurantID, "")
}

func (uc *Console) AddMenuItem(ctx context.Context, cr Credentials, sess *Session, in MenuItemInput) (*domain.MenuItem, error) {
	if _, err := uc.ownedRestaurant(ctx, cr, sess, in.RestaurantID); err != nil {
		return nil, err
	}
	item, err := uc.catalog.CreateMenuItem(ctx, cr, in)
	if err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	uc.notify.Success(ctx, cr.SessionID, fmt.Sprintf("%s added to the menu", item.Name))
	return item, nil
}

type ReviewSummary struct {
	Reviews []domain.Review `json:"reviews"`
	Average float64         `json:"average"`
}

func (uc *Console) Reviews(ctx context.Context, cr Credentials, sess *Session, restaurantID int64) (*ReviewSummary, error) {
	if _, err := uc.ownedRestaurant(ctx, cr, sess, restaurantID); err != nil {
		return nil, err
	}
	reviews, err := uc.catalog.ListReviews(ctx, cr, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return &ReviewSummary{Reviews: reviews, Average: domain.AverageRating(reviews)}, nil
}
