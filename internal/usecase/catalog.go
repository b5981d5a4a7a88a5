package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/logging"
)

var ErrBadRating = errors.New("rating must be between 1 and 5")

// Catalog is the read-side browsing surface. The upstream list is filtered
// and sorted gateway-side so the behavior is identical regardless of what
// query parameters the backend happens to honor.
type Catalog struct {
	gw     CatalogGateway
	cache  CatalogCache
	notify *Notifier
}

func NewCatalog(gw CatalogGateway, cache CatalogCache, notify *Notifier) *Catalog {
	return &Catalog{gw: gw, cache: cache, notify: notify}
}

func (uc *Catalog) Restaurants(ctx context.Context, cr Credentials, q RestaurantQuery) ([]domain.Restaurant, error) {
	list, err := uc.restaurants(ctx, cr, q)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	filtered := list[:0]
	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, r := range list {
		if !r.IsActive {
			continue
		}
		if q.VegOnly && !r.IsVeg {
			continue
		}
		if q.Cuisine != "" && !strings.EqualFold(r.Cuisine, q.Cuisine) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Name), search) &&
			!strings.Contains(strings.ToLower(r.Cuisine), search) {
			continue
		}
		filtered = append(filtered, r)
	}

	switch q.Sort {
	case "rating":
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Rating > filtered[j].Rating })
	case "delivery_fee":
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].DeliveryFee < filtered[j].DeliveryFee })
	case "name", "":
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })
	}
	return filtered, nil
}

// restaurants serves the search-less list from the shared cache when it
// can; search queries go upstream so the backend's matching applies.
func (uc *Catalog) restaurants(ctx context.Context, cr Credentials, q RestaurantQuery) ([]domain.Restaurant, error) {
	if uc.cache == nil || q.Search != "" {
		return uc.gw.ListRestaurants(ctx, cr, q)
	}
	if cached, ok, err := uc.cache.GetRestaurants(ctx); err == nil && ok {
		return cached, nil
	}
	list, err := uc.gw.ListRestaurants(ctx, cr, q)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetRestaurants(ctx, list); err != nil {
		logging.FromCtx(ctx).Warn("catalog cache not refreshed", "error", err)
	}
	return list, nil
}

type RestaurantDetail struct {
	Restaurant *domain.Restaurant `json:"restaurant"`
	Menu       []domain.MenuItem  `json:"menu"`
}

func (uc *Catalog) Restaurant(ctx context.Context, cr Credentials, id int64, category string) (*RestaurantDetail, error) {
	r, err := uc.gw.GetRestaurant(ctx, cr, id)
	if err != nil {
		return nil, fmt.Errorf("fetch restaurant: %w", err)
	}
	menu, err := uc.gw.ListMenuItems(ctx, cr, id, category)
	if err != nil {
		return nil, fmt.Errorf("fetch menu: %w", err)
	}
	return &RestaurantDetail{Restaurant: r, Menu: menu}, nil
}

func (uc *Catalog) Reviews(ctx context.Context, cr Credentials, restaurantID int64) (*ReviewSummary, error) {
	reviews, err := uc.gw.ListReviews(ctx, cr, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return &ReviewSummary{Reviews: reviews, Average: domain.AverageRating(reviews)}, nil
}

func (uc *Catalog) AddReview(ctx context.Context, cr Credentials, in ReviewInput) (*domain.Review, error) {
	for _, r := range []int{in.Rating, in.FoodRating, in.DeliveryRating} {
		if r != 0 && (r < 1 || r > 5) {
			return nil, ErrBadRating
		}
	}
	if in.Rating == 0 {
		return nil, ErrBadRating
	}
	review, err := uc.gw.CreateReview(ctx, cr, in)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	uc.notify.Success(ctx, cr.SessionID, "Thanks for your review!")
	return review, nil
}
