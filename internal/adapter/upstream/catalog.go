package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
)

type restaurantDTO struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Cuisine     string      `json:"cuisine_type"`
	Rating      json.Number `json:"rating"`
	DeliveryFee string      `json:"delivery_fee"`
	IsVeg       bool        `json:"is_veg"`
	IsActive    bool        `json:"is_active"`
	Owner       int64       `json:"owner"`
}

func (d restaurantDTO) toDomain() (domain.Restaurant, error) {
	r := domain.Restaurant{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Cuisine:     d.Cuisine,
		IsVeg:       d.IsVeg,
		IsActive:    d.IsActive,
		OwnerID:     d.Owner,
	}
	if d.Rating != "" {
		rating, err := d.Rating.Float64()
		if err != nil {
			return domain.Restaurant{}, fmt.Errorf("restaurant %d rating: %w", d.ID, err)
		}
		r.Rating = rating
	}
	if d.DeliveryFee != "" {
		fee, err := domain.ParseMoney(d.DeliveryFee)
		if err != nil {
			return domain.Restaurant{}, fmt.Errorf("restaurant %d delivery_fee: %w", d.ID, err)
		}
		r.DeliveryFee = fee
	}
	return r, nil
}

func (c *Client) ListRestaurants(ctx context.Context, cr usecase.Credentials, q usecase.RestaurantQuery) ([]domain.Restaurant, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	dtos, err := doList[restaurantDTO](ctx, c, cr, call{
		method: http.MethodGet,
		path:   "/restaurants/restaurants/",
		query:  query,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Restaurant, 0, len(dtos))
	for _, d := range dtos {
		r, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *Client) GetRestaurant(ctx context.Context, cr usecase.Credentials, id int64) (*domain.Restaurant, error) {
	var dto restaurantDTO
	err := c.do(ctx, cr, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/restaurants/restaurants/%d/", id),
	}, &dto)
	if err != nil {
		return nil, err
	}
	r, err := dto.toDomain()
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type menuItemDTO struct {
	ID          int64  `json:"id"`
	Restaurant  int64  `json:"restaurant"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	IsVeg       bool   `json:"is_veg"`
	IsAvailable bool   `json:"is_available"`
}

func (d menuItemDTO) toDomain() (domain.MenuItem, error) {
	price, err := domain.ParseMoney(d.Price)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("menu item %d price: %w", d.ID, err)
	}
	return domain.MenuItem{
		ID:           d.ID,
		RestaurantID: d.Restaurant,
		Name:         d.Name,
		Description:  d.Description,
		Price:        price,
		Category:     d.Category,
		IsVeg:        d.IsVeg,
		IsAvailable:  d.IsAvailable,
	}, nil
}

func (c *Client) ListMenuItems(ctx context.Context, cr usecase.Credentials, restaurantID int64, category string) ([]domain.MenuItem, error) {
	query := url.Values{}
	query.Set("restaurant", strconv.FormatInt(restaurantID, 10))
	if category != "" {
		query.Set("category", category)
	}
	dtos, err := doList[menuItemDTO](ctx, c, cr, call{
		method: http.MethodGet,
		path:   "/restaurants/menu-items/",
		query:  query,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.MenuItem, 0, len(dtos))
	for _, d := range dtos {
		item, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (c *Client) CreateMenuItem(ctx context.Context, cr usecase.Credentials, in usecase.MenuItemInput) (*domain.MenuItem, error) {
	var dto menuItemDTO
	err := c.do(ctx, cr, call{
		method: http.MethodPost,
		path:   "/restaurants/menu-items/",
		body: map[string]any{
			"restaurant":  in.RestaurantID,
			"name":        in.Name,
			"description": in.Description,
			"price":       in.Price.String(),
			"category":    in.Category,
			"is_veg":      in.IsVeg,
		},
	}, &dto)
	if err != nil {
		return nil, err
	}
	item, err := dto.toDomain()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

type reviewDTO struct {
	ID             int64     `json:"id"`
	Restaurant     int64     `json:"restaurant"`
	Order          int64     `json:"order"`
	Rating         int       `json:"rating"`
	FoodRating     int       `json:"food_rating"`
	DeliveryRating int       `json:"delivery_rating"`
	Comment        string    `json:"comment"`
	CustomerName   string    `json:"customer_name"`
	CreatedAt      time.Time `json:"created_at"`
}

func (d reviewDTO) toDomain() domain.Review {
	return domain.Review{
		ID:             d.ID,
		RestaurantID:   d.Restaurant,
		OrderID:        d.Order,
		Rating:         d.Rating,
		FoodRating:     d.FoodRating,
		DeliveryRating: d.DeliveryRating,
		Comment:        d.Comment,
		Reviewer:       d.CustomerName,
		CreatedAt:      d.CreatedAt,
	}
}

func (c *Client) ListReviews(ctx context.Context, cr usecase.Credentials, restaurantID int64) ([]domain.Review, error) {
	query := url.Values{}
	query.Set("restaurant", strconv.FormatInt(restaurantID, 10))
	dtos, err := doList[reviewDTO](ctx, c, cr, call{
		method: http.MethodGet,
		path:   "/orders/reviews/",
		query:  query,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (c *Client) CreateReview(ctx context.Context, cr usecase.Credentials, in usecase.ReviewInput) (*domain.Review, error) {
	var dto reviewDTO
	err := c.do(ctx, cr, call{
		method: http.MethodPost,
		path:   "/orders/reviews/",
		body: map[string]any{
			"restaurant":      in.RestaurantID,
			"order":           in.OrderID,
			"rating":          in.Rating,
			"food_rating":     in.FoodRating,
			"delivery_rating": in.DeliveryRating,
			"comment":         in.Comment,
		},
	}, &dto)
	if err != nil {
		return nil, err
	}
	review := dto.toDomain()
	return &review, nil
}

var _ usecase.CatalogGateway = (*Client)(nil)
