package upstream

import (
	"context"
	"fmt"
	"net/http"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
)

// cartItemDTO mirrors the cart-item serializer, which embeds the menu
// item and, through it, the owning restaurant.
type cartItemDTO struct {
	ID       int64 `json:"id"`
	MenuItem struct {
		ID         int64  `json:"id"`
		Name       string `json:"name"`
		Restaurant struct {
			ID          int64  `json:"id"`
			DeliveryFee string `json:"delivery_fee"`
		} `json:"restaurant"`
	} `json:"menu_item"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

func (d cartItemDTO) toDomain() (domain.CartLine, error) {
	price, err := domain.ParseMoney(d.UnitPrice)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("cart line %d unit_price: %w", d.ID, err)
	}
	line := domain.CartLine{
		ID:           d.ID,
		MenuItemID:   d.MenuItem.ID,
		MenuItemName: d.MenuItem.Name,
		Quantity:     d.Quantity,
		UnitPrice:    price,
		RestaurantID: d.MenuItem.Restaurant.ID,
	}
	if d.MenuItem.Restaurant.DeliveryFee != "" {
		fee, err := domain.ParseMoney(d.MenuItem.Restaurant.DeliveryFee)
		if err != nil {
			return domain.CartLine{}, fmt.Errorf("cart line %d delivery_fee: %w", d.ID, err)
		}
		line.DeliveryFee = fee
	}
	return line, nil
}

func (c *Client) ListCartLines(ctx context.Context, cr usecase.Credentials) ([]domain.CartLine, error) {
	dtos, err := doList[cartItemDTO](ctx, c, cr, call{method: http.MethodGet, path: "/orders/cart-items/"})
	if err != nil {
		return nil, err
	}
	out := make([]domain.CartLine, 0, len(dtos))
	for _, d := range dtos {
		line, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

func (c *Client) AddCartLine(ctx context.Context, cr usecase.Credentials, menuItemID int64, qty int) error {
	return c.do(ctx, cr, call{
		method: http.MethodPost,
		path:   "/orders/cart-items/",
		body:   map[string]any{"menu_item": menuItemID, "quantity": qty},
	}, nil)
}

func (c *Client) UpdateCartLine(ctx context.Context, cr usecase.Credentials, lineID int64, qty int) error {
	return c.do(ctx, cr, call{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/orders/cart-items/%d/", lineID),
		body:   map[string]any{"quantity": qty},
	}, nil)
}

func (c *Client) DeleteCartLine(ctx context.Context, cr usecase.Credentials, lineID int64) error {
	return c.do(ctx, cr, call{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/orders/cart-items/%d/", lineID),
	}, nil)
}

var _ usecase.CartGateway = (*Client)(nil)
