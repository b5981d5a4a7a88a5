package upstream

import (
	"context"
	"fmt"
	"net/http"

	domain "github.com/DarshanKumarGP/MEAL-MATE/internal/entity"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
)

type userDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

func (d userDTO) toDomain() *domain.User {
	return &domain.User{
		ID:        d.ID,
		Email:     d.Email,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Phone:     d.Phone,
		Role:      d.Role,
	}
}

type authResponse struct {
	User    userDTO `json:"user"`
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, usecase.TokenPair, error) {
	var resp authResponse
	err := c.do(ctx, usecase.Credentials{}, call{
		method: http.MethodPost,
		path:   "/auth/login/",
		body:   map[string]string{"email": email, "password": password},
	}, &resp)
	if err != nil {
		return nil, usecase.TokenPair{}, err
	}
	if resp.Access == "" || resp.Refresh == "" {
		return nil, usecase.TokenPair{}, fmt.Errorf("%w: login response", ErrUnexpectedShape)
	}
	return resp.User.toDomain(), usecase.TokenPair{Access: resp.Access, Refresh: resp.Refresh}, nil
}

func (c *Client) Register(ctx context.Context, in usecase.RegisterInput) (*domain.User, usecase.TokenPair, error) {
	var resp authResponse
	err := c.do(ctx, usecase.Credentials{}, call{
		method: http.MethodPost,
		path:   "/auth/register/",
		body: map[string]string{
			"email":      in.Email,
			"password":   in.Password,
			"first_name": in.FirstName,
			"last_name":  in.LastName,
			"phone":      in.Phone,
		},
	}, &resp)
	if err != nil {
		return nil, usecase.TokenPair{}, err
	}
	if resp.Access == "" || resp.Refresh == "" {
		return nil, usecase.TokenPair{}, fmt.Errorf("%w: register response", ErrUnexpectedShape)
	}
	return resp.User.toDomain(), usecase.TokenPair{Access: resp.Access, Refresh: resp.Refresh}, nil
}

func (c *Client) Me(ctx context.Context, cr usecase.Credentials) (*domain.User, error) {
	var dto userDTO
	if err := c.do(ctx, cr, call{method: http.MethodGet, path: "/core/users/me/"}, &dto); err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

func (c *Client) Logout(ctx context.Context, cr usecase.Credentials) error {
	return c.do(ctx, cr, call{
		method: http.MethodPost,
		path:   "/auth/logout/",
		body:   map[string]string{"refresh": cr.Refresh},
	}, nil)
}

type addressDTO struct {
	ID         int64  `json:"id"`
	Line1      string `json:"address_line_1"`
	Line2      string `json:"address_line_2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Label      string `json:"address_type"`
	IsDefault  bool   `json:"is_default"`
}

func (d addressDTO) toDomain() domain.Address {
	return domain.Address{
		ID:         d.ID,
		Line1:      d.Line1,
		Line2:      d.Line2,
		City:       d.City,
		State:      d.State,
		PostalCode: d.PostalCode,
		Label:      d.Label,
		IsDefault:  d.IsDefault,
	}
}

func (c *Client) ListAddresses(ctx context.Context, cr usecase.Credentials) ([]domain.Address, error) {
	dtos, err := doList[addressDTO](ctx, c, cr, call{method: http.MethodGet, path: "/core/addresses/"})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Address, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (c *Client) CreateAddress(ctx context.Context, cr usecase.Credentials, a domain.Address) (*domain.Address, error) {
	var dto addressDTO
	err := c.do(ctx, cr, call{
		method: http.MethodPost,
		path:   "/core/addresses/",
		body: map[string]any{
			"address_line_1": a.Line1,
			"address_line_2": a.Line2,
			"city":           a.City,
			"state":          a.State,
			"postal_code":    a.PostalCode,
			"address_type":   a.Label,
			"is_default":     a.IsDefault,
		},
	}, &dto)
	if err != nil {
		return nil, err
	}
	out := dto.toDomain()
	return &out, nil
}

var (
	_ usecase.AuthGateway    = (*Client)(nil)
	_ usecase.AddressGateway = (*Client)(nil)
)
