package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/adapter/http/middleware"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalog *usecase.Catalog
}

func NewCatalogHandler(catalog *usecase.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListRestaurants(c *gin.Context) {
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	q := usecase.RestaurantQuery{
		Search:  c.Query("search"),
		Cuisine: c.Query("cuisine"),
		VegOnly: c.Query("veg") == "true",
		Sort:    c.Query("sort"),
	}
	list, err := h.catalog.Restaurants(ctx, sess.Credentials(), q)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": list})
}

func (h *CatalogHandler) GetRestaurant(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	detail, err := h.catalog.Restaurant(ctx, sess.Credentials(), id, c.Query("category"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *CatalogHandler) ListReviews(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	summary, err := h.catalog.Reviews(ctx, sess.Credentials(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type reviewReq struct {
	OrderID        int64  `json:"order_id"`
	Rating         int    `json:"rating" binding:"required"`
	FoodRating     int    `json:"food_rating"`
	DeliveryRating int    `json:"delivery_rating"`
	Comment        string `json:"comment"`
}

func (h *CatalogHandler) CreateReview(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		return
	}
	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	sess := middleware.Session(c)
	ctx, cancel := reqCtx(c, 10*time.Second)
	defer cancel()

	review, err := h.catalog.AddReview(ctx, sess.Credentials(), usecase.ReviewInput{
		RestaurantID:   id,
		OrderID:        req.OrderID,
		Rating:         req.Rating,
		FoodRating:     req.FoodRating,
		DeliveryRating: req.DeliveryRating,
		Comment:        req.Comment,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// pathID parses a numeric path param, answering the 400 itself on failure.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_" + name})
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
