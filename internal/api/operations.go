package api

import (
	"context"
	"fmt"
	"net/http"

	"storefront-go/internal/models"
)

// ===== Users =====

// UserRegister creates a new user account in the users service.
func (c *Client) UserRegister(ctx context.Context, user models.User) error {
	return c.call(ctx, "v1.0/invoke/users/method/register", http.MethodPost, user, nil)
}

// UserGet fetches a registered user's profile.
func (c *Client) UserGet(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	path := fmt.Sprintf("v1.0/invoke/users/method/get/%s", username)
	if err := c.call(ctx, path, http.MethodGet, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserCheckReg probes whether a username is registered. The backend answers
// with a non-success status for unknown users, surfaced here as an error.
func (c *Client) UserCheckReg(ctx context.Context, username string) error {
	path := fmt.Sprintf("v1.0/invoke/users/method/isregistered/%s", username)
	return c.call(ctx, path, http.MethodGet, nil, nil)
}

// ===== Products =====

// ProductCatalog returns the full product catalog.
func (c *Client) ProductCatalog(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.call(ctx, "v1.0/invoke/products/method/catalog", http.MethodGet, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductOffers returns products currently on offer.
func (c *Client) ProductOffers(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.call(ctx, "v1.0/invoke/products/method/offers", http.MethodGet, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductGet fetches a single product by id.
func (c *Client) ProductGet(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	path := fmt.Sprintf("v1.0/invoke/products/method/get/%s", productID)
	if err := c.call(ctx, path, http.MethodGet, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductSearch runs a text search over the catalog.
func (c *Client) ProductSearch(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	path := fmt.Sprintf("v1.0/invoke/products/method/search/%s", query)
	if err := c.call(ctx, path, http.MethodGet, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ===== Cart =====

// CartGet fetches the user's cart.
func (c *Client) CartGet(ctx context.Context, username string) (*models.Cart, error) {
	var cart models.Cart
	path := fmt.Sprintf("v1.0/invoke/cart/method/get/%s", username)
	if err := c.call(ctx, path, http.MethodGet, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// CartProductSet sets the absolute quantity of a product in the user's cart
// and returns the updated cart.
func (c *Client) CartProductSet(ctx context.Context, username, productID string, count int) (*models.Cart, error) {
	var cart models.Cart
	path := fmt.Sprintf("v1.0/invoke/cart/method/setProduct/%s/%s/%d", username, productID, count)
	if err := c.call(ctx, path, http.MethodPut, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// CartAddAmount adjusts a product's quantity by a signed amount. This is a
// read-modify-write over CartGet and CartProductSet, not an atomic server-side
// increment, so concurrent callers for the same user can lose updates. The new
// quantity is floored at zero; removing more than present empties the line
// rather than failing.
func (c *Client) CartAddAmount(ctx context.Context, username, productID string, amount int) (*models.Cart, error) {
	count := 0
	cart, err := c.CartGet(ctx, username)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		count = cart.Products[productID] + amount
		if count < 0 {
			count = 0
		}
	}
	return c.CartProductSet(ctx, username, productID, count)
}

// CartSubmit turns the cart into an order and returns it.
func (c *Client) CartSubmit(ctx context.Context, username string) (*models.Order, error) {
	var order models.Order
	if err := c.call(ctx, "v1.0/invoke/cart/method/submit", http.MethodPost, username, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CartClear empties the user's cart.
func (c *Client) CartClear(ctx context.Context, username string) error {
	path := fmt.Sprintf("v1.0/invoke/cart/method/clear/%s", username)
	return c.call(ctx, path, http.MethodPut, username, nil)
}

// ===== Orders =====

// OrderGet fetches a single order by id.
func (c *Client) OrderGet(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("v1.0/invoke/orders/method/get/%s", orderID)
	if err := c.call(ctx, path, http.MethodGet, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// OrdersForUser lists the ids of the user's orders, most recent last.
func (c *Client) OrdersForUser(ctx context.Context, username string) ([]string, error) {
	var orderIDs []string
	path := fmt.Sprintf("v1.0/invoke/orders/method/getForUser/%s", username)
	if err := c.call(ctx, path, http.MethodGet, nil, &orderIDs); err != nil {
		return nil, err
	}
	return orderIDs, nil
}
