package models

// Product holds catalog data served by the products service.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Cost        float32 `json:"cost"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	OnOffer     bool    `json:"onOffer"`
}

// Cart is the server-owned cart state for one user. Products maps product id to
// quantity; the client never keeps an authoritative local copy.
type Cart struct {
	ForUser  string         `json:"forUser"`
	Products map[string]int `json:"products"`
}

// Order holds information about a customer order.
type Order struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Amount  float32     `json:"amount"`
	Items   []string    `json:"items"` // List of Product.ID
	Status  OrderStatus `json:"status"`
	ForUser string      `json:"forUser"` // Ref to User.Username
}

// User holds information about a registered user.
type User struct {
	Username     string   `json:"username"`
	DisplayName  string   `json:"displayName"`
	ProfileImage string   `json:"profileImage"`
	Orders       []string `json:"orders"` // List of Order.ID
}

// OrderStatus enum.
type OrderStatus string

const (
	OrderNew        OrderStatus = "new"
	OrderReceived   OrderStatus = "received"
	OrderProcessing OrderStatus = "processing"
	OrderComplete   OrderStatus = "complete"
)
