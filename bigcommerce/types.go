package bigcommerce

// Types for the subset of the BigCommerce REST surface this app touches:
// catalog v3, orders v2, carts v3, payments v3, content scripts v3,
// webhooks v3 and store info v2.

// OAuthResponse is the token-exchange response from login.bigcommerce.com
type OAuthResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
	User        struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
	Context     string `json:"context"`
	AccountUUID string `json:"account_uuid"`
}

// ProductImage is a catalog product image
type ProductImage struct {
	ID           int    `json:"id"`
	URLStandard  string `json:"url_standard"`
	URLThumbnail string `json:"url_thumbnail"`
	IsThumbnail  bool   `json:"is_thumbnail"`
}

// Product is a catalog v3 product
type Product struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	SKU            string         `json:"sku"`
	Description    string         `json:"description"`
	Price          float64        `json:"price"`
	SalePrice      float64        `json:"sale_price"`
	RetailPrice    float64        `json:"retail_price"`
	Images         []ProductImage `json:"images"`
	Categories     []int          `json:"categories"`
	Availability   string         `json:"availability"`
	InventoryLevel int            `json:"inventory_level"`
}

// Thumbnail returns the product's thumbnail image URL, falling back to the
// first image, or "" when the product has none.
func (p *Product) Thumbnail() string {
	for _, img := range p.Images {
		if img.IsThumbnail {
			return img.URLStandard
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URLStandard
	}
	return ""
}

// Address is an orders v2 billing/shipping address
type Address struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Company     string `json:"company,omitempty"`
	Street1     string `json:"street_1"`
	Street2     string `json:"street_2,omitempty"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	Country     string `json:"country"`
	CountryISO2 string `json:"country_iso2"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email"`
}

// Order is an orders v2 order
type Order struct {
	ID             int     `json:"id"`
	CustomerID     int     `json:"customer_id"`
	StatusID       int     `json:"status_id"`
	Status         string  `json:"status"`
	SubtotalExTax  string  `json:"subtotal_ex_tax"`
	SubtotalIncTax string  `json:"subtotal_inc_tax"`
	TotalExTax     string  `json:"total_ex_tax"`
	TotalIncTax    string  `json:"total_inc_tax"`
	ItemsTotal     int     `json:"items_total"`
	CurrencyCode   string  `json:"currency_code"`
	BillingAddress Address `json:"billing_address"`
}

// OrderProduct is a line item on an orders v2 order
type OrderProduct struct {
	ProductID   int    `json:"product_id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	PriceIncTax string `json:"price_inc_tax"`
}

// OrderLineItem is a line item in an orders v2 create request
type OrderLineItem struct {
	ProductID   int     `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceIncTax float64 `json:"price_inc_tax"`
	PriceExTax  float64 `json:"price_ex_tax"`
}

// CreateOrderRequest is the orders v2 create payload. Status 1 is
// "Pending" in BigCommerce's fixed status table.
type CreateOrderRequest struct {
	CustomerID      int             `json:"customer_id"`
	BillingAddress  Address         `json:"billing_address"`
	Products        []OrderLineItem `json:"products"`
	StatusID        int             `json:"status_id"`
	StaffNotes      string          `json:"staff_notes,omitempty"`
	CustomerMessage string          `json:"customer_message"`
}

// OrderStatusPending is the v2 status id for a pending order
const OrderStatusPending = 1

// CartLineItem is a carts v3 line item
type CartLineItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// CreateCartRequest is the carts v3 create payload
type CreateCartRequest struct {
	CustomerID int            `json:"customer_id,omitempty"`
	LineItems  []CartLineItem `json:"line_items"`
}

// Cart is a carts v3 cart
type Cart struct {
	ID         string `json:"id"`
	CustomerID int    `json:"customer_id"`
}

// PaymentAccessToken is a payments v3 access token
type PaymentAccessToken struct {
	ID string `json:"id"`
}

// Script is a content v3 script
type Script struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// CreateScriptRequest is the content v3 script create payload
type CreateScriptRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Src             string `json:"src"`
	AutoUninstall   bool   `json:"auto_uninstall"`
	LoadMethod      string `json:"load_method"`
	Location        string `json:"location"`
	Visibility      string `json:"visibility"`
	Kind            string `json:"kind"`
	ConsentCategory string `json:"consent_category"`
}

// CreateWebhookRequest is the webhooks v3 create payload
type CreateWebhookRequest struct {
	Scope       string            `json:"scope"`
	Destination string            `json:"destination"`
	IsActive    bool              `json:"is_active"`
	Headers     map[string]string `json:"headers,omitempty"`
}

// StoreInfo is the store info v2 response
type StoreInfo struct {
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	SecureURL string `json:"secure_url"`
}

// BaseURL returns the preferred public URL for the storefront
func (s *StoreInfo) BaseURL() string {
	if s.SecureURL != "" {
		return s.SecureURL
	}
	return s.Domain
}
