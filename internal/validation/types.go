package validation

// OrderRequest is the payload for an order submission.
type OrderRequest struct {
	Email       string `json:"email" validate:"required"`
	ProductName string `json:"productName" validate:"required"`
	Price       Price  `json:"price" validate:"required"` // string or number
}
