package graph

// ============================================================================
// Source records (one per CSV row, typed before any mutation is issued)
// ============================================================================

// UserRecord is one row of the users source file
type UserRecord struct {
	Key       string // natural key used only during load
	Username  string
	Email     string
	Phone     string
	Birthdate string
	CreatedAt string
}

// ProductRecord is one row of the products source file
type ProductRecord struct {
	Key         string
	Name        string
	Price       float64
	Description string
	Stock       int64
}

// CategoryRecord is one row of the categories source file; the name is the key
type CategoryRecord struct {
	Name string
}

// ReturnRecord is one row of the returns source file
type ReturnRecord struct {
	Key    string
	Reason string
}

// ============================================================================
// Query results
// ============================================================================

// ProductRef is the shallow product projection used inside subtrees
type ProductRef struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ProductInfo is the full product projection
type ProductInfo struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Stock       int64   `json:"stock"`
}

// ReturnInfo is a filed return with the returned product expanded
type ReturnInfo struct {
	Reason   string       `json:"reason"`
	Products []ProductRef `json:"products,omitempty"`
}

// UserProfile is a user with purchased, favorited and return subtrees
// expanded one level
type UserProfile struct {
	Username  string       `json:"username"`
	Email     string       `json:"email,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Birthdate string       `json:"birthdate,omitempty"`
	CreatedAt string       `json:"created_at,omitempty"`
	Purchased []ProductRef `json:"purchased"`
	Favorited []ProductRef `json:"favorited"`
	Returns   []ReturnInfo `json:"returns"`
}

// CategoryRecommendation is one category reachable from the user's favorites
// together with up to the configured cap of not-yet-favorited products in it
type CategoryRecommendation struct {
	Category string        `json:"category"`
	Products []ProductInfo `json:"products"`
}
