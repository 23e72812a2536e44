package domain

// User is a registered account holder. The password field carries the
// bcrypt hash and is never serialized back to clients.
type User struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	CreatedAt string `json:"created_at"`
}

// Wallet tracks a user's USDC balance. Balance must never go negative;
// every debit is checked before it is applied.
type Wallet struct {
	Email       string  `json:"email"`
	USDCBalance float64 `json:"usdc_balance"`
}

// Transaction is an append-only record of a buy or a deposit.
type Transaction struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	BondID          string  `json:"bond_id"`
	BondCountry     string  `json:"bond_country"`
	Amount          float64 `json:"amount"`
	TokensReceived  float64 `json:"tokens_received"`
	Timestamp       string  `json:"timestamp"`
	TransactionType string  `json:"transaction_type"`
}

// Transaction types.
const (
	TransactionTypeBuy     = "buy"
	TransactionTypeDeposit = "deposit"
)

// Bond is a catalog entry for a fractional government bond. The catalog
// is static reference data, not user state.
type Bond struct {
	ID              string  `json:"id"`
	Country         string  `json:"country"`
	CountryCode     string  `json:"country_code"`
	YieldPercentage float64 `json:"yield_percentage"`
	MaturityDate    string  `json:"maturity_date"`
	MinimumEntry    float64 `json:"minimum_entry"`
	FlagURL         string  `json:"flag_url"`
	Description     string  `json:"description"`
	Issuer          string  `json:"issuer"`
}

// Holding is one bond position aggregated from a user's buy transactions.
type Holding struct {
	BondID          string  `json:"bond_id"`
	Country         string  `json:"country"`
	Tokens          float64 `json:"tokens"`
	Invested        float64 `json:"invested"`
	CurrentValue    float64 `json:"current_value"`
	YieldPercentage float64 `json:"yield_percentage"`
}

// EarningsPoint is one entry of the synthesized 30-day portfolio history.
type EarningsPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Portfolio is the aggregated view of a user's bond positions.
type Portfolio struct {
	TotalValue      float64         `json:"total_value"`
	TotalTokens     float64         `json:"total_tokens"`
	Holdings        []Holding       `json:"holdings"`
	EarningsHistory []EarningsPoint `json:"earnings_history"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for credential checks.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// TopUpRequest is the payload for wallet deposits.
type TopUpRequest struct {
	Amount float64 `json:"amount"`
}

// TopUpResponse confirms a deposit with the resulting balance.
type TopUpResponse struct {
	Message    string  `json:"message"`
	NewBalance float64 `json:"new_balance"`
}

// BuyRequest is the payload for bond purchases.
type BuyRequest struct {
	BondID string  `json:"bond_id"`
	Amount float64 `json:"amount"`
}
