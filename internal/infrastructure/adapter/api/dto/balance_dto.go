package dto

// BalanceResponse represents the API response for a user's balance
type BalanceResponse struct {
	UserID  uint64 `json:"userId"`
	Balance string `json:"balance"`
}

// CreditRequest represents the request body for adding funds to a balance
type CreditRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// TransferRequest represents the request body for a two-party transfer
type TransferRequest struct {
	FromUserID uint64 `json:"fromUserId" binding:"required"`
	ToUserID   uint64 `json:"toUserId" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
}

// TransferResponse confirms a committed transfer
type TransferResponse struct {
	Success  bool `json:"success"`
	Attempts int  `json:"attempts"`
}

// LedgerEntryResponse represents one recorded ledger entry
type LedgerEntryResponse struct {
	ID        string `json:"id"`
	UserID    uint64 `json:"userId"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"createdAt"`
}
