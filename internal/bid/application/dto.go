package application

import (
	"time"

	"github.com/cristianortiz/bidEngine/internal/bid/domain"
	"github.com/google/uuid"
)

// Caller is the identity collaborator's view of the current request,
// trusted as authoritative
type Caller struct {
	ID   uuid.UUID
	Role domain.Role
}

// CreateBidDTO is the input for the create use case
type CreateBidDTO struct {
	RequestDetails     string
	Timeline           string
	PreferredStartDate time.Time
	BudgetRange        domain.BudgetRange
	Filters            domain.EligibilityFilters
}

// QuoteDTO exposes one ledger entry
type QuoteDTO struct {
	VendorID uuid.UUID `json:"vendorId"`
	Amount   float64   `json:"amount"`
}

// BidDTO is the output shape for exposing a bid over any transport
type BidDTO struct {
	ID                 uuid.UUID                 `json:"id"`
	RequesterID        uuid.UUID                 `json:"requesterId"`
	RequestDetails     string                    `json:"requestDetails"`
	Timeline           string                    `json:"timeline,omitempty"`
	PreferredStartDate time.Time                 `json:"preferredStartDate"`
	BudgetRange        domain.BudgetRange        `json:"budgetRange"`
	Filters            domain.EligibilityFilters `json:"filters"`
	Category           string                    `json:"category"`
	Status             string                    `json:"status"`
	AssignedTo         *uuid.UUID                `json:"assignedTo,omitempty"`
	Quotes             []QuoteDTO                `json:"quotes"`
	CreatedAt          time.Time                 `json:"createdAt"`
	UpdatedAt          time.Time                 `json:"updatedAt"`
}

func NewBidDTO(b *domain.Bid) *BidDTO {
	quotes := make([]QuoteDTO, 0, len(b.Quotes))
	for _, q := range b.Quotes {
		quotes = append(quotes, QuoteDTO{VendorID: q.VendorID, Amount: q.Amount})
	}
	return &BidDTO{
		ID:                 b.ID,
		RequesterID:        b.RequesterID,
		RequestDetails:     b.RequestDetails,
		Timeline:           b.Timeline,
		PreferredStartDate: b.PreferredStartDate,
		BudgetRange:        b.BudgetRange,
		Filters:            b.Filters,
		Category:           b.Category,
		Status:             string(b.Status),
		AssignedTo:         b.AssignedTo,
		Quotes:             quotes,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// BidListDTO is the paginated list envelope: page length, full filtered
// count and the 1-based page number
type BidListDTO struct {
	Results int       `json:"results"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	Bids    []*BidDTO `json:"bids"`
}
