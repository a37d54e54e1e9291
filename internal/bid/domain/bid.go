package domain

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/cristianortiz/bidEngine/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// BidStatus represents the actual state of a bid
type BidStatus string

const (
	StatusPending BidStatus = "pending"
	StatusAccept  BidStatus = "accept"
	StatusReject  BidStatus = "reject"
	StatusCancel  BidStatus = "cancel"
)

// BudgetRange is the requester's price window, max >= min holds on every write
type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (b BudgetRange) Validate() error {
	sides := []struct {
		field string
		value float64
	}{
		{"budgetRange.min", b.Min},
		{"budgetRange.max", b.Max},
	}
	for _, s := range sides {
		if math.IsNaN(s.value) || math.IsInf(s.value, 0) {
			return NewValidationError(s.field, "must be a finite number")
		}
		if s.value < 0 {
			return NewValidationError(s.field, "must be non-negative")
		}
	}
	// decimal comparison keeps float noise out of the invariant
	if decimal.NewFromFloat(b.Max).LessThan(decimal.NewFromFloat(b.Min)) {
		return NewValidationError("budgetRange.max", "must be greater than or equal to budgetRange.min")
	}
	return nil
}

// Quote is a vendor's live offer on a bid, at most one per vendor.
// Only the latest amount is kept, there is no history.
type Quote struct {
	VendorID uuid.UUID `json:"vendorId"`
	Amount   float64   `json:"amount"`
}

// Bid is the requester's posted service request, the unit of negotiation
// and the aggregate root of this module.
type Bid struct {
	ID                 uuid.UUID
	RequesterID        uuid.UUID
	RequestDetails     string
	Timeline           string
	PreferredStartDate time.Time
	BudgetRange        BudgetRange
	Filters            EligibilityFilters
	Category           string
	Status             BidStatus
	AssignedTo         *uuid.UUID
	Quotes             []Quote
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// protects status, assignedTo and the quote ledger when several
	// writers share the same instance
	mu sync.Mutex
}

// NewBid validates the input and builds a pending bid. The category is
// derived from the request details here, once, and never recomputed.
func NewBid(requesterID uuid.UUID, details, timeline string, preferredStart time.Time, budget BudgetRange, filters EligibilityFilters) (*Bid, error) {
	if requesterID == uuid.Nil {
		return nil, NewValidationError("requesterId", "is required")
	}
	if strings.TrimSpace(details) == "" {
		return nil, NewValidationError("requestDetails", "is required")
	}
	if preferredStart.IsZero() {
		return nil, NewValidationError("preferredStartDate", "is required")
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bid := &Bid{
		ID:                 uuid.New(),
		RequesterID:        requesterID,
		RequestDetails:     details,
		Timeline:           timeline,
		PreferredStartDate: preferredStart,
		BudgetRange:        budget,
		Filters:            filters,
		Category:           Classify(details),
		Status:             StatusPending,
		Quotes:             []Quote{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return bid, nil
}

// Assign transitions pending -> accept binding the vendor. The status check,
// the eligibility check and both field writes happen under the lock so
// concurrent callers on the same instance can never split the transition.
func (b *Bid) Assign(vendor *Profile, requesterLocation string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Status != StatusPending {
		log.Warn("Assign rejected: bid not pending",
			zap.String("bidID", b.ID.String()),
			zap.String("status", string(b.Status)),
			zap.String("vendorID", vendor.ID.String()),
		)
		return ErrBidNotPending
	}

	if err := b.Filters.Evaluate(vendor, requesterLocation); err != nil {
		log.Warn("Assign rejected: vendor not eligible",
			zap.String("bidID", b.ID.String()),
			zap.String("vendorID", vendor.ID.String()),
			zap.Error(err),
		)
		return err
	}

	vendorID := vendor.ID
	b.AssignedTo = &vendorID
	b.Status = StatusAccept
	b.UpdatedAt = time.Now().UTC()

	log.Info("Bid assigned",
		zap.String("bidID", b.ID.String()),
		zap.String("vendorID", vendorID.String()),
	)
	return nil
}

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return NewValidationError("amount", "must be a finite number")
	}
	if !decimal.NewFromFloat(amount).IsPositive() {
		return NewValidationError("amount", "must be a positive number")
	}
	return nil
}

// SubmitQuote appends a first offer for the vendor. A vendor who already has
// a live quote must go through EditQuote instead.
func (b *Bid) SubmitQuote(vendorID uuid.UUID, amount float64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, q := range b.Quotes {
		if q.VendorID == vendorID {
			return ErrDuplicateQuote
		}
	}
	b.Quotes = append(b.Quotes, Quote{VendorID: vendorID, Amount: amount})
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// EditQuote overwrites the vendor's amount in place keeping its position, or
// appends when the vendor has no quote yet. This is the revise-my-offer path.
func (b *Bid) EditQuote(vendorID uuid.UUID, amount float64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.Quotes {
		if b.Quotes[i].VendorID == vendorID {
			b.Quotes[i].Amount = amount
			b.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	b.Quotes = append(b.Quotes, Quote{VendorID: vendorID, Amount: amount})
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// BidPatch carries the mutable fields of an update, nil means untouched.
// status, assignedTo, requesterId, category and quotes are not reachable
// through this path.
type BidPatch struct {
	RequestDetails     *string
	Timeline           *string
	PreferredStartDate *time.Time
	BudgetMin          *float64
	BudgetMax          *float64
}

// ApplyPatch merges the patch into the bid. A one-sided budget patch is
// filled from the stored value before validation, so max >= min is always
// checked against the resulting pair and never against the patch alone.
func (b *Bid) ApplyPatch(patch BidPatch) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	budget := b.BudgetRange
	if patch.BudgetMin != nil {
		budget.Min = *patch.BudgetMin
	}
	if patch.BudgetMax != nil {
		budget.Max = *patch.BudgetMax
	}
	if err := budget.Validate(); err != nil {
		return err
	}

	if patch.RequestDetails != nil {
		if strings.TrimSpace(*patch.RequestDetails) == "" {
			return NewValidationError("requestDetails", "is required")
		}
		// the category stays as computed at creation even when the
		// details change
		b.RequestDetails = *patch.RequestDetails
	}
	if patch.Timeline != nil {
		b.Timeline = *patch.Timeline
	}
	if patch.PreferredStartDate != nil {
		if patch.PreferredStartDate.IsZero() {
			return NewValidationError("preferredStartDate", "is required")
		}
		b.PreferredStartDate = *patch.PreferredStartDate
	}
	b.BudgetRange = budget
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateStatus covers the explicit reject/cancel writes. Both are terminal,
// only a pending bid can move, and accept is reserved for Assign.
func (b *Bid) UpdateStatus(next BidStatus) error {
	if next != StatusReject && next != StatusCancel {
		return NewValidationError("status", "must be 'reject' or 'cancel'")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Status != StatusPending {
		log.Warn("Status change rejected: bid not pending",
			zap.String("bidID", b.ID.String()),
			zap.String("status", string(b.Status)),
			zap.String("requested", string(next)),
		)
		return ErrInvalidStatus
	}
	b.Status = next
	b.UpdatedAt = time.Now().UTC()
	return nil
}
