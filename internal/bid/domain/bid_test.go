package domain

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func validBid(t *testing.T) *Bid {
	t.Helper()
	bid, err := NewBid(
		uuid.New(),
		"full wedding planning for 120 guests",
		"3 months",
		time.Now().AddDate(0, 3, 0),
		BudgetRange{Min: 1000, Max: 5000},
		EligibilityFilters{},
	)
	assert.NoError(t, err)
	return bid
}

func TestNewBidDefaults(t *testing.T) {
	bid := validBid(t)

	check.Equal(t, StatusPending, bid.Status)
	check.Equal(t, "Wedding Planning", bid.Category)
	check.Nil(t, bid.AssignedTo)
	check.Equal(t, 0, len(bid.Quotes))
	check.False(t, bid.CreatedAt.IsZero())
	check.Equal(t, bid.CreatedAt, bid.UpdatedAt)
}

func TestNewBidValidation(t *testing.T) {
	start := time.Now().AddDate(0, 1, 0)
	budget := BudgetRange{Min: 100, Max: 200}

	tests := []struct {
		name      string
		requester uuid.UUID
		details   string
		start     time.Time
		budget    BudgetRange
		filters   EligibilityFilters
	}{
		{"missing requester", uuid.Nil, "details", start, budget, EligibilityFilters{}},
		{"blank details", uuid.New(), "   ", start, budget, EligibilityFilters{}},
		{"zero start date", uuid.New(), "details", time.Time{}, budget, EligibilityFilters{}},
		{"max below min", uuid.New(), "details", start, BudgetRange{Min: 100, Max: 50}, EligibilityFilters{}},
		{"negative min", uuid.New(), "details", start, BudgetRange{Min: -1, Max: 50}, EligibilityFilters{}},
		{"negative experience filter", uuid.New(), "details", start, budget, EligibilityFilters{MinExperienceYears: -2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBid(tc.requester, tc.details, "soon", tc.start, tc.budget, tc.filters)
			var validationErr *ValidationError
			check.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestBudgetRangeEqualBoundsValid(t *testing.T) {
	check.NoError(t, BudgetRange{Min: 100, Max: 100}.Validate())
}

func TestApplyPatchPartialBudget(t *testing.T) {
	bid := validBid(t) // 1000..5000

	// raising only min against the stored max must pass
	min := 2000.0
	check.NoError(t, bid.ApplyPatch(BidPatch{BudgetMin: &min}))
	check.Equal(t, 2000.0, bid.BudgetRange.Min)
	check.Equal(t, 5000.0, bid.BudgetRange.Max)

	// lowering only max below the stored min must fail and leave the bid alone
	badMax := 1500.0
	err := bid.ApplyPatch(BidPatch{BudgetMax: &badMax})
	var validationErr *ValidationError
	check.True(t, errors.As(err, &validationErr))
	check.Equal(t, 2000.0, bid.BudgetRange.Min)
	check.Equal(t, 5000.0, bid.BudgetRange.Max)
}

func TestApplyPatchKeepsCategory(t *testing.T) {
	bid := validBid(t)
	check.Equal(t, "Wedding Planning", bid.Category)

	details := "need a dj and live bands for a corporate gala"
	assert.NoError(t, bid.ApplyPatch(BidPatch{RequestDetails: &details}))

	check.Equal(t, details, bid.RequestDetails)
	check.Equal(t, "Wedding Planning", bid.Category)
}

func TestSubmitQuoteDuplicate(t *testing.T) {
	bid := validBid(t)
	vendorID := uuid.New()

	assert.NoError(t, bid.SubmitQuote(vendorID, 200))
	check.True(t, errors.Is(bid.SubmitQuote(vendorID, 250), ErrDuplicateQuote))

	assert.Equal(t, 1, len(bid.Quotes))
	check.Equal(t, 200.0, bid.Quotes[0].Amount)
}

func TestEditQuoteOverwritesInPlace(t *testing.T) {
	bid := validBid(t)
	first := uuid.New()
	second := uuid.New()

	assert.NoError(t, bid.SubmitQuote(first, 200))
	assert.NoError(t, bid.SubmitQuote(second, 300))

	assert.NoError(t, bid.EditQuote(first, 150))

	assert.Equal(t, 2, len(bid.Quotes))
	check.Equal(t, first, bid.Quotes[0].VendorID)
	check.Equal(t, 150.0, bid.Quotes[0].Amount)
	check.Equal(t, second, bid.Quotes[1].VendorID)
}

func TestEditQuoteAppendsWhenAbsent(t *testing.T) {
	bid := validBid(t)
	vendorID := uuid.New()

	assert.NoError(t, bid.EditQuote(vendorID, 400))
	assert.Equal(t, 1, len(bid.Quotes))
	check.Equal(t, 400.0, bid.Quotes[0].Amount)
}

func TestQuoteAmountValidation(t *testing.T) {
	bid := validBid(t)
	vendorID := uuid.New()

	var validationErr *ValidationError
	check.True(t, errors.As(bid.SubmitQuote(vendorID, 0), &validationErr))
	check.True(t, errors.As(bid.SubmitQuote(vendorID, -10), &validationErr))
	check.Equal(t, 0, len(bid.Quotes))
}

func TestAssignHappyPath(t *testing.T) {
	bid := validBid(t)
	vendor := vendorProfile("Austin", true, 5)

	assert.NoError(t, bid.Assign(vendor, "Austin"))

	check.Equal(t, StatusAccept, bid.Status)
	assert.NotNil(t, bid.AssignedTo)
	check.Equal(t, vendor.ID, *bid.AssignedTo)
}

func TestAssignOnlyOnce(t *testing.T) {
	bid := validBid(t)
	first := vendorProfile("Austin", true, 5)
	second := vendorProfile("Austin", true, 5)

	assert.NoError(t, bid.Assign(first, "Austin"))
	check.True(t, errors.Is(bid.Assign(second, "Austin"), ErrBidNotPending))
	check.Equal(t, first.ID, *bid.AssignedTo)
}

func TestAssignIneligibleVendorLeavesBidPending(t *testing.T) {
	bid := validBid(t)
	bid.Filters = EligibilityFilters{VerifiedProvidersOnly: true}
	vendor := vendorProfile("Austin", false, 5)

	err := bid.Assign(vendor, "Austin")
	var eligibilityErr *EligibilityError
	assert.True(t, errors.As(err, &eligibilityErr))
	check.Equal(t, StatusPending, bid.Status)
	check.Nil(t, bid.AssignedTo)
}

func TestAssignConcurrentExactlyOnce(t *testing.T) {
	bid := validBid(t)

	const vendors = 16
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < vendors; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vendor := vendorProfile("Austin", true, 5)
			if err := bid.Assign(vendor, "Austin"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	check.Equal(t, int32(1), wins.Load())
	check.Equal(t, StatusAccept, bid.Status)
	check.NotNil(t, bid.AssignedTo)
}

func TestUpdateStatusTransitions(t *testing.T) {
	t.Run("pending to reject", func(t *testing.T) {
		bid := validBid(t)
		assert.NoError(t, bid.UpdateStatus(StatusReject))
		check.Equal(t, StatusReject, bid.Status)
	})

	t.Run("pending to cancel", func(t *testing.T) {
		bid := validBid(t)
		assert.NoError(t, bid.UpdateStatus(StatusCancel))
		check.Equal(t, StatusCancel, bid.Status)
	})

	t.Run("accept not reachable here", func(t *testing.T) {
		bid := validBid(t)
		var validationErr *ValidationError
		check.True(t, errors.As(bid.UpdateStatus(StatusAccept), &validationErr))
	})

	t.Run("terminal states stay terminal", func(t *testing.T) {
		bid := validBid(t)
		assert.NoError(t, bid.UpdateStatus(StatusCancel))
		check.True(t, errors.Is(bid.UpdateStatus(StatusReject), ErrInvalidStatus))
	})
}
