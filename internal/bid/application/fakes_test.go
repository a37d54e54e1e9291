package application

import (
	"context"
	"sync"
	"time"

	"github.com/cristianortiz/bidEngine/internal/bid/domain"
	"github.com/google/uuid"
)

// copyBid clones a bid field by field; the aggregate carries a mutex so it
// cannot be copied by value
func copyBid(b *domain.Bid) *domain.Bid {
	clone := &domain.Bid{
		ID:                 b.ID,
		RequesterID:        b.RequesterID,
		RequestDetails:     b.RequestDetails,
		Timeline:           b.Timeline,
		PreferredStartDate: b.PreferredStartDate,
		BudgetRange:        b.BudgetRange,
		Filters:            b.Filters,
		Category:           b.Category,
		Status:             b.Status,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
	if b.AssignedTo != nil {
		id := *b.AssignedTo
		clone.AssignedTo = &id
	}
	clone.Quotes = append([]domain.Quote{}, b.Quotes...)
	return clone
}

// fakeBidRepo is an in-memory domain.BidRepository. GetByID hands out copies
// so use-case mutations never leak into the stored state, mirroring how rows
// behave behind a real driver.
type fakeBidRepo struct {
	mu       sync.Mutex
	bids     map[uuid.UUID]*domain.Bid
	lastList domain.ListQuery
	listBids []*domain.Bid
	listTot  int
}

func newFakeBidRepo() *fakeBidRepo {
	return &fakeBidRepo{bids: make(map[uuid.UUID]*domain.Bid)}
}

func (f *fakeBidRepo) Insert(_ context.Context, bid *domain.Bid) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bids[bid.ID] = copyBid(bid)
	return nil
}

func (f *fakeBidRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bid, ok := f.bids[id]
	if !ok {
		return nil, domain.ErrBidNotFound
	}
	return copyBid(bid), nil
}

func (f *fakeBidRepo) Update(_ context.Context, bid *domain.Bid) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.bids[bid.ID]
	if !ok {
		return domain.ErrBidNotFound
	}
	stored.RequestDetails = bid.RequestDetails
	stored.Timeline = bid.Timeline
	stored.PreferredStartDate = bid.PreferredStartDate
	stored.BudgetRange = bid.BudgetRange
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeBidRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bids[id]; !ok {
		return domain.ErrBidNotFound
	}
	delete(f.bids, id)
	return nil
}

func (f *fakeBidRepo) AssignPending(_ context.Context, bidID, vendorID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bid, ok := f.bids[bidID]
	if !ok || bid.Status != domain.StatusPending {
		return false, nil
	}
	id := vendorID
	bid.AssignedTo = &id
	bid.Status = domain.StatusAccept
	bid.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeBidRepo) SetStatus(_ context.Context, bidID uuid.UUID, status domain.BidStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bid, ok := f.bids[bidID]
	if !ok || bid.Status != domain.StatusPending {
		return false, nil
	}
	bid.Status = status
	bid.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeBidRepo) InsertQuote(_ context.Context, bidID, vendorID uuid.UUID, amount float64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bid, ok := f.bids[bidID]
	if !ok {
		return false, domain.ErrBidNotFound
	}
	for _, q := range bid.Quotes {
		if q.VendorID == vendorID {
			return false, nil
		}
	}
	bid.Quotes = append(bid.Quotes, domain.Quote{VendorID: vendorID, Amount: amount})
	bid.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (f *fakeBidRepo) UpsertQuote(_ context.Context, bidID, vendorID uuid.UUID, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	bid, ok := f.bids[bidID]
	if !ok {
		return domain.ErrBidNotFound
	}
	for i := range bid.Quotes {
		if bid.Quotes[i].VendorID == vendorID {
			bid.Quotes[i].Amount = amount
			bid.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	bid.Quotes = append(bid.Quotes, domain.Quote{VendorID: vendorID, Amount: amount})
	bid.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeBidRepo) List(_ context.Context, q domain.ListQuery) ([]*domain.Bid, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = q
	return f.listBids, f.listTot, nil
}

// fakeProfileRepo serves profiles from a fixed map
type fakeProfileRepo struct {
	profiles map[uuid.UUID]*domain.Profile
}

func newFakeProfileRepo(profiles ...*domain.Profile) *fakeProfileRepo {
	m := make(map[uuid.UUID]*domain.Profile, len(profiles))
	for _, p := range profiles {
		m[p.ID] = p
	}
	return &fakeProfileRepo{profiles: m}
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

// fakeListener records assignment notifications
type fakeListener struct {
	mu       sync.Mutex
	assigned []*domain.Bid
}

func (f *fakeListener) BidAssigned(bid *domain.Bid) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigned = append(f.assigned, bid)
}

func (f *fakeListener) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.assigned)
}
