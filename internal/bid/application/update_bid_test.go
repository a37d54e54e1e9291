package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cristianortiz/bidEngine/internal/bid/domain"
	"github.com/google/uuid"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestUpdateBidPatch(t *testing.T) {
	ctx := context.Background()
	repo := newFakeBidRepo()
	requester := &domain.Profile{ID: uuid.New(), Role: domain.RoleRequester}
	bid := seedBid(t, repo, requester, domain.EligibilityFilters{}) // budget 500..2500

	uc := NewUpdateBidUseCase(repo)

	details := "balloon decoration for a sweet 16"
	newMin := 800.0
	got, err := uc.Execute(ctx, bid.ID, domain.BidPatch{RequestDetails: &details, BudgetMin: &newMin})
	assert.NoError(t, err)

	check.Equal(t, details, got.RequestDetails)
	check.Equal(t, 800.0, got.BudgetRange.Min)
	check.Equal(t, 2500.0, got.BudgetRange.Max)
	// the category derived at creation survives the details change
	check.Equal(t, bid.Category, got.Category)

	stored, err := repo.GetByID(ctx, bid.ID)
	assert.NoError(t, err)
	check.Equal(t, details, stored.RequestDetails)
	check.Equal(t, 800.0, stored.BudgetRange.Min)
}

func TestUpdateBidInvalidBudgetPatch(t *testing.T) {
	ctx := context.Background()
	repo := newFakeBidRepo()
	requester := &domain.Profile{ID: uuid.New(), Role: domain.RoleRequester}
	bid := seedBid(t, repo, requester, domain.EligibilityFilters{}) // budget 500..2500

	uc := NewUpdateBidUseCase(repo)

	badMax := 100.0 // below the stored min
	_, err := uc.Execute(ctx, bid.ID, domain.BidPatch{BudgetMax: &badMax})
	var validationErr *domain.ValidationError
	check.True(t, errors.As(err, &validationErr))

	stored, err := repo.GetByID(ctx, bid.ID)
	assert.NoError(t, err)
	check.Equal(t, 2500.0, stored.BudgetRange.Max)
}

func TestUpdateBidNotFound(t *testing.T) {
	uc := NewUpdateBidUseCase(newFakeBidRepo())
	details := "anything"
	_, err := uc.Execute(context.Background(), uuid.New(), domain.BidPatch{RequestDetails: &details})
	check.True(t, errors.Is(err, domain.ErrBidNotFound))
}

func TestUpdateStatusRejectAndCancel(t *testing.T) {
	ctx := context.Background()
	for _, status := range []domain.BidStatus{domain.StatusReject, domain.StatusCancel} {
		repo := newFakeBidRepo()
		requester := &domain.Profile{ID: uuid.New(), Role: domain.RoleRequester}
		bid := seedBid(t, repo, requester, domain.EligibilityFilters{})

		uc := NewUpdateBidUseCase(repo)
		got, err := uc.UpdateStatus(ctx, bid.ID, status)
		assert.NoError(t, err)
		check.Equal(t, status, got.Status)

		stored, err := repo.GetByID(ctx, bid.ID)
		assert.NoError(t, err)
		check.Equal(t, status, stored.Status)
	}
}

func TestUpdateStatusRejectedOnNonPending(t *testing.T) {
	ctx := context.Background()
	repo := newFakeBidRepo()
	requester := &domain.Profile{ID: uuid.New(), Role: domain.RoleRequester}
	bid := seedBid(t, repo, requester, domain.EligibilityFilters{})

	uc := NewUpdateBidUseCase(repo)
	_, err := uc.UpdateStatus(ctx, bid.ID, domain.StatusCancel)
	assert.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, bid.ID, domain.StatusReject)
	check.True(t, errors.Is(err, domain.ErrInvalidStatus))
}

func TestUpdateStatusAcceptNotAllowed(t *testing.T) {
	ctx := context.Background()
	repo := newFakeBidRepo()
	requester := &domain.Profile{ID: uuid.New(), Role: domain.RoleRequester}
	bid := seedBid(t, repo, requester, domain.EligibilityFilters{})

	uc := NewUpdateBidUseCase(repo)
	_, err := uc.UpdateStatus(ctx, bid.ID, domain.StatusAccept)
	var validationErr *domain.ValidationError
	check.True(t, errors.As(err, &validationErr))
}

func TestDeleteBid(t *testing.T) {
	ctx := context.Background()
	repo := newFakeBidRepo()
	requester := &domain.Profile{ID: uuid.New(), Role: domain.RoleRequester}
	bid := seedBid(t, repo, requester, domain.EligibilityFilters{})

	uc := NewUpdateBidUseCase(repo)
	assert.NoError(t, uc.Delete(ctx, bid.ID))

	_, err := repo.GetByID(ctx, bid.ID)
	check.True(t, errors.Is(err, domain.ErrBidNotFound))

	check.Error(t, uc.Delete(ctx, bid.ID))
}

func TestCreateBid(t *testing.T) {
	ctx := context.Background()
	repo := newFakeBidRepo()
	uc := NewCreateBidUseCase(repo)

	caller := Caller{ID: uuid.New(), Role: domain.RoleRequester}
	dto := CreateBidDTO{
		RequestDetails:     "event photography and drone videography",
		Timeline:           "1 month",
		PreferredStartDate: time.Now().AddDate(0, 1, 0),
		BudgetRange:        domain.BudgetRange{Min: 300, Max: 1200},
		Filters:            domain.EligibilityFilters{VerifiedProvidersOnly: true},
	}

	bid, err := uc.Execute(ctx, caller, dto)
	assert.NoError(t, err)

	check.Equal(t, caller.ID, bid.RequesterID)
	check.Equal(t, domain.StatusPending, bid.Status)
	check.Equal(t, "Event Photography", bid.Category)

	stored, err := repo.GetByID(ctx, bid.ID)
	assert.NoError(t, err)
	check.Equal(t, bid.ID, stored.ID)
}

func TestGetBid(t *testing.T) {
	ctx := context.Background()
	repo := newFakeBidRepo()
	requester := &domain.Profile{ID: uuid.New(), Role: domain.RoleRequester}
	bid := seedBid(t, repo, requester, domain.EligibilityFilters{})

	uc := NewGetBidUseCase(repo)
	got, err := uc.Execute(ctx, bid.ID)
	assert.NoError(t, err)
	check.Equal(t, bid.ID, got.ID)

	_, err = uc.Execute(ctx, uuid.New())
	check.True(t, errors.Is(err, domain.ErrBidNotFound))
}
