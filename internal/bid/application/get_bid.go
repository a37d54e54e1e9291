package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidEngine/internal/bid/domain"
	"github.com/google/uuid"
)

// GetBidUseCase retrieves a single bid with its quote ledger
type GetBidUseCase struct {
	bidRepo domain.BidRepository
}

func NewGetBidUseCase(bidRepo domain.BidRepository) *GetBidUseCase {
	return &GetBidUseCase{bidRepo: bidRepo}
}

func (uc *GetBidUseCase) Execute(ctx context.Context, bidID uuid.UUID) (*domain.Bid, error) {
	bid, err := uc.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("get bid use case: failed to get bid %s: %w", bidID, err)
	}
	return bid, nil
}
