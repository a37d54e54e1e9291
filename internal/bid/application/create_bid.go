package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidEngine/internal/bid/domain"
	"github.com/cristianortiz/bidEngine/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// CreateBidUseCase posts a new service request on behalf of the caller
type CreateBidUseCase struct {
	bidRepo domain.BidRepository
}

func NewCreateBidUseCase(bidRepo domain.BidRepository) *CreateBidUseCase {
	return &CreateBidUseCase{bidRepo: bidRepo}
}

func (uc *CreateBidUseCase) Execute(ctx context.Context, caller Caller, dto CreateBidDTO) (*domain.Bid, error) {
	bid, err := domain.NewBid(caller.ID, dto.RequestDetails, dto.Timeline, dto.PreferredStartDate, dto.BudgetRange, dto.Filters)
	if err != nil {
		return nil, err
	}

	if err := uc.bidRepo.Insert(ctx, bid); err != nil {
		log.Error("CreateBidUseCase: failed to insert bid",
			zap.String("requesterID", caller.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create bid use case: failed to insert bid: %w", err)
	}

	log.Info("Bid created",
		zap.String("bidID", bid.ID.String()),
		zap.String("requesterID", caller.ID.String()),
		zap.String("category", bid.Category),
	)
	return bid, nil
}
