package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidEngine/internal/bid/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssignBidUseCase is the pending -> accept transition: role gated,
// eligibility gated and exactly-once under concurrency
type AssignBidUseCase struct {
	bidRepo     domain.BidRepository
	profileRepo domain.ProfileRepository
	listener    domain.AssignListener // optional, may be nil
}

func NewAssignBidUseCase(bidRepo domain.BidRepository, profileRepo domain.ProfileRepository, listener domain.AssignListener) *AssignBidUseCase {
	return &AssignBidUseCase{
		bidRepo:     bidRepo,
		profileRepo: profileRepo,
		listener:    listener,
	}
}

func (uc *AssignBidUseCase) Execute(ctx context.Context, caller Caller, bidID uuid.UUID) (*domain.Bid, error) {
	if caller.Role != domain.RoleVendor {
		log.Warn("AssignBidUseCase: non-vendor caller",
			zap.String("bidID", bidID.String()),
			zap.String("callerID", caller.ID.String()),
			zap.String("role", string(caller.Role)),
		)
		return nil, domain.ErrPermissionDenied
	}

	bid, err := uc.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("assign bid use case: failed to get bid %s: %w", bidID, err)
	}

	// vendor profile as read at the moment of the attempt
	vendor, err := uc.profileRepo.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("assign bid use case: failed to get vendor profile %s: %w", caller.ID, err)
	}
	requester, err := uc.profileRepo.GetByID(ctx, bid.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("assign bid use case: failed to get requester profile %s: %w", bid.RequesterID, err)
	}

	// the domain transition runs on the loaded snapshot, the conditional
	// update below is what makes it exactly-once against other callers
	if err := bid.Assign(vendor, requester.Location); err != nil {
		return nil, err
	}

	ok, err := uc.bidRepo.AssignPending(ctx, bid.ID, vendor.ID)
	if err != nil {
		return nil, fmt.Errorf("assign bid use case: failed to persist assignment of bid %s: %w", bidID, err)
	}
	if !ok {
		// somebody else won the race since our read
		log.Warn("AssignBidUseCase: lost assignment race",
			zap.String("bidID", bidID.String()),
			zap.String("vendorID", vendor.ID.String()),
		)
		return nil, domain.ErrBidNotPending
	}

	if uc.listener != nil {
		uc.listener.BidAssigned(bid)
	}
	return bid, nil
}
