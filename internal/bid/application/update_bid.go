package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidEngine/internal/bid/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UpdateBidUseCase covers the mutable-field patch, the explicit
// reject/cancel status writes and the unconditional delete
type UpdateBidUseCase struct {
	bidRepo domain.BidRepository
}

func NewUpdateBidUseCase(bidRepo domain.BidRepository) *UpdateBidUseCase {
	return &UpdateBidUseCase{bidRepo: bidRepo}
}

// Execute applies a partial update. Budget halves missing from the patch are
// filled from the stored bid before the invariant is checked.
func (uc *UpdateBidUseCase) Execute(ctx context.Context, bidID uuid.UUID, patch domain.BidPatch) (*domain.Bid, error) {
	bid, err := uc.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("update bid use case: failed to get bid %s: %w", bidID, err)
	}

	if err := bid.ApplyPatch(patch); err != nil {
		return nil, err
	}

	if err := uc.bidRepo.Update(ctx, bid); err != nil {
		log.Error("UpdateBidUseCase: failed to persist bid",
			zap.String("bidID", bidID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("update bid use case: failed to persist bid %s: %w", bidID, err)
	}
	return bid, nil
}

// UpdateStatus moves a pending bid to reject or cancel. The write is
// conditional on the stored status so a lost race surfaces as an
// invalid-state error instead of a silent overwrite.
func (uc *UpdateBidUseCase) UpdateStatus(ctx context.Context, bidID uuid.UUID, status domain.BidStatus) (*domain.Bid, error) {
	bid, err := uc.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("update bid use case: failed to get bid %s: %w", bidID, err)
	}

	if err := bid.UpdateStatus(status); err != nil {
		return nil, err
	}

	ok, err := uc.bidRepo.SetStatus(ctx, bidID, status)
	if err != nil {
		return nil, fmt.Errorf("update bid use case: failed to set status of bid %s: %w", bidID, err)
	}
	if !ok {
		return nil, domain.ErrInvalidStatus
	}
	return bid, nil
}

// Delete removes the bid unconditionally, no status precondition. Callers
// decide when deletion is safe.
func (uc *UpdateBidUseCase) Delete(ctx context.Context, bidID uuid.UUID) error {
	if err := uc.bidRepo.Delete(ctx, bidID); err != nil {
		return fmt.Errorf("update bid use case: failed to delete bid %s: %w", bidID, err)
	}
	log.Info("Bid deleted", zap.String("bidID", bidID.String()))
	return nil
}
