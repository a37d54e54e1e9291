package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidEngine/internal/bid/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuoteUseCase is the negotiation surface: many vendors quoting concurrently,
// each allowed exactly one live quote, editable in place
type QuoteUseCase struct {
	bidRepo domain.BidRepository
}

func NewQuoteUseCase(bidRepo domain.BidRepository) *QuoteUseCase {
	return &QuoteUseCase{bidRepo: bidRepo}
}

// Submit places a vendor's first quote on a bid. A duplicate always fails,
// never silently upserts; the caller should use Edit for that.
func (uc *QuoteUseCase) Submit(ctx context.Context, caller Caller, bidID uuid.UUID, amount float64) (*domain.Bid, error) {
	if caller.Role != domain.RoleVendor {
		return nil, domain.ErrPermissionDenied
	}

	bid, err := uc.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("quote use case: failed to get bid %s: %w", bidID, err)
	}

	if err := bid.SubmitQuote(caller.ID, amount); err != nil {
		return nil, err
	}

	// conditional insert keyed by bid+vendor so two concurrent submits from
	// the same vendor cannot both append
	ok, err := uc.bidRepo.InsertQuote(ctx, bidID, caller.ID, amount)
	if err != nil {
		return nil, fmt.Errorf("quote use case: failed to insert quote on bid %s: %w", bidID, err)
	}
	if !ok {
		return nil, domain.ErrDuplicateQuote
	}

	log.Info("Quote submitted",
		zap.String("bidID", bidID.String()),
		zap.String("vendorID", caller.ID.String()),
		zap.Float64("amount", amount),
	)
	return bid, nil
}

// Edit is the revise-my-offer path: overwrites the vendor's live quote in
// place, or appends one when the vendor has none yet.
func (uc *QuoteUseCase) Edit(ctx context.Context, caller Caller, bidID uuid.UUID, amount float64) (*domain.Bid, error) {
	if caller.Role != domain.RoleVendor {
		return nil, domain.ErrPermissionDenied
	}

	bid, err := uc.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("quote use case: failed to get bid %s: %w", bidID, err)
	}

	if err := bid.EditQuote(caller.ID, amount); err != nil {
		return nil, err
	}

	if err := uc.bidRepo.UpsertQuote(ctx, bidID, caller.ID, amount); err != nil {
		return nil, fmt.Errorf("quote use case: failed to upsert quote on bid %s: %w", bidID, err)
	}

	log.Info("Quote edited",
		zap.String("bidID", bidID.String()),
		zap.String("vendorID", caller.ID.String()),
		zap.Float64("amount", amount),
	)
	return bid, nil
}
