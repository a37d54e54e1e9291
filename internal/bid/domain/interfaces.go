package domain

import (
	"context"

	"github.com/google/uuid"
)

type BidRepository interface {
	Insert(ctx context.Context, bid *Bid) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bid, error)
	Update(ctx context.Context, bid *Bid) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AssignPending flips pending -> accept and binds the vendor as one
	// conditional update keyed by bid identity. Reports false when the bid
	// was no longer pending, so two concurrent assigns cannot both succeed.
	AssignPending(ctx context.Context, bidID, vendorID uuid.UUID) (bool, error)
	// SetStatus applies an explicit reject/cancel write, conditional on the
	// bid still being pending.
	SetStatus(ctx context.Context, bidID uuid.UUID, status BidStatus) (bool, error)
	// InsertQuote appends a first quote, reports false when the vendor
	// already holds one (conflict on the bid+vendor key).
	InsertQuote(ctx context.Context, bidID, vendorID uuid.UUID, amount float64) (bool, error)
	// UpsertQuote overwrites the vendor's amount in place or appends.
	UpsertQuote(ctx context.Context, bidID, vendorID uuid.UUID, amount float64) error
	List(ctx context.Context, q ListQuery) ([]*Bid, int, error)
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
}

// AssignListener is told about successful assignments so the notification
// collaborator (the chat relay) can inform both parties. Delivery itself is
// outside the engine's scope.
type AssignListener interface {
	BidAssigned(bid *Bid)
}
