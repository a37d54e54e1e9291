package application

import (
	"context"

	"github.com/cristianortiz/bidEngine/internal/bid/domain"
	"github.com/google/uuid"
)

// BidService defines application interface layer of the bid module,
// exposes the use cases to the external layers, aka infra
type BidService interface {
	Create(ctx context.Context, caller Caller, dto CreateBidDTO) (*domain.Bid, error)
	Get(ctx context.Context, bidID uuid.UUID) (*domain.Bid, error)
	List(ctx context.Context, caller Caller, params map[string]string) (*BidListDTO, error)
	Update(ctx context.Context, bidID uuid.UUID, patch domain.BidPatch) (*domain.Bid, error)
	UpdateStatus(ctx context.Context, bidID uuid.UUID, status domain.BidStatus) (*domain.Bid, error)
	Delete(ctx context.Context, bidID uuid.UUID) error
	Assign(ctx context.Context, caller Caller, bidID uuid.UUID) (*domain.Bid, error)
	SubmitQuote(ctx context.Context, caller Caller, bidID uuid.UUID, amount float64) (*domain.Bid, error)
	EditQuote(ctx context.Context, caller Caller, bidID uuid.UUID, amount float64) (*domain.Bid, error)
}

type bidService struct {
	createUC *CreateBidUseCase
	getUC    *GetBidUseCase
	listUC   *ListBidsUseCase
	updateUC *UpdateBidUseCase
	assignUC *AssignBidUseCase
	quoteUC  *QuoteUseCase
}

func NewBidService(
	createUC *CreateBidUseCase,
	getUC *GetBidUseCase,
	listUC *ListBidsUseCase,
	updateUC *UpdateBidUseCase,
	assignUC *AssignBidUseCase,
	quoteUC *QuoteUseCase,
) BidService {
	return &bidService{
		createUC: createUC,
		getUC:    getUC,
		listUC:   listUC,
		updateUC: updateUC,
		assignUC: assignUC,
		quoteUC:  quoteUC,
	}
}

func (s *bidService) Create(ctx context.Context, caller Caller, dto CreateBidDTO) (*domain.Bid, error) {
	return s.createUC.Execute(ctx, caller, dto)
}

func (s *bidService) Get(ctx context.Context, bidID uuid.UUID) (*domain.Bid, error) {
	return s.getUC.Execute(ctx, bidID)
}

func (s *bidService) List(ctx context.Context, caller Caller, params map[string]string) (*BidListDTO, error) {
	return s.listUC.Execute(ctx, caller, params)
}

func (s *bidService) Update(ctx context.Context, bidID uuid.UUID, patch domain.BidPatch) (*domain.Bid, error) {
	return s.updateUC.Execute(ctx, bidID, patch)
}

func (s *bidService) UpdateStatus(ctx context.Context, bidID uuid.UUID, status domain.BidStatus) (*domain.Bid, error) {
	return s.updateUC.UpdateStatus(ctx, bidID, status)
}

func (s *bidService) Delete(ctx context.Context, bidID uuid.UUID) error {
	return s.updateUC.Delete(ctx, bidID)
}

func (s *bidService) Assign(ctx context.Context, caller Caller, bidID uuid.UUID) (*domain.Bid, error) {
	return s.assignUC.Execute(ctx, caller, bidID)
}

func (s *bidService) SubmitQuote(ctx context.Context, caller Caller, bidID uuid.UUID, amount float64) (*domain.Bid, error) {
	return s.quoteUC.Submit(ctx, caller, bidID, amount)
}

func (s *bidService) EditQuote(ctx context.Context, caller Caller, bidID uuid.UUID, amount float64) (*domain.Bid, error) {
	return s.quoteUC.Edit(ctx, caller, bidID, amount)
}
