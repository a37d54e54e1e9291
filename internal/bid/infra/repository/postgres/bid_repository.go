package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cristianortiz/bidEngine/internal/bid/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BidRepository implements domain.BidRepository over Postgres
type BidRepository struct {
	pool *pgxpool.Pool
}

func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

const bidColumns = `id, requester_id, request_details, timeline, preferred_start_date,
	budget_min, budget_max, local_vendors_only, verified_providers_only,
	min_experience_years, category, status, assigned_to, created_at, updated_at`

// listColumns translates the external field names the query planner accepts
// into real columns, it doubles as the injection guard for dynamic SQL
var listColumns = map[string]string{
	"preferredStartDate":         "preferred_start_date",
	"createdAt":                  "created_at",
	"updatedAt":                  "updated_at",
	"budgetRange.min":            "budget_min",
	"budgetRange.max":            "budget_max",
	"filters.minExperienceYears": "min_experience_years",
	"status":                     "status",
	"category":                   "category",
}

var rangeOps = map[domain.RangeOp]string{
	domain.OpGTE: ">=",
	domain.OpGT:  ">",
	domain.OpLTE: "<=",
	domain.OpLT:  "<",
}

func scanBid(row pgx.Row) (*domain.Bid, error) {
	bid := &domain.Bid{}
	var assignedTo *uuid.UUID

	err := row.Scan(
		&bid.ID,
		&bid.RequesterID,
		&bid.RequestDetails,
		&bid.Timeline,
		&bid.PreferredStartDate,
		&bid.BudgetRange.Min,
		&bid.BudgetRange.Max,
		&bid.Filters.LocalVendorsOnly,
		&bid.Filters.VerifiedProvidersOnly,
		&bid.Filters.MinExperienceYears,
		&bid.Category,
		&bid.Status,
		&assignedTo,
		&bid.CreatedAt,
		&bid.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	bid.AssignedTo = assignedTo
	bid.Quotes = []domain.Quote{}
	return bid, nil
}

func (r *BidRepository) Insert(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (id, requester_id, request_details, timeline, preferred_start_date,
            budget_min, budget_max, local_vendors_only, verified_providers_only,
            min_experience_years, category, status, assigned_to, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
    `
	_, err := r.pool.Exec(ctx, query,
		bid.ID,
		bid.RequesterID,
		bid.RequestDetails,
		bid.Timeline,
		bid.PreferredStartDate,
		bid.BudgetRange.Min,
		bid.BudgetRange.Max,
		bid.Filters.LocalVendorsOnly,
		bid.Filters.VerifiedProvidersOnly,
		bid.Filters.MinExperienceYears,
		bid.Category,
		bid.Status,
		bid.AssignedTo,
		bid.CreatedAt,
		bid.UpdatedAt,
	)
	return err
}

func (r *BidRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	query := fmt.Sprintf(`SELECT %s FROM bids WHERE id = $1`, bidColumns)

	bid, err := scanBid(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBidNotFound
		}
		return nil, err
	}

	if err := r.loadQuotes(ctx, map[uuid.UUID]*domain.Bid{bid.ID: bid}); err != nil {
		return nil, err
	}
	return bid, nil
}

// Update persists the mutable fields only; status, assignment and quotes go
// through their own conditional writes.
func (r *BidRepository) Update(ctx context.Context, bid *domain.Bid) error {
	query := `
        UPDATE bids
        SET request_details = $2,
            timeline = $3,
            preferred_start_date = $4,
            budget_min = $5,
            budget_max = $6,
            updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.pool.Exec(ctx, query,
		bid.ID,
		bid.RequestDetails,
		bid.Timeline,
		bid.PreferredStartDate,
		bid.BudgetRange.Min,
		bid.BudgetRange.Max,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBidNotFound
	}
	return nil
}

func (r *BidRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bids WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBidNotFound
	}
	return nil
}

// AssignPending is the compare-and-swap of the lifecycle: one conditional
// UPDATE flips the status and binds the vendor, so two concurrent assigns
// on the same bid can never both see a pending row.
func (r *BidRepository) AssignPending(ctx context.Context, bidID, vendorID uuid.UUID) (bool, error) {
	query := `
        UPDATE bids
        SET status = $3, assigned_to = $2, updated_at = NOW()
        WHERE id = $1 AND status = $4
    `
	tag, err := r.pool.Exec(ctx, query, bidID, vendorID, domain.StatusAccept, domain.StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BidRepository) SetStatus(ctx context.Context, bidID uuid.UUID, status domain.BidStatus) (bool, error) {
	query := `
        UPDATE bids
        SET status = $2, updated_at = NOW()
        WHERE id = $1 AND status = $3
    `
	tag, err := r.pool.Exec(ctx, query, bidID, status, domain.StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// InsertQuote appends a first quote for the vendor. The bid+vendor primary
// key makes the duplicate check atomic, and the CTE bumps the bid's
// updated_at in the same statement.
func (r *BidRepository) InsertQuote(ctx context.Context, bidID, vendorID uuid.UUID, amount float64) (bool, error) {
	query := `
        WITH inserted AS (
            INSERT INTO quotes (bid_id, vendor_id, amount)
            VALUES ($1, $2, $3)
            ON CONFLICT (bid_id, vendor_id) DO NOTHING
            RETURNING 1
        )
        UPDATE bids SET updated_at = NOW()
        WHERE id = $1 AND EXISTS (SELECT 1 FROM inserted)
    `
	tag, err := r.pool.Exec(ctx, query, bidID, vendorID, amount)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpsertQuote overwrites the vendor's amount keeping the original position,
// or appends when the vendor has no quote yet.
func (r *BidRepository) UpsertQuote(ctx context.Context, bidID, vendorID uuid.UUID, amount float64) error {
	query := `
        WITH upserted AS (
            INSERT INTO quotes (bid_id, vendor_id, amount)
            VALUES ($1, $2, $3)
            ON CONFLICT (bid_id, vendor_id) DO UPDATE
            SET amount = EXCLUDED.amount, updated_at = NOW()
            RETURNING 1
        )
        UPDATE bids SET updated_at = NOW()
        WHERE id = $1 AND EXISTS (SELECT 1 FROM upserted)
    `
	_, err := r.pool.Exec(ctx, query, bidID, vendorID, amount)
	return err
}

// List runs the planned query: one SELECT for the page, one COUNT for the
// full filtered total.
func (r *BidRepository) List(ctx context.Context, q domain.ListQuery) ([]*domain.Bid, int, error) {
	where, args := buildWhere(q)

	var total int
	countQuery := `SELECT COUNT(*) FROM bids` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM bids%s%s LIMIT $%d OFFSET $%d`,
		bidColumns, where, buildOrderBy(q.Sort), len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	byID := make(map[uuid.UUID]*domain.Bid)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, 0, err
		}
		bids = append(bids, bid)
		byID[bid.ID] = bid
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadQuotes(ctx, byID); err != nil {
		return nil, 0, err
	}
	return bids, total, nil
}

func buildWhere(q domain.ListQuery) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if q.RequesterID != nil {
		add("requester_id = $%d", *q.RequesterID)
	}
	if len(q.Categories) > 0 {
		add("category = ANY($%d)", q.Categories)
	}
	if q.Category != "" {
		add("category = $%d", q.Category)
	}
	if q.Status != "" {
		add("status = $%d", q.Status)
	}
	if q.Search != "" {
		add("request_details ILIKE '%%' || $%d || '%%'", q.Search)
	}
	if q.MinStart != nil {
		add("preferred_start_date >= $%d", *q.MinStart)
	}
	if q.MaxStart != nil {
		add("preferred_start_date <= $%d", *q.MaxStart)
	}
	for _, f := range q.Filters {
		column, ok := listColumns[f.Field]
		if !ok {
			continue // planner already rejected unknown fields
		}
		op, ok := rangeOps[f.Op]
		if !ok {
			continue
		}
		add(column+" "+op+" $%d", f.Value)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func buildOrderBy(sort []domain.SortField) string {
	var parts []string
	for _, s := range sort {
		column, ok := listColumns[s.Field]
		if !ok {
			continue
		}
		direction := "ASC"
		if s.Desc {
			direction = "DESC"
		}
		parts = append(parts, column+" "+direction)
	}
	if len(parts) == 0 {
		return " ORDER BY preferred_start_date DESC"
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// loadQuotes attaches the quote ledgers, in insertion order, to the given bids
func (r *BidRepository) loadQuotes(ctx context.Context, byID map[uuid.UUID]*domain.Bid) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query := `
        SELECT bid_id, vendor_id, amount
        FROM quotes
        WHERE bid_id = ANY($1)
        ORDER BY position ASC
    `
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var bidID uuid.UUID
		var quote domain.Quote
		if err := rows.Scan(&bidID, &quote.VendorID, &quote.Amount); err != nil {
			return err
		}
		if bid, ok := byID[bidID]; ok {
			bid.Quotes = append(bid.Quotes, quote)
		}
	}
	return rows.Err()
}
