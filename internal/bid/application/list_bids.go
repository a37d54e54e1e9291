package application

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cristianortiz/bidEngine/internal/bid/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// sortableFields maps external field names to the ones the repository may
// sort on; anything else in the sort list is rejected
var sortableFields = map[string]bool{
	"preferredStartDate":         true,
	"createdAt":                  true,
	"updatedAt":                  true,
	"budgetRange.min":            true,
	"budgetRange.max":            true,
	"filters.minExperienceYears": true,
	"status":                     true,
	"category":                   true,
}

// rangeFields are the nested numeric fields accepted in field[op]=value form
var rangeFields = map[string]bool{
	"budgetRange.min":            true,
	"budgetRange.max":            true,
	"filters.minExperienceYears": true,
}

var rangeKeyPattern = regexp.MustCompile(`^(.+)\[(gte|gt|lte|lt)\]$`)

func parseStartDate(field, raw string) (*time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, domain.NewValidationError(field, "must be an RFC3339 timestamp or YYYY-MM-DD date")
}

// ParseListQuery turns the raw query parameters into a planned ListQuery.
// Reserved keys are consumed first, every remaining key must be a
// whitelisted numeric range filter, unknown keys are a validation error.
func ParseListQuery(params map[string]string) (domain.ListQuery, error) {
	q := domain.ListQuery{Page: defaultPage, Limit: defaultLimit}

	for key, value := range params {
		switch key {
		case "page":
			page, err := strconv.Atoi(value)
			if err != nil || page < 1 {
				return q, domain.NewValidationError("page", "must be a positive integer")
			}
			q.Page = page
		case "limit":
			limit, err := strconv.Atoi(value)
			if err != nil || limit < 1 || limit > maxLimit {
				return q, domain.NewValidationError("limit", fmt.Sprintf("must be an integer in [1:%d]", maxLimit))
			}
			q.Limit = limit
		case "sort":
			sort, err := parseSort(value)
			if err != nil {
				return q, err
			}
			q.Sort = sort
		case "search":
			q.Search = value
		case "minStart":
			t, err := parseStartDate("minStart", value)
			if err != nil {
				return q, err
			}
			q.MinStart = t
		case "maxStart":
			t, err := parseStartDate("maxStart", value)
			if err != nil {
				return q, err
			}
			q.MaxStart = t
		case "status":
			switch domain.BidStatus(value) {
			case domain.StatusPending, domain.StatusAccept, domain.StatusReject, domain.StatusCancel:
				q.Status = value
			default:
				return q, domain.NewValidationError("status", "must be one of pending, accept, reject, cancel")
			}
		case "category":
			q.Category = value
		case "fields":
			// field limiting is a transport concern, accepted and ignored
		default:
			filter, err := parseRangeFilter(key, value)
			if err != nil {
				return q, err
			}
			q.Filters = append(q.Filters, filter)
		}
	}

	if len(q.Sort) == 0 {
		// newest preferred start first by default
		q.Sort = []domain.SortField{{Field: "preferredStartDate", Desc: true}}
	}
	return q, nil
}

func parseSort(raw string) ([]domain.SortField, error) {
	var sort []domain.SortField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field := domain.SortField{Field: part}
		if strings.HasPrefix(part, "-") {
			field = domain.SortField{Field: part[1:], Desc: true}
		}
		if !sortableFields[field.Field] {
			return nil, domain.NewValidationError("sort", fmt.Sprintf("unknown sort field %q", field.Field))
		}
		sort = append(sort, field)
	}
	return sort, nil
}

func parseRangeFilter(key, value string) (domain.NumericFilter, error) {
	match := rangeKeyPattern.FindStringSubmatch(key)
	if match == nil {
		return domain.NumericFilter{}, domain.NewValidationError(key, "unknown query parameter")
	}
	field, op := match[1], match[2]
	if !rangeFields[field] {
		return domain.NumericFilter{}, domain.NewValidationError(key, fmt.Sprintf("field %q does not support range filters", field))
	}
	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return domain.NumericFilter{}, domain.NewValidationError(key, "must be a number")
	}
	return domain.NumericFilter{Field: field, Op: domain.RangeOp(op), Value: number}, nil
}

// ListBidsUseCase builds the filtered, sorted, paginated view scoped to the
// caller: a vendor with a category set only sees intersecting bids, a
// requester only their own.
type ListBidsUseCase struct {
	bidRepo     domain.BidRepository
	profileRepo domain.ProfileRepository
}

func NewListBidsUseCase(bidRepo domain.BidRepository, profileRepo domain.ProfileRepository) *ListBidsUseCase {
	return &ListBidsUseCase{bidRepo: bidRepo, profileRepo: profileRepo}
}

func (uc *ListBidsUseCase) Execute(ctx context.Context, caller Caller, params map[string]string) (*BidListDTO, error) {
	q, err := ParseListQuery(params)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case domain.RoleVendor:
		// the vendor's category set is read at query time, an empty set
		// leaves the scope unrestricted
		profile, err := uc.profileRepo.GetByID(ctx, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("list bids use case: failed to load vendor profile: %w", err)
		}
		q.Categories = profile.Categories
	case domain.RoleRequester:
		id := caller.ID
		q.RequesterID = &id
	case domain.RoleAdmin:
		// unrestricted
	default:
		return nil, domain.ErrPermissionDenied
	}

	bids, total, err := uc.bidRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list bids use case: query failed: %w", err)
	}

	dtos := make([]*BidDTO, 0, len(bids))
	for _, b := range bids {
		dtos = append(dtos, NewBidDTO(b))
	}
	return &BidListDTO{
		Results: len(dtos),
		Total:   total,
		Page:    q.Page,
		Bids:    dtos,
	}, nil
}
