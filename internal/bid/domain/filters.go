package domain

// EligibilityFilters is the requester-set predicate a vendor must satisfy
// before the bid can be assigned. Set once at creation, immutable afterwards.
type EligibilityFilters struct {
	LocalVendorsOnly      bool `json:"localVendorsOnly"`
	VerifiedProvidersOnly bool `json:"verifiedProvidersOnly"`
	MinExperienceYears    int  `json:"minExperienceYears"`
}

func (f EligibilityFilters) Validate() error {
	if f.MinExperienceYears < 0 {
		return NewValidationError("filters.minExperienceYears", "must be non-negative")
	}
	return nil
}

// Evaluate decides admit/reject for a candidate vendor. Checks short-circuit
// in a fixed order: the first failing predicate is the reported reason.
func (f EligibilityFilters) Evaluate(vendor *Profile, requesterLocation string) error {
	if f.LocalVendorsOnly && vendor.Location != requesterLocation {
		return &EligibilityError{Reason: ReasonNotLocal}
	}
	if f.VerifiedProvidersOnly && !vendor.IsVerified {
		return &EligibilityError{Reason: ReasonNotVerified}
	}
	if vendor.ExperienceYears < f.MinExperienceYears {
		return &EligibilityError{Reason: ReasonInsufficientExperience}
	}
	return nil
}
