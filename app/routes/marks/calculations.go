package marks

import (
	"shulepro/app/models"
)

// ErrSubjectIncomplete is returned under the defer policy when a composite
// subject still has components without marks. Handlers match it with
// errors.Is to answer 409 instead of 500.
var ErrSubjectIncomplete = models.NewInvalidOperationError("aggregate",
	"subject has components without marks")

// ComputeAggregate folds a composite subject's component marks into one
// subject-level percentage.
//
// Each component contributes its percentage (raw over the max captured at
// entry time) times its weight. Weights are divided by their actual sum, so
// a catalog whose weights drift off 1.0 still produces a result on the 0-100
// scale instead of a silently skewed one.
//
// Entries whose component no longer exists in the subject's active list are
// skipped. Missing components contribute zero under PolicyZeroFill; under
// PolicyDefer the whole aggregation is refused with ErrSubjectIncomplete.
func ComputeAggregate(subject *models.Subject, entries []*models.ComponentMark, policy models.IncompletePolicy) (float64, error) {
	if subject == nil {
		return 0, models.NewNotFoundError("subject", "")
	}
	if !subject.IsComposite {
		return 0, models.NewInvalidOperationError("aggregate",
			"subject is not composite, enter the mark directly")
	}
	if len(subject.Components) == 0 {
		return 0, models.NewInvalidOperationError("aggregate",
			"composite subject has no components configured")
	}

	weightSum := models.WeightSum(subject.Components)
	if weightSum <= 0 {
		return 0, models.NewValidationError("component weights sum to zero")
	}

	byComponent := make(map[string]*models.ComponentMark, len(entries))
	for _, entry := range entries {
		byComponent[entry.ComponentID] = entry
	}

	var total float64
	for _, component := range subject.Components {
		entry, ok := byComponent[component.ID]
		if !ok {
			if policy == models.PolicyDefer {
				return 0, ErrSubjectIncomplete
			}
			continue
		}

		pct := models.Percent(entry.RawMark, entry.MaxRawMark)
		total += pct * (component.Weight / weightSum)
	}

	return models.Round2(total), nil
}

// ComputeSimple turns a raw mark on a non-composite subject into a
// percentage against the subject's configured maximum.
func ComputeSimple(subject *models.Subject, rawMark float64) (float64, error) {
	if subject == nil {
		return 0, models.NewNotFoundError("subject", "")
	}
	if subject.IsComposite {
		return 0, models.NewInvalidOperationError("enter mark",
			"subject is composite, enter component marks instead")
	}
	if err := models.CheckRawMark(rawMark, subject.MaxRawMark); err != nil {
		return 0, err
	}
	return models.Percent(rawMark, subject.MaxRawMark), nil
}
