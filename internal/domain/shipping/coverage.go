package shipping

// CoverageResult splits a shipping charge between merchant and customer under
// the free-shipping threshold. All amounts are minor units.
type CoverageResult struct {
	CoveredAmount     int64
	EffectiveShipping int64
	CheapestRate      *Quote
	Threshold         int64
}

// ComputeCoverage applies the hybrid shipping policy. At or above the
// threshold the merchant absorbs the chosen quote in full; the cheapest quote
// stands in when none was selected. Below it the customer pays the selected
// quote, or the cheapest one when none was selected.
func ComputeCoverage(subtotal int64, selected *Quote, all []Quote, threshold int64) CoverageResult {
	res := CoverageResult{Threshold: max(threshold, 0)}

	chosen := selected
	if chosen == nil {
		if q, ok := Cheapest(all); ok {
			res.CheapestRate = &q
			chosen = &q
		}
	}
	if chosen == nil {
		return res
	}

	total := max(chosen.Total, 0)
	if subtotal >= res.Threshold {
		res.CoveredAmount = total
	}
	res.EffectiveShipping = max(total-res.CoveredAmount, 0)
	return res
}

// FlatCoverage is the fallback when no carrier could quote: free above the
// threshold, a flat fee below it.
func FlatCoverage(subtotal, threshold, flatFee int64) CoverageResult {
	res := CoverageResult{Threshold: max(threshold, 0)}
	if subtotal >= res.Threshold {
		res.CoveredAmount = flatFee
		return res
	}
	res.EffectiveShipping = max(flatFee, 0)
	return res
}
