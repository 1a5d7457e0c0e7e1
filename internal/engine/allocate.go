package engine

import (
	"fmt"
	"math"
)

// percentEpsilon is the tolerance for percentage sums; percentages are
// user input (e.g. 33.33 three times) so an exact 100 is not required.
const percentEpsilon = 0.01

// Equal divides total minor units evenly across participants. The
// remainder of the floor division is distributed one minor unit at a
// time to the first participants in order, so the shares always sum
// exactly to total and differ from each other by at most one minor unit.
func Equal(total int64, participants int) ([]int64, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAmount, total)
	}
	if participants <= 0 {
		return nil, ErrEmptyParticipants
	}

	n := int64(participants)
	base := total / n
	remainder := total - base*n

	shares := make([]int64, participants)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares, nil
}

// Exact validates explicitly provided minor-unit shares against the
// total. Amounts are integers, so the check has zero tolerance; any
// mismatch is an error, never silently corrected.
func Exact(total int64, amounts []int64) ([]int64, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAmount, total)
	}
	if len(amounts) == 0 {
		return nil, ErrEmptyParticipants
	}

	var sum int64
	for _, a := range amounts {
		if a < 0 {
			return nil, fmt.Errorf("%w: negative share %d", ErrSplitMismatch, a)
		}
		sum += a
	}
	if sum != total {
		return nil, fmt.Errorf("%w: shares sum to %d, total is %d", ErrSplitMismatch, sum, total)
	}

	shares := make([]int64, len(amounts))
	copy(shares, amounts)
	return shares, nil
}

// Percentage allocates total minor units by percentage. Each share is
// rounded half away from zero; if rounding leaves a residual, the whole
// signed residual goes to the participant with the largest percentage
// (first in input order on ties) so the shares still sum exactly to
// total.
func Percentage(total int64, percents []float64) ([]int64, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAmount, total)
	}
	if len(percents) == 0 {
		return nil, ErrEmptyParticipants
	}

	var pctSum float64
	largest := 0
	for i, p := range percents {
		if p < 0 {
			return nil, fmt.Errorf("%w: negative percentage %v", ErrSplitMismatch, p)
		}
		pctSum += p
		if p > percents[largest] {
			largest = i
		}
	}
	if math.Abs(pctSum-100) > percentEpsilon {
		return nil, fmt.Errorf("%w: percentages sum to %v, want 100", ErrSplitMismatch, pctSum)
	}

	shares := make([]int64, len(percents))
	var sum int64
	for i, p := range percents {
		// math.Round is round half away from zero.
		shares[i] = int64(math.Round(float64(total) * p / 100))
		sum += shares[i]
	}

	if residual := total - sum; residual != 0 {
		shares[largest] += residual
	}
	return shares, nil
}
