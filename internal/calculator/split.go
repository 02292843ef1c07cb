package calculator

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// SplitType names the rule used to divide an expense among participants.
type SplitType string

const (
	SplitEqual       SplitType = "equal"
	SplitPercentage  SplitType = "percentage"
	SplitFixedAmount SplitType = "fixed_amount"
)

var (
	// Epsilon is the tolerance used for every currency comparison (one cent).
	Epsilon = decimal.New(1, -2)

	// MaxAmount is the largest amount a single expense or settlement may carry.
	MaxAmount = decimal.RequireFromString("99999999.99")

	hundred = decimal.NewFromInt(100)
)

// ParseSplitType maps a wire value to a SplitType. The older
// "custom_percentage" and "custom_amount" names are accepted as aliases.
func ParseSplitType(s string) (SplitType, error) {
	switch s {
	case "equal", "":
		return SplitEqual, nil
	case "percentage", "custom_percentage":
		return SplitPercentage, nil
	case "fixed_amount", "custom_amount":
		return SplitFixedAmount, nil
	default:
		return "", fmt.Errorf("%w: unknown split type %q", ErrInvalidSplit, s)
	}
}

// SplitRule is one of EqualSplit, PercentageSplit or FixedAmountSplit.
type SplitRule interface {
	Type() SplitType
	isSplitRule()
}

// EqualSplit divides the total evenly among the selected participants.
type EqualSplit struct{}

// PercentageSplit assigns each participant a percentage of the total.
// Percentages must add up to 100.
type PercentageSplit struct {
	Percentages map[string]decimal.Decimal
}

// FixedAmountSplit assigns each participant an explicit amount.
// Amounts must add up to the expense total.
type FixedAmountSplit struct {
	Amounts map[string]decimal.Decimal
}

func (EqualSplit) Type() SplitType       { return SplitEqual }
func (PercentageSplit) Type() SplitType  { return SplitPercentage }
func (FixedAmountSplit) Type() SplitType { return SplitFixedAmount }

func (EqualSplit) isSplitRule()       {}
func (PercentageSplit) isSplitRule()  {}
func (FixedAmountSplit) isSplitRule() {}

// ParseSplitRule builds a SplitRule from a wire split type and its raw values.
// Equal splits take no values; the other kinds require at least one.
func ParseSplitRule(splitType string, values map[string]decimal.Decimal) (SplitRule, error) {
	t, err := ParseSplitType(splitType)
	if err != nil {
		return nil, err
	}

	switch t {
	case SplitEqual:
		if len(values) > 0 {
			return nil, fmt.Errorf("%w: equal split does not take per-participant values", ErrInvalidSplit)
		}
		return EqualSplit{}, nil
	case SplitPercentage:
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: percentage split requires percentages", ErrInvalidSplit)
		}
		return PercentageSplit{Percentages: values}, nil
	default:
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: fixed amount split requires amounts", ErrInvalidSplit)
		}
		return FixedAmountSplit{Amounts: values}, nil
	}
}

// Share is one participant's resolved part of an expense.
type Share struct {
	Amount decimal.Decimal

	// Percentage is set only for percentage splits and is kept for display.
	Percentage decimal.NullDecimal
}

// ValidateAmount reports whether amount is a positive value no greater than
// MaxAmount with at most two decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than zero", ErrInvalidAmount, amount)
	}
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s exceeds the maximum of %s", ErrInvalidAmount, amount, MaxAmount)
	}
	if !isCents(amount) {
		return fmt.Errorf("%w: %s has more than two decimal places", ErrInvalidAmount, amount)
	}
	return nil
}

// ComputeSplit resolves a split rule into per-participant shares.
//
// Equal and percentage splits are resolved to whole cents with a
// largest-remainder allocation, so the shares always add up to total exactly.
// Fixed amounts are kept as supplied once they are within Epsilon of total.
// Participants without a supplied value get a zero share.
func ComputeSplit(total decimal.Decimal, participants []string, rule SplitRule) (map[string]Share, error) {
	if err := ValidateAmount(total); err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", ErrInvalidSplit)
	}

	selected := make(map[string]bool, len(participants))
	for _, p := range participants {
		if selected[p] {
			return nil, fmt.Errorf("%w: participant %q listed twice", ErrInvalidSplit, p)
		}
		selected[p] = true
	}

	switch r := rule.(type) {
	case EqualSplit:
		return splitEqually(total, participants), nil
	case PercentageSplit:
		return splitByPercentage(total, participants, selected, r.Percentages)
	case FixedAmountSplit:
		return splitByAmount(total, participants, selected, r.Amounts)
	default:
		return nil, fmt.Errorf("%w: unsupported split rule %T", ErrInvalidSplit, rule)
	}
}

// ValidateRoster checks that the payer and every selected participant belong
// to the event roster.
func ValidateRoster(roster []Participant, payerID string, participants []string) error {
	known := make(map[string]bool, len(roster))
	for _, p := range roster {
		known[p.ID] = true
	}
	if !known[payerID] {
		return fmt.Errorf("%w: payer %q is not an event participant", ErrUnknownParticipant, payerID)
	}
	for _, p := range participants {
		if !known[p] {
			return fmt.Errorf("%w: %q is not an event participant", ErrUnknownParticipant, p)
		}
	}
	return nil
}

func splitEqually(total decimal.Decimal, participants []string) map[string]Share {
	cents := total.Mul(hundred).IntPart()
	n := int64(len(participants))
	base, remainder := cents/n, cents%n

	shares := make(map[string]Share, len(participants))
	for i, p := range participants {
		c := base
		if int64(i) < remainder {
			c++
		}
		shares[p] = Share{Amount: decimal.New(c, -2)}
	}
	return shares
}

func splitByPercentage(total decimal.Decimal, participants []string, selected map[string]bool, percentages map[string]decimal.Decimal) (map[string]Share, error) {
	if err := checkKeys(selected, percentages); err != nil {
		return nil, err
	}

	sum := decimal.Zero
	for p, pct := range percentages {
		if pct.IsNegative() {
			return nil, fmt.Errorf("%w: percentage for %q is negative", ErrInvalidSplit, p)
		}
		sum = sum.Add(pct)
	}
	if sum.Sub(hundred).Abs().GreaterThan(Epsilon) {
		return nil, fmt.Errorf("%w: percentages add up to %s, expected 100", ErrInvalidSplit, sum)
	}

	raw := make([]decimal.Decimal, len(participants))
	for i, p := range participants {
		raw[i] = total.Mul(percentages[p]).Div(hundred)
	}
	amounts := allocateCents(total, raw)

	shares := make(map[string]Share, len(participants))
	for i, p := range participants {
		shares[p] = Share{
			Amount:     amounts[i],
			Percentage: decimal.NewNullDecimal(percentages[p]),
		}
	}
	return shares, nil
}

func splitByAmount(total decimal.Decimal, participants []string, selected map[string]bool, amounts map[string]decimal.Decimal) (map[string]Share, error) {
	if err := checkKeys(selected, amounts); err != nil {
		return nil, err
	}

	sum := decimal.Zero
	for p, amount := range amounts {
		if amount.IsNegative() || !isCents(amount) {
			return nil, fmt.Errorf("%w: amount %s for %q", ErrInvalidAmount, amount, p)
		}
		sum = sum.Add(amount)
	}
	if sum.Sub(total).Abs().GreaterThan(Epsilon) {
		return nil, fmt.Errorf("%w: amounts add up to %s, expected %s", ErrInvalidSplit, sum, total)
	}

	shares := make(map[string]Share, len(participants))
	for _, p := range participants {
		shares[p] = Share{Amount: amounts[p]}
	}
	return shares, nil
}

// checkKeys rejects values keyed by someone outside the selected participants.
func checkKeys(selected map[string]bool, values map[string]decimal.Decimal) error {
	for p := range values {
		if !selected[p] {
			return fmt.Errorf("%w: %q is not part of this split", ErrUnknownParticipant, p)
		}
	}
	return nil
}

// allocateCents rounds raw amounts to cents so that they add up to total.
// Leftover cents go to the largest fractional parts first; a surplus is taken
// back from the smallest. Ties keep the input order.
func allocateCents(total decimal.Decimal, raw []decimal.Decimal) []decimal.Decimal {
	cents := make([]int64, len(raw))
	fracs := make([]decimal.Decimal, len(raw))
	var allocated int64
	for i, r := range raw {
		scaled := r.Mul(hundred)
		floor := scaled.Floor()
		cents[i] = floor.IntPart()
		fracs[i] = scaled.Sub(floor)
		allocated += cents[i]
	}

	order := make([]int, len(raw))
	for i := range order {
		order[i] = i
	}

	leftover := total.Mul(hundred).IntPart() - allocated
	if leftover >= 0 {
		slices.SortStableFunc(order, func(a, b int) int { return fracs[b].Cmp(fracs[a]) })
		for k := 0; leftover > 0; k = (k + 1) % len(order) {
			cents[order[k]]++
			leftover--
		}
	} else {
		slices.SortStableFunc(order, func(a, b int) int { return fracs[a].Cmp(fracs[b]) })
		for k := 0; leftover < 0; k = (k + 1) % len(order) {
			if cents[order[k]] > 0 {
				cents[order[k]]--
				leftover++
			}
		}
	}

	amounts := make([]decimal.Decimal, len(raw))
	for i, c := range cents {
		amounts[i] = decimal.New(c, -2)
	}
	return amounts
}

func isCents(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}
