package calculator

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Participant is someone who can owe or be owed money within one event.
type Participant struct {
	ID   string
	Name string
}

// ExpenseForBalance represents an expense with the minimal information needed
// for balance calculations.
type ExpenseForBalance struct {
	PayerID      string
	Amount       decimal.Decimal
	SplitDetails map[string]Share
}

// SettlementForBalance represents a recorded payment with the minimal
// information needed for balance calculations.
type SettlementForBalance struct {
	FromUserID string // Who paid (debtor settling up)
	ToUserID   string // Who received (creditor being paid)
	Amount     decimal.Decimal
}

// Balance is one participant's position across an event's expenses.
type Balance struct {
	ParticipantID string
	Name          string

	// NetBalance is positive when the participant is owed money and negative
	// when they owe money.
	NetBalance decimal.Decimal

	// OwedBy maps a participant to the amount they owe this one.
	OwedBy map[string]decimal.Decimal

	// OwesTo maps a participant to the amount this one owes them.
	OwesTo map[string]decimal.Decimal
}

// ComputeBalances aggregates every expense into per-participant balances.
//
// Algorithm:
//   - For each split entry, the debtor owes the payer the entry amount
//   - Entries where the debtor is the payer are skipped
//   - Entries naming someone outside participants are dropped silently, since
//     they left the event after the expense was recorded
//   - Zero or negative entries are dropped as corrupt
//
// Participants with no activity and a zero balance are left out of the
// result; the others keep the order of participants.
func ComputeBalances(participants []Participant, expenses []ExpenseForBalance) []Balance {
	l := newLedger(participants)
	l.addExpenses(expenses)
	return l.balances()
}

// ComputeNetBalances is ComputeBalances with recorded settlements applied on
// top, so money that already changed hands no longer shows as owed.
//
// Settlements rarely follow the pairs that expenses created, so once they are
// applied any debt that runs in a loop (A owes B, B owes C, C owes A) is
// cancelled. Net balances are unchanged by this; a participant whose net is
// zero ends up with no pairwise debts left.
func ComputeNetBalances(participants []Participant, expenses []ExpenseForBalance, settlements []SettlementForBalance) []Balance {
	l := newLedger(participants)
	l.addExpenses(expenses)
	for _, s := range settlements {
		l.recordPayment(s.FromUserID, s.ToUserID, s.Amount)
	}
	l.cancelCycles()
	return l.balances()
}

type ledger struct {
	order []string
	byID  map[string]*Balance
}

func newLedger(participants []Participant) *ledger {
	l := &ledger{byID: make(map[string]*Balance, len(participants))}
	for _, p := range participants {
		if _, exists := l.byID[p.ID]; exists {
			continue
		}
		l.order = append(l.order, p.ID)
		l.byID[p.ID] = &Balance{
			ParticipantID: p.ID,
			Name:          p.Name,
			OwedBy:        make(map[string]decimal.Decimal),
			OwesTo:        make(map[string]decimal.Decimal),
		}
	}
	return l
}

func (l *ledger) addExpenses(expenses []ExpenseForBalance) {
	for _, e := range expenses {
		for debtor, share := range e.SplitDetails {
			l.recordDebt(debtor, e.PayerID, share.Amount)
		}
	}
}

func (l *ledger) recordDebt(debtor, creditor string, amount decimal.Decimal) {
	d, c, ok := l.pair(debtor, creditor, amount)
	if !ok {
		return
	}

	d.NetBalance = d.NetBalance.Sub(amount)
	c.NetBalance = c.NetBalance.Add(amount)
	d.OwesTo[creditor] = d.OwesTo[creditor].Add(amount)
	c.OwedBy[debtor] = c.OwedBy[debtor].Add(amount)
}

// recordPayment applies a settlement from payer to payee. The pairwise debt
// from payer to payee shrinks first; an overpayment becomes a debt the other
// way.
func (l *ledger) recordPayment(payer, payee string, amount decimal.Decimal) {
	from, to, ok := l.pair(payer, payee, amount)
	if !ok {
		return
	}

	from.NetBalance = from.NetBalance.Add(amount)
	to.NetBalance = to.NetBalance.Sub(amount)

	owed := from.OwesTo[payee]
	if owed.GreaterThanOrEqual(amount) {
		setOrDelete(from.OwesTo, payee, owed.Sub(amount))
		setOrDelete(to.OwedBy, payer, owed.Sub(amount))
		return
	}

	delete(from.OwesTo, payee)
	delete(to.OwedBy, payer)
	excess := amount.Sub(owed)
	to.OwesTo[payer] = to.OwesTo[payer].Add(excess)
	from.OwedBy[payee] = from.OwedBy[payee].Add(excess)
}

// cancelCycles removes the smallest debt around each loop of debts until the
// remaining debts form no loop. Two people owing each other is the shortest
// such loop.
func (l *ledger) cancelCycles() {
	for {
		cycle := l.findCycle()
		if cycle == nil {
			return
		}

		amount := l.debt(cycle[len(cycle)-1], cycle[0])
		for i := range len(cycle) - 1 {
			amount = decimal.Min(amount, l.debt(cycle[i], cycle[i+1]))
		}

		for i, debtor := range cycle {
			creditor := cycle[(i+1)%len(cycle)]
			l.reduceDebt(debtor, creditor, amount)
		}
	}
}

// findCycle returns participants p0..pn where each owes the next and pn owes
// p0, or nil when there is none. Traversal follows participant order and
// sorted creditor IDs so the result is deterministic.
func (l *ledger) findCycle() []string {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[string]int, len(l.order))
	var path, cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		state[id] = onPath
		path = append(path, id)
		for _, next := range slices.Sorted(maps.Keys(l.byID[id].OwesTo)) {
			switch state[next] {
			case onPath:
				cycle = slices.Clone(path[slices.Index(path, next):])
				return true
			case unvisited:
				if visit(next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return false
	}

	for _, id := range l.order {
		if state[id] == unvisited && visit(id) {
			return cycle
		}
	}
	return nil
}

func (l *ledger) debt(debtor, creditor string) decimal.Decimal {
	return l.byID[debtor].OwesTo[creditor]
}

// reduceDebt lowers a pairwise debt without touching net balances.
func (l *ledger) reduceDebt(debtor, creditor string, amount decimal.Decimal) {
	d, c := l.byID[debtor], l.byID[creditor]
	setOrDelete(d.OwesTo, creditor, d.OwesTo[creditor].Sub(amount))
	setOrDelete(c.OwedBy, debtor, c.OwedBy[debtor].Sub(amount))
}

// pair looks up both sides of a transfer, rejecting self transfers, unknown
// participants and non-positive amounts.
func (l *ledger) pair(a, b string, amount decimal.Decimal) (*Balance, *Balance, bool) {
	if a == b || !amount.IsPositive() {
		return nil, nil, false
	}
	first, ok := l.byID[a]
	if !ok {
		return nil, nil, false
	}
	second, ok := l.byID[b]
	if !ok {
		return nil, nil, false
	}
	return first, second, true
}

func (l *ledger) balances() []Balance {
	result := make([]Balance, 0, len(l.order))
	for _, id := range l.order {
		b := l.byID[id]
		if b.NetBalance.Abs().GreaterThan(Epsilon) || len(b.OwedBy) > 0 || len(b.OwesTo) > 0 {
			result = append(result, *b)
		}
	}
	return result
}

func setOrDelete(m map[string]decimal.Decimal, key string, value decimal.Decimal) {
	if value.IsZero() {
		delete(m, key)
		return
	}
	m[key] = value
}
