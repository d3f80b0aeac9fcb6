// Package transfers pairs opposite-sign transactions into internal transfers.
//
// Detection is a pure batch pass. It runs a cross-source phase, then a
// within-source cross-user phase. Source groups, user sub-groups and group
// members all keep the order in which they first appear in the input, and for
// each unmatched transaction the first eligible partner in that order wins. The
// same input therefore always produces the same pairs and the same transfer IDs.
package transfers

import (
	"github.com/SscSPs/transfer_reconciler/internal/core/domain"
	"github.com/google/uuid"
)

// DefaultWindowDays is the largest date gap, in days, between two legs of a transfer.
const DefaultWindowDays = 4

// transferNamespace seeds the name-based UUIDs used as transfer IDs.
var transferNamespace = uuid.MustParse("6f1c3a52-9a0e-4e4b-8d4f-1b7c2f5e8a31")

// Options tunes a detection pass.
type Options struct {
	WindowDays int
}

// Option configures detection.
type Option func(*Options)

// WithWindowDays overrides the maximum date gap between legs.
func WithWindowDays(days int) Option {
	return func(o *Options) {
		if days >= 0 {
			o.WindowDays = days
		}
	}
}

// Result is the outcome of a detection pass.
type Result struct {
	Transfers           []domain.TransferPair `json:"transfers"`
	UpdatedTransactions []domain.Transaction  `json:"updatedTransactions"`
	// Skipped counts records that were not eligible for pairing (missing date,
	// unknown type, empty or duplicate ID).
	Skipped int `json:"skipped"`
}

// TransferID derives the transfer ID of two legs from their transaction IDs.
// The order of the arguments does not matter.
func TransferID(a, b string) string {
	return uuid.NewSHA1(transferNamespace, []byte(domain.PairFingerprint(a, b))).String()
}

// IsTransferPair reports whether two transactions can be the legs of one transfer.
func IsTransferPair(t1, t2 domain.Transaction, windowDays int) bool {
	if !t1.Pairable() || !t2.Pairable() || t1.TransactionID == t2.TransactionID {
		return false
	}
	if t1.Type == t2.Type {
		return false
	}
	// Same source and same user can never pair.
	if t1.Source() == t2.Source() && t1.UserID == t2.UserID {
		return false
	}
	if !t1.Magnitude().Equal(t2.Magnitude()) {
		return false
	}
	return dayGap(t1.Date, t2.Date) <= float64(windowDays)
}

// DetectTransfers pairs transactions into transfers. Any annotation already present
// on the input is discarded; the input slice itself is not modified.
func DetectTransfers(txs []domain.Transaction, opts ...Option) Result {
	o := Options{WindowDays: DefaultWindowDays}
	for _, opt := range opts {
		opt(&o)
	}

	d := &detector{
		txs:       make([]domain.Transaction, len(txs)),
		processed: make([]bool, len(txs)),
		window:    o.WindowDays,
	}
	for i, t := range txs {
		d.txs[i] = t.Strip()
	}

	eligible, skipped := d.eligible()

	sources := groupBy(d.txs, eligible, domain.Transaction.Source)
	for i := 0; i < len(sources); i++ {
		for j := i + 1; j < len(sources); j++ {
			d.matchGroups(sources[i].members, sources[j].members)
		}
	}

	for _, src := range sources {
		users := groupBy(d.txs, src.members, func(t domain.Transaction) string { return t.UserID })
		for i := 0; i < len(users); i++ {
			for j := i + 1; j < len(users); j++ {
				d.matchGroups(users[i].members, users[j].members)
			}
		}
	}

	pairs := make([]domain.TransferPair, 0, len(d.pairs))
	for _, p := range d.pairs {
		pairs = append(pairs, d.materialize(p))
	}

	return Result{
		Transfers:           pairs,
		UpdatedTransactions: d.txs,
		Skipped:             skipped,
	}
}

type detector struct {
	txs       []domain.Transaction
	processed []bool
	window    int
	pairs     []legs
}

// legs holds the indexes of a matched pair in detection order.
type legs struct {
	first, second int
}

type group struct {
	key     string
	members []int
}

// eligible returns the indexes of pairable transactions in input order.
func (d *detector) eligible() ([]int, int) {
	seen := make(map[string]struct{}, len(d.txs))
	idx := make([]int, 0, len(d.txs))
	skipped := 0
	for i, t := range d.txs {
		if !t.Pairable() {
			skipped++
			continue
		}
		if _, dup := seen[t.TransactionID]; dup {
			skipped++
			continue
		}
		seen[t.TransactionID] = struct{}{}
		idx = append(idx, i)
	}
	return idx, skipped
}

// groupBy partitions idx by key, ordering groups by first appearance.
func groupBy(txs []domain.Transaction, idx []int, key func(domain.Transaction) string) []group {
	pos := make(map[string]int)
	var groups []group
	for _, i := range idx {
		k := key(txs[i])
		g, ok := pos[k]
		if !ok {
			g = len(groups)
			pos[k] = g
			groups = append(groups, group{key: k})
		}
		groups[g].members = append(groups[g].members, i)
	}
	return groups
}

// matchGroups finds, for every unmatched transaction of first, the first unmatched
// partner in second. Candidates are bucketed by amount, which keeps the first-match
// order of a full scan because other amounts can never match.
func (d *detector) matchGroups(first, second []int) {
	buckets := make(map[string][]int)
	for _, j := range second {
		k := amountKey(d.txs[j])
		buckets[k] = append(buckets[k], j)
	}

	for _, i := range first {
		if d.processed[i] {
			continue
		}
		for _, j := range buckets[amountKey(d.txs[i])] {
			if d.processed[j] {
				continue
			}
			if IsTransferPair(d.txs[i], d.txs[j], d.window) {
				d.annotate(i, j)
				break
			}
		}
	}
}

func amountKey(t domain.Transaction) string {
	return t.Magnitude().String()
}

func (d *detector) annotate(i, j int) {
	credit, debit := d.txs[i], d.txs[j]
	if credit.Type != domain.Income {
		credit, debit = debit, credit
	}
	id := TransferID(credit.TransactionID, debit.TransactionID)
	kind := Classify(credit, debit)

	for _, k := range []int{i, j} {
		noOverride := false
		d.txs[k].TransferInfo = &domain.TransferInfo{
			IsTransfer:               true,
			TransferID:               id,
			TransferType:             kind,
			ExcludedFromCalculations: true,
			UserOverride:             &noOverride,
		}
	}
	d.processed[i], d.processed[j] = true, true
	d.pairs = append(d.pairs, legs{first: i, second: j})
}

// materialize builds the pair from the annotated transactions. Each leg gets its own
// copy of the annotation so callers can adjust the pair without touching the batch.
func (d *detector) materialize(l legs) domain.TransferPair {
	credit, debit := cloneLeg(d.txs[l.first]), cloneLeg(d.txs[l.second])
	if credit.Type != domain.Income {
		credit, debit = debit, credit
	}
	return domain.TransferPair{
		Credit:       credit,
		Debit:        debit,
		TransferID:   credit.TransferInfo.TransferID,
		TransferType: credit.TransferInfo.TransferType,
		Confidence:   Confidence(credit, debit),
	}
}

func cloneLeg(t domain.Transaction) domain.Transaction {
	if t.TransferInfo != nil {
		info := *t.TransferInfo
		if info.UserOverride != nil {
			v := *info.UserOverride
			info.UserOverride = &v
		}
		t.TransferInfo = &info
	}
	return t
}
