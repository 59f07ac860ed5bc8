package generator

import (
	"fmt"
	"time"
)

const (
	DefaultPrefix = "2200"

	// epochMillis is the custom epoch subtracted from the wall clock before
	// the timestamp component is taken.
	epochMillis int64 = 1700000000000

	timestampModulus = 1_000_000
	timestampDigits  = 6
	sequenceDigits   = 2
)

// AccountNumberGenerator builds candidate account numbers of the form
// prefix + 6 digit timestamp + 2 digit sequence. Uniqueness is only
// probabilistic; the store's unique index is what rejects repeats.
type AccountNumberGenerator struct {
	prefix string
	seq    *Sequence
	now    func() time.Time
}

func NewAccountNumberGenerator(prefix string, seq *Sequence) *AccountNumberGenerator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if seq == nil {
		seq = NewSequence()
	}
	return &AccountNumberGenerator{
		prefix: prefix,
		seq:    seq,
		now:    time.Now,
	}
}

func (g *AccountNumberGenerator) Generate() string {
	ts := (g.now().UnixMilli() - epochMillis) % timestampModulus
	if ts < 0 {
		ts += timestampModulus
	}
	return fmt.Sprintf("%s%0*d%0*d", g.prefix, timestampDigits, ts, sequenceDigits, g.seq.Next())
}

// Length is the fixed length of every generated number.
func (g *AccountNumberGenerator) Length() int {
	return NumberLength(g.prefix)
}

func (g *AccountNumberGenerator) Prefix() string {
	return g.prefix
}

func NumberLength(prefix string) int {
	return len(prefix) + timestampDigits + sequenceDigits
}
