package dictionary

import "fmt"

// Raw sentinels used by the on-disk format. They never leave this package
// as meaningful values: ProbabilityInfo reports them as absent instead.
const (
	NotAProbability    = -1
	NotAValidTimestamp = -1

	// MaxProbability is the upper bound of the integer scaled score.
	MaxProbability = 255
)

// Offsets inside a raw attribute block.
const (
	ProbabilityIndex = iota
	TimestampIndex
	LevelIndex
	CountIndex

	// AttributeCount is the minimum length of a raw attribute block.
	AttributeCount
)

// ProbabilityInfo is one scored observation of a word or a bigram link,
// along with its usage history.
type ProbabilityInfo struct {
	probability    int
	timestamp      int
	hasProbability bool
	hasTimestamp   bool
	Level          int
	Count          int
}

// NewProbabilityInfo maps raw values to a ProbabilityInfo. The sentinel
// values NotAProbability and NotAValidTimestamp become absent fields.
func NewProbabilityInfo(probability, timestamp, level, count int) ProbabilityInfo {
	return ProbabilityInfo{
		probability:    probability,
		timestamp:      timestamp,
		hasProbability: probability != NotAProbability,
		hasTimestamp:   timestamp != NotAValidTimestamp,
		Level:          level,
		Count:          count,
	}
}

// Probability returns the score and whether one is present.
func (p ProbabilityInfo) Probability() (int, bool) {
	if !p.hasProbability {
		return NotAProbability, false
	}
	return p.probability, true
}

// Timestamp returns the last-seen timestamp and whether one was recorded.
func (p ProbabilityInfo) Timestamp() (int, bool) {
	if !p.hasTimestamp {
		return NotAValidTimestamp, false
	}
	return p.timestamp, true
}

// IsValid reports whether the owning entry is present in the dictionary.
func (p ProbabilityInfo) IsValid() bool {
	return p.hasProbability
}

// HasHistoricalInfo reports whether timestamp/level/count carry data.
func (p ProbabilityInfo) HasHistoricalInfo() bool {
	return p.hasTimestamp
}

// Raw returns the attribute block in on-disk order, sentinels included.
func (p ProbabilityInfo) Raw() [AttributeCount]int32 {
	prob, _ := p.Probability()
	ts, _ := p.Timestamp()
	return [AttributeCount]int32{
		ProbabilityIndex: int32(prob),
		TimestampIndex:   int32(ts),
		LevelIndex:       int32(p.Level),
		CountIndex:       int32(p.Count),
	}
}

// String renders the history as "timestamp:level:count", the historicalInfo
// value of the combined layout. The probability is carried by f= instead.
func (p ProbabilityInfo) String() string {
	ts, _ := p.Timestamp()
	return fmt.Sprintf("%d:%d:%d", ts, p.Level, p.Count)
}

func probabilityInfoFromBlock(block []int32) ProbabilityInfo {
	return NewProbabilityInfo(
		int(block[ProbabilityIndex]),
		int(block[TimestampIndex]),
		int(block[LevelIndex]),
		int(block[CountIndex]),
	)
}

func validProbability(p int) bool {
	return p == NotAProbability || (p >= 0 && p <= MaxProbability)
}
