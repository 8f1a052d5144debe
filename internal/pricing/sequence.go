package pricing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sequencer hands out row identifiers of the form YYYYMMDD_tag_NNN (or
// YYYYMMDD_NNN when no tag is given). The counter is scoped to the date+tag
// prefix and continues from the highest sequence already present in the
// destination, so identifiers stay unique and ordered within a daily batch
// without a central sequence service.
type Sequencer struct {
	prefix string
	next   int
}

// NewSequencer scans the identifiers already present in the destination and
// positions the counter after the highest one matching the date+tag prefix.
// Identifiers for other dates or tags are ignored; if nothing matches, the
// counter restarts at 1.
func NewSequencer(existing []string, now time.Time, tag string) *Sequencer {
	prefix := now.Format("20060102")
	if tag != "" {
		prefix += "_" + strings.ToLower(tag)
	}
	prefix += "_"

	highest := 0
	for _, id := range existing {
		id = strings.TrimSpace(id)
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err != nil || n <= 0 {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	return &Sequencer{prefix: prefix, next: highest + 1}
}

// Next returns the next identifier and advances the counter.
func (s *Sequencer) Next() string {
	id := fmt.Sprintf("%s%03d", s.prefix, s.next)
	s.next++
	return id
}
