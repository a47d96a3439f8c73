package filter

import (
	"strings"

	"github.com/amishk599/synergy/internal/model"
)

var _ model.RecordFilter = (*WordLimitFilter)(nil)

// WordLimitFilter rejects records whose description has more
// whitespace-delimited words than the limit.
type WordLimitFilter struct {
	maxWords int
}

// NewWordLimitFilter returns a filter allowing at most maxWords words.
func NewWordLimitFilter(maxWords int) *WordLimitFilter {
	return &WordLimitFilter{maxWords: maxWords}
}

// Check returns a *model.DescriptionTooLongError when the description
// exceeds the limit. A description of exactly maxWords words passes.
func (f *WordLimitFilter) Check(record model.CompanyRecord) error {
	words := WordCount(record.Description)
	if words > f.maxWords {
		return &model.DescriptionTooLongError{
			Company: record.Name,
			Words:   words,
			Limit:   f.maxWords,
		}
	}
	return nil
}

// WordCount counts whitespace-delimited words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
