package notifier

import "github.com/amishk599/synergy/internal/model"

var _ model.Notifier = (*Collector)(nil)

// Collector keeps notices in memory so an interactive front end can show
// them after a pass. Not safe for concurrent use.
type Collector struct {
	notices []model.Notice
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Notify records the notice.
func (c *Collector) Notify(notice model.Notice) error {
	c.notices = append(c.notices, notice)
	return nil
}

// Drain returns the recorded notices and forgets them.
func (c *Collector) Drain() []model.Notice {
	out := c.notices
	c.notices = nil
	return out
}
