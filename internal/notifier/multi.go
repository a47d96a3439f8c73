package notifier

import (
	"errors"

	"github.com/amishk599/synergy/internal/model"
)

// Multi fans a notice out to several notifiers.
type Multi []model.Notifier

// Notify delivers to every notifier and joins their errors.
func (m Multi) Notify(notice model.Notice) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
