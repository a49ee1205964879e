package scheduling

import "time"

// Selection is the pending set of dates toggled before a save. Toggling a
// selected date again removes it.
type Selection struct {
	eligibility Eligibility
	order       []string
	dates       map[string]time.Time
}

func NewSelection(e Eligibility) *Selection {
	return &Selection{eligibility: e, dates: make(map[string]time.Time)}
}

// Toggle flips day in or out of the selection and reports whether it is now
// selected. Ineligible dates are rejected.
func (s *Selection) Toggle(day, now time.Time) (bool, error) {
	if !s.eligibility.IsEligible(day, now) {
		return false, ErrDateNotEligible
	}

	d := startOfDay(day, s.eligibility.Location)
	key := d.Format(DateLayout)
	if _, ok := s.dates[key]; ok {
		delete(s.dates, key)
		for i, k := range s.order {
			if k == key {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false, nil
	}

	s.dates[key] = d
	s.order = append(s.order, key)
	return true, nil
}

// Dates returns the selection in toggle order.
func (s *Selection) Dates() []time.Time {
	out := make([]time.Time, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.dates[k])
	}
	return out
}

func (s *Selection) Len() int {
	return len(s.order)
}
