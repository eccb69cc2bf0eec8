package memory

import (
	"studyenrollment/internal/admission"
	"studyenrollment/internal/domain"
)

// recordSet holds one event's enrollments keyed by account id.
type recordSet map[string]*domain.Enrollment

func (rs recordSet) clone() recordSet {
	out := make(recordSet, len(rs))
	for k, v := range rs {
		cp := *v
		out[k] = &cp
	}
	return out
}

func (rs recordSet) get(accountID string) (*domain.Enrollment, error) {
	e, ok := rs[accountID]
	if !ok {
		return nil, domain.ErrEnrollmentNotFound
	}
	cp := *e
	return &cp, nil
}

func (rs recordSet) waiting() []*domain.Enrollment {
	out := make([]*domain.Enrollment, 0)
	for _, e := range rs {
		if !e.Accepted {
			cp := *e
			out = append(out, &cp)
		}
	}
	admission.SortByArrival(out)
	return out
}

func (rs recordSet) countAccepted() int {
	n := 0
	for _, e := range rs {
		if e.Accepted {
			n++
		}
	}
	return n
}

func (rs recordSet) page(params domain.PaginationParams) []*domain.Enrollment {
	all := make([]*domain.Enrollment, 0, len(rs))
	for _, e := range rs {
		cp := *e
		all = append(all, &cp)
	}
	admission.SortByArrival(all)
	start, end := params.Window(len(all))
	return all[start:end]
}
