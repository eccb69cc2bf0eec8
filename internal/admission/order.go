package admission

import (
	"sort"

	"studyenrollment/internal/domain"
)

// Less orders enrollments by arrival: EnrolledAt first, then insertion sequence.
func Less(a, b *domain.Enrollment) bool {
	if !a.EnrolledAt.Equal(b.EnrolledAt) {
		return a.EnrolledAt.Before(b.EnrolledAt)
	}
	return a.Seq < b.Seq
}

// SortByArrival sorts enrollments in place by arrival order.
func SortByArrival(list []*domain.Enrollment) {
	sort.SliceStable(list, func(i, j int) bool { return Less(list[i], list[j]) })
}
