package matching

import (
	"sort"

	"github.com/yigit/scholarpath/internal/app/models"
)

// Ranked pairs a scholarship with its match score for one student
type Ranked struct {
	Scholarship *models.Scholarship `json:"scholarship"`
	MatchScore  int                 `json:"matchScore"`
}

// Rank scores every scholarship for the student and sorts them by score, highest first.
// Scholarships with equal scores keep their input order.
func Rank(student *models.StudentProfile, scholarships []*models.Scholarship) []Ranked {
	ranked := make([]Ranked, 0, len(scholarships))
	for _, sch := range scholarships {
		ranked = append(ranked, Ranked{Scholarship: sch, MatchScore: Score(student, sch)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	return ranked
}
