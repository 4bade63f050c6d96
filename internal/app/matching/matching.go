// Package matching scores how well a student profile fits a scholarship's eligibility criteria
// and ranks scholarships by that score.
package matching

import (
	"math"
	"strings"

	"github.com/yigit/scholarpath/internal/app/models"
)

// Weights sets the share each criterion has in the final score. Only the ratios matter since the
// score is normalised by the weight of the criteria that could be evaluated.
type Weights struct {
	StudyLevel   float64
	FieldOfStudy float64
	Nationality  float64
	GPA          float64
	English      float64
}

// DefaultWeights returns the weights used by Score.
func DefaultWeights() Weights {
	return Weights{
		StudyLevel:   0.30,
		FieldOfStudy: 0.25,
		Nationality:  0.15,
		GPA:          0.20,
		English:      0.10,
	}
}

// Score computes a 0-100 match score using the default weights.
func Score(student *models.StudentProfile, sch *models.Scholarship) int {
	return ScoreWithWeights(student, sch, DefaultWeights())
}

// ScoreWithWeights computes a 0-100 match score. A criterion only counts when the student has the
// data to judge it, except GPA and English which also count (as a miss) when the scholarship
// requires a credential the student has not recorded.
func ScoreWithWeights(student *models.StudentProfile, sch *models.Scholarship, w Weights) int {
	if student == nil || sch == nil {
		return 0
	}
	criteria := sch.Eligibility

	var totalScore, totalWeight float64
	add := func(weight float64, matched bool) {
		totalWeight += weight
		if matched {
			totalScore += weight
		}
	}

	// Study level: first preference only
	if len(student.StudyPreferences) > 0 && student.StudyPreferences[0].DegreeLevel != "" {
		add(w.StudyLevel, containsLevel(criteria.DegreeLevels, student.StudyPreferences[0].DegreeLevel))
	}

	// Field of study: any preference
	if len(student.StudyPreferences) > 0 {
		matched := false
		for _, pref := range student.StudyPreferences {
			if matchesAllowList(pref.FieldOfStudy, criteria.FieldOfStudy) {
				matched = true
				break
			}
		}
		add(w.FieldOfStudy, matched)
	}

	if student.Nationality != nil && *student.Nationality != "" {
		add(w.Nationality, matchesAllowList(*student.Nationality, criteria.Nationality))
	}

	gpa := student.FirstGPA()
	switch {
	case gpa != nil:
		add(w.GPA, withinGPA(*gpa, criteria.GPA))
	case criteria.GPA != nil && criteria.GPA.Min != nil:
		add(w.GPA, false)
	}

	ielts, toefl := student.IELTSOverall(), student.TOEFLTotal()
	switch {
	case ielts != nil || toefl != nil:
		add(w.English, meetsEnglish(ielts, toefl, criteria.EnglishTest))
	case requiresEnglish(criteria.EnglishTest):
		add(w.English, false)
	}

	if totalWeight == 0 {
		return 0
	}
	return int(math.Round(totalScore / totalWeight * 100))
}

func containsLevel(levels []models.DegreeLevel, level models.DegreeLevel) bool {
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}

// matchesAllowList is a case-insensitive membership test where an empty list allows everything.
func matchesAllowList(value string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return true
		}
	}
	return false
}

func withinGPA(gpa float64, req *models.GPARange) bool {
	if req == nil {
		return true
	}
	if req.Min != nil && gpa < *req.Min {
		return false
	}
	if req.Max != nil && gpa > *req.Max {
		return false
	}
	return true
}

func requiresEnglish(req *models.EnglishRequirement) bool {
	return req != nil && (req.IELTS != nil || req.TOEFL != nil)
}

func meetsEnglish(ielts, toefl *float64, req *models.EnglishRequirement) bool {
	if !requiresEnglish(req) {
		return true
	}
	if req.IELTS != nil && (ielts == nil || *ielts < *req.IELTS) {
		return false
	}
	if req.TOEFL != nil && (toefl == nil || *toefl < *req.TOEFL) {
		return false
	}
	return true
}
