package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yigit/scholarpath/internal/app/models"
)

func ptr[T any](v T) *T { return &v }

func masterStudent() *models.StudentProfile {
	return &models.StudentProfile{
		StudyPreferences: []models.StudyPreference{
			{Country: "Germany", FieldOfStudy: "Computer Science", DegreeLevel: models.DegreeMaster},
		},
	}
}

func masterScholarship() *models.Scholarship {
	return &models.Scholarship{
		Eligibility: models.EligibilityCriteria{DegreeLevels: []models.DegreeLevel{models.DegreeMaster}},
	}
}

func TestScore_NoEvaluableCriteria(t *testing.T) {
	score := Score(&models.StudentProfile{}, masterScholarship())
	assert.Equal(t, 0, score)
}

func TestScore_NilInputs(t *testing.T) {
	assert.Equal(t, 0, Score(nil, masterScholarship()))
	assert.Equal(t, 0, Score(masterStudent(), nil))
}

func TestScore_StudyLevelOnly(t *testing.T) {
	student := masterStudent()
	sch := masterScholarship()
	sch.Eligibility.FieldOfStudy = nil

	// study level and field of study (empty allow-list) both match
	assert.Equal(t, 100, Score(student, sch))

	// study level as the single evaluable criterion
	w := Weights{StudyLevel: 0.3}
	assert.Equal(t, 100, ScoreWithWeights(student, sch, w))
}

func TestScore_GPAExample(t *testing.T) {
	student := masterStudent()
	student.AcademicHistory = []models.AcademicRecord{{Level: "bachelor", Institution: "AAU", GPA: ptr(3.8)}}
	sch := masterScholarship()
	sch.Eligibility.GPA = &models.GPARange{Min: ptr(3.0)}

	w := DefaultWeights()
	w.FieldOfStudy = 0
	assert.Equal(t, 100, ScoreWithWeights(student, sch, w))
}

func TestScore_GPAPenalty(t *testing.T) {
	sch := masterScholarship()
	sch.Eligibility.GPA = &models.GPARange{Min: ptr(3.5)}

	withoutGPA := masterStudent()
	withGPA := masterStudent()
	withGPA.AcademicHistory = []models.AcademicRecord{{GPA: ptr(3.7)}}

	low := Score(withoutGPA, sch)
	high := Score(withGPA, sch)
	assert.Less(t, low, high)
	// 0.55 matched of 0.75 evaluated
	assert.Equal(t, 73, low)
	assert.Equal(t, 100, high)
}

func TestScore_GPAMaxOnlyIsNotAPenalty(t *testing.T) {
	sch := masterScholarship()
	sch.Eligibility.GPA = &models.GPARange{Max: ptr(3.0)}
	assert.Equal(t, 100, Score(masterStudent(), sch))
}

func TestScore_GPAUsesFirstEntryWithGPA(t *testing.T) {
	sch := masterScholarship()
	sch.Eligibility.GPA = &models.GPARange{Min: ptr(3.0), Max: ptr(3.5)}
	student := masterStudent()
	student.AcademicHistory = []models.AcademicRecord{
		{Level: "highschool"},
		{Level: "bachelor", GPA: ptr(3.2)},
		{Level: "master", GPA: ptr(3.9)},
	}
	assert.Equal(t, 100, Score(student, sch))

	student.AcademicHistory[1].GPA = ptr(3.9)
	student.AcademicHistory[2].GPA = ptr(3.2)
	assert.Less(t, Score(student, sch), 100)
}

func TestScore_English(t *testing.T) {
	tests := []struct {
		name    string
		tests   models.StandardizedTests
		req     *models.EnglishRequirement
		matched bool
		counted bool
	}{
		{name: "no data either side", counted: false},
		{name: "requirement without scores", req: &models.EnglishRequirement{IELTS: ptr(6.5)}, counted: true, matched: false},
		{name: "scores without requirement", tests: models.StandardizedTests{IELTS: &models.IELTSScore{Overall: ptr(7.0)}}, counted: true, matched: true},
		{name: "ielts meets", tests: models.StandardizedTests{IELTS: &models.IELTSScore{Overall: ptr(6.5)}}, req: &models.EnglishRequirement{IELTS: ptr(6.5)}, counted: true, matched: true},
		{name: "ielts below", tests: models.StandardizedTests{IELTS: &models.IELTSScore{Overall: ptr(6.0)}}, req: &models.EnglishRequirement{IELTS: ptr(6.5)}, counted: true, matched: false},
		{name: "toefl declared but only ielts recorded", tests: models.StandardizedTests{IELTS: &models.IELTSScore{Overall: ptr(8.0)}}, req: &models.EnglishRequirement{TOEFL: ptr(90.0)}, counted: true, matched: false},
		{name: "both declared both met", tests: models.StandardizedTests{IELTS: &models.IELTSScore{Overall: ptr(7.0)}, TOEFL: &models.TOEFLScore{Total: ptr(100.0)}}, req: &models.EnglishRequirement{IELTS: ptr(6.5), TOEFL: ptr(90.0)}, counted: true, matched: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			student := masterStudent()
			student.StandardizedTests = tt.tests
			sch := masterScholarship()
			sch.Eligibility.EnglishTest = tt.req

			w := Weights{StudyLevel: 0.5, English: 0.5}
			got := ScoreWithWeights(student, sch, w)
			switch {
			case !tt.counted:
				assert.Equal(t, 100, got)
			case tt.matched:
				assert.Equal(t, 100, got)
			default:
				assert.Equal(t, 50, got)
			}
		})
	}
}

func TestScore_NationalityAndFieldAreCaseInsensitive(t *testing.T) {
	student := masterStudent()
	student.Nationality = ptr("ethiopian")
	sch := masterScholarship()
	sch.Eligibility.Nationality = []string{"Ethiopian", "Kenyan"}
	sch.Eligibility.FieldOfStudy = []string{"computer science"}
	assert.Equal(t, 100, Score(student, sch))

	sch.Eligibility.Nationality = []string{"Kenyan"}
	// 0.55 of 0.70
	assert.Equal(t, 79, Score(student, sch))
}

func TestScore_FieldMatchesAnyPreference(t *testing.T) {
	student := masterStudent()
	student.StudyPreferences = append(student.StudyPreferences,
		models.StudyPreference{Country: "France", FieldOfStudy: "Public Health", DegreeLevel: models.DegreePhD})
	sch := masterScholarship()
	sch.Eligibility.FieldOfStudy = []string{"Public Health"}
	assert.Equal(t, 100, Score(student, sch))
}

func TestScore_StudyLevelUsesFirstPreference(t *testing.T) {
	student := &models.StudentProfile{StudyPreferences: []models.StudyPreference{
		{FieldOfStudy: "Law", DegreeLevel: models.DegreePhD},
		{FieldOfStudy: "Law", DegreeLevel: models.DegreeMaster},
	}}
	// 0.25 of 0.55
	assert.Equal(t, 45, Score(student, masterScholarship()))
}

func TestScore_AlwaysInRange(t *testing.T) {
	students := []*models.StudentProfile{
		{},
		masterStudent(),
		{Nationality: ptr("Kenyan"), AcademicHistory: []models.AcademicRecord{{GPA: ptr(2.0)}}},
		{StandardizedTests: models.StandardizedTests{TOEFL: &models.TOEFLScore{Total: ptr(80.0)}}},
	}
	scholarships := []*models.Scholarship{
		masterScholarship(),
		{Eligibility: models.EligibilityCriteria{
			DegreeLevels: []models.DegreeLevel{models.DegreePhD},
			Nationality:  []string{"Ethiopian"},
			GPA:          &models.GPARange{Min: ptr(3.5), Max: ptr(4.0)},
			EnglishTest:  &models.EnglishRequirement{IELTS: ptr(7.0), TOEFL: ptr(100.0)},
		}},
	}
	for _, s := range students {
		for _, c := range scholarships {
			got := Score(s, c)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		}
	}
}
