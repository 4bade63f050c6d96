package dto

import (
	"time"

	"github.com/yigit/scholarpath/internal/app/models"
)

// ScholarshipFilterRequest holds list query parameters
type ScholarshipFilterRequest struct {
	Country        string `form:"country"`
	DegreeLevel    string `form:"degreeLevel" binding:"omitempty,degreelevel"`
	Field          string `form:"field"`
	FundingType    string `form:"fundingType" binding:"omitempty,fundingtype"`
	DeadlineBefore string `form:"deadlineBefore"`
	DeadlineAfter  string `form:"deadlineAfter"`
	Keyword        string `form:"keyword"`
	StudentID      *int64 `form:"studentId" binding:"omitempty,min=1"`
	Page           int    `form:"page"`
	Size           int    `form:"size"`
}

// ScholarshipRequest is the admin create/update payload
type ScholarshipRequest struct {
	Title             string                     `json:"title" binding:"required"`
	Provider          string                     `json:"provider" binding:"required"`
	Description       string                     `json:"description" binding:"required"`
	Eligibility       EligibilityCriteriaRequest `json:"eligibilityCriteria" binding:"required"`
	Deadline          time.Time                  `json:"deadline" binding:"required"`
	FundingType       models.FundingType         `json:"fundingType" binding:"required,fundingtype"`
	AwardValue        *string                    `json:"awardValue"`
	ApplicationFee    *float64                   `json:"applicationFee" binding:"omitempty,gte=0"`
	RequiredDocuments []string                   `json:"requiredDocuments"`
	OfficialURL       string                     `json:"officialUrl" binding:"required,url"`
	Country           string                     `json:"country" binding:"required"`
	University        *string                    `json:"university"`
	TrustScore        *int                       `json:"trustScore" binding:"omitempty,gte=0,lte=100"`
	IsVerified        bool                       `json:"isVerified"`
	Tags              []string                   `json:"tags"`
}

// EligibilityCriteriaRequest mirrors models.EligibilityCriteria with validation rules
type EligibilityCriteriaRequest struct {
	Nationality  []string                   `json:"nationality"`
	GPA          *models.GPARange           `json:"gpa"`
	FieldOfStudy []string                   `json:"fieldOfStudy"`
	DegreeLevels []models.DegreeLevel       `json:"degreeLevel" binding:"required,min=1,dive,degreelevel"`
	Age          *models.AgeRange           `json:"age"`
	EnglishTest  *models.EnglishRequirement `json:"englishTest"`
	Other        *string                    `json:"other"`
}

// ToModel converts the request to a scholarship model
func (r *ScholarshipRequest) ToModel() *models.Scholarship {
	sch := &models.Scholarship{
		Title:       r.Title,
		Provider:    r.Provider,
		Description: r.Description,
		Eligibility: models.EligibilityCriteria{
			Nationality:  r.Eligibility.Nationality,
			GPA:          r.Eligibility.GPA,
			FieldOfStudy: r.Eligibility.FieldOfStudy,
			DegreeLevels: r.Eligibility.DegreeLevels,
			Age:          r.Eligibility.Age,
			EnglishTest:  r.Eligibility.EnglishTest,
			Other:        r.Eligibility.Other,
		},
		Deadline:          r.Deadline,
		FundingType:       r.FundingType,
		AwardValue:        r.AwardValue,
		ApplicationFee:    r.ApplicationFee,
		RequiredDocuments: r.RequiredDocuments,
		OfficialURL:       r.OfficialURL,
		Country:           r.Country,
		University:        r.University,
		IsVerified:        r.IsVerified,
		Tags:              r.Tags,
	}
	if r.TrustScore != nil {
		sch.TrustScore = *r.TrustScore
	}
	if sch.RequiredDocuments == nil {
		sch.RequiredDocuments = []string{}
	}
	if sch.Tags == nil {
		sch.Tags = []string{}
	}
	return sch
}

// ScholarshipResponse is a scholarship with an optional match score for the requesting student
type ScholarshipResponse struct {
	*models.Scholarship
	MatchScore *int `json:"matchScore,omitempty" example:"85"`
}

// ScholarshipListResponse is a page of scholarships
type ScholarshipListResponse struct {
	Scholarships []ScholarshipResponse `json:"scholarships"`
	Pagination   PaginationInfo        `json:"pagination"`
}
