package models

import (
	"time"
)

// GPARange bounds the GPA a scholarship accepts; both ends are optional
type GPARange struct {
	Min *float64 `json:"min,omitempty" example:"3.0"`
	Max *float64 `json:"max,omitempty" example:"4.0"`
}

// AgeRange bounds the applicant age; both ends are optional
type AgeRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// EnglishRequirement holds minimum English test scores
type EnglishRequirement struct {
	IELTS *float64 `json:"ielts,omitempty" example:"6.5"`
	TOEFL *float64 `json:"toefl,omitempty" example:"90"`
}

// EligibilityCriteria is the eligibility bundle of a scholarship
type EligibilityCriteria struct {
	Nationality  []string            `json:"nationality,omitempty"`
	GPA          *GPARange           `json:"gpa,omitempty"`
	FieldOfStudy []string            `json:"fieldOfStudy,omitempty"`
	DegreeLevels []DegreeLevel       `json:"degreeLevel"`
	Age          *AgeRange           `json:"age,omitempty"`
	EnglishTest  *EnglishRequirement `json:"englishTest,omitempty"`
	Other        *string             `json:"other,omitempty"`
}

// Scholarship defines the scholarship model based on the 'scholarships' table
type Scholarship struct {
	ID                int64               `json:"id" db:"id" example:"1"`
	Title             string              `json:"title" db:"title" example:"DAAD Master Scholarship"`
	Provider          string              `json:"provider" db:"provider" example:"DAAD"`
	Description       string              `json:"description" db:"description"`
	Eligibility       EligibilityCriteria `json:"eligibilityCriteria" db:"eligibility"`
	Deadline          time.Time           `json:"deadline" db:"deadline" example:"2025-10-31T00:00:00Z"`
	FundingType       FundingType         `json:"fundingType" db:"funding_type" example:"full"`
	AwardValue        *string             `json:"awardValue,omitempty" db:"award_value" example:"$20,000 per year"`
	ApplicationFee    *float64            `json:"applicationFee,omitempty" db:"application_fee"`
	RequiredDocuments []string            `json:"requiredDocuments" db:"required_documents"`
	OfficialURL       string              `json:"officialUrl" db:"official_url" example:"https://www.daad.de"`
	Country           string              `json:"country" db:"country" example:"Germany"`
	University        *string             `json:"university,omitempty" db:"university"`
	CreatedBy         int64               `json:"createdBy" db:"created_by"`
	TrustScore        int                 `json:"trustScore" db:"trust_score" example:"80"`
	IsVerified        bool                `json:"isVerified" db:"is_verified"`
	Tags              []string            `json:"tags" db:"tags"`
	Views             int                 `json:"views" db:"views"`
	Applications      int                 `json:"applications" db:"applications"`
	CreatedAt         time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time           `json:"updatedAt" db:"updated_at"`
}

// ScholarshipFilter holds the list predicates for scholarships
type ScholarshipFilter struct {
	Country        string
	DegreeLevel    DegreeLevel
	Field          string
	FundingType    FundingType
	DeadlineBefore *time.Time
	DeadlineAfter  *time.Time
	Keyword        string
}
