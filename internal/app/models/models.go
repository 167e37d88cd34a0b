package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent   RoleType = "student"
	RoleModerator RoleType = "moderator"
	RoleAdmin     RoleType = "admin"
)

// IsValid reports whether r is one of the known roles
func (r RoleType) IsValid() bool {
	switch r {
	case RoleStudent, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// ScholarshipCategory is the funding category of a scholarship
type ScholarshipCategory string

const (
	CategoryFullFund ScholarshipCategory = "Full fund"
	CategoryPartial  ScholarshipCategory = "Partial"
	CategorySelfFund ScholarshipCategory = "Self-fund"
)

// IsValid reports whether c is one of the known categories
func (c ScholarshipCategory) IsValid() bool {
	switch c {
	case CategoryFullFund, CategoryPartial, CategorySelfFund:
		return true
	}
	return false
}

// Degree is the academic level a scholarship targets
type Degree string

const (
	DegreeDiploma  Degree = "Diploma"
	DegreeBachelor Degree = "Bachelor"
	DegreeMasters  Degree = "Masters"
	DegreePhD      Degree = "PhD"
)

// IsValid reports whether d is one of the known degrees
func (d Degree) IsValid() bool {
	switch d {
	case DegreeDiploma, DegreeBachelor, DegreeMasters, DegreePhD:
		return true
	}
	return false
}

// UpdateResult reports how many rows an update matched and changed
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}
