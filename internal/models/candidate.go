package models

import "time"

// Candidate is a person applying to a program. Candidates are never hard-deleted.
type Candidate struct {
	ID        string     `json:"id" db:"id"`
	FirstName string     `json:"firstName" db:"first_name"`
	LastName  string     `json:"lastName" db:"last_name"`
	Email     string     `json:"email" db:"email"`
	Phone     string     `json:"phone,omitempty" db:"phone"`
	Address   string     `json:"address,omitempty" db:"address"`
	BirthDate *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	Gender    string     `json:"gender,omitempty" db:"gender"`
	Status    Decision   `json:"status" db:"status"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// Company is the business owned by a candidate, one per candidate.
type Company struct {
	ID              string     `json:"id" db:"id"`
	CandidateID     string     `json:"candidateId" db:"candidate_id"`
	SIREN           string     `json:"siren,omitempty" db:"siren"`
	LegalName       string     `json:"legalName,omitempty" db:"legal_name"`
	Address         string     `json:"address,omitempty" db:"address"`
	ActivityCode    string     `json:"activityCode,omitempty" db:"activity_code"`
	FoundedOn       *time.Time `json:"foundedOn,omitempty" db:"founded_on"`
	RevenueInterval string     `json:"revenueInterval,omitempty" db:"revenue_interval"`
	ZoneStatus      ZoneStatus `json:"zoneStatus" db:"zone_status"`
	Latitude        *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude       *float64   `json:"longitude,omitempty" db:"longitude"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// Program is a coaching program and its eligibility thresholds.
type Program struct {
	ID         string     `json:"id" db:"id"`
	Code       string     `json:"code" db:"code"`
	Name       string     `json:"name" db:"name"`
	Thresholds Thresholds `json:"thresholds"`
}

// Thresholds are the optional eligibility bounds of a program.
type Thresholds struct {
	RevenueMin     *float64 `json:"revenueMin,omitempty" db:"revenue_min"`
	RevenueMax     *float64 `json:"revenueMax,omitempty" db:"revenue_max"`
	MinTenureYears *int     `json:"minTenureYears,omitempty" db:"min_tenure_years"`
}

// RegistryRecord is what the company registry knows about a SIREN.
type RegistryRecord struct {
	SIREN        string     `json:"siren"`
	LegalName    string     `json:"legalName"`
	Address      string     `json:"address"`
	ActivityCode string     `json:"activityCode"`
	FoundedOn    *time.Time `json:"foundedOn,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
}

// ZoneLookupResult is the answer of the equity-zone lookup service for one address.
type ZoneLookupResult struct {
	DistanceMeters *float64 `json:"distance_m"`
	ZoneName       *string  `json:"nom_qp"`
}
