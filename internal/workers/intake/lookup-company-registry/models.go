package lookupcompanyregistry

import "coaching-workers/internal/common/validation"

type Input struct {
	CandidateID string `json:"candidateId"`
	SIREN       string `json:"siren"`
}

type Output struct {
	CompanyID       string   `json:"companyId"`
	SIREN           string   `json:"siren"`
	LegalName       string   `json:"legalName"`
	CompanyAddress  string   `json:"companyAddress"`
	ActivityCode    string   `json:"activityCode,omitempty"`
	FoundedOn       string   `json:"foundedOn,omitempty"` // YYYY-MM-DD
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	CompanyEnriched bool     `json:"companyEnriched"`
}

var inputSchema = validation.MustCompile(TaskType, `{
  "type": "object",
  "required": ["candidateId", "siren"],
  "properties": {
    "candidateId": {"type": "string", "minLength": 1},
    "siren": {"type": "string", "minLength": 9}
  }
}`)
