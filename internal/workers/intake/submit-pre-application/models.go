package submitpreapplication

import (
	"encoding/json"

	"coaching-workers/internal/common/validation"
)

const dateLayout = "2006-01-02"

type Input struct {
	CandidateID string          `json:"candidateId,omitempty"`
	Candidate   *CandidateInput `json:"candidate,omitempty"`
	Company     *CompanyInput   `json:"company,omitempty"`
	ProgramID   string          `json:"programId"`
	FormData    json.RawMessage `json:"formData,omitempty"`
}

type CandidateInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	BirthDate string `json:"birthDate,omitempty"` // YYYY-MM-DD
	Gender    string `json:"gender,omitempty"`
}

type CompanyInput struct {
	SIREN           string `json:"siren,omitempty"`
	LegalName       string `json:"legalName,omitempty"`
	Address         string `json:"address,omitempty"`
	FoundedOn       string `json:"foundedOn,omitempty"` // YYYY-MM-DD
	RevenueInterval string `json:"revenueInterval,omitempty"`
}

type Output struct {
	CandidateID          string `json:"candidateId"`
	PreApplicationID     string `json:"preApplicationId"`
	PreApplicationStatus string `json:"preApplicationStatus"`
	CandidateCreated     bool   `json:"candidateCreated"`
	SubmittedAt          string `json:"submittedAt"` // RFC 3339
}

var inputSchema = validation.MustCompile(TaskType, `{
  "type": "object",
  "required": ["programId"],
  "properties": {
    "programId": {"type": "string", "minLength": 1},
    "candidateId": {"type": "string"},
    "candidate": {
      "type": "object",
      "required": ["email"],
      "properties": {
        "email": {"type": "string", "format": "email"},
        "birthDate": {"type": "string", "format": "date"}
      }
    },
    "company": {
      "type": "object",
      "properties": {
        "siren": {"type": "string", "pattern": "^[0-9 ]*$"},
        "foundedOn": {"type": "string", "format": "date"}
      }
    }
  },
  "anyOf": [
    {"required": ["candidateId"]},
    {"required": ["candidate"]}
  ]
}`)
