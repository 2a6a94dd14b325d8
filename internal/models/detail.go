package models

import (
	"encoding/json"
	"fmt"

	"coaching-workers/internal/common/validation"
)

// AddressKind tells which address of the candidate was analysed.
type AddressKind string

const (
	AddressPersonal AddressKind = "personnelle"
	AddressCompany  AddressKind = "entreprise"
)

// QPVStatus is the final equity-zone flag stored in the detail payload.
type QPVStatus string

const (
	QPVInside  QPVStatus = "QPV"
	QPVOutside QPVStatus = "NON_QPV"
)

// UnavailableAddress is stored in place of an address that was not provided.
const UnavailableAddress = "Non disponible"

// AnalysisOutcome is one of Resolved, Failed or Unavailable.
type AnalysisOutcome interface {
	isAnalysisOutcome()
}

// Resolved carries the lookup answer for an address.
type Resolved struct {
	DistanceMeters *float64
	ZoneName       *string
}

// Failed records why the lookup of an address did not complete.
type Failed struct {
	Message string
}

// Unavailable marks an address that was not provided.
type Unavailable struct{}

func (Resolved) isAnalysisOutcome()    {}
func (Failed) isAnalysisOutcome()      {}
func (Unavailable) isAnalysisOutcome() {}

// AddressAnalysis is the per-address entry of the assessment detail.
type AddressAnalysis struct {
	Kind    AddressKind
	Address string
	Outcome AnalysisOutcome
}

// AssessmentDetail is the persisted explanation of the equity-zone check.
type AssessmentDetail struct {
	Addresses   []AddressAnalysis `json:"adresses_analysees"`
	FinalStatus QPVStatus         `json:"statut_qpv_final"`
}

type lookupAnswerJSON struct {
	DistanceMeters *float64 `json:"distance_m"`
	ZoneName       *string  `json:"nom_qp"`
}

type addressAnalysisJSON struct {
	Type          AddressKind       `json:"type"`
	Address       string            `json:"adresse"`
	Result        *lookupAnswerJSON `json:"resultat,omitempty"`
	Error         *string           `json:"erreur,omitempty"`
	NotApplicable bool              `json:"non_disponible,omitempty"`
}

func (a AddressAnalysis) MarshalJSON() ([]byte, error) {
	out := addressAnalysisJSON{Type: a.Kind, Address: a.Address}
	switch o := a.Outcome.(type) {
	case Resolved:
		out.Result = &lookupAnswerJSON{DistanceMeters: o.DistanceMeters, ZoneName: o.ZoneName}
	case Failed:
		msg := o.Message
		out.Error = &msg
	case Unavailable:
		out.Address = UnavailableAddress
		out.NotApplicable = true
	default:
		return nil, fmt.Errorf("address analysis for %q has no outcome", a.Kind)
	}
	return json.Marshal(out)
}

func (a *AddressAnalysis) UnmarshalJSON(data []byte) error {
	var in addressAnalysisJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	set := 0
	if in.Result != nil {
		set++
	}
	if in.Error != nil {
		set++
	}
	if in.NotApplicable {
		set++
	}
	if set != 1 {
		return fmt.Errorf("address analysis must carry exactly one of resultat, erreur, non_disponible")
	}

	a.Kind = in.Type
	a.Address = in.Address
	switch {
	case in.Result != nil:
		a.Outcome = Resolved{DistanceMeters: in.Result.DistanceMeters, ZoneName: in.Result.ZoneName}
	case in.Error != nil:
		a.Outcome = Failed{Message: *in.Error}
	default:
		a.Outcome = Unavailable{}
	}
	return nil
}

const assessmentDetailSchema = `{
  "type": "object",
  "required": ["adresses_analysees", "statut_qpv_final"],
  "properties": {
    "statut_qpv_final": {"type": "string", "enum": ["QPV", "NON_QPV"]},
    "adresses_analysees": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "adresse"],
        "properties": {
          "type": {"type": "string", "enum": ["personnelle", "entreprise"]},
          "adresse": {"type": "string"},
          "resultat": {
            "type": "object",
            "required": ["distance_m", "nom_qp"],
            "properties": {
              "distance_m": {"type": ["number", "null"]},
              "nom_qp": {"type": ["string", "null"]}
            }
          },
          "erreur": {"type": "string"},
          "non_disponible": {"type": "boolean", "enum": [true]}
        },
        "oneOf": [
          {"required": ["resultat"]},
          {"required": ["erreur"]},
          {"required": ["non_disponible"]}
        ]
      }
    }
  }
}`

var detailSchema = validation.MustCompile("assessment-detail", assessmentDetailSchema)

// ParseAssessmentDetail validates a stored payload against its schema before decoding it.
func ParseAssessmentDetail(raw []byte) (*AssessmentDetail, error) {
	if err := detailSchema.Validate(raw); err != nil {
		return nil, err
	}
	var d AssessmentDetail
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode assessment detail: %w", err)
	}
	return &d, nil
}
