// Package sirene reads company records from the national business registry.
package sirene

import (
	"context"
	stderrors "errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/httpclient"
	"coaching-workers/internal/models"
)

const serviceName = "sirene"

var sirenPattern = regexp.MustCompile(`^\d{9}$`)

type Client struct {
	http *httpclient.Client
}

type unitResponse struct {
	SIREN        string `json:"siren"`
	LegalName    string `json:"nom_raison_sociale"`
	ActivityCode string `json:"activite_principale"`
	CreatedOn    string `json:"date_creation"`
	Headquarters struct {
		Address   string `json:"adresse"`
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"siege"`
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{http: httpclient.NewClient(strings.TrimRight(baseURL, "/"), timeout, headers)}
}

// NormalizeSIREN strips spaces and checks the nine-digit format.
func NormalizeSIREN(raw string) (string, error) {
	siren := strings.Join(strings.Fields(raw), "")
	if !sirenPattern.MatchString(siren) {
		return "", apperrors.NewValidationError("siren", "a SIREN has exactly 9 digits")
	}
	return siren, nil
}

// Lookup fetches the registry record of siren.
func (c *Client) Lookup(ctx context.Context, siren string) (*models.RegistryRecord, error) {
	siren, err := NormalizeSIREN(siren)
	if err != nil {
		return nil, err
	}

	var unit unitResponse
	if err := c.http.GetJSON(ctx, "/siren/"+siren, &unit); err != nil {
		var statusErr *httpclient.StatusError
		if stderrors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, apperrors.NewNotFoundError("company registration", siren)
		}
		return nil, apperrors.NewExternalUnavailableError(serviceName, err)
	}

	record := &models.RegistryRecord{
		SIREN:        siren,
		LegalName:    unit.LegalName,
		Address:      unit.Headquarters.Address,
		ActivityCode: unit.ActivityCode,
		Latitude:     parseCoordinate(unit.Headquarters.Latitude),
		Longitude:    parseCoordinate(unit.Headquarters.Longitude),
	}
	if founded, err := time.Parse("2006-01-02", unit.CreatedOn); err == nil {
		record.FoundedOn = &founded
	}
	return record, nil
}

func parseCoordinate(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
