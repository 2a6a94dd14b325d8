package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"coaching-workers/internal/common/geo"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/eligibility"
	"coaching-workers/internal/equity"
	"coaching-workers/internal/models"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one candidate against a live equity-zone lookup",
	Long:  "Score resolves the personal and company addresses against the geocoding service and applies the revenue and tenure thresholds given as flags.",
	RunE:  runScore,
}

var (
	scoreGeoURL          string
	scoreGeoKey          string
	scorePersonalAddress string
	scoreCompanyAddress  string
	scoreRevenue         string
	scoreTenure          int
	scoreRevenueMin      float64
	scoreRevenueMax      float64
	scoreMinTenure       int
	scoreThreshold       float64
	scoreTimeout         time.Duration
	scoreVerbose         bool
)

func init() {
	scoreCmd.Flags().StringVar(&scoreGeoURL, "geo-url", "", "Geocoding service base URL (overrides GEO_BASE_URL env var)")
	scoreCmd.Flags().StringVar(&scoreGeoKey, "geo-key", "", "Geocoding API key (overrides GEO_API_KEY env var)")
	scoreCmd.Flags().StringVar(&scorePersonalAddress, "personal-address", "", "Candidate personal address")
	scoreCmd.Flags().StringVar(&scoreCompanyAddress, "company-address", "", "Company address")
	scoreCmd.Flags().StringVar(&scoreRevenue, "revenue", "", "Declared revenue interval, e.g. \"10 000 - 50 000\"")
	scoreCmd.Flags().IntVar(&scoreTenure, "tenure", 0, "Company tenure in whole years")
	scoreCmd.Flags().Float64Var(&scoreRevenueMin, "revenue-min", 0, "Program minimum revenue")
	scoreCmd.Flags().Float64Var(&scoreRevenueMax, "revenue-max", 0, "Program maximum revenue")
	scoreCmd.Flags().IntVar(&scoreMinTenure, "min-tenure", 0, "Program minimum tenure in years")
	scoreCmd.Flags().Float64Var(&scoreThreshold, "threshold", 200, "Adjacency threshold in meters")
	scoreCmd.Flags().DurationVar(&scoreTimeout, "timeout", 10*time.Second, "Per-address lookup timeout")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Log lookups to stderr")

	rootCmd.AddCommand(scoreCmd)
}

type scoreOutput struct {
	Verdict         models.Verdict            `json:"verdict"`
	RevenueOK       bool                      `json:"revenueOk"`
	EquityZoneOK    bool                      `json:"equityZoneOk"`
	TenureOK        bool                      `json:"tenureOk"`
	ZoneStatus      models.ZoneStatus         `json:"zoneStatus"`
	DeclaredRevenue *eligibility.RevenueRange `json:"declaredRevenue,omitempty"`
	Detail          models.AssessmentDetail   `json:"detail"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	geoURL := scoreGeoURL
	if geoURL == "" {
		geoURL = os.Getenv("GEO_BASE_URL")
	}
	if geoURL == "" {
		return fmt.Errorf("geocoding URL is required (set GEO_BASE_URL environment variable or use --geo-url flag)")
	}
	geoKey := scoreGeoKey
	if geoKey == "" {
		geoKey = os.Getenv("GEO_API_KEY")
	}

	in := eligibility.Input{
		PersonalAddress: scorePersonalAddress,
		CompanyAddress:  scoreCompanyAddress,
		RevenueInterval: scoreRevenue,
	}
	flags := cmd.Flags()
	if flags.Changed("tenure") {
		in.TenureYears = &scoreTenure
	}
	if flags.Changed("revenue-min") {
		in.Thresholds.RevenueMin = &scoreRevenueMin
	}
	if flags.Changed("revenue-max") {
		in.Thresholds.RevenueMax = &scoreRevenueMax
	}
	if flags.Changed("min-tenure") {
		in.Thresholds.MinTenureYears = &scoreMinTenure
	}

	log := logger.NewNoOpLogger()
	if scoreVerbose {
		log = logger.NewStructured("debug", "console")
	}

	resolver := equity.NewResolver(geo.NewClient(geoURL, geoKey, scoreTimeout), scoreThreshold, scoreTimeout, log)
	res, err := eligibility.NewEvaluator(resolver, log).Evaluate(context.Background(), in)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	out, err := json.MarshalIndent(scoreOutput{
		Verdict:         res.Verdict,
		RevenueOK:       res.RevenueOK,
		EquityZoneOK:    res.EquityZoneOK,
		TenureOK:        res.TenureOK,
		ZoneStatus:      res.ZoneStatus,
		DeclaredRevenue: res.DeclaredRevenue,
		Detail:          res.Detail,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
