package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"TrueArk/internal/domain/models"
	"TrueArk/internal/service/swisseph"
	"TrueArk/internal/usecase"
	applogger "TrueArk/pkg/logger"
)

func computeCmd() *cobra.Command {
	var (
		datetime string
		lat      float64
		lon      float64
		jsonIn   string
		pretty   bool
		requireS bool
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a natal chart and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &models.ChartRequest{
				HouseSystem: "W",
				Zodiac:      "tropical",
			}
			switch {
			case jsonIn != "":
				if err := json.Unmarshal([]byte(jsonIn), req); err != nil {
					return usageError{fmt.Errorf("parse --json: %w", err)}
				}
			case datetime != "":
				req.DatetimeUTC = datetime
				req.Latitude = lat
				req.Longitude = lon
			default:
				return usageError{fmt.Errorf("either --datetime or --json is required")}
			}
			if req.HouseSystem == "" {
				req.HouseSystem = "W"
			}
			if req.Zodiac == "" {
				req.Zodiac = "tropical"
			}

			l, err := applogger.New(&applogger.Config{Level: "warn", Format: "console", Output: "stderr"})
			if err != nil {
				return err
			}

			eph, err := swisseph.New(ephemerisPath, requireS, l, nil)
			if err != nil {
				return err
			}
			defer eph.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			res, err := usecase.NewChartComputer(eph, nil).Compute(ctx, req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(res)
		},
	}

	cmd.Flags().StringVar(&datetime, "datetime", "", "UTC instant, RFC 3339 (e.g. 1977-09-05T17:24:00Z)")
	cmd.Flags().Float64Var(&lat, "lat", 0, "geographic latitude in decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "geographic longitude in decimal degrees")
	cmd.Flags().StringVar(&jsonIn, "json", "", "full request as a JSON object (overrides other input flags)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.Flags().BoolVar(&requireS, "require-swiss", false, "fail when precision data files are absent")

	return cmd
}

// usageError marks caller mistakes detected before computation.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func exitCodeFor(err error) int {
	var ue usageError
	switch {
	case errors.As(err, &ue):
		return exitUsage
	case models.IsValidation(err):
		return exitValidation
	case models.IsEphemeris(err), models.IsCalculation(err):
		return exitEphemeris
	default:
		return exitUnexpected
	}
}
