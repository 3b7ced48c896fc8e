package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/fishcast/internal/fishcast"
)

var (
	flagLat       float64
	flagLon       float64
	flagAt        string
	flagSpecies   string
	flagWaterTemp string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Print the fishing score for a location and time",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkCoordinate(); err != nil {
			return err
		}
		at := time.Time{}
		if flagAt != "" {
			parsed, err := time.Parse(time.RFC3339, flagAt)
			if err != nil {
				return fmt.Errorf("--at: %w", err)
			}
			at = parsed
		}
		var waterTemp *float64
		if flagWaterTemp != "" {
			v, err := strconv.ParseFloat(flagWaterTemp, 64)
			if err != nil {
				return fmt.Errorf("--water-temp: %w", err)
			}
			waterTemp = &v
		}
		if flagSpecies != "" {
			if _, ok := fishcast.LookupSpecies(flagSpecies); !ok {
				return fmt.Errorf("unknown species %q", flagSpecies)
			}
		}

		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		service, closer, err := newService(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer closer.Close()

		result := service.CalculateFishCast(cmd.Context(), flagLat, flagLon, at)
		if flagSpecies != "" {
			result = service.AdjustScoreForSpecies(result, flagSpecies, waterTemp)
		}
		return printJSON(result)
	},
}

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Print the 7-day outlook for a location",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkCoordinate(); err != nil {
			return err
		}
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		service, closer, err := newService(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer closer.Close()

		days, err := service.Calculate7DayOutlook(cmd.Context(), flagLat, flagLon)
		if err != nil {
			return err
		}
		return printJSON(days)
	},
}

var speciesCmd = &cobra.Command{
	Use:   "species",
	Short: "List supported species",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, s := range fishcast.Species {
			fmt.Printf("%-16s %-16s %4.0f-%-4.0f°C\n", s.Key, s.Name, s.IdealWaterTemp.Min, s.IdealWaterTemp.Max)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{scoreCmd, outlookCmd} {
		c.Flags().Float64Var(&flagLat, "lat", 0, "latitude in decimal degrees")
		c.Flags().Float64Var(&flagLon, "lon", 0, "longitude in decimal degrees")
		c.MarkFlagRequired("lat")
		c.MarkFlagRequired("lon")
	}
	scoreCmd.Flags().StringVar(&flagAt, "at", "", "instant to score (RFC3339, default now)")
	scoreCmd.Flags().StringVar(&flagSpecies, "species", "", "adjust the score for a species")
	scoreCmd.Flags().StringVar(&flagWaterTemp, "water-temp", "", "water temperature in °C")
}

func checkCoordinate() error {
	if flagLat < -90 || flagLat > 90 || flagLon < -180 || flagLon > 180 {
		return errors.New("lat must be within [-90,90] and lon within [-180,180]")
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
