// Command ballistics is a thin demonstration harness over the
// goballistics engine/search layers, grounded on spatialmodel-inmap's
// inmaputil/cmd.go cobra wiring and cmd/inmapweb/main.go logrus setup.
// It reads an already-canonical-unit shot description (JSON or YAML)
// and drives engine.Engine / search through a handful of subcommands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/cprevallet/goballistics/atmosphere"
	"github.com/cprevallet/goballistics/config"
	"github.com/cprevallet/goballistics/dragcurve"
	"github.com/cprevallet/goballistics/engine"
	"github.com/cprevallet/goballistics/integrator"
	"github.com/cprevallet/goballistics/search"
	"github.com/cprevallet/goballistics/shotprops"
	"github.com/cprevallet/goballistics/trajectory"
	"github.com/cprevallet/goballistics/windsock"
)

var log = logrus.StandardLogger()

// shotFile is the on-disk shot description: canonical imperial units
// throughout, per SPEC_FULL.md section A.5 -- no unit conversion
// happens at this layer.
type shotFile struct {
	BC                 float64          `json:"bc" yaml:"bc"`
	WeightGrains       float64          `json:"weight_grains" yaml:"weight_grains"`
	DiameterIn         float64          `json:"diameter_in" yaml:"diameter_in"`
	LengthIn           float64          `json:"length_in" yaml:"length_in"`
	MuzzleVelocityFps  float64          `json:"muzzle_velocity_fps" yaml:"muzzle_velocity_fps"`
	SightHeightFt      float64          `json:"sight_height_ft" yaml:"sight_height_ft"`
	TwistInches        float64          `json:"twist_in" yaml:"twist_in"`
	LookAngleRad       float64          `json:"look_angle_rad" yaml:"look_angle_rad"`
	BarrelElevationRad float64          `json:"barrel_elevation_rad" yaml:"barrel_elevation_rad"`
	BarrelAzimuthRad   float64          `json:"barrel_azimuth_rad" yaml:"barrel_azimuth_rad"`
	CalcStep           float64          `json:"calc_step" yaml:"calc_step"`
	Alt0Ft             float64          `json:"altitude_ft" yaml:"altitude_ft"`
	DragTable          []dragcurve.Knot `json:"drag_table" yaml:"drag_table"`
	Atmosphere         struct {
		TempDegF     float64 `json:"temp_deg_f" yaml:"temp_deg_f"`
		PressureInHg float64 `json:"pressure_inhg" yaml:"pressure_inhg"`
	} `json:"atmosphere" yaml:"atmosphere"`
	Wind []windsock.Segment `json:"wind" yaml:"wind"`
}

func loadShot(path string) (*shotprops.ShotProps, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading shot file: %w", err)
	}

	var sf shotFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &sf)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &sf)
	default:
		return nil, fmt.Errorf("unrecognized shot file extension %q (want .json, .yaml, or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing shot file: %w", err)
	}

	curve, err := dragcurve.New(sf.DragTable)
	if err != nil {
		return nil, fmt.Errorf("building drag curve: %w", err)
	}

	atmo := atmosphere.Standard()
	if sf.Atmosphere.PressureInHg > 0 {
		atmo, err = atmosphere.New(sf.Atmosphere.TempDegF, sf.Alt0Ft, sf.Atmosphere.PressureInHg)
		if err != nil {
			return nil, fmt.Errorf("building atmosphere: %w", err)
		}
	}

	calcStep := sf.CalcStep
	if calcStep <= 0 {
		calcStep = 0.5
	}

	shot := &shotprops.ShotProps{
		BC:                 sf.BC,
		WeightGrains:       sf.WeightGrains,
		DiameterIn:         sf.DiameterIn,
		LengthIn:           sf.LengthIn,
		MuzzleVelocityFps:  sf.MuzzleVelocityFps,
		SightHeightFt:      sf.SightHeightFt,
		TwistInches:        sf.TwistInches,
		LookAngleRad:       sf.LookAngleRad,
		BarrelElevationRad: sf.BarrelElevationRad,
		BarrelAzimuthRad:   sf.BarrelAzimuthRad,
		CalcStep:           calcStep,
		Alt0Ft:             sf.Alt0Ft,
		Drag:               curve,
		Atmo:               atmo,
		Wind:               windsock.New(sf.Wind),
	}
	return shot, shot.Validate()
}

func newEngine(shotPath string) (*engine.Engine, error) {
	shot, err := loadShot(shotPath)
	if err != nil {
		return nil, err
	}
	return engine.New(config.Default(), shot, integrator.RK4)
}

func printRow(r trajectory.TrajectoryData) {
	fmt.Printf("t=%8.3fs  x=%9.2fft  y=%9.2fft  z=%9.2fft  v=%8.2ffps  mach=%5.2f  flag=%#x\n",
		r.Time, r.PX, r.PY, r.PZ, r.VelocityFps, r.Mach, uint32(r.Flag))
}

func main() {
	var shotPath string

	root := &cobra.Command{
		Use:   "ballistics",
		Short: "Point-mass exterior ballistics trajectory calculator",
	}
	root.PersistentFlags().StringVar(&shotPath, "shot", "", "path to a shot description (.json/.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", root.PersistentFlags().Lookup("log-level"))

	cobra.OnInitialize(func() {
		if lvl, err := logrus.ParseLevel(viper.GetString("log-level")); err == nil {
			log.SetLevel(lvl)
		}
	})

	rangeCmd := &cobra.Command{
		Use:   "range [range-limit-ft] [range-step-ft]",
		Short: "Integrate and print a range card",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(shotPath)
			if err != nil {
				return err
			}
			rangeLimit, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parsing range-limit-ft: %w", err)
			}
			rangeStep := rangeLimit / 10
			if len(args) > 1 {
				if rangeStep, err = strconv.ParseFloat(args[1], 64); err != nil {
					return fmt.Errorf("parsing range-step-ft: %w", err)
				}
			}
			hit, err := e.Integrate(rangeLimit, rangeStep, 0, trajectory.FlagNone, false)
			if err != nil {
				log.WithError(err).Error("integration failed")
				return err
			}
			for _, r := range hit.Rows {
				printRow(r)
			}
			return nil
		},
	}

	zeroCmd := &cobra.Command{
		Use:   "zero [target-distance-ft]",
		Short: "Solve for the barrel elevation that zeros at the given distance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(shotPath)
			if err != nil {
				return err
			}
			target, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parsing target-distance-ft: %w", err)
			}
			angle, err := search.ZeroAngle(e, target)
			if err != nil {
				log.WithError(err).Error("zero search failed")
				return err
			}
			fmt.Printf("zero elevation: %.6f rad (%.4f deg)\n", angle, angle*180/3.14159265358979)
			return nil
		},
	}

	maxRangeCmd := &cobra.Command{
		Use:   "maxrange",
		Short: "Find the elevation angle that maximizes range",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(shotPath)
			if err != nil {
				return err
			}
			row, err := search.FindMaxRange(e)
			if err != nil {
				log.WithError(err).Error("max-range search failed")
				return err
			}
			printRow(row)
			return nil
		},
	}

	apexCmd := &cobra.Command{
		Use:   "apex",
		Short: "Find the trajectory's highest point",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(shotPath)
			if err != nil {
				return err
			}
			row, err := search.FindApex(e)
			if err != nil {
				log.WithError(err).Error("apex search failed")
				return err
			}
			printRow(row)
			return nil
		},
	}

	root.AddCommand(rangeCmd, zeroCmd, maxRangeCmd, apexCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
