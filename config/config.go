package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

// Config is the full planner configuration, loaded from <env>.yaml with
// environment-variable overrides.
type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	Depot DepotConfig `json:"depot" yaml:"depot"`

	Geo GeoConfig `json:"geo" yaml:"geo"`

	PMTiles PMTilesConfig `json:"pmtiles" yaml:"pmtiles"`

	Fleet FleetConfig `json:"fleet" yaml:"fleet"`

	Schedule ScheduleConfig `json:"schedule" yaml:"schedule"`

	Input InputConfig `json:"input" yaml:"input"`

	Output OutputConfig `json:"output" yaml:"output"`
}

// Log mirrors the teacher's logging config shape.
type Log struct {
	Pretty       bool          `json:"pretty" yaml:"pretty"`
	Level        string        `json:"level" yaml:"level"`
	Path         string        `json:"path" yaml:"path"`
	MaxAge       time.Duration `json:"maxAge" yaml:"maxAge"`
	RotationTime time.Duration `json:"rotationTime" yaml:"rotationTime"`
}

// DepotConfig locates the single fixed depot every tour starts/ends at.
type DepotConfig struct {
	Name string  `json:"name" yaml:"name"`
	Lat  float64 `json:"lat" yaml:"lat"`
	Lon  float64 `json:"lon" yaml:"lon"`
}

// GeoConfig configures the nearby-places region resolver.
type GeoConfig struct {
	OverpassURL string  `json:"overpassURL" yaml:"overpassURL"`
	RadiusKM    float64 `json:"radiusKM" yaml:"radiusKM"`
}

// PMTilesConfig configures road-graph tile acquisition.
type PMTilesConfig struct {
	Source     string `json:"source" yaml:"source"`
	RoadLayer  string `json:"roadLayer" yaml:"roadLayer"`
	Zoom       int    `json:"zoom" yaml:"zoom"`
	CacheTiles bool   `json:"cacheTiles" yaml:"cacheTiles"`
}

// FleetConfig configures the fleet partitioner.
type FleetConfig struct {
	VehicleCount int   `json:"vehicleCount" yaml:"vehicleCount"`
	Seed         int64 `json:"seed" yaml:"seed"`
}

// ScheduleConfig configures the schedule reifier.
type ScheduleConfig struct {
	StartOfDay      string `json:"startOfDay" yaml:"startOfDay"` // "HH:MM"
	ServiceTimeSeed int64  `json:"serviceTimeSeed" yaml:"serviceTimeSeed"`
	MinServiceMin   int    `json:"minServiceMin" yaml:"minServiceMin"`
	MaxServiceMin   int    `json:"maxServiceMin" yaml:"maxServiceMin"`
}

// InputConfig locates the delivery spreadsheet.
type InputConfig struct {
	SpreadsheetPath string `json:"spreadsheetPath" yaml:"spreadsheetPath"`
	SheetName       string `json:"sheetName" yaml:"sheetName"`
}

// OutputConfig locates the rendered HTML map.
type OutputConfig struct {
	MapPath string `json:"mapPath" yaml:"mapPath"`
}

// LoadWithEnv loads .yaml files through koanf, overlaying environment
// variables transformed from ENV_VAR_NAME into env.var.name dotted keys.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, fmt.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("read %s config failed: %w", currEnv, err)
	}

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			key := strings.ReplaceAll(strings.ToLower(k), "_", ".")

			return key, v
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load env variables failed: %w", err)
	}

	if err := koanfInstance.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal %s config failed: %w", currEnv, err)
	}

	return cfg, nil
}

// New loads the planner config for the "config" environment.
func New() (*Config, error) {
	return LoadWithEnv[Config]("config", "config", "../config", "../../config")
}
