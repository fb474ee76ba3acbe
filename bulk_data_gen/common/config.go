// Simulator configuration files, in TOML or YAML, read from disk or over
// HTTP. Every key is optional; command line flags override file values.

package common

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
	"gopkg.in/yaml.v3"
)

type SimulationConfig struct {
	Start     *string  `toml:"start" yaml:"start"`
	Days      *int     `toml:"days" yaml:"days"`
	Occupants *int     `toml:"occupants" yaml:"occupants"`
	CycleMs   *int     `toml:"cycle_ms" yaml:"cycle_ms"`
	TempBias  *float64 `toml:"temp_bias" yaml:"temp_bias"`
	FailRate  *float64 `toml:"fail_rate" yaml:"fail_rate"`
	Seed      *int64   `toml:"seed" yaml:"seed"`
}

type SensorConfig struct {
	Temperature   *int     `toml:"temperature" yaml:"temperature"`
	Door          *int     `toml:"door" yaml:"door"`
	Motion        *int     `toml:"motion" yaml:"motion"`
	Humidity      *int     `toml:"humidity" yaml:"humidity"`
	CO2           *int     `toml:"co2" yaml:"co2"`
	Smoke         *int     `toml:"smoke" yaml:"smoke"`
	PacketEncoded []string `toml:"packet_encoded" yaml:"packet_encoded"`
}

type ExternalConfig struct {
	Simulation SimulationConfig `toml:"simulation" yaml:"simulation"`
	Limits     DataLimits       `toml:"limits" yaml:"limits"`
	Sensors    SensorConfig     `toml:"sensors" yaml:"sensors"`
}

func (c *ExternalConfig) String() string {
	var b strings.Builder
	s := c.Simulation
	fmt.Fprintf(&b, "simulation: start=%s days=%s occupants=%s cycle_ms=%s temp_bias=%s fail_rate=%s seed=%s\n",
		show(s.Start), show(s.Days), show(s.Occupants), show(s.CycleMs), show(s.TempBias), show(s.FailRate), show(s.Seed))
	fmt.Fprintf(&b, "limits: temp=%d passive=%d text=%d binary=%d\n",
		c.Limits.TempBytes, c.Limits.PassiveBytes, c.Limits.TextBytes, c.Limits.BinaryBytes)
	n := c.Sensors
	fmt.Fprintf(&b, "sensors: t=%s d=%s m=%s h=%s c=%s s=%s packet_encoded=%v\n",
		show(n.Temperature), show(n.Door), show(n.Motion), show(n.Humidity), show(n.CO2), show(n.Smoke), n.PacketEncoded)
	return b.String()
}

func show[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%v", *v)
}

// NewConfig loads a configuration file. YAML is used for .yaml and .yml
// names, TOML otherwise.
func NewConfig(location string) (*ExternalConfig, error) {
	var data []byte
	var err error
	name := location
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		data, err = LoadURL(location)
		if u, perr := url.Parse(location); perr == nil {
			name = u.Path
		}
	} else {
		data, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("config loading failed: %v", err)
	}
	return ParseConfig(data, path.Ext(name))
}

// ParseConfig decodes configuration data; ext selects the format.
func ParseConfig(data []byte, ext string) (*ExternalConfig, error) {
	config := ExternalConfig{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, errors.Wrap(err, "config parsing failed")
		}
	default:
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, errors.Wrap(err, "config parsing failed")
		}
		if err := tree.Unmarshal(&config); err != nil {
			return nil, errors.Wrap(err, "config unmarshall failed")
		}
	}
	return &config, nil
}

// LoadURL fetches a configuration document.
func LoadURL(url string) ([]byte, error) {
	status, body, err := fasthttp.Get(nil, url)
	if err != nil {
		return nil, errors.Wrap(err, "config loading failed")
	}
	if status != fasthttp.StatusOK {
		return nil, fmt.Errorf("config loading failed: response status code is: %d", status)
	}
	return body, nil
}
