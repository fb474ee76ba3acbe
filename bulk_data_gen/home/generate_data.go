package home

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/common"
	"github.com/homesim/home-monitoring-data-gen/util/statemanager"
	"github.com/pkg/errors"
)

// ErrNotBuilt is returned when a run needs sensors that were never built
// and building them was not allowed.
var ErrNotBuilt = errors.New("simulator is not built")

// RunTagLayout formats the wall clock time embedded in a run directory name.
// The fraction separator is written as '_' by RunTag.
const RunTagLayout = "2006-01-02T15_04_05.000000"

// RunTag renders t with microsecond resolution, e.g. 2024-06-15T13_45_10_123456.
func RunTag(t time.Time) string {
	return strings.Replace(t.Format(RunTagLayout), ".", "_", 1)
}

// SensorLayout is the number of default sensors of each kind.
type SensorLayout struct {
	Temperature int
	Door        int
	Motion      int
	Humidity    int
	CO2         int
	Smoke       int
}

func DefaultSensorLayout() SensorLayout {
	return SensorLayout{Temperature: 2, Door: 3, Motion: 3, Humidity: 1, CO2: 1, Smoke: 1}
}

// DefaultPacketEncoded lists the temperature sensors that transmit four
// binary packets per reading.
var DefaultPacketEncoded = []string{"t2"}

// Type HomeSimulatorConfig is used to create a HomeSimulator.
type HomeSimulatorConfig struct {
	Start      time.Time
	Days       int
	Occupants  int
	CycleLenMs int64
	TempBias   float64
	FailRate   float64

	Limits        common.DataLimits
	Layout        SensorLayout
	PacketEncoded []string
	Smoke         SmokeDetectorParams

	Seed   int64
	Rand   *rand.Rand
	Logger *slog.Logger
}

// DefaultHomeSimulatorConfig returns the configuration used when nothing
// is overridden.
func DefaultHomeSimulatorConfig() HomeSimulatorConfig {
	start, _ := time.Parse(TempDateLayout, common.DefaultStartDate)
	return HomeSimulatorConfig{
		Start:         start,
		Days:          common.DefaultDays,
		Occupants:     common.DefaultOccupants,
		CycleLenMs:    common.DefaultCycleLenMs,
		TempBias:      common.DefaultTempBias,
		FailRate:      common.DefaultFailRate,
		Limits:        common.DefaultDataLimits(),
		Layout:        DefaultSensorLayout(),
		PacketEncoded: DefaultPacketEncoded,
		Smoke:         DefaultSmokeDetectorParams(),
	}
}

func (c *HomeSimulatorConfig) ToSimulator() *HomeSimulator {
	cfg := *c
	if cfg.CycleLenMs < 1 {
		cfg.CycleLenMs = 1
	}
	cfg.Limits = cfg.Limits.WithDefaults()
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = common.NewRand(cfg.Seed)
	}
	packetEncoded := make(map[string]bool, len(cfg.PacketEncoded))
	for _, id := range cfg.PacketEncoded {
		packetEncoded[id] = true
	}

	s := &HomeSimulator{
		config:        cfg,
		rng:           rng,
		logger:        cfg.Logger,
		state:         statemanager.New(),
		registry:      NewRegistry(),
		packetEncoded: packetEncoded,
		temp:          common.NewTable(TempColumns...),
		passive:       common.NewTable(PassiveColumns...),
		text:          common.NewTextBuffer(),
		binary:        common.NewBinaryBuffer(),
		now:           cfg.Start,
	}
	s.flusher = common.NewFlusher(s.logger,
		common.NewStream(TempDataTag, common.TableFileExt, s.temp, cfg.Limits.TempBytes),
		common.NewStream(DoorMotionDataTag, common.TableFileExt, s.passive, cfg.Limits.PassiveBytes),
		common.NewStream(CO2HumidityDataTag, common.TextFileExt, s.text, cfg.Limits.TextBytes),
		common.NewStream(SmokeDataTag, common.BinaryFileExt, s.binary, cfg.Limits.BinaryBytes),
	)
	return s
}

// A HomeSimulator generates the sensor data of one monitored home. It owns
// its sensors and buffers; a simulator must not be shared between runs
// executing at the same time.
type HomeSimulator struct {
	config HomeSimulatorConfig
	rng    *rand.Rand
	logger *slog.Logger
	state  *statemanager.Manager

	registry      *Registry
	packetEncoded map[string]bool

	temp    *common.Table
	passive *common.Table
	text    *common.TextBuffer
	binary  *common.BinaryBuffer
	flusher *common.Flusher

	now        time.Time
	checkEvery int64
}

func (s *HomeSimulator) Config() HomeSimulatorConfig {
	return s.config
}

// Rand is the random source shared by the default sensors.
func (s *HomeSimulator) Rand() *rand.Rand {
	return s.rng
}

// Registry exposes the sensors, e.g. to replace some before CustomBuild.
func (s *HomeSimulator) Registry() *Registry {
	return s.registry
}

func (s *HomeSimulator) State() statemanager.State {
	return s.state.State()
}

// Now is the current simulated time.
func (s *HomeSimulator) Now() time.Time {
	return s.now
}

// TotalCycles is the number of cycles of a full run.
func (s *HomeSimulator) TotalCycles() int64 {
	return int64(s.config.Days) * common.MillisPerDay / s.config.CycleLenMs
}

// Build creates the default sensors and clears all per-run state. It does
// nothing if the simulator is already built, unless forced.
func (s *HomeSimulator) Build(force bool) error {
	if s.state.Built() && !force {
		return nil
	}
	s.now = s.config.Start
	s.flusher.Prepare("", "")
	s.registry = NewRegistry()

	cfg := s.config
	pings := PingsPerCycle(cfg.CycleLenMs)
	groups := []struct {
		kind      Kind
		n         int
		newSensor func(i int) Sensor
	}{
		{KindTemperature, cfg.Layout.Temperature, func(i int) Sensor {
			// odd numbered thermometers face west, even ones east
			sunlight := SunlightState(s.now.Hour(), i%2 == 0)
			return NewTemperatureSensor(s.rng, cfg.FailRate, StartTempF, sunlight, cfg.TempBias)
		}},
		{KindDoor, cfg.Layout.Door, func(int) Sensor { return NewPassiveSensor(s.rng, pings, StyleDoor) }},
		{KindMotion, cfg.Layout.Motion, func(int) Sensor { return NewPassiveSensor(s.rng, pings, StyleMotion) }},
		{KindHumidity, cfg.Layout.Humidity, func(int) Sensor {
			return NewHumiditySensor(s.rng, HumidityCycleDelay, HumidityMean, HumidityStdDev)
		}},
		{KindCO2, cfg.Layout.CO2, func(int) Sensor {
			return NewCO2Sensor(s.rng, CO2CycleDelay, cfg.Occupants, CO2MeanPpm, CO2StdDevPpm)
		}},
		{KindSmoke, cfg.Layout.Smoke, func(int) Sensor { return NewSmokeDetector(s.rng, cfg.CycleLenMs, cfg.Smoke) }},
	}
	for _, g := range groups {
		for i := 1; i <= g.n; i++ {
			if err := s.registry.Set(SensorId(g.kind, i), g.newSensor(i)); err != nil {
				return err
			}
		}
	}
	s.logger.Debug("built sensors", "sensors", s.registry.Len())
	return s.state.Transition(statemanager.Built)
}

// CustomBuild marks the simulator built around a registry populated by the
// caller. Nothing is checked.
func (s *HomeSimulator) CustomBuild() error {
	return s.state.Transition(statemanager.Built)
}

type RunOptions struct {
	// Name prefixes the run directory and every output file.
	Name string
	// OutputDir is where the run directory is created. Empty runs the
	// simulation without writing anything.
	OutputDir string
	// Reset rebuilds the default sensors before running.
	Reset bool
	// NoBuild refuses to build sensors that were never built.
	NoBuild bool
}

type StreamSummary struct {
	Tag     string
	Records int64
	Bytes   int64
	Files   []string
}

// RunSummary describes a finished run.
type RunSummary struct {
	Name            string
	Dir             string
	Start           time.Time
	End             time.Time
	Cycles          int64
	Sensors         int
	Elapsed         time.Duration
	Streams         []StreamSummary
	DryRun          bool
	FlushCheckEvery int64
}

// Start runs the whole simulation and writes its output under a new run
// directory.
func (s *HomeSimulator) Start(opts RunOptions) (*RunSummary, error) {
	if !s.state.Built() && opts.NoBuild {
		return nil, ErrNotBuilt
	}
	if err := s.Build(opts.Reset); err != nil {
		return nil, err
	}
	if opts.Name == "" {
		opts.Name = "home"
	}
	s.now = s.config.Start

	var dir string
	if opts.OutputDir != "" {
		dir = filepath.Join(opts.OutputDir, opts.Name+"_"+RunTag(time.Now()))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create run directory %s", dir)
		}
	}
	s.flusher.Prepare(dir, opts.Name)
	s.checkEvery = s.flushCadence()

	if err := s.state.Transition(statemanager.Running); err != nil {
		return nil, err
	}
	cycles := s.TotalCycles()
	s.logger.Info("starting simulation", "name", opts.Name, "dir", dir, "cycles", cycles,
		"sensors", s.registry.Len(), "flush_check_every", s.checkEvery)
	began := time.Now()
	runErr := s.run(cycles)
	if err := s.state.Transition(statemanager.Finished); err != nil {
		return nil, err
	}
	if runErr != nil {
		return nil, runErr
	}

	summary := &RunSummary{
		Name:            opts.Name,
		Dir:             dir,
		Start:           s.config.Start,
		End:             s.now,
		Cycles:          cycles,
		Sensors:         s.registry.Len(),
		Elapsed:         time.Since(began),
		DryRun:          s.flusher.NoWrite(),
		FlushCheckEvery: s.checkEvery,
	}
	for _, st := range s.flusher.Streams {
		summary.Streams = append(summary.Streams, StreamSummary{
			Tag: st.Tag, Records: st.Records(), Bytes: st.Bytes(), Files: st.Files(),
		})
	}
	s.logger.Info("simulation finished", "cycles", cycles, "elapsed", summary.Elapsed)
	return summary, nil
}

// flushCadence is how many cycles pass between flush checks: half the
// cycles the smallest limit can absorb at the peak output rate.
func (s *HomeSimulator) flushCadence() int64 {
	peak := peakBytesPerCycle(s.registry, s.packetEncoded)
	if peak == 0 {
		return 1
	}
	n := s.config.Limits.Min() / peak / 2
	if n < 1 {
		return 1
	}
	return n
}

func (s *HomeSimulator) run(cycles int64) error {
	if s.checkEvery < 1 {
		s.checkEvery = 1
	}
	progressEvery := cycles / 10
	debug := s.logger.Enabled(context.Background(), slog.LevelDebug)
	for i := int64(0); i < cycles; i++ {
		if debug {
			s.logger.Debug("cycle", "cycle", i, "time", s.now)
		}
		s.advance()
		if i%s.checkEvery == 0 {
			if err := s.flusher.Check(); err != nil {
				return err
			}
		}
		for _, e := range s.registry.Entries() {
			s.process(e, i)
		}
		if progressEvery > 0 && (i+1)%progressEvery == 0 {
			s.logger.Info("progress", "cycle", i+1, "of", cycles, "time", s.now)
		}
	}
	return s.flusher.FlushAll()
}

// advance moves the clock one cycle and warms or cools the thermometers
// when the sun rises or sets.
func (s *HomeSimulator) advance() {
	wasNight := IsNight(s.now.Hour())
	s.now = s.now.Add(time.Duration(s.config.CycleLenMs) * time.Millisecond)
	night := IsNight(s.now.Hour())
	if wasNight == night {
		return
	}
	for _, e := range s.registry.Entries() {
		if e.Kind != KindTemperature {
			continue
		}
		th := e.Sensor.(Thermometer)
		if night {
			th.NightCycle()
		} else {
			th.DayCycle()
		}
	}
}

func (s *HomeSimulator) process(e *Entry, cycle int64) {
	switch e.Kind {
	case KindTemperature:
		temp := e.Sensor.(Thermometer).Sample(s.config.CycleLenMs)
		encodeTemperature(s.temp, s.now, e.Id, temp, s.packetEncoded[e.Id])
	case KindDoor, KindMotion:
		p := e.Sensor.(PassiveSampler)
		kappa := Kappa(p.Style(), IsNight(s.now.Hour()), s.config.Occupants)
		encodePassive(s.passive, s.now, e.Id, p.Sample(kappa))
	case KindHumidity:
		if v := e.Sensor.(HumiditySampler).Sample(cycle); v != HumidityNoReading {
			encodeHumidity(s.text, s.now, v)
		}
	case KindCO2:
		if v := e.Sensor.(CO2Sampler).Sample(cycle); v != CO2NoReading {
			encodeCO2(s.text, v)
		}
	case KindSmoke:
		encodeSmoke(s.binary, s.now, e.Sensor.(SmokeSampler).Sample())
	}
}
