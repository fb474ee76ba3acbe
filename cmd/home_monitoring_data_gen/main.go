// home_monitoring_data_gen simulates the sensors of a monitored home and
// writes their readings to a run directory.
//
// Output streams:
// temperature readings, parquet
// door and motion voltages, parquet
// humidity and CO2 lines, pickled string
// smoke detector events, fixed-width binary records
//
// With -estimate nothing is written; the run time of the full simulation
// is extrapolated from a few short timed runs instead.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/common"
	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/home"
	"github.com/homesim/home-monitoring-data-gen/util/report"
	"github.com/homesim/home-monitoring-data-gen/util/scrub"
	"github.com/lmittmann/tint"
	"github.com/pkg/profile"
)

// Program option vars:
var (
	name       string
	startStr   string
	days       int
	occupants  int
	cycleMs    int
	tempBias   float64
	failRate   float64
	outDir     string
	configFile string
	seed       int64

	estimate   bool
	multiplier float64

	limits common.DataLimits

	quiet bool
	debug bool

	cpuProfile string
	memProfile string

	reportHost     string
	reportDatabase string
	reportUser     string
	reportPassword string
	reportGzip     bool
)

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Parse args:
func init() {
	flag.StringVar(&name, "name", "home", "Name of the run; prefixes the run directory and every file.")
	flag.StringVar(&startStr, "start", common.DefaultStartDate, "Simulated start date (ISO 8601).")
	flag.IntVar(&days, "days", common.DefaultDays, "Number of simulated days.")
	flag.IntVar(&occupants, "occupants", common.DefaultOccupants, "Number of people living in the home.")
	flag.IntVar(&cycleMs, "cycle", common.DefaultCycleLenMs, "Simulated milliseconds per cycle.")
	flag.Float64Var(&tempBias, "bias", common.DefaultTempBias, "Degrees F added at sunrise and removed at sunset.")
	flag.Float64Var(&failRate, "fail", common.DefaultFailRate, "Probability of a failed temperature reading, in [0, 1).")
	flag.StringVar(&outDir, "outdir", ".", "Directory the run directory is created in. Empty writes nothing.")
	flag.StringVar(&configFile, "config-file", "", "Simulator config file in TOML or YAML format, local path or URL.")
	flag.Int64Var(&seed, "seed", 0, "PRNG seed (default, or 0, uses the current timestamp).")

	flag.BoolVar(&estimate, "estimate", false, "Estimate the run time instead of running.")
	flag.Float64Var(&multiplier, "multiplier", common.DefaultMultiplier, "Safety factor applied to the estimate.")

	flag.Int64Var(&limits.TempBytes, "temp-limit", common.MaxTableSize, "Bytes of temperature data per file.")
	flag.Int64Var(&limits.PassiveBytes, "passive-limit", common.MaxTableSize, "Bytes of door and motion data per file.")
	flag.Int64Var(&limits.TextBytes, "text-limit", common.MaxStringSize, "Bytes of humidity and CO2 data per file.")
	flag.Int64Var(&limits.BinaryBytes, "binary-limit", common.MaxArraySize, "Bytes of smoke detector data per file.")

	flag.BoolVar(&quiet, "quiet", false, "Only log warnings and errors.")
	flag.BoolVar(&debug, "debug", false, "Log every cycle and every flush.")

	flag.StringVar(&cpuProfile, "cpu-profile", "", "Write CPU profile into `dir`")
	flag.StringVar(&memProfile, "mem-profile", "", "Write memory profile into `dir`")

	flag.StringVar(&reportHost, "report-host", "", "Host to send the run report to, e.g. http://localhost:8086")
	flag.StringVar(&reportDatabase, "report-db", "home_monitoring", "Database to send the run report to.")
	flag.StringVar(&reportUser, "report-user", "", "User for the report host.")
	flag.StringVar(&reportPassword, "report-password", "", "Password for the report host.")
	flag.BoolVar(&reportGzip, "report-gzip", true, "Compress the report upload.")

	flag.Parse()
}

func timeTrack(logger *slog.Logger, start time.Time, name string) {
	logger.Info(name+" finished", "took", time.Since(start))
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelWarn
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level, TimeFormat: time.TimeOnly}))
}

// applyConfig copies the values of the config file that were not given on
// the command line.
func applyConfig(c *common.ExternalConfig, layout *home.SensorLayout, packetEncoded *[]string) {
	s := c.Simulation
	if s.Start != nil && !isFlagPassed("start") {
		startStr = *s.Start
	}
	if s.Days != nil && !isFlagPassed("days") {
		days = *s.Days
	}
	if s.Occupants != nil && !isFlagPassed("occupants") {
		occupants = *s.Occupants
	}
	if s.CycleMs != nil && !isFlagPassed("cycle") {
		cycleMs = *s.CycleMs
	}
	if s.TempBias != nil && !isFlagPassed("bias") {
		tempBias = *s.TempBias
	}
	if s.FailRate != nil && !isFlagPassed("fail") {
		failRate = *s.FailRate
	}
	if s.Seed != nil && !isFlagPassed("seed") {
		seed = *s.Seed
	}

	l := c.Limits
	if l.TempBytes > 0 && !isFlagPassed("temp-limit") {
		limits.TempBytes = l.TempBytes
	}
	if l.PassiveBytes > 0 && !isFlagPassed("passive-limit") {
		limits.PassiveBytes = l.PassiveBytes
	}
	if l.TextBytes > 0 && !isFlagPassed("text-limit") {
		limits.TextBytes = l.TextBytes
	}
	if l.BinaryBytes > 0 && !isFlagPassed("binary-limit") {
		limits.BinaryBytes = l.BinaryBytes
	}

	n := c.Sensors
	for _, v := range []struct {
		src *int
		dst *int
	}{
		{n.Temperature, &layout.Temperature},
		{n.Door, &layout.Door},
		{n.Motion, &layout.Motion},
		{n.Humidity, &layout.Humidity},
		{n.CO2, &layout.CO2},
		{n.Smoke, &layout.Smoke},
	} {
		if v.src != nil && *v.src >= 0 {
			*v.dst = *v.src
		}
	}
	if n.PacketEncoded != nil {
		*packetEncoded = n.PacketEncoded
	}
}

// validate replaces out of range values with their defaults.
func validate(logger *slog.Logger) time.Time {
	warn := func(key string, got, used interface{}) {
		logger.Warn("invalid value replaced by default", "flag", key, "value", got, "default", used)
	}
	start, ok := scrub.DateOr(startStr, common.DefaultStartDate)
	if !ok {
		warn("start", startStr, common.DefaultStartDate)
	}
	if v, ok := scrub.PositiveInt(days, 1, common.DefaultDays); !ok {
		warn("days", days, v)
		days = v
	}
	if v, ok := scrub.PositiveInt(occupants, 0, common.DefaultOccupants); !ok {
		warn("occupants", occupants, v)
		occupants = v
	}
	if v, ok := scrub.PositiveInt(cycleMs, 1, common.DefaultCycleLenMs); !ok {
		warn("cycle", cycleMs, v)
		cycleMs = v
	}
	if v, ok := scrub.TempF(tempBias, common.DefaultTempBias); !ok {
		warn("bias", tempBias, v)
		tempBias = v
	}
	if v, ok := scrub.Proportion(failRate, common.DefaultFailRate); !ok {
		warn("fail", failRate, v)
		failRate = v
	}
	if multiplier <= 0 {
		warn("multiplier", multiplier, common.DefaultMultiplier)
		multiplier = common.DefaultMultiplier
	}
	return start
}

func main() {
	logger := newLogger()
	slog.SetDefault(logger)
	defer timeTrack(logger, time.Now(), "home_monitoring_data_gen")

	if cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cpuProfile), profile.Quiet).Stop()
	} else if memProfile != "" {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(memProfile), profile.Quiet).Stop()
	}

	layout := home.DefaultSensorLayout()
	packetEncoded := home.DefaultPacketEncoded
	if configFile != "" {
		c, err := common.NewConfig(configFile)
		if err != nil {
			log.Fatalf("external config error: %v", err)
		}
		applyConfig(c, &layout, &packetEncoded)
		logger.Info("using config file", "location", configFile)
		logger.Debug("config file content", "config", c.String())
	}

	start := validate(logger)

	// the default seed is the current timestamp:
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("using random seed", "seed", seed)

	cfg := home.DefaultHomeSimulatorConfig()
	cfg.Start = start
	cfg.Days = days
	cfg.Occupants = occupants
	cfg.CycleLenMs = int64(cycleMs)
	cfg.TempBias = tempBias
	cfg.FailRate = failRate
	cfg.Limits = limits
	cfg.Layout = layout
	cfg.PacketEncoded = packetEncoded
	cfg.Seed = seed
	cfg.Logger = logger
	sim := cfg.ToSimulator()

	if estimate {
		est, err := sim.Estimate(home.EstimateOptions{ForceBuild: true, Multiplier: multiplier})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("estimated run time for %d cycles: %s (%s per cycle, x%.2f)\n",
			est.Cycles, est.Total.Round(time.Second), est.PerCycle, est.Multiplier)
		return
	}

	summary, err := sim.Start(home.RunOptions{Name: name, OutputDir: outDir})
	if err != nil {
		log.Fatal(err)
	}
	printSummary(summary)

	params := reportParams(summary)
	if summary.Dir != "" {
		path := filepath.Join(summary.Dir, summary.Name+"_run_report.lp")
		if err := report.WriteRunReport(path, params); err != nil {
			log.Fatal(err)
		}
	}
	if reportHost != "" {
		if err := report.ReportRunResult(params); err != nil {
			logger.Error("sending run report failed", "host", reportHost, "err", err)
		}
	}
}

func reportParams(s *home.RunSummary) *report.RunReportParams {
	hostname, _ := os.Hostname()
	params := &report.RunReportParams{
		RunId:      report.NewRunId(),
		Name:       s.Name,
		Hostname:   hostname,
		DryRun:     s.DryRun,
		Occupants:  occupants,
		CycleLenMs: int64(cycleMs),
		SimStart:   s.Start,
		SimEnd:     s.End,
		Cycles:     s.Cycles,
		Sensors:    s.Sensors,
		Duration:   s.Elapsed,

		ReportHost:         reportHost,
		ReportDatabaseName: reportDatabase,
		ReportUser:         reportUser,
		ReportPassword:     reportPassword,
		ReportGzip:         reportGzip,
	}
	for _, st := range s.Streams {
		params.Streams = append(params.Streams, report.StreamResult{
			Tag: st.Tag, Records: st.Records, Bytes: st.Bytes, Files: len(st.Files),
		})
	}
	return params
}

func printSummary(s *home.RunSummary) {
	if s.DryRun {
		fmt.Printf("simulated %d cycles of %d sensors, nothing written\n", s.Cycles, s.Sensors)
	} else {
		fmt.Printf("files written to %s\n", s.Dir)
	}
	for _, st := range s.Streams {
		files := make([]string, len(st.Files))
		for i, f := range st.Files {
			files[i] = filepath.Base(f)
		}
		fmt.Printf("  %-20s %10d records %12d bytes  %s\n", st.Tag, st.Records, st.Bytes, strings.Join(files, " "))
	}
}
