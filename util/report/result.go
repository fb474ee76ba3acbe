package report

import (
	"bytes"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const RunMeasurement = "home_monitoring_runs"

// StreamResult is the output of one data stream.
type StreamResult struct {
	Tag     string
	Records int64
	Bytes   int64
	Files   int
}

// RunReportParams describes a finished simulation run.
type RunReportParams struct {
	RunId      string
	Name       string
	Hostname   string
	DryRun     bool
	Occupants  int
	CycleLenMs int64
	SimStart   time.Time
	SimEnd     time.Time
	Cycles     int64
	Sensors    int
	Duration   time.Duration
	Streams    []StreamResult

	ReportHost         string
	ReportDatabaseName string
	ReportUser         string
	ReportPassword     string
	ReportGzip         bool
}

// NewRunId returns a unique id for a run report.
func NewRunId() string {
	return uuid.New().String()
}

// RunPoint builds the summary point of a run. Per stream counters are
// prefixed with the stream tag.
func RunPoint(params *RunReportParams) *Point {
	p := &Point{}
	p.Init(RunMeasurement, params.SimEnd.UnixNano())
	if params.RunId == "" {
		params.RunId = NewRunId()
	}
	p.AddTag("run_id", params.RunId)
	p.AddTag("name", params.Name)
	if params.Hostname != "" {
		p.AddTag("client_hostname", params.Hostname)
	}
	p.AddTag("occupants", strconv.Itoa(params.Occupants))
	p.AddTag("cycle_ms", strconv.FormatInt(params.CycleLenMs, 10))

	p.AddBoolField("dry_run", params.DryRun)
	p.AddInt64Field("cycles", params.Cycles)
	p.AddInt64Field("sensors", int64(params.Sensors))
	p.AddInt64Field("sim_start", params.SimStart.UnixNano())
	p.AddFloat64Field("duration", params.Duration.Seconds())
	for _, s := range params.Streams {
		p.AddInt64Field(s.Tag+"_records", s.Records)
		p.AddInt64Field(s.Tag+"_bytes", s.Bytes)
		p.AddInt64Field(s.Tag+"_files", int64(s.Files))
	}
	return p
}

// WriteRunReport writes the run point in line protocol to path.
func WriteRunReport(path string, params *RunReportParams) error {
	var buf bytes.Buffer
	RunPoint(params).Serialize(&buf)
	buf.WriteByte('\n')
	return errors.Wrapf(os.WriteFile(path, buf.Bytes(), 0o644), "write report %s", path)
}

// ReportRunResult sends the run point to params.ReportHost.
func ReportRunResult(params *RunReportParams) error {
	c := NewCollector(params.ReportHost, params.ReportDatabaseName, params.ReportUser, params.ReportPassword, params.ReportGzip)

	err := c.CreateDatabase()
	if err != nil {
		return err
	}

	c.Put(RunPoint(params))
	if err := c.PrepBatch(); err != nil {
		return err
	}
	return c.SendBatch()
}
