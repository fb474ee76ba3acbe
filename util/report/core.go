package report

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/valyala/fasthttp"
)

type valueKind byte

const (
	invalidValueKind valueKind = iota
	float64ValueKind
	int64ValueKind
	boolValueKind
)

// Tag represents an InfluxDB tag.
// Users should prefer to keep the strings as long-lived items.
type Tag struct {
	Key, Value string
}

func (t *Tag) Serialize(w io.Writer) {
	fmt.Fprintf(w, "%s=%s", t.Key, t.Value)
}

// Field represents an InfluxDB field.
// Users should prefer to keep the strings as long-lived items.
type Field struct {
	key          string
	int64Value   int64
	float64Value float64
	boolValue    bool
	mode         valueKind
}

func (f *Field) SetFloat64(key string, x float64) {
	if f.mode != invalidValueKind {
		panic("logic error: Field already has a value")
	}
	f.key = key
	f.float64Value = x
	f.mode = float64ValueKind
}
func (f *Field) SetInt64(key string, x int64) {
	if f.mode != invalidValueKind {
		panic("logic error: Field already has a value")
	}
	f.key = key
	f.int64Value = x
	f.mode = int64ValueKind
}
func (f *Field) SetBool(key string, x bool) {
	if f.mode != invalidValueKind {
		panic("logic error: Field already has a value")
	}
	f.key = key
	f.boolValue = x
	f.mode = boolValueKind
}

func (f *Field) Serialize(w io.Writer) {
	if f.mode == int64ValueKind {
		fmt.Fprintf(w, "%s=%di", f.key, f.int64Value)
	} else if f.mode == float64ValueKind {
		fmt.Fprintf(w, "%s=%f", f.key, f.float64Value)
	} else {
		fmt.Fprintf(w, "%s=%v", f.key, f.boolValue)
	}
}

// Point wraps an InfluxDB point data.
// Its primary purpose is to be serialized out to a []byte.
type Point struct {
	Measurement   string
	Tags          []Tag
	Fields        []Field
	TimestampNano int64
}

func (p *Point) Init(m string, ts int64) {
	p.Measurement = m
	p.TimestampNano = ts
}

func (p *Point) AddTag(k, v string) {
	p.Tags = append(p.Tags, Tag{Key: k, Value: escapeTag(v)})
}

func (p *Point) AddInt64Field(k string, x int64) {
	f := Field{}
	f.SetInt64(k, x)
	p.Fields = append(p.Fields, f)
}

func (p *Point) AddBoolField(k string, x bool) {
	f := Field{}
	f.SetBool(k, x)
	p.Fields = append(p.Fields, f)
}

func (p *Point) AddFloat64Field(k string, x float64) {
	f := Field{}
	f.SetFloat64(k, x)
	p.Fields = append(p.Fields, f)
}

func (p *Point) Serialize(w io.Writer) {
	fmt.Fprintf(w, "%s", p.Measurement)
	for _, tag := range p.Tags {
		fmt.Fprint(w, ",")
		tag.Serialize(w)
	}
	for i, field := range p.Fields {
		if i == 0 {
			fmt.Fprint(w, " ")
		}

		field.Serialize(w)
		if i < len(p.Fields)-1 {
			fmt.Fprint(w, ",")
		}
	}
	if p.TimestampNano > 0 {
		fmt.Fprintf(w, " %d", p.TimestampNano)
	}
}

func escapeTag(v string) string {
	var b bytes.Buffer
	for _, r := range v {
		switch r {
		case ',', '=', ' ':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Collector batches points and writes them to an InfluxDB 1.x endpoint.
type Collector struct {
	Points []*Point

	client           *fasthttp.Client
	writeUri         string
	baseUri          string
	encodedBasicAuth string
	dbName           string
	gzip             bool

	buf *bytes.Buffer
}

func NewCollector(influxhost, dbname, userName, password string, useGzip bool) *Collector {
	encodedBasicAuth := ""
	if userName != "" {
		encodedBasicAuth = "Basic " + base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", userName, password)))
	}
	return &Collector{
		buf:    new(bytes.Buffer),
		Points: make([]*Point, 0),
		client: &fasthttp.Client{
			Name: "collector",
			TLSConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
			MaxIdleConnDuration: 90 * time.Second,
		},
		baseUri:          influxhost,
		writeUri:         influxhost + "/write?db=" + url.QueryEscape(dbname),
		encodedBasicAuth: encodedBasicAuth,
		dbName:           dbname,
		gzip:             useGzip,
	}
}

func (c *Collector) Put(p *Point) {
	c.Points = append(c.Points, p)
}

func (c *Collector) Reset() {
	c.Points = c.Points[:0]
	c.buf.Reset()
}

// PrepBatch serializes the collected points, one per line.
func (c *Collector) PrepBatch() error {
	var w io.Writer = c.buf
	var zw *gzip.Writer
	if c.gzip {
		zw = gzip.NewWriter(c.buf)
		w = zw
	}
	for _, p := range c.Points {
		p.Serialize(w)
		fmt.Fprint(w, "\n")
	}
	if zw != nil {
		return zw.Close()
	}
	return nil
}

func (c *Collector) do(uri string, body []byte, okStatus ...int) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod("POST")
	req.Header.SetRequestURI(uri)
	if c.encodedBasicAuth != "" {
		req.Header.Set("Authorization", c.encodedBasicAuth)
	}
	if c.gzip && body != nil {
		req.Header.Set("Content-Encoding", "gzip")
	}
	req.SetBody(body)

	if err := c.client.Do(req, resp); err != nil {
		return fmt.Errorf("collector error: %v", err)
	}
	for _, s := range okStatus {
		if resp.StatusCode() == s {
			return nil
		}
	}
	return fmt.Errorf("collector error: unexpected status code %d: %s", resp.StatusCode(), resp.Body())
}

func (c *Collector) CreateDatabase() error {
	return c.do(c.baseUri+"/query?q=create%20database%20"+url.QueryEscape(c.dbName), nil, fasthttp.StatusOK)
}

func (c *Collector) SendBatch() error {
	return c.do(c.writeUri, c.buf.Bytes(), fasthttp.StatusNoContent, fasthttp.StatusOK)
}
