package common

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/pkg/errors"
)

const TableFileExt = "parquet"

type ColumnKind int

const (
	StringColumn ColumnKind = iota
	Int64Column
)

func (k ColumnKind) arrowType() arrow.DataType {
	if k == Int64Column {
		return arrow.PrimitiveTypes.Int64
	}
	return arrow.BinaryTypes.String
}

// Column describes one column of a Table.
type Column struct {
	Name string
	Kind ColumnKind
}

// Table is a columnar Buffer written out as a parquet file.
type Table struct {
	Columns []Column

	strings [][]string
	ints    [][]int64
	rows    int
	size    int64
}

func NewTable(columns ...Column) *Table {
	return &Table{
		Columns: columns,
		strings: make([][]string, len(columns)),
		ints:    make([][]int64, len(columns)),
	}
}

// AppendRow adds one row; values must match the column order. Integer
// columns accept int and int64, string columns format anything else.
func (t *Table) AppendRow(values ...interface{}) {
	if len(values) != len(t.Columns) {
		panic(fmt.Sprintf("logic error: %d values for %d columns", len(values), len(t.Columns)))
	}
	for i, v := range values {
		switch t.Columns[i].Kind {
		case Int64Column:
			var x int64
			switch n := v.(type) {
			case int:
				x = int64(n)
			case int64:
				x = n
			default:
				panic(fmt.Sprintf("logic error: column %s wants an integer, got %#v", t.Columns[i].Name, v))
			}
			t.ints[i] = append(t.ints[i], x)
			t.size += 8
		default:
			s := formatValue(v)
			t.strings[i] = append(t.strings[i], s)
			t.size += int64(len(s))
		}
	}
	t.rows++
}

func (t *Table) Size() int64 {
	return t.size
}

func (t *Table) Len() int {
	return t.rows
}

// String returns the value of a string column at row.
func (t *Table) String(row, col int) string {
	return t.strings[col][row]
}

// Int64 returns the value of an integer column at row.
func (t *Table) Int64(row, col int) int64 {
	return t.ints[col][row]
}

func (t *Table) Reset() {
	for i := range t.Columns {
		t.strings[i] = t.strings[i][:0]
		t.ints[i] = t.ints[i][:0]
	}
	t.rows = 0
	t.size = 0
}

func (t *Table) schema() *arrow.Schema {
	fields := make([]arrow.Field, len(t.Columns))
	for i, c := range t.Columns {
		fields[i] = arrow.Field{Name: c.Name, Type: c.Kind.arrowType()}
	}
	return arrow.NewSchema(fields, nil)
}

// Serialize writes the table as a single row group parquet file.
func (t *Table) Serialize(w io.Writer) error {
	schema := t.schema()
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	for i, c := range t.Columns {
		switch c.Kind {
		case Int64Column:
			b.Field(i).(*array.Int64Builder).AppendValues(t.ints[i], nil)
		default:
			b.Field(i).(*array.StringBuilder).AppendValues(t.strings[i], nil)
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	fw, err := pqarrow.NewFileWriter(schema, w, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return errors.Wrap(err, "parquet writer")
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return errors.Wrap(err, "parquet write")
	}
	return errors.Wrap(fw.Close(), "parquet close")
}

// ReadTableFile loads a parquet file written by Table.Serialize.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	tbl, err := pqarrow.ReadTable(context.Background(), f, parquet.NewReaderProperties(memory.DefaultAllocator),
		pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	defer tbl.Release()

	fields := tbl.Schema().Fields()
	columns := make([]Column, len(fields))
	for i, fld := range fields {
		switch fld.Type.ID() {
		case arrow.STRING:
			columns[i] = Column{Name: fld.Name, Kind: StringColumn}
		case arrow.INT64:
			columns[i] = Column{Name: fld.Name, Kind: Int64Column}
		default:
			return nil, errors.Errorf("%s: unsupported column type %s for %s", path, fld.Type, fld.Name)
		}
	}

	t := NewTable(columns...)
	for i := range columns {
		for _, chunk := range tbl.Column(i).Data().Chunks() {
			switch a := chunk.(type) {
			case *array.String:
				for j := 0; j < a.Len(); j++ {
					t.strings[i] = append(t.strings[i], a.Value(j))
					t.size += int64(len(a.Value(j)))
				}
			case *array.Int64:
				t.ints[i] = append(t.ints[i], a.Int64Values()...)
				t.size += 8 * int64(a.Len())
			}
		}
	}
	t.rows = int(tbl.NumRows())
	return t, nil
}
