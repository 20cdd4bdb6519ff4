package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ironsheep/shape-tools-mcp/internal/geom"
)

// RowGroup holds the raw numeric columns of every row sharing a path id and
// sub-path id. Rows keep all columns after the two ids.
type RowGroup struct {
	PathID    int         `json:"path_id"`
	SubPathID int         `json:"sub_path_id"`
	Rows      [][]float64 `json:"rows"`
}

// ReadCSV parses a coordinate table into a drawing. Each row must carry at
// least four columns: path id, sub-path id, x, y. Extra columns are ignored.
func ReadCSV(r io.Reader) (geom.Drawing, error) {
	groups, err := readGroups(r, 4)
	if err != nil {
		return geom.Drawing{}, err
	}

	var d geom.Drawing
	for _, g := range groups {
		stroke := make(geom.Stroke, len(g.Rows))
		for i, row := range g.Rows {
			stroke[i] = geom.Pt(row[0], row[1])
		}
		n := len(d.Paths)
		if n == 0 || d.Paths[n-1].ID != g.PathID {
			d.Paths = append(d.Paths, geom.Path{ID: g.PathID})
			n++
		}
		d.Paths[n-1].SubPaths = append(d.Paths[n-1].SubPaths, geom.SubPath{ID: g.SubPathID, Stroke: stroke})
	}
	return d, nil
}

// ReadRows parses a table with the same grouping as ReadCSV but keeps every
// numeric column after the ids, so rows of the wrong width survive for the
// caller to report.
func ReadRows(r io.Reader) ([]RowGroup, error) {
	return readGroups(r, 3)
}

// ReadRowsFile opens a CSV file and parses it with ReadRows.
func ReadRowsFile(path string) ([]RowGroup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()
	return ReadRows(f)
}

func readGroups(r io.Reader, minFields int) ([]RowGroup, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	type key struct{ path, sub int }
	groups := make(map[key]*RowGroup)

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(rec) < minFields {
			return nil, fmt.Errorf("line %d: got %d columns, want at least %d", line, len(rec), minFields)
		}

		pathID, err := parseID(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: path id: %w", line, err)
		}
		subID, err := parseID(rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: sub-path id: %w", line, err)
		}

		row := make([]float64, len(rec)-2)
		for i, field := range rec[2:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %d: %w", line, i+3, err)
			}
			row[i] = v
		}

		k := key{pathID, subID}
		g, ok := groups[k]
		if !ok {
			g = &RowGroup{PathID: pathID, SubPathID: subID}
			groups[k] = g
		}
		g.Rows = append(g.Rows, row)
	}

	out := make([]RowGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PathID != out[j].PathID {
			return out[i].PathID < out[j].PathID
		}
		return out[i].SubPathID < out[j].SubPathID
	})
	return out, nil
}

// parseID accepts integral ids written as integers or floats ("3", "3.0").
func parseID(s string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int(v), nil
}

// WriteCSV writes a drawing as a coordinate table readable by ReadCSV.
func WriteCSV(w io.Writer, d geom.Drawing) error {
	cw := csv.NewWriter(w)
	for _, p := range d.Paths {
		for _, sp := range p.SubPaths {
			for _, pt := range sp.Stroke {
				rec := []string{
					strconv.Itoa(p.ID),
					strconv.Itoa(sp.ID),
					strconv.FormatFloat(pt.X, 'g', -1, 64),
					strconv.FormatFloat(pt.Y, 'g', -1, 64),
				}
				if err := cw.Write(rec); err != nil {
					return fmt.Errorf("failed to write csv: %w", err)
				}
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
