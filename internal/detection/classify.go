package detection

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/ironsheep/shape-tools-mcp/internal/config"
	"github.com/ironsheep/shape-tools-mcp/internal/geom"
	"github.com/ironsheep/shape-tools-mcp/internal/logging"
	"github.com/ironsheep/shape-tools-mcp/internal/regularize"
	"github.com/ironsheep/shape-tools-mcp/internal/symmetry"
)

// Predicate pairs a tag with the test that assigns it.
type Predicate struct {
	Tag   Tag
	Match func(s geom.Stroke, cfg config.Config) (Fit, bool)
}

// Predicates returns the classification table in priority order. The
// first predicate that matches a stroke decides its tag.
func Predicates() []Predicate {
	return []Predicate{
		{TagRoundedRectangle, func(s geom.Stroke, cfg config.Config) (Fit, bool) {
			q, ok := IsRoundedRectangle(s, cfg)
			return Fit{Quad: &q}, ok
		}},
		{TagRectangle, func(s geom.Stroke, cfg config.Config) (Fit, bool) {
			q, ok := IsRectangle(s, cfg)
			return Fit{Quad: &q}, ok
		}},
		{TagEllipse, func(s geom.Stroke, cfg config.Config) (Fit, bool) {
			e, ok := IsEllipse(s, cfg)
			return Fit{Ellipse: &e}, ok
		}},
		{TagCircle, func(s geom.Stroke, cfg config.Config) (Fit, bool) {
			c, ok := IsCircle(s, cfg)
			return Fit{Circle: &c}, ok
		}},
		{TagStar, func(s geom.Stroke, cfg config.Config) (Fit, bool) {
			p, ok := IsStar(s, cfg)
			return Fit{Polygon: &p}, ok
		}},
		{TagPolygon, func(s geom.Stroke, cfg config.Config) (Fit, bool) {
			p, ok := IsPolygon(s, cfg)
			return Fit{Polygon: &p}, ok
		}},
		{TagLine, func(s geom.Stroke, cfg config.Config) (Fit, bool) {
			l, ok := IsStraightLine(s, cfg)
			return Fit{Line: &l}, ok
		}},
	}
}

// PredicateFor returns the predicate assigning tag.
func PredicateFor(tag Tag) (Predicate, bool) {
	for _, p := range Predicates() {
		if p.Tag == tag {
			return p, true
		}
	}
	return Predicate{}, false
}

// Classify tags a single stroke with the first matching predicate.
// Strokes with non-finite coordinates, or that match nothing, are
// Unclassified.
func Classify(s geom.Stroke, cfg config.Config) Classification {
	if len(s) == 0 || !s.IsFinite() {
		logging.Logger().Debug("stroke not classifiable", "points", len(s))
		return Classification{Tag: TagUnclassified}
	}
	for _, p := range Predicates() {
		if fit, ok := p.Match(s, cfg); ok {
			return Classification{Tag: p.Tag, Fit: fit}
		}
	}
	return Classification{Tag: TagUnclassified}
}

// Options controls what ClassifyDrawing attaches to each stroke.
type Options struct {
	// Symmetry attaches the axis symmetry of every stroke.
	Symmetry bool

	// Regularize attaches a regularized curve for every stroke.
	Regularize bool

	// Workers is the number of goroutines classifying strokes. Values
	// below 1 use one worker; values above the stroke count are capped.
	Workers int
}

// Item is the classification of one stroke of a drawing.
type Item struct {
	// Index is the position of the stroke in drawing order.
	Index int `json:"index"`

	PathID    int `json:"path_id"`
	SubPathID int `json:"subpath_id"`

	Tag Tag `json:"tag"`
	Fit Fit `json:"fit"`

	// Points is the number of points in the input stroke.
	Points int `json:"points"`

	Symmetry    *symmetry.Result   `json:"symmetry,omitempty"`
	Regularized *regularize.Result `json:"regularized,omitempty"`

	Stroke geom.Stroke `json:"-"`
}

// Report aggregates the classification of a drawing.
type Report struct {
	// Items holds one entry per stroke, in drawing order.
	Items []Item `json:"items"`

	// Buckets maps each tag to the indices of its items, in drawing order.
	Buckets map[Tag][]int `json:"buckets"`

	// Counts maps each tag to its number of items.
	Counts map[Tag]int `json:"counts"`

	// Total is the number of strokes classified.
	Total int `json:"total"`
}

// Bucket returns the items tagged tag, in drawing order.
func (r *Report) Bucket(tag Tag) []Item {
	idx := r.Buckets[tag]
	out := make([]Item, len(idx))
	for i, j := range idx {
		out[i] = r.Items[j]
	}
	return out
}

// Summary lists the count of every tag in priority order, one per line.
func (r *Report) Summary() string {
	var b strings.Builder
	for _, tag := range AllTags() {
		fmt.Fprintf(&b, "%s: %d\n", tag.Label(), r.Counts[tag])
	}
	fmt.Fprintf(&b, "Total: %d\n", r.Total)
	return b.String()
}

// ClassifyDrawing classifies every stroke of d.
//
// Items come back in drawing order whatever the worker count. Tag buckets
// preserve that order too.
func ClassifyDrawing(d geom.Drawing, cfg config.Config, opts Options) *Report {
	refs := d.Refs()
	items := make([]Item, len(refs))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(refs) {
		workers = len(refs)
	}
	if workers > 4*runtime.NumCPU() {
		workers = 4 * runtime.NumCPU()
	}

	if workers <= 1 {
		for i, ref := range refs {
			items[i] = classifyRef(i, ref, cfg, opts)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func() {
				defer wg.Done()
				for i := range jobs {
					items[i] = classifyRef(i, refs[i], cfg, opts)
				}
			}()
		}
		for i := range refs {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	report := &Report{
		Items:   items,
		Buckets: make(map[Tag][]int),
		Counts:  make(map[Tag]int),
		Total:   len(items),
	}
	for i, it := range items {
		report.Buckets[it.Tag] = append(report.Buckets[it.Tag], i)
		report.Counts[it.Tag]++
	}

	logging.Logger().Info("drawing classified",
		"strokes", report.Total,
		"workers", workers,
		"unclassified", report.Counts[TagUnclassified])
	return report
}

func classifyRef(i int, ref geom.StrokeRef, cfg config.Config, opts Options) Item {
	c := Classify(ref.Stroke, cfg)
	it := Item{
		Index:     i,
		PathID:    ref.PathID,
		SubPathID: ref.SubPathID,
		Tag:       c.Tag,
		Fit:       c.Fit,
		Points:    len(ref.Stroke),
		Stroke:    ref.Stroke,
	}
	if opts.Symmetry {
		sym := symmetry.Detect(ref.Stroke, cfg)
		it.Symmetry = &sym
	}
	if opts.Regularize {
		reg := regularize.Regularize(ref.Stroke, cfg)
		it.Regularized = &reg
	}
	return it
}
