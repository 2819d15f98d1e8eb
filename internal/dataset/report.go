package dataset

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/crimson-sun/triage/internal/engine/taxonomy"
)

// barWidth is the width of the longest bar in RenderDistribution.
const barWidth = 40

// Report summarizes one preparation run.
type Report struct {
	Total    int
	Kept     int
	Unmapped map[string]int            // fine-grained category -> rows dropped
	Counts   map[string]map[string]int // split -> coarse label -> rows kept
}

// NewReport returns an empty Report.
func NewReport() *Report {
	return &Report{
		Unmapped: make(map[string]int),
		Counts:   make(map[string]map[string]int),
	}
}

// AddKept records a prepared row.
func (r *Report) AddKept(split, label string) {
	r.Total++
	r.Kept++
	if r.Counts[split] == nil {
		r.Counts[split] = make(map[string]int)
	}
	r.Counts[split][label]++
}

// AddUnmapped records a row dropped for an unmapped category.
func (r *Report) AddUnmapped(category string) {
	r.Total++
	r.Unmapped[category]++
}

// UnmappedRows is the number of rows dropped.
func (r *Report) UnmappedRows() int {
	n := 0
	for _, c := range r.Unmapped {
		n += c
	}
	return n
}

// Distribution returns kept rows per coarse label across all splits.
func (r *Report) Distribution() map[string]int {
	out := make(map[string]int)
	for _, counts := range r.Counts {
		for label, n := range counts {
			out[label] += n
		}
	}
	return out
}

// RenderDistribution writes a text bar chart of the label distribution for
// one split, or all splits when split is "". Labels appear in encoding
// order; labels with no rows still get a line.
func (r *Report) RenderDistribution(w io.Writer, split string) error {
	counts := r.Distribution()
	title := "all splits"
	if split != "" {
		counts = r.Counts[split]
		title = split
	}

	labels := taxonomy.Labels()
	width := 0
	peak := 0
	for _, l := range labels {
		width = max(width, len(l))
		peak = max(peak, counts[l])
	}

	if _, err := fmt.Fprintf(w, "Category distribution (%s)\n", title); err != nil {
		return err
	}
	for _, l := range labels {
		n := counts[l]
		bar := 0
		if peak > 0 {
			bar = n * barWidth / peak
		}
		if _, err := fmt.Fprintf(w, "  %-*s %s %d\n", width, l, strings.Repeat("#", bar), n); err != nil {
			return err
		}
	}
	return nil
}

// RenderUnmapped lists dropped categories, most frequent first.
func (r *Report) RenderUnmapped(w io.Writer) error {
	if len(r.Unmapped) == 0 {
		return nil
	}
	cats := make([]string, 0, len(r.Unmapped))
	for c := range r.Unmapped {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if r.Unmapped[cats[i]] != r.Unmapped[cats[j]] {
			return r.Unmapped[cats[i]] > r.Unmapped[cats[j]]
		}
		return cats[i] < cats[j]
	})
	if _, err := fmt.Fprintf(w, "Unmapped categories (%d rows dropped)\n", r.UnmappedRows()); err != nil {
		return err
	}
	for _, c := range cats {
		if _, err := fmt.Fprintf(w, "  %s: %d\n", c, r.Unmapped[c]); err != nil {
			return err
		}
	}
	return nil
}
