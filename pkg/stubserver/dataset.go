package stubserver

import (
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
)

// Read is one forward read and its optional mate.
type Read struct {
	ID    string
	FwSeq string
	RvSeq string
}

func (r Read) Paired() bool { return r.FwSeq != "" && r.RvSeq != "" }

// Dataset holds one session's reads plus the filter flags set by earlier
// requests. Flags persist between requests, so filters accumulate.
type Dataset struct {
	mu sync.Mutex

	reads    []Read
	flags    map[string][]bool
	identity []float64
}

func NewDataset(reads []Read) *Dataset {
	return &Dataset{
		reads: append([]Read(nil), reads...),
		flags: map[string][]bool{},
	}
}

// SampleDataset returns a deterministic set of n reads.
func SampleDataset(n int) *Dataset {
	rng := rand.New(rand.NewSource(42))
	reads := make([]Read, 0, n)
	for i := 0; i < n; i++ {
		fw := randomSeq(rng, 20+rng.Intn(11))
		rv := ""
		if i%5 != 0 {
			rv = mutate(rng, reverseComplement(fw), rng.Intn(4))
		}
		reads = append(reads, Read{ID: "read_" + itoa(i+1), FwSeq: fw, RvSeq: rv})
	}
	return NewDataset(reads)
}

func (d *Dataset) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.reads)
}

func (d *Dataset) setFlag(name string, fn func(i int, r Read) bool) {
	out := make([]bool, len(d.reads))
	for i, r := range d.reads {
		out[i] = fn(i, r)
	}
	d.flags[name] = out
}

func (d *Dataset) flagged(i int) bool {
	for _, f := range d.flags {
		if f[i] {
			return true
		}
	}
	return false
}

func (d *Dataset) unflagged() []int {
	var out []int
	for i := range d.reads {
		if !d.flagged(i) {
			out = append(out, i)
		}
	}
	return out
}

type lengthPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type sequenceLengths struct {
	Forward []lengthPoint `json:"fw_seq_length"`
	Reverse []lengthPoint `json:"rv_seq_length"`
}

func (d *Dataset) SequenceLengths(min, max int) sequenceLengths {
	d.mu.Lock()
	defer d.mu.Unlock()

	outside := func(n int) bool { return n < min || n > max }
	d.setFlag("fw_seq_len_flag", func(_ int, r Read) bool { return outside(len(r.FwSeq)) })
	d.setFlag("rv_seq_len_flag", func(_ int, r Read) bool { return r.RvSeq != "" && outside(len(r.RvSeq)) })

	fw := map[int]int{}
	rv := map[int]int{}
	for _, i := range d.unflagged() {
		r := d.reads[i]
		fw[len(r.FwSeq)]++
		if r.RvSeq != "" {
			rv[len(r.RvSeq)]++
		}
	}
	return sequenceLengths{Forward: countsToPoints(fw), Reverse: countsToPoints(rv)}
}

func countsToPoints(m map[int]int) []lengthPoint {
	out := make([]lengthPoint, 0, len(m))
	for k, v := range m {
		out = append(out, lengthPoint{X: k, Y: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].X < out[j].X })
	return out
}

type pieSlice struct {
	Name string  `json:"name"`
	Y    float64 `json:"y"`
}

// PairedPercentages flags unpaired reads when filter is set and reports the
// paired share of the whole dataset.
func (d *Dataset) PairedPercentages(filter bool) []pieSlice {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.setFlag("paired_flag", func(_ int, r Read) bool { return filter && !r.Paired() })

	paired := 0
	for _, r := range d.reads {
		if r.Paired() {
			paired++
		}
	}
	total := len(d.reads)
	if paired == 0 || paired == total {
		return []pieSlice{{Name: "True", Y: 100}, {Name: "False", Y: 0}}
	}
	pct := round3(float64(paired) / float64(total) * 100)
	return []pieSlice{{Name: "True", Y: pct}, {Name: "False", Y: round3(100 - pct)}}
}

type Bounds struct {
	Min, Max map[byte]int
}

type bubble struct {
	Label string `json:"label"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Z     int    `json:"z"`
	Bin   string `json:"bin"`
}

type nucleotides struct {
	Forward           []bubble `json:"fw_json"`
	ReverseComplement []bubble `json:"rvc_json"`
}

var bases = []byte{'A', 'T', 'C', 'G'}

func (d *Dataset) Nucleotides(b Bounds, binSize int) nucleotides {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, base := range bases {
		base := base
		lo, hi := float64(b.Min[base]), float64(b.Max[base])
		d.setFlag("fw_"+strings.ToLower(string(base))+"_perc_flag", func(_ int, r Read) bool {
			p := percentage(r.FwSeq, base)
			return p < lo || p > hi
		})
		d.setFlag("rv_"+strings.ToLower(string(base))+"_perc_flag", func(_ int, r Read) bool {
			if r.RvSeq == "" {
				return false
			}
			p := percentage(r.RvSeq, base)
			return p < lo || p > hi
		})
	}

	var fwSeqs, rvSeqs []string
	for _, i := range d.unflagged() {
		fwSeqs = append(fwSeqs, d.reads[i].FwSeq)
		if d.reads[i].RvSeq != "" {
			rvSeqs = append(rvSeqs, d.reads[i].RvSeq)
		}
	}
	return nucleotides{Forward: binPercentages(fwSeqs, binSize), ReverseComplement: binPercentages(rvSeqs, binSize)}
}

// binPercentages rounds each base percentage up to a multiple of binSize and
// counts sequences per (bin, base).
func binPercentages(seqs []string, binSize int) []bubble {
	if binSize <= 0 {
		binSize = 1
	}
	counts := map[int][]int{}
	for _, s := range seqs {
		for col, base := range bases {
			bin := int(math.Ceil(percentage(s, base)/float64(binSize))) * binSize
			if counts[bin] == nil {
				counts[bin] = make([]int, len(bases))
			}
			counts[bin][col]++
		}
	}
	rows := make([]int, 0, len(counts))
	for bin := range counts {
		rows = append(rows, bin)
	}
	sort.Ints(rows)

	half := float64(binSize) / 2
	out := []bubble{}
	for _, bin := range rows {
		for col, base := range bases {
			n := counts[bin][col]
			if n == 0 {
				continue
			}
			y := int(math.Max(float64(bin)-half, 0))
			lo := int(math.Max(float64(y)-half, 0))
			hi := int(math.Min(float64(y)+half, 100))
			out = append(out, bubble{Label: string(base), X: col, Y: y, Z: n, Bin: itoa(lo) + "-" + itoa(hi)})
		}
	}
	return out
}

// CalcIdentity computes forward/reverse-complement identity once. It reports
// whether this call did the work.
func (d *Dataset) CalcIdentity() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.identity != nil {
		return false
	}
	d.identity = make([]float64, len(d.reads))
	for i, r := range d.reads {
		d.identity[i] = identity(r)
	}
	return true
}

type identityRow struct {
	Perc     float64 `json:"perc"`
	Identity int     `json:"identity"`
}

// IdentityCounts flags reads below minPercent and counts the rest per rounded
// identity. ok is false when CalcIdentity has not run yet.
func (d *Dataset) IdentityCounts(minPercent int) ([]identityRow, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.identity == nil {
		return nil, false
	}
	d.setFlag("identity_flag", func(i int, r Read) bool {
		return r.Paired() && d.identity[i] < float64(minPercent)
	})

	counts := map[float64]int{}
	for _, i := range d.unflagged() {
		if !d.reads[i].Paired() {
			continue
		}
		counts[math.Round(d.identity[i])]++
	}
	out := make([]identityRow, 0, len(counts))
	for k, v := range counts {
		out = append(out, identityRow{Perc: k, Identity: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Perc < out[j].Perc })
	return out, true
}

// Rows returns every read with its flagged state, in input order.
func (d *Dataset) Rows() []ExportRow {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ExportRow, 0, len(d.reads))
	for i, r := range d.reads {
		row := ExportRow{
			ID:       r.ID,
			FwSeq:    r.FwSeq,
			RvcSeq:   reverseComplement(r.RvSeq),
			FwLength: len(r.FwSeq),
			RvLength: len(r.RvSeq),
			Paired:   r.Paired(),
			Flagged:  d.flagged(i),
		}
		if d.identity != nil {
			v := d.identity[i]
			row.Identity = &v
		}
		out = append(out, row)
	}
	return out
}

type ExportRow struct {
	ID       string
	FwSeq    string
	RvcSeq   string
	FwLength int
	RvLength int
	Paired   bool
	Identity *float64
	Flagged  bool
}

func percentage(seq string, base byte) float64 {
	if seq == "" {
		return 0
	}
	n := strings.Count(strings.ToUpper(seq), string(base))
	return float64(n) * 100 / float64(len(seq))
}

func identity(r Read) float64 {
	if !r.Paired() {
		return 0
	}
	rvc := reverseComplement(r.RvSeq)
	n := len(r.FwSeq)
	if len(rvc) < n {
		n = len(rvc)
	}
	if n == 0 {
		return 0
	}
	same := 0
	for i := 0; i < n; i++ {
		if r.FwSeq[i] == rvc[i] {
			same++
		}
	}
	return float64(same) * 100 / float64(n)
}

var complement = map[byte]byte{'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C', 'N': 'N'}

func reverseComplement(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c, ok := complement[s[len(s)-1-i]]
		if !ok {
			c = 'N'
		}
		out[i] = c
	}
	return string(out)
}

func randomSeq(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = bases[rng.Intn(len(bases))]
	}
	return string(b)
}

func mutate(rng *rand.Rand, s string, edits int) string {
	b := []byte(s)
	for i := 0; i < edits && len(b) > 0; i++ {
		b[rng.Intn(len(b))] = bases[rng.Intn(len(bases))]
	}
	return string(b)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
