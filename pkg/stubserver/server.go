package stubserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Handler serves a canned analysis backend. A nil dataset answers every
// endpoint with 400, as a session without uploaded files does.
type Handler struct {
	mu      sync.Mutex
	dataset *Dataset

	lastDiamond []string
}

func NewHandler(ds *Dataset) *Handler {
	return &Handler{dataset: ds}
}

// NewRouter returns a router with every endpoint registered.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api").Subrouter())
	return r
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/sequence", h.handleSequence).Methods("POST")
	r.HandleFunc("/paired", h.handlePaired).Methods("POST")
	r.HandleFunc("/nucleotide", h.handleNucleotide).Methods("POST")
	r.HandleFunc("/calc_identity", h.handleCalcIdentity).Methods("POST")
	r.HandleFunc("/identity", h.handleIdentity).Methods("POST")
	r.HandleFunc("/diamond", h.handleDiamond).Methods("POST")
	r.HandleFunc("/export_tsv", h.handleExportTSV).Methods("GET")
}

func (h *Handler) SetDataset(ds *Dataset) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dataset = ds
}

// LastDiamondArgs returns the command line built by the latest diamond call.
func (h *Handler) LastDiamondArgs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.lastDiamond...)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Dataset, bool) {
	h.mu.Lock()
	ds := h.dataset
	h.mu.Unlock()
	log.Debug().Str("path", r.URL.Path).Str("request_id", r.Header.Get("X-Request-ID")).Msg("stub request")
	if ds == nil {
		http.Error(w, "no records loaded", http.StatusBadRequest)
		return nil, false
	}
	return ds, true
}

func respondJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

type intForm struct {
	r   *http.Request
	err error
}

// get mirrors int(request.form.get(key)): a missing or non-numeric value is
// an error.
func (f *intForm) get(key string) int {
	if f.err != nil {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(f.r.PostFormValue(key)))
	if err != nil {
		f.err = fmt.Errorf("%s: %w", key, err)
	}
	return v
}

func (h *Handler) handleSequence(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.session(w, r)
	if !ok {
		return
	}
	f := &intForm{r: r}
	min, max := f.get("min_seq_len"), f.get("max_seq_len")
	if f.err != nil {
		http.Error(w, f.err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, ds.SequenceLengths(min, max))
}

func (h *Handler) handlePaired(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.session(w, r)
	if !ok {
		return
	}
	filter, _ := strconv.ParseBool(r.PostFormValue("FilterPaired"))
	respondJSON(w, ds.PairedPercentages(filter))
}

func (h *Handler) handleNucleotide(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.session(w, r)
	if !ok {
		return
	}
	f := &intForm{r: r}
	b := Bounds{Min: map[byte]int{}, Max: map[byte]int{}}
	for _, base := range bases {
		b.Min[base] = f.get("min" + string(base) + "Value")
		b.Max[base] = f.get("max" + string(base) + "Value")
	}
	binSize := f.get("BinSize")
	if f.err == nil && binSize <= 0 {
		f.err = fmt.Errorf("BinSize must be > 0")
	}
	if f.err != nil {
		http.Error(w, f.err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, ds.Nucleotides(b, binSize))
}

func (h *Handler) handleCalcIdentity(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.session(w, r)
	if !ok {
		return
	}
	if ds.CalcIdentity() {
		_, _ = w.Write([]byte("True"))
		return
	}
	_, _ = w.Write([]byte("False"))
}

// handleIdentity answers with a JSON string that itself holds a pandas-style
// table document, so clients must decode twice.
func (h *Handler) handleIdentity(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.session(w, r)
	if !ok {
		return
	}
	f := &intForm{r: r}
	pct := f.get("paired_read_percentage")
	if f.err != nil {
		http.Error(w, f.err.Error(), http.StatusInternalServerError)
		return
	}
	rows, ok := ds.IdentityCounts(pct)
	if !ok {
		http.Error(w, "identity not calculated", http.StatusBadRequest)
		return
	}
	table := map[string]any{
		"schema": map[string]any{
			"fields": []map[string]string{
				{"name": "perc", "type": "number"},
				{"name": "identity", "type": "integer"},
			},
			"primaryKey":    []string{"perc"},
			"pandas_version": "0.20.0",
		},
		"data": rows,
	}
	inner, err := json.Marshal(table)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(string(inner)); err != nil {
		log.Error().Err(err).Msg("encode identity")
	}
}

var diamondFlags = []struct {
	flag string
	key  string
	bool bool
}{
	{"--algo", "algorithm", false},
	{"--compress", "compress", false},
	{"--evalue", "evalue", false},
	{"--frameshift", "frameshift", false},
	{"--gapextend", "gapExtend", false},
	{"--gapopen", "gapOpen", false},
	{"--id", "id", false},
	{"--matrix", "matrix", false},
	{"--max-hsps", "maxHSPS", false},
	{"--max-target-seqs", "maxTargetSeqs", false},
	{"--min-score", "minScore", false},
	{"--outfmt", "outfmt", false},
	{"--query-cover", "queryCover", false},
	{"--sensitive", "sensitive", true},
	{"--more-sensitive", "moreSensitive", true},
	{"--subject-cover", "subjectCover", false},
}

func (h *Handler) handleDiamond(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	args := []string{"diamond", "blastx"}
	for _, f := range diamondFlags {
		v := r.PostFormValue(f.key)
		if f.bool {
			if v != "" && !strings.EqualFold(v, "false") {
				args = append(args, f.flag)
			}
			continue
		}
		if v != "" {
			args = append(args, f.flag, v)
		}
	}
	h.mu.Lock()
	h.lastDiamond = args
	h.mu.Unlock()
	_, _ = w.Write([]byte("diamond completed"))
}

type exportArgs struct {
	minSL, maxSL     int
	filterP          bool
	minA, minT, minG int
	minC             int
	maxA, maxT, maxG int
	maxC             int
	pairedRP         int
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}

func (h *Handler) handleExportTSV(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.session(w, r)
	if !ok {
		return
	}
	a := exportArgs{
		minSL:    queryInt(r, "minSL", 0),
		maxSL:    queryInt(r, "maxSL", 10000),
		filterP:  r.URL.Query().Get("filterP") != "false",
		minA:     queryInt(r, "minA", 0),
		minT:     queryInt(r, "minT", 0),
		minG:     queryInt(r, "minG", 0),
		minC:     queryInt(r, "minC", 0),
		maxA:     queryInt(r, "maxA", 100),
		maxT:     queryInt(r, "maxT", 100),
		maxG:     queryInt(r, "maxG", 100),
		maxC:     queryInt(r, "maxC", 100),
		pairedRP: queryInt(r, "pairedRP", 0),
	}

	w.Header().Set("Content-Type", "text/tsv")
	w.Header().Set("Content-Disposition", `attachment; filename="export_data.tsv"`)
	_ = writeTSV(w, a, ds.Rows())
}
