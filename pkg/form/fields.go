package form

import "github.com/go-go-golems/readviz/pkg/protocol"

type ControlType string

const (
	ControlText     ControlType = "text"
	ControlCheckbox ControlType = "checkbox"
)

// Field binds one input control to the request key it is sent as.
type Field struct {
	Control string
	Key     string
	Type    ControlType
	Flag    string
	Help    string
	Default string
}

func (f Field) IsCheckbox() bool { return f.Type == ControlCheckbox }

func text(control, key, flag, help, def string) Field {
	return Field{Control: control, Key: key, Type: ControlText, Flag: flag, Help: help, Default: def}
}

func checkbox(control, key, flag, help, def string) Field {
	return Field{Control: control, Key: key, Type: ControlCheckbox, Flag: flag, Help: help, Default: def}
}

var sequenceFields = []Field{
	text("min_seq_len", "min_seq_len", "min-seq-len", "Minimum sequence length", "0"),
	text("max_seq_len", "max_seq_len", "max-seq-len", "Maximum sequence length", "10000"),
}

var pairedFields = []Field{
	checkbox("checkPaired", "FilterPaired", "filter-paired", "Only keep paired reads", "false"),
}

var nucleotideFields = []Field{
	text("min_A_value", "minAValue", "min-a", "Minimum A percentage", "0"),
	text("min_T_value", "minTValue", "min-t", "Minimum T percentage", "0"),
	text("min_G_value", "minGValue", "min-g", "Minimum G percentage", "0"),
	text("min_C_value", "minCValue", "min-c", "Minimum C percentage", "0"),
	text("max_A_value", "maxAValue", "max-a", "Maximum A percentage", "100"),
	text("max_T_value", "maxTValue", "max-t", "Maximum T percentage", "100"),
	text("max_G_value", "maxGValue", "max-g", "Maximum G percentage", "100"),
	text("max_C_value", "maxCValue", "max-c", "Maximum C percentage", "100"),
	text("nucleotide_bin_size", "BinSize", "bin-size", "Percentage bucket size", "10"),
}

var identityFields = []Field{
	text("paired_read_percentage", "paired_read_percentage", "paired-read-percentage", "Minimum forward/reverse identity percentage", "0"),
}

var diamondFields = []Field{
	text("max-target-seqs", "maxTargetSeqs", "max-target-seqs", "Maximum number of target sequences to report", ""),
	text("evalue", "evalue", "evalue", "Maximum e-value to report alignments", ""),
	checkbox("sensitive", "sensitive", "sensitive", "Sensitive alignment mode", "false"),
	checkbox("more-sensitive", "moreSensitive", "more-sensitive", "More sensitive alignment mode", "false"),
	text("frameshift", "frameshift", "frameshift", "Frame shift penalty", ""),
	text("gapopen", "gapOpen", "gapopen", "Gap open penalty", ""),
	text("gapextend", "gapExtend", "gapextend", "Gap extension penalty", ""),
	text("matrix", "matrix", "matrix", "Scoring matrix", ""),
	text("algorithm", "algorithm", "algorithm", "Seed search algorithm", ""),
	text("outfmt", "outfmt", "outfmt", "Output format", ""),
	text("compress", "compress", "compress", "Output compression", ""),
	text("min-score", "minScore", "min-score", "Minimum bit score", ""),
	text("id", "id", "id", "Minimum identity percentage", ""),
	text("query-cover", "queryCover", "query-cover", "Minimum query cover percentage", ""),
	text("subject-cover", "subjectCover", "subject-cover", "Minimum subject cover percentage", ""),
	text("max-hsps", "maxHSPS", "max-hsps", "Maximum HSPs per target", ""),
}

// exportFields is also the query string order of the export URL.
var exportFields = []Field{
	text("min_seq_len", "minSL", "min-seq-len", "Minimum sequence length", "0"),
	text("max_seq_len", "maxSL", "max-seq-len", "Maximum sequence length", "10000"),
	checkbox("checkPaired", "filterP", "filter-paired", "Only keep paired reads", "false"),
	text("min_A_value", "minA", "min-a", "Minimum A percentage", "0"),
	text("min_T_value", "minT", "min-t", "Minimum T percentage", "0"),
	text("min_G_value", "minG", "min-g", "Minimum G percentage", "0"),
	text("min_C_value", "minC", "min-c", "Minimum C percentage", "0"),
	text("max_A_value", "maxA", "max-a", "Maximum A percentage", "100"),
	text("max_T_value", "maxT", "max-t", "Maximum T percentage", "100"),
	text("max_G_value", "maxG", "max-g", "Maximum G percentage", "100"),
	text("max_C_value", "maxC", "max-c", "Maximum C percentage", "100"),
	text("paired_read_percentage", "pairedRP", "paired-read-percentage", "Minimum forward/reverse identity percentage", "0"),
}

var fieldsByKind = map[protocol.ActionKind][]Field{
	protocol.ActionSequence:     sequenceFields,
	protocol.ActionPaired:       pairedFields,
	protocol.ActionNucleotide:   nucleotideFields,
	protocol.ActionCalcIdentity: nil,
	protocol.ActionIdentity:     identityFields,
	protocol.ActionDiamond:      diamondFields,
	protocol.ActionExportTSV:    exportFields,
}

// Fields returns the ordered controls read for kind.
func Fields(kind protocol.ActionKind) []Field {
	return append([]Field(nil), fieldsByKind[kind]...)
}

// Controls returns every distinct control across all actions, in first-seen order.
func Controls() []Field {
	seen := map[string]struct{}{}
	var out []Field
	for _, kind := range protocol.Kinds {
		for _, f := range fieldsByKind[kind] {
			if _, ok := seen[f.Control]; ok {
				continue
			}
			seen[f.Control] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}
