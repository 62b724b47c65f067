package stubserver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

func writeTSV(w io.Writer, a exportArgs, rows []ExportRow) error {
	bw := bufio.NewWriter(w)
	_, _ = fmt.Fprintf(bw,
		"#min_seq_len:%d | max_seq_len:%d | filter_paired:%t | min_A_perc:%d | max_A_perc:%d | min_T_perc:%d | max_T_perc:%d | min_G_perc:%d | max_G_perc:%d | min_C_perc:%d | max_C_perc:%d | paired_read_percentages:%d\n",
		a.minSL, a.maxSL, a.filterP, a.minA, a.maxA, a.minT, a.maxT, a.minG, a.maxG, a.minC, a.maxC, a.pairedRP)
	_, _ = fmt.Fprintln(bw, "#column flagged; True means it's filtered, False means it's a good sequence")
	_, _ = fmt.Fprintln(bw, "id\tfw_seq\trvc_seq\tfw_seq_length\trv_seq_length\tpaired\tidentity\tflagged")
	for _, r := range rows {
		ident := ""
		if r.Identity != nil {
			ident = strconv.FormatFloat(*r.Identity, 'f', 3, 64)
		}
		_, _ = fmt.Fprintf(bw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			r.ID, r.FwSeq, r.RvcSeq, r.FwLength, r.RvLength, pyBool(r.Paired), ident, pyBool(r.Flagged))
	}
	return bw.Flush()
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func itoa(i int) string { return strconv.Itoa(i) }
