package results

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/Kyle6012/plagiarism-detection/api/schemas"
)

// EmptyMessage is shown when a batch legitimately has no results. It is
// distinct from any error output.
const EmptyMessage = "No results found for this batch."

// FormatSimilarity renders a [0,1] score as a percentage with one
// decimal place, e.g. 0.15 -> "15.0%".
func FormatSimilarity(similarity float64) string {
	return strconv.FormatFloat(similarity*100, 'f', 1, 64) + "%"
}

// RenderTable writes the result sequence as an aligned table, one row
// per document, in server order.
func RenderTable(w io.Writer, results []schemas.AnalysisResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOCUMENT\tSIMILARITY\tCOMPARED AGAINST")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.DocumentName, FormatSimilarity(r.Similarity), r.SimilarDocumentName)
	}
	return tw.Flush()
}
