package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/donaldgifford/pricediff/internal/engine"
	domain "github.com/donaldgifford/pricediff/pkg/types"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printResult(w io.Writer, format string, res *engine.Result) error {
	if format == formatJSON {
		return outputJSON(w, newResultView(res))
	}
	return printResultTable(w, res)
}

func printResultTable(w io.Writer, res *engine.Result) error {
	tw := newTabWriter(w)
	tw.writef("Model:\t%s\n", res.Row.SearchTerm)
	tw.writef("Name:\t%s\n", orDash(res.Row.Name))
	tw.writef("Report:\t%s\n\n", orDash(res.ReportPath))
	if err := tw.finish(); err != nil {
		return err
	}

	tw = newTabWriter(w)
	tw.writef("SOURCE\tSTATUS\tPRICE\tSHIPPING\tNAME\tURL\n")
	for i := range res.Outcomes {
		o := &res.Outcomes[i]
		l := o.Listing
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			o.Source,
			o.Status,
			orDash(l.PriceString()),
			orDash(shippingText(l)),
			truncate(orDash(listingName(l)), 40),
			orDash(listingURL(l)),
		)
	}
	return tw.finish()
}

// outcomeView is the JSON shape of one outcome; errors become strings.
type outcomeView struct {
	Source  domain.Source        `json:"source"`
	Status  domain.OutcomeStatus `json:"status"`
	Listing *domain.Listing      `json:"listing,omitempty"`
	Error   string               `json:"error,omitempty"`
}

type resultView struct {
	RunID      string        `json:"run_id"`
	SearchTerm string        `json:"search_term"`
	Name       string        `json:"name"`
	ImageURL   string        `json:"image_url,omitempty"`
	ReportPath string        `json:"report_path,omitempty"`
	Outcomes   []outcomeView `json:"outcomes"`
}

func newResultView(res *engine.Result) resultView {
	v := resultView{
		RunID:      res.RunID,
		SearchTerm: res.Row.SearchTerm,
		Name:       res.Row.Name,
		ImageURL:   res.Row.ImageURL,
		ReportPath: res.ReportPath,
		Outcomes:   make([]outcomeView, 0, len(res.Outcomes)),
	}
	for i := range res.Outcomes {
		o := &res.Outcomes[i]
		ov := outcomeView{Source: o.Source, Status: o.Status, Listing: o.Listing}
		if o.Err != nil {
			ov.Error = o.Err.Error()
		}
		v.Outcomes = append(v.Outcomes, ov)
	}
	return v
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shippingText(l *domain.Listing) string {
	if l == nil {
		return ""
	}
	if l.Shipping == nil {
		return "unknown"
	}
	if *l.Shipping == 0 {
		return "free"
	}
	return l.ShippingString()
}

func listingName(l *domain.Listing) string {
	if l == nil {
		return ""
	}
	return l.Name
}

func listingURL(l *domain.Listing) string {
	if l == nil {
		return ""
	}
	return l.URL
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to maxLen runes.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
