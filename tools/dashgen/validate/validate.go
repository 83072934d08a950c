// Package validate checks PromQL in generated dashboards and rules against
// the set of metrics pricediff exports.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/pricediff/tools/dashgen/rules"
)

// histogramSuffixes are the series a histogram metric expands into.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Result collects validation findings. Errors fail generation; warnings
// are reported only.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether there are no errors.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Err returns the errors joined, or nil.
func (r Result) Err() error {
	if r.Ok() {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, errors.New(e))
	}
	return errors.Join(errs...)
}

// Expr parses one PromQL expression and checks every selected metric name.
func Expr(where, expr string, known map[string]bool) Result {
	var res Result

	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: invalid PromQL %q: %v", where, expr, err))
		return res
	}

	for _, name := range metricNames(node) {
		if !isKnown(name, known) {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: unknown metric %q", where, name))
		}
	}
	return res
}

// Dashboard validates every query expression in a built dashboard. The
// dashboard is walked in its JSON form, so any panel type is covered.
func Dashboard(dash any, known map[string]bool) Result {
	var res Result

	raw, err := json.Marshal(dash)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("encoding dashboard: %v", err))
		return res
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return res
	}

	for _, p := range panels(tree) {
		title, _ := p["title"].(string)
		targets, _ := p["targets"].([]any)
		if len(targets) == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("panel %q has no queries", title))
			continue
		}
		for _, t := range targets {
			target, _ := t.(map[string]any)
			expr, _ := target["expr"].(string)
			if expr == "" {
				res.Warnings = append(res.Warnings, fmt.Sprintf("panel %q has an empty query", title))
				continue
			}
			res.merge(Expr(fmt.Sprintf("panel %q", title), expr, known))
		}
	}
	return res
}

// Rules validates rule expressions. Names recorded by earlier rules count
// as known for later ones.
func Rules(groups []rules.RuleGroup, known map[string]bool) Result {
	var res Result

	seen := make(map[string]bool, len(known))
	for k, v := range known {
		seen[k] = v
	}

	for _, g := range groups {
		for _, r := range g.Rules {
			name := r.Record
			if name == "" {
				name = r.Alert
			}
			if name == "" {
				res.Errors = append(res.Errors, fmt.Sprintf("group %q: rule without record or alert name", g.Name))
				continue
			}
			res.merge(Expr(fmt.Sprintf("rule %q", name), r.Expr, seen))
			if r.Alert != "" && r.Labels["severity"] == "" {
				res.Warnings = append(res.Warnings, fmt.Sprintf("alert %q has no severity", r.Alert))
			}
			if r.Record != "" {
				seen[r.Record] = true
			}
		}
	}
	return res
}

func (r *Result) merge(o Result) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

func metricNames(node parser.Node) []string {
	set := map[string]struct{}{}
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			set[vs.Name] = struct{}{}
		}
		return nil
	})

	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func isKnown(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

// panels flattens top-level panels and panels nested in rows.
func panels(tree map[string]any) []map[string]any {
	var out []map[string]any
	top, _ := tree["panels"].([]any)
	for _, item := range top {
		p, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if p["type"] == "row" {
			nested, _ := p["panels"].([]any)
			for _, n := range nested {
				if np, ok := n.(map[string]any); ok {
					out = append(out, np)
				}
			}
			continue
		}
		out = append(out, p)
	}
	return out
}
