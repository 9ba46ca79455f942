// Package ioreport renders results of repair passes as text, JSON or YAML.
package ioreport

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/gnames/cfgrepair/pkg/repair"
	"github.com/gnames/gnfmt"
	"gopkg.in/yaml.v3"
)

// Report is the machine-readable form of a run.
type Report struct {
	Results []Entry `json:"results" yaml:"results"`
	Summary Summary `json:"summary" yaml:"summary"`
}

// Entry is the result of one document with its error as text.
type Entry struct {
	repair.Result `yaml:",inline"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary counts outcomes of a run.
type Summary struct {
	Files     int `json:"files" yaml:"files"`
	Updated   int `json:"updated" yaml:"updated"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Failed    int `json:"failed" yaml:"failed"`
	Removals  int `json:"removals" yaml:"removals"`
}

// New builds a Report from results.
func New(results []repair.Result) Report {
	res := Report{Results: make([]Entry, len(results))}
	res.Summary.Files = len(results)
	for i, v := range results {
		res.Results[i] = Entry{Result: v}
		switch {
		case v.Err != nil:
			res.Results[i].Error = v.Err.Error()
			res.Summary.Failed++
		case v.Changed:
			res.Summary.Updated++
		default:
			res.Summary.Unchanged++
		}
		res.Summary.Removals += len(v.Removals)
	}
	return res
}

// Write renders results to w in the given format: "text", "json"
// or "yaml".
func Write(w io.Writer, results []repair.Result, format string) error {
	var data []byte
	var err error
	rep := New(results)

	switch format {
	case "", "text":
		return writeText(w, rep)
	case "json":
		enc := gnfmt.GNjson{Pretty: true}
		data, err = enc.Encode(rep)
	case "yaml":
		data, err = yaml.Marshal(rep)
	default:
		return UnknownFormatError(format)
	}
	if err != nil {
		return EncodeReportError(format, err)
	}

	if _, err = w.Write(data); err != nil {
		return EncodeReportError(format, err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

func writeText(w io.Writer, rep Report) error {
	single := len(rep.Results) == 1
	for _, v := range rep.Results {
		for _, rm := range v.Removals {
			if _, err := fmt.Fprintln(w, rm.String()); err != nil {
				return err
			}
		}
		if v.Err != nil {
			// errors are shown to the user by the caller
			continue
		}
		if _, err := fmt.Fprintln(w, outcome(v.Result, single)); err != nil {
			return err
		}
	}

	if single {
		return nil
	}
	s := rep.Summary
	_, err := fmt.Fprintf(w,
		"Processed %s files: %s updated, %s unchanged, %s failed, "+
			"%s defaults removed\n",
		humanize.Comma(int64(s.Files)),
		humanize.Comma(int64(s.Updated)),
		humanize.Comma(int64(s.Unchanged)),
		humanize.Comma(int64(s.Failed)),
		humanize.Comma(int64(s.Removals)),
	)
	return err
}

func outcome(r repair.Result, single bool) string {
	switch {
	case r.Written:
		return "Successfully updated " + r.Path
	case r.Changed && r.DryRun:
		return fmt.Sprintf("Dry run, %s would be updated", r.Path)
	case single:
		return "No changes needed"
	default:
		return "No changes needed in " + r.Path
	}
}
