package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iafilius/chartviewport/src/axisopts"
	"github.com/iafilius/chartviewport/src/dataset"
	"github.com/iafilius/chartviewport/src/logging"
	"github.com/iafilius/chartviewport/src/types"
	"github.com/iafilius/chartviewport/src/viewport"
)

// updateList collects repeated -update flags in order.
type updateList []string

func (u *updateList) String() string { return strings.Join(*u, "; ") }

func (u *updateList) Set(s string) error {
	*u = append(*u, s)
	return nil
}

type rangeJSON struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

type report struct {
	X      rangeJSON            `json:"x"`
	Y      map[string]rangeJSON `json:"y"`
	Zoomed bool                 `json:"zoomed"`
}

func toJSON(r types.Range) rangeJSON { return rangeJSON{Low: r.Low, High: r.High} }

// document returns v itself, or the contents of the file it names when v
// starts with '@'.
func document(v string) ([]byte, error) {
	if path, ok := strings.CutPrefix(v, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return b, nil
	}
	return []byte(v), nil
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("rangereader", flag.ContinueOnError)
	var data, options, level string
	var updates updateList
	fs.StringVar(&data, "data", "data.yaml", "Path to the chart data file")
	fs.StringVar(&options, "options", "", "Initial options as YAML/JSON, or @file")
	fs.Var(&updates, "update", "Option update as YAML/JSON, or @file (repeatable, applied in order)")
	fs.StringVar(&level, "log-level", "warn", "Log level: debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	logging.SetLogLevel(level)

	series, err := dataset.Load(data)
	if err != nil {
		return err
	}
	var opts axisopts.Options
	if options != "" {
		doc, err := document(options)
		if err != nil {
			return err
		}
		if opts, err = axisopts.ParseOptions(doc); err != nil {
			return err
		}
	}
	v, err := viewport.New(series, opts)
	if err != nil {
		return err
	}
	for i, raw := range updates {
		doc, err := document(raw)
		if err != nil {
			return fmt.Errorf("update %d: %w", i+1, err)
		}
		u, err := axisopts.ParseUpdate(doc)
		if err != nil {
			return fmt.Errorf("update %d: %w", i+1, err)
		}
		if err := v.ApplyOptionsUpdate(u); err != nil {
			return fmt.Errorf("update %d: %w", i+1, err)
		}
	}

	rep := report{X: toJSON(v.XRange()), Y: map[string]rangeJSON{}, Zoomed: v.IsZoomed()}
	for id, r := range v.YRanges() {
		rep.Y[string(id)] = toJSON(r)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
