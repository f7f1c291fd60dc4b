package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iafilius/chartviewport/src/axisopts"
	"github.com/iafilius/chartviewport/src/dataset"
	"github.com/iafilius/chartviewport/src/logging"
	"github.com/iafilius/chartviewport/src/types"
	"github.com/iafilius/chartviewport/src/viewport"
)

// A session file scripts a chart: its data, its initial options and a list of
// steps replayed in order.
//
//	data: data.yaml            # or inline labels/rows
//	options: {includeZero: true}
//	steps:
//	  - update: {dateWindow: [12, 18]}
//	  - zoom: {x: [13, 15], y: {y: [0, 10]}}
//	  - reset: true
//	  - data: other.yaml
type sessionDoc struct {
	Data    string       `yaml:"data"`
	Labels  []string     `yaml:"labels"`
	Rows    [][]*float64 `yaml:"rows"`
	Options yaml.Node    `yaml:"options"`
	Steps   []stepDoc    `yaml:"steps"`
}

type stepDoc struct {
	Name   string    `yaml:"name"`
	Update yaml.Node `yaml:"update"`
	Zoom   *zoomDoc  `yaml:"zoom"`
	Reset  bool      `yaml:"reset"`
	Data   string    `yaml:"data"`
}

type zoomDoc struct {
	X []float64            `yaml:"x"`
	Y map[string][]float64 `yaml:"y"`
}

// Session is a decoded session file.
type Session struct {
	Series  []types.Series
	Options axisopts.Options
	Steps   []Step
}

// Step is one replayed action. Exactly one of Update, Zoom, Reset or Data is set.
type Step struct {
	Name   string
	Update *axisopts.Update
	Zoom   *viewport.Zoom
	Reset  bool
	Data   []types.Series
}

func (s Step) kind() string {
	switch {
	case s.Update != nil:
		return "update"
	case s.Zoom != nil:
		return "zoom"
	case s.Reset:
		return "reset"
	case s.Data != nil:
		return "data"
	}
	return "noop"
}

// loadSession reads path. dataOverride, when set, replaces the session data.
// Relative data paths resolve against the session file's directory.
func loadSession(path, dataOverride string) (*Session, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var doc sessionDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	s := &Session{}

	switch {
	case dataOverride != "":
		s.Series, err = dataset.Load(dataOverride)
	case doc.Data != "":
		s.Series, err = dataset.Load(resolvePath(dir, doc.Data))
	default:
		s.Series, err = dataset.Table{Labels: doc.Labels, Rows: doc.Rows}.Series()
	}
	if err != nil {
		return nil, err
	}

	u, err := axisopts.DecodeUpdateNode(&doc.Options)
	if err != nil {
		return nil, fmt.Errorf("session options: %w", err)
	}
	if err := axisopts.Validate(u); err != nil {
		return nil, fmt.Errorf("session options: %w", err)
	}
	s.Options = axisopts.Merge(axisopts.Options{}, u)

	for i := range doc.Steps {
		st, err := decodeStep(dir, i, &doc.Steps[i])
		if err != nil {
			return nil, err
		}
		s.Steps = append(s.Steps, st)
	}
	return s, nil
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func decodeStep(dir string, i int, d *stepDoc) (Step, error) {
	st := Step{Name: d.Name}
	if st.Name == "" {
		st.Name = fmt.Sprintf("step %d", i+1)
	}
	switch {
	case d.Update.Kind != 0:
		// Bad ranges are kept and rejected at replay time, like a live update.
		u, err := axisopts.DecodeUpdateNode(&d.Update)
		if err != nil {
			return Step{}, fmt.Errorf("%s: %w", st.Name, err)
		}
		st.Update = &u
	case d.Zoom != nil:
		z, err := d.Zoom.zoom()
		if err != nil {
			return Step{}, fmt.Errorf("%s: %w", st.Name, err)
		}
		st.Zoom = &z
	case d.Reset:
		st.Reset = true
	case d.Data != "":
		series, err := dataset.Load(resolvePath(dir, d.Data))
		if err != nil {
			return Step{}, fmt.Errorf("%s: %w", st.Name, err)
		}
		if series == nil {
			series = []types.Series{}
		}
		st.Data = series
	}
	return st, nil
}

func (z *zoomDoc) zoom() (viewport.Zoom, error) {
	var out viewport.Zoom
	if z.X != nil {
		if len(z.X) != 2 {
			return out, fmt.Errorf("zoom.x: want [low, high], got %d values", len(z.X))
		}
		r := types.NewRange(z.X[0], z.X[1])
		out.X = &r
	}
	if len(z.Y) > 0 {
		out.Y = make(map[types.AxisID]types.Range, len(z.Y))
		for id, b := range z.Y {
			if len(b) != 2 {
				return out, fmt.Errorf("zoom.y.%s: want [low, high], got %d values", id, len(b))
			}
			out.Y[types.AxisID(id)] = types.NewRange(b[0], b[1])
		}
	}
	return out, nil
}

// replay builds the viewport and runs every step, printing the published
// ranges after the initial state and after each step. A rejected step is
// reported and leaves the ranges unchanged.
func replay(s *Session, out io.Writer) (*viewport.Viewport, error) {
	v, err := viewport.New(s.Series, s.Options)
	if err != nil {
		return nil, err
	}
	printRanges(out, "initial", v)
	for _, st := range s.Steps {
		if err := applyStep(v, st); err != nil {
			logging.Warnf("%s rejected: %v", st.Name, err)
			fmt.Fprintf(out, "%-12s rejected: %v\n", st.Name, err)
			continue
		}
		logging.Debugf("%s: applied %s", st.Name, st.kind())
		printRanges(out, st.Name, v)
	}
	return v, nil
}

func applyStep(v *viewport.Viewport, st Step) error {
	switch {
	case st.Update != nil:
		return v.ApplyOptionsUpdate(*st.Update)
	case st.Zoom != nil:
		return v.ApplyZoom(*st.Zoom)
	case st.Reset:
		v.ResetZoom()
	case st.Data != nil:
		v.SetData(st.Data)
	}
	return nil
}

func printRanges(out io.Writer, label string, v *viewport.Viewport) {
	fmt.Fprintf(out, "%-12s %s\n", label, formatRanges(v))
}

// formatRanges renders "x=[..] y=[..] y2=[..]"; gesture pins get a * and
// option pins a +.
func formatRanges(v *viewport.Viewport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "x=%s%s", v.XRange(), pinMark(v.XState()))
	ys := v.YRanges()
	ids := make([]types.AxisID, 0, len(ys))
	for id := range ys {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := ids[i].Index()
		c, _ := ids[j].Index()
		return a < c
	})
	for _, id := range ids {
		st, _ := v.YState(id)
		fmt.Fprintf(&b, " %s=%s%s", id, ys[id], pinMark(st))
	}
	return b.String()
}

func pinMark(st viewport.AxisState) string {
	if st.Mode != viewport.ModePinned {
		return ""
	}
	if st.Source == viewport.PinGesture {
		return "*"
	}
	return "+"
}
