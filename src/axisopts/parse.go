package axisopts

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iafilius/chartviewport/src/logging"
	"github.com/iafilius/chartviewport/src/types"
)

// Option documents are YAML or JSON (JSON parses as YAML). Each key is held as
// a yaml.Node so a missing key (zero Node) and an explicit null (!!null) stay
// distinguishable all the way into Update.
type updateDoc struct {
	DateWindow  yaml.Node `yaml:"dateWindow"`
	ValueRange  yaml.Node `yaml:"valueRange"`
	IncludeZero yaml.Node `yaml:"includeZero"`
	LogScale    yaml.Node `yaml:"logscale"`
	Axes        yaml.Node `yaml:"axes"`
	Series      yaml.Node `yaml:"series"`
}

type axisDoc struct {
	ValueRange  yaml.Node `yaml:"valueRange"`
	IncludeZero yaml.Node `yaml:"includeZero"`
	LogScale    yaml.Node `yaml:"logscale"`
}

type seriesDoc struct {
	Axis yaml.Node `yaml:"axis"`
}

// ParseUpdate decodes a partial option update. Unknown keys are ignored,
// except top-level series entries of the form `name: {axis: ...}`. Malformed
// booleans are dropped with a warning; malformed ranges fail with
// ErrInvalidRangeOption.
func ParseUpdate(data []byte) (Update, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Update{}, fmt.Errorf("decode options: %w", err)
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		return DecodeUpdateNode(root.Content[0])
	}
	return Update{}, nil
}

// ParseOptions decodes a full option set. Nulls simply leave keys unset.
func ParseOptions(data []byte) (Options, error) {
	u, err := ParseUpdate(data)
	if err != nil {
		return Options{}, err
	}
	if err := Validate(u); err != nil {
		return Options{}, err
	}
	return Merge(Options{}, u), nil
}

// DecodeUpdateNode decodes an update embedded in a larger document.
func DecodeUpdateNode(n *yaml.Node) (Update, error) {
	if n == nil || n.Kind == 0 || isNull(n) {
		return Update{}, nil
	}
	var doc updateDoc
	if err := n.Decode(&doc); err != nil {
		return Update{}, fmt.Errorf("decode options: %w", err)
	}
	u, err := decodeUpdate(&doc)
	if err != nil {
		return Update{}, err
	}
	if err := foldTopLevelSeries(&u, n); err != nil {
		return Update{}, err
	}
	return u, nil
}

var updateKeys = map[string]bool{
	"dateWindow":  true,
	"valueRange":  true,
	"includeZero": true,
	"logscale":    true,
	"axes":        true,
	"series":      true,
}

// foldTopLevelSeries accepts the older shape where per-series options sit at
// the top level under the series name, e.g. `B: {axis: {}}`. Only mappings
// carrying an axis key are taken. Entries under series: win.
func foldTopLevelSeries(u *Update, n *yaml.Node) error {
	if n.Kind != yaml.MappingNode || u.Series.Null {
		return nil
	}
	legacy := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if updateKeys[k.Value] || v.Kind != yaml.MappingNode || !hasKey(v, "axis") {
			continue
		}
		legacy.Content = append(legacy.Content, k, v)
	}
	if len(legacy.Content) == 0 {
		return nil
	}
	top, err := decodeSeries(legacy)
	if err != nil {
		return err
	}
	if !u.Series.Present {
		u.Series = top
		return nil
	}
	for name, so := range top.Value {
		if _, ok := u.Series.Value[name]; !ok {
			u.Series.Value[name] = so
		}
	}
	return nil
}

func hasKey(n *yaml.Node, key string) bool {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}

func decodeUpdate(doc *updateDoc) (Update, error) {
	var (
		u   Update
		err error
	)
	if u.DateWindow, err = decodeRangeOpt("dateWindow", &doc.DateWindow); err != nil {
		return Update{}, err
	}
	if u.ValueRange, err = decodeRangeOpt("valueRange", &doc.ValueRange); err != nil {
		return Update{}, err
	}
	u.IncludeZero = decodeBoolOpt("includeZero", &doc.IncludeZero)
	u.LogScale = decodeBoolOpt("logscale", &doc.LogScale)
	if u.Axes, err = decodeAxes(&doc.Axes); err != nil {
		return Update{}, err
	}
	if u.Series, err = decodeSeries(&doc.Series); err != nil {
		return Update{}, err
	}
	return u, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func decodeRangeOpt(key string, n *yaml.Node) (Opt[types.Range], error) {
	switch {
	case n.Kind == 0:
		return Opt[types.Range]{}, nil
	case isNull(n):
		return Null[types.Range](), nil
	}
	r, err := DecodeRange(key, n)
	if err != nil {
		return Opt[types.Range]{}, err
	}
	return Set(r), nil
}

// DecodeRange decodes a [low, high] sequence. A null bound, .nan or "NaN"
// yields an unset (NaN) bound.
func DecodeRange(key string, n *yaml.Node) (types.Range, error) {
	bad := types.NewRange(math.NaN(), math.NaN())
	if n.Kind != yaml.SequenceNode || len(n.Content) != 2 {
		return bad, NewRangeOptionError(key, bad, "expected a [low, high] pair")
	}
	low, err := decodeBound(key, n.Content[0])
	if err != nil {
		return bad, err
	}
	high, err := decodeBound(key, n.Content[1])
	if err != nil {
		return bad, err
	}
	return types.NewRange(low, high), nil
}

func decodeBound(key string, n *yaml.Node) (float64, error) {
	if isNull(n) {
		return math.NaN(), nil
	}
	var v float64
	if err := n.Decode(&v); err == nil {
		return v, nil
	}
	if n.Kind == yaml.ScalarNode {
		if v, err := strconv.ParseFloat(strings.TrimSpace(n.Value), 64); err == nil {
			return v, nil
		}
	}
	bad := types.NewRange(math.NaN(), math.NaN())
	return 0, NewRangeOptionError(key, bad, fmt.Sprintf("bound %q is not a number", n.Value))
}

func decodeBoolOpt(key string, n *yaml.Node) Opt[bool] {
	switch {
	case n.Kind == 0:
		return Opt[bool]{}
	case isNull(n):
		return Null[bool]()
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		logging.Warnf("ignoring option %s: %v", key, err)
		return Opt[bool]{}
	}
	return Set(b)
}

func decodeAxes(n *yaml.Node) (Opt[map[types.AxisID]*AxisUpdate], error) {
	switch {
	case n.Kind == 0:
		return Opt[map[types.AxisID]*AxisUpdate]{}, nil
	case isNull(n):
		return Null[map[types.AxisID]*AxisUpdate](), nil
	case n.Kind != yaml.MappingNode:
		logging.Warnf("ignoring option axes: expected a mapping")
		return Opt[map[types.AxisID]*AxisUpdate]{}, nil
	}
	out := map[types.AxisID]*AxisUpdate{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		id := types.AxisID(n.Content[i].Value)
		v := n.Content[i+1]
		if isNull(v) {
			out[id] = nil
			continue
		}
		if v.Kind != yaml.MappingNode {
			logging.Warnf("ignoring option axes.%s: expected a mapping", id)
			continue
		}
		var doc axisDoc
		if err := v.Decode(&doc); err != nil {
			return Opt[map[types.AxisID]*AxisUpdate]{}, fmt.Errorf("decode axes.%s: %w", id, err)
		}
		au := &AxisUpdate{}
		var err error
		if au.ValueRange, err = decodeRangeOpt("axes."+string(id)+".valueRange", &doc.ValueRange); err != nil {
			return Opt[map[types.AxisID]*AxisUpdate]{}, err
		}
		au.IncludeZero = decodeBoolOpt("axes."+string(id)+".includeZero", &doc.IncludeZero)
		au.LogScale = decodeBoolOpt("axes."+string(id)+".logscale", &doc.LogScale)
		out[id] = au
	}
	return Set(out), nil
}

func decodeSeries(n *yaml.Node) (Opt[map[string]*SeriesOptions], error) {
	switch {
	case n.Kind == 0:
		return Opt[map[string]*SeriesOptions]{}, nil
	case isNull(n):
		return Null[map[string]*SeriesOptions](), nil
	case n.Kind != yaml.MappingNode:
		logging.Warnf("ignoring option series: expected a mapping")
		return Opt[map[string]*SeriesOptions]{}, nil
	}
	out := map[string]*SeriesOptions{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		v := n.Content[i+1]
		if isNull(v) {
			out[name] = nil
			continue
		}
		var doc seriesDoc
		if err := v.Decode(&doc); err != nil {
			return Opt[map[string]*SeriesOptions]{}, fmt.Errorf("decode series.%s: %w", name, err)
		}
		so := &SeriesOptions{}
		switch doc.Axis.Kind {
		case yaml.ScalarNode:
			if !isNull(&doc.Axis) {
				so.Axis = types.AxisID(strings.TrimSpace(doc.Axis.Value))
			}
		case yaml.MappingNode:
			var ad axisDoc
			if err := doc.Axis.Decode(&ad); err != nil {
				return Opt[map[string]*SeriesOptions]{}, fmt.Errorf("decode series.%s.axis: %w", name, err)
			}
			legacy, err := legacyAxisOptions("series."+name+".axis", &ad)
			if err != nil {
				return Opt[map[string]*SeriesOptions]{}, err
			}
			so.LegacyAxis = &legacy
		}
		out[name] = so
	}
	return Set(out), nil
}

func legacyAxisOptions(prefix string, ad *axisDoc) (AxisOptions, error) {
	var a AxisOptions
	vr, err := decodeRangeOpt(prefix+".valueRange", &ad.ValueRange)
	if err != nil {
		return a, err
	}
	if vr.HasValue() {
		r := vr.Value
		a.ValueRange = &r
	}
	if iz := decodeBoolOpt(prefix+".includeZero", &ad.IncludeZero); iz.HasValue() {
		a.IncludeZero = Bool(iz.Value)
	}
	if ls := decodeBoolOpt(prefix+".logscale", &ad.LogScale); ls.HasValue() {
		a.LogScale = Bool(ls.Value)
	}
	return a, nil
}
