package easing

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownEasing is returned by Parse for names it does not recognize.
var ErrUnknownEasing = errors.New("easing: unknown easing")

var kindNames = map[Kind]string{
	Linear:       "linear",
	EaseIn:       "ease_in",
	EaseOut:      "ease_out",
	EaseInOut:    "ease_in_out",
	InQuad:       "in_quad",
	OutQuad:      "out_quad",
	InOutQuad:    "in_out_quad",
	InCubic:      "in_cubic",
	OutCubic:     "out_cubic",
	InOutCubic:   "in_out_cubic",
	InQuart:      "in_quart",
	OutQuart:     "out_quart",
	InOutQuart:   "in_out_quart",
	InSine:       "in_sine",
	OutSine:      "out_sine",
	InOutSine:    "in_out_sine",
	InExpo:       "in_expo",
	OutExpo:      "out_expo",
	InOutExpo:    "in_out_expo",
	InBack:       "in_back",
	OutBack:      "out_back",
	InOutBack:    "in_out_back",
	InElastic:    "in_elastic",
	OutElastic:   "out_elastic",
	InOutElastic: "in_out_elastic",
	InBounce:     "in_bounce",
	OutBounce:    "out_bounce",
	InOutBounce:  "in_out_bounce",
	OutInQuad:    "out_in_quad",
	OutInCubic:   "out_in_cubic",
	OutInElastic: "out_in_elastic",
	OutInBounce:  "out_in_bounce",
}

var byName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// Parse resolves a snake_case easing name. The empty string is Linear.
// Bezier curves are written cubic_bezier(x1,y1,x2,y2).
func Parse(name string) (Easing, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Easing{}, nil
	}

	if strings.HasPrefix(name, "cubic_bezier(") && strings.HasSuffix(name, ")") {
		args := strings.Split(name[len("cubic_bezier("):len(name)-1], ",")
		if len(args) != 4 {
			return Easing{}, fmt.Errorf("%w: %s needs 4 control points", ErrUnknownEasing, name)
		}
		var p [4]float64
		for i, a := range args {
			v, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
			if err != nil {
				return Easing{}, fmt.Errorf("%w: %s: %v", ErrUnknownEasing, name, err)
			}
			p[i] = v
		}
		return Bezier(p[0], p[1], p[2], p[3]), nil
	}

	k, ok := byName[name]
	if !ok {
		return Easing{}, fmt.Errorf("%w: %s", ErrUnknownEasing, name)
	}
	return Of(k), nil
}

// MustParse is Parse for names known at compile time.
func MustParse(name string) Easing {
	e, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return e
}

// Names lists every named curve, sorted.
func Names() []string {
	names := make([]string, 0, len(kindNames))
	for _, n := range kindNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MarshalText implements encoding.TextMarshaler so easings can appear in config.
func (e Easing) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Easing) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
