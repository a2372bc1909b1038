package geom

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sentinel errors for the two parse failure classes. Callers that care can
// errors.Is against these; the wrapped message carries the offending token
// or count.
var (
	ErrUnsupportedKind = errors.New("unsupported shape kind")
	ErrMalformedRecord = errors.New("malformed shape record")
)

// colorToken separates coordinates from the optional RGBA tail on a line.
const colorToken = "color"

// kindSpec drives arity validation per kind. exact < 0 means "even count,
// at least min".
type kindSpec struct {
	kind  Kind
	min   int
	exact int
}

var kindTable = map[string]kindSpec{
	"Circle":   {kind: KindCircle, exact: 3},
	"Point":    {kind: KindPoint, exact: 2},
	"Triangle": {kind: KindTriangle, exact: 6},
	"Polygon":  {kind: KindPolygon, min: 6, exact: -1},
}

// ParseLine parses one shape line of the form
//
//	<Kind> <coord>... [color <r> <g> <b> <a>]
//
// splitting on whitespace. Tokens after the literal "color" token are the
// RGBA channels; when absent the shape gets defaultColor. Unknown kinds and
// coordinate-count violations fail with ErrUnsupportedKind and
// ErrMalformedRecord respectively.
func ParseLine(line string, defaultColor Color) (Shape, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Shape{}, fmt.Errorf("%w: empty line", ErrMalformedRecord)
	}

	spec, ok := kindTable[fields[0]]
	if !ok {
		return Shape{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, fields[0])
	}

	coordTokens := fields[1:]
	colorTokens := []string(nil)
	for i, f := range coordTokens {
		if f == colorToken {
			colorTokens = coordTokens[i+1:]
			coordTokens = coordTokens[:i]
			break
		}
	}

	coords, err := parseFloats(coordTokens)
	if err != nil {
		return Shape{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if spec.exact >= 0 {
		if len(coords) != spec.exact {
			return Shape{}, fmt.Errorf("%w: %s wants %d coordinates, got %d",
				ErrMalformedRecord, spec.kind, spec.exact, len(coords))
		}
	} else if len(coords) < spec.min || len(coords)%2 != 0 {
		return Shape{}, fmt.Errorf("%w: %s wants an even coordinate count of at least %d, got %d",
			ErrMalformedRecord, spec.kind, spec.min, len(coords))
	}

	c := defaultColor
	if colorTokens != nil {
		ch, err := parseFloats(colorTokens)
		if err != nil {
			return Shape{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		if len(ch) != 4 {
			return Shape{}, fmt.Errorf("%w: color wants 4 channels, got %d",
				ErrMalformedRecord, len(ch))
		}
		c = Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
	}

	return Shape{Kind: spec.kind, Coords: coords, Color: c}, nil
}

// ParseFile reads one shape per non-blank line. The first bad line aborts
// the whole read with its line number; there is no partial recovery.
func ParseFile(r io.Reader, defaultColor Color) ([]Shape, error) {
	var shapes []Shape
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		s, err := ParseLine(line, defaultColor)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		shapes = append(shapes, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read shapes: %w", err)
	}
	return shapes, nil
}

func parseFloats(tokens []string) ([]float64, error) {
	out := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", tok)
		}
		out = append(out, v)
	}
	return out, nil
}
