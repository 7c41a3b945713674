// Package catalog models the mini-app list document and the upsert applied to it.
package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/yourorg/miniapp-config/internal/normalize"
)

// Field names as they appear in the stored document.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldModuleName  = "module_name"
	FieldIcon        = "icon"
	FieldColor       = "color"
	FieldMiniAppType = "miniAppType"
	FieldCategory    = "category"
	FieldImage       = "image"
	FieldHost        = "host"
	FieldReleaseURL  = "releaseUrl"
	FieldHot         = "hot"
	FieldTag         = "tag"
	FieldScore       = "score"
)

// Insert-path defaults.
const (
	DefaultIcon        = "📌"
	DefaultColor       = "#000000"
	DefaultMiniAppType = "RN"
	DefaultCategory    = "gaming"
)

// Record is one entry of the document. Fields the engine does not interpret are
// carried through untouched; numbers stay json.Number so they re-encode verbatim.
type Record map[string]any

// Collection is the ordered list of records held by one document.
type Collection []Record

func (r Record) str(field string) (string, bool) {
	s, ok := r[field].(string)
	return s, ok
}

// Name returns the record's name when it is a string.
func (r Record) Name() (string, bool) { return r.str(FieldName) }

// ModuleName returns the record's module_name when it is a string.
func (r Record) ModuleName() (string, bool) { return r.str(FieldModuleName) }

// ID returns the record's id as stored, or "" when absent or not a string.
func (r Record) ID() string {
	s, _ := r.str(FieldID)
	return s
}

// Matches reports whether the record's composite key equals (name, moduleName).
// Comparison is exact; a non-string field never matches.
func (r Record) Matches(name, moduleName string) bool {
	n, ok := r.Name()
	if !ok || n != name {
		return false
	}
	m, ok := r.ModuleName()
	return ok && m == moduleName
}

// NumericID interprets the record's id the way the document's other writers do:
// a number is first printed in its shortest form, then leading whitespace, an
// optional sign and leading decimal digits are read. Anything without a digit
// prefix is 0. The result is a float64 so ids past 2^63 keep their magnitude.
func (r Record) NumericID() float64 {
	var s string
	switch v := r[FieldID].(type) {
	case string:
		s = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		s = formatNumber(f)
	case float64:
		s = formatNumber(v)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	default:
		return 0
	}
	return leadingInt(s)
}

func leadingInt(s string) float64 {
	s = strings.TrimLeftFunc(s, normalize.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		// only ErrRange is possible for a digit run
		n = math.Inf(1)
	}
	if neg {
		return -n
	}
	return n
}

// formatNumber prints f the way the document's writers stringify numbers:
// plain digits between 1e-6 and 1e21, exponent form outside that range.
func formatNumber(f float64) string {
	switch {
	case f == 0:
		return "0"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if a := math.Abs(f); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// MaxID returns the largest NumericID in c, never less than 0.
func (c Collection) MaxID() float64 {
	var hi float64
	for _, r := range c {
		if id := r.NumericID(); id > hi {
			hi = id
		}
	}
	return hi
}

// NextID is the id given to an appended record: MaxID plus one, printed as a
// decimal string.
func (c Collection) NextID() string {
	return formatNumber(c.MaxID() + 1)
}

// Index returns the position of the first record matching the composite key, or -1.
func (c Collection) Index(name, moduleName string) int {
	for i, r := range c {
		if r.Matches(name, moduleName) {
			return i
		}
	}
	return -1
}
