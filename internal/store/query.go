package store

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
)

// Operator is a comparison used in a Condition.
type Operator string

const (
	OpEQ  Operator = "eq"
	OpNE  Operator = "ne"
	OpLT  Operator = "lt"
	OpLTE Operator = "lte"
	OpGT  Operator = "gt"
	OpGTE Operator = "gte"
	OpIn  Operator = "in"
)

// Condition filters records on one top-level field.
type Condition struct {
	Field string   `json:"field"`
	Op    Operator `json:"op"`
	Value any      `json:"value"`
}

// Order sorts records on one top-level field.
type Order struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc,omitempty"`
}

// Query selects records. All conditions must match. Records are returned
// in OrderBy order with ties broken by ascending Id.
type Query struct {
	Where   []Condition `json:"where,omitempty"`
	OrderBy []Order     `json:"orderBy,omitempty"`
	Limit   int         `json:"limit,omitempty"` // 0 = unlimited
	Offset  int         `json:"offset,omitempty"`
}

// Eq is shorthand for an equality condition.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Op: OpEQ, Value: value}
}

// In is shorthand for a membership condition. No values matches nothing.
func In(field string, values ...any) Condition {
	if values == nil {
		values = []any{}
	}
	return Condition{Field: field, Op: OpIn, Value: values}
}

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks field names, operators and value shapes. Errors wrap
// ErrInvalidQuery.
func (q Query) Validate() error {
	for _, c := range q.Where {
		if !fieldPattern.MatchString(c.Field) {
			return fmt.Errorf("%w: invalid field name %q", ErrInvalidQuery, c.Field)
		}
		switch c.Op {
		case OpEQ, OpNE, OpLT, OpLTE, OpGT, OpGTE:
		case OpIn:
			if _, ok := normalize(c.Value).([]any); !ok {
				return fmt.Errorf("%w: field %q: %q needs a list value", ErrInvalidQuery, c.Field, c.Op)
			}
		default:
			return fmt.Errorf("%w: field %q: unknown operator %q", ErrInvalidQuery, c.Field, c.Op)
		}
	}
	for _, o := range q.OrderBy {
		if !fieldPattern.MatchString(o.Field) {
			return fmt.Errorf("%w: invalid order field %q", ErrInvalidQuery, o.Field)
		}
	}
	if q.Limit < 0 || q.Offset < 0 {
		return fmt.Errorf("%w: limit and offset must be non-negative", ErrInvalidQuery)
	}
	return nil
}

// normalize converts a Go value into its JSON-decoded form so it compares
// like values read back from stored documents (numbers become float64).
func normalize(v any) any {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

// document is a decoded record.
type document map[string]any

func decodeDocument(raw json.RawMessage) (document, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("decode record: not a JSON object")
	}
	return doc, nil
}

func (d document) id() int {
	if f, ok := d[IDField].(float64); ok {
		return int(f)
	}
	return 0
}

func (d document) setID(id int) {
	d[IDField] = id
}

func (d document) encode() (json.RawMessage, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return b, nil
}

// merge overlays src's top-level fields on d.
func (d document) merge(src document) {
	for k, v := range src {
		d[k] = v
	}
}

func (c Condition) matches(d document) bool {
	got, present := d[c.Field]
	want := normalize(c.Value)

	switch c.Op {
	case OpEQ:
		if want == nil {
			return !present || got == nil
		}
		return compare(got, want) == 0 && sameKind(got, want)
	case OpNE:
		if want == nil {
			return present && got != nil
		}
		return !(compare(got, want) == 0 && sameKind(got, want))
	case OpIn:
		list, _ := want.([]any)
		for _, w := range list {
			if compare(got, w) == 0 && sameKind(got, w) {
				return true
			}
		}
		return false
	}

	if !sameKind(got, want) {
		return false
	}
	cmp := compare(got, want)
	switch c.Op {
	case OpLT:
		return cmp < 0
	case OpLTE:
		return cmp <= 0
	case OpGT:
		return cmp > 0
	case OpGTE:
		return cmp >= 0
	}
	return false
}

// kindRank orders JSON value kinds: null < bool < number < string < other.
func kindRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}

func sameKind(a, b any) bool {
	return kindRank(a) == kindRank(b)
}

func compare(a, b any) int {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case string:
		y := b.(string)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	}
	return 0
}

// apply filters, sorts and pages decoded documents in memory.
func (q Query) apply(docs []document) []document {
	var out []document
	for _, d := range docs {
		ok := true
		for _, c := range q.Where {
			if !c.matches(d) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, d)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		for _, o := range q.OrderBy {
			cmp := compare(out[i][o.Field], out[j][o.Field])
			if cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return out[i].id() < out[j].id()
	})

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out
}
