package inclusion

import (
	"strconv"
	"strings"
)

// Row is one transaction row as PostgreSQL sees it: boolean columns hold bool,
// JSONB columns hold the decoded document (map[string]any), NULL is nil.
// SelectedUser is the value bound to the selected-user parameter.
type Row struct {
	Columns      map[string]any
	SelectedUser *string
}

// Binding is the query context an expression is rendered into.
type Binding struct {
	Alias     string // table alias, empty for none
	UserParam int    // 1-based position of the selected-user parameter
}

func (b Binding) column(name string) string {
	if b.Alias == "" {
		return name
	}
	return b.Alias + "." + name
}

// BoolExpr is a boolean SQL expression with three-valued (NULL-aware) evaluation.
type BoolExpr interface {
	// Eval returns the value and whether it is non-NULL.
	Eval(r Row) (value bool, valid bool)
	writeSQL(sb *strings.Builder, b Binding)
}

// TextExpr is a text-valued SQL expression.
type TextExpr interface {
	Eval(r Row) (value string, valid bool)
	writeSQL(sb *strings.Builder, b Binding)
}

// Render writes e as SQL for the given binding.
func Render(e BoolExpr, b Binding) string {
	var sb strings.Builder
	e.writeSQL(&sb, b)
	return sb.String()
}

// Holds reports whether e evaluates to TRUE, treating NULL as not holding,
// exactly as a WHERE or FILTER clause does.
func Holds(e BoolExpr, r Row) bool {
	v, ok := e.Eval(r)
	return ok && v
}

type literal bool

// Lit is a boolean constant.
func Lit(v bool) BoolExpr { return literal(v) }

func (l literal) Eval(Row) (bool, bool) { return bool(l), true }

func (l literal) writeSQL(sb *strings.Builder, _ Binding) {
	if l {
		sb.WriteString("TRUE")
	} else {
		sb.WriteString("FALSE")
	}
}

type boolColumn string

// BoolColumn reads a nullable boolean column.
func BoolColumn(name string) BoolExpr { return boolColumn(name) }

func (c boolColumn) Eval(r Row) (bool, bool) {
	v, ok := r.Columns[string(c)].(bool)
	return v, ok
}

func (c boolColumn) writeSQL(sb *strings.Builder, b Binding) {
	sb.WriteString(b.column(string(c)))
}

type jsonField struct {
	column, key string
}

// JSONField reads a top-level key of a JSONB column as text (the ->> operator).
func JSONField(column, key string) TextExpr { return jsonField{column, key} }

func (f jsonField) Eval(r Row) (string, bool) {
	doc, ok := r.Columns[f.column].(map[string]any)
	if !ok {
		return "", false
	}
	switch v := doc[f.key].(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		// Nested objects and arrays are rendered as JSON text by PostgreSQL; the
		// policy never reads them.
		return "", false
	}
}

func (f jsonField) writeSQL(sb *strings.Builder, b Binding) {
	sb.WriteString(b.column(f.column))
	sb.WriteString("->>'")
	sb.WriteString(strings.ReplaceAll(f.key, "'", "''"))
	sb.WriteString("'")
}

type castBool struct {
	inner TextExpr
}

// CastBool casts text to boolean (::boolean), accepting the spellings
// PostgreSQL's boolean input does: case-insensitive, surrounding whitespace
// ignored, any prefix of true/false/yes/no, on, off (at least "of"), 1 and 0.
// PostgreSQL rejects any other text and fails the query; the model yields NULL.
func CastBool(e TextExpr) BoolExpr { return castBool{e} }

func (c castBool) Eval(r Row) (bool, bool) {
	s, ok := c.inner.Eval(r)
	if !ok {
		return false, false
	}
	return parseBool(s)
}

func parseBool(s string) (bool, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false, false
	}
	switch {
	case strings.HasPrefix("true", s), strings.HasPrefix("yes", s):
		return true, true
	case strings.HasPrefix("false", s), strings.HasPrefix("no", s):
		return false, true
	case s == "on":
		return true, true
	case len(s) >= 2 && strings.HasPrefix("off", s):
		return false, true
	case s == "1":
		return true, true
	case s == "0":
		return false, true
	}
	return false, false
}

func (c castBool) writeSQL(sb *strings.Builder, b Binding) {
	sb.WriteString("(")
	c.inner.writeSQL(sb, b)
	sb.WriteString(")::boolean")
}

type coalesce struct {
	inner BoolExpr
	def   bool
}

// Coalesce replaces NULL with def.
func Coalesce(e BoolExpr, def bool) BoolExpr { return coalesce{e, def} }

func (c coalesce) Eval(r Row) (bool, bool) {
	if v, ok := c.inner.Eval(r); ok {
		return v, true
	}
	return c.def, true
}

func (c coalesce) writeSQL(sb *strings.Builder, b Binding) {
	sb.WriteString("COALESCE(")
	c.inner.writeSQL(sb, b)
	sb.WriteString(", ")
	literal(c.def).writeSQL(sb, b)
	sb.WriteString(")")
}

type not struct {
	inner BoolExpr
}

// Not negates e; NOT NULL is NULL.
func Not(e BoolExpr) BoolExpr { return not{e} }

func (n not) Eval(r Row) (bool, bool) {
	v, ok := n.inner.Eval(r)
	return !v, ok
}

func (n not) writeSQL(sb *strings.Builder, b Binding) {
	sb.WriteString("NOT (")
	n.inner.writeSQL(sb, b)
	sb.WriteString(")")
}

type textEquals struct {
	inner TextExpr
	value string
}

// Equals compares text with a constant; NULL compares as NULL.
func Equals(e TextExpr, value string) BoolExpr { return textEquals{e, value} }

func (t textEquals) Eval(r Row) (bool, bool) {
	s, ok := t.inner.Eval(r)
	if !ok {
		return false, false
	}
	return s == t.value, true
}

func (t textEquals) writeSQL(sb *strings.Builder, b Binding) {
	t.inner.writeSQL(sb, b)
	sb.WriteString(" = '")
	sb.WriteString(strings.ReplaceAll(t.value, "'", "''"))
	sb.WriteString("'")
}

type selectedUserIsNull struct{}

// SelectedUserIsNull is true in the household-wide view.
func SelectedUserIsNull() BoolExpr { return selectedUserIsNull{} }

func (selectedUserIsNull) Eval(r Row) (bool, bool) {
	return r.SelectedUser == nil, true
}

func (selectedUserIsNull) writeSQL(sb *strings.Builder, b Binding) {
	sb.WriteString("$")
	sb.WriteString(strconv.Itoa(b.UserParam))
	sb.WriteString("::text IS NULL")
}

// When is one branch of a Case.
type When struct {
	Cond BoolExpr
	Then BoolExpr
}

type caseExpr struct {
	whens []When
	els   BoolExpr
}

// Case evaluates the branches in order; the first condition that is TRUE picks
// the result, otherwise els does. A NULL condition does not match.
func Case(els BoolExpr, whens ...When) BoolExpr {
	return caseExpr{whens: whens, els: els}
}

func (c caseExpr) Eval(r Row) (bool, bool) {
	for _, w := range c.whens {
		if Holds(w.Cond, r) {
			return w.Then.Eval(r)
		}
	}
	return c.els.Eval(r)
}

func (c caseExpr) writeSQL(sb *strings.Builder, b Binding) {
	sb.WriteString("CASE")
	for _, w := range c.whens {
		sb.WriteString(" WHEN ")
		w.Cond.writeSQL(sb, b)
		sb.WriteString(" THEN ")
		w.Then.writeSQL(sb, b)
	}
	sb.WriteString(" ELSE ")
	c.els.writeSQL(sb, b)
	sb.WriteString(" END")
}
