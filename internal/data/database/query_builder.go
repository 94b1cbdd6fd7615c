// Package database renders parameterized list and count queries for the
// admin and reporting surfaces. Identifiers are quoted through pgx and
// values always travel as bind parameters.
package database

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType enumerates the comparison operators WHERE terms support.
type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	GreaterThanOrEqual ConditionType = ">="
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	Like               ConditionType = "LIKE"
	ILike              ConditionType = "ILIKE"
	In                 ConditionType = "IN"
	Custom             ConditionType = "CUSTOM"
)

// unset marks Limit and Offset as "not requested"; zero is a legal value
// for both, so the sentinel has to live outside the valid range.
const unset = -1

// Condition is one WHERE term. Build it with WhereCond or WhereRawCond.
type Condition struct {
	Field string
	Type  ConditionType
	Value any

	raw *string
}

// WhereCond builds a column comparison term. The field name is quoted when
// the query is rendered and the value is bound as a parameter.
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Custom {
		//nolint:forbidigo // misuse guard: raw SQL must go through WhereRawCond
		panic("use WhereRawCond for Custom conditions")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereRawCond builds a term from a raw SQL fragment with $1-style
// placeholders. The fragment is spliced into the query as-is, so it must
// never contain user input; only the params are bound.
func WhereRawCond(rawQuery string, params ...any) Condition {
	var value any
	switch len(params) {
	case 0:
	case 1:
		value = params[0]
	default:
		value = params
	}
	return Condition{Type: Custom, Value: value, raw: &rawQuery}
}

// ListQueryOptions collects everything needed to render one list or count
// query against a single table.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

// ListQueryOption mutates ListQueryOptions during construction.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions builds options for table with the given modifiers.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  unset,
		Offset: unset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select. Each entry is a column name,
// optionally qualified ("jobs.status") or aliased ("last_error AS error").
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Columns = cols
	}
}

// WithCondition appends a single WHERE term.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = append(o.Conditions, cond)
	}
}

// WithConditions replaces the WHERE terms.
func WithConditions(conds ...Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = conds
	}
}

// WithOrderBy sets the ordering column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit sets the limit. Zero is accepted; negatives are ignored.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Zero is accepted; negatives are ignored.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly renders SELECT COUNT(*) and skips ordering and pagination.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) {
		o.CountOnly = true
	}
}

// BuildListQuery renders options into a SQL string and its bind arguments.
// Raw fragments have their placeholders renumbered to follow the parameters
// already emitted, so terms compose in any order.
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var q strings.Builder
	q.WriteString(selectClause(options))
	q.WriteString("FROM ")
	q.WriteString(quoteIdent(options.Table))

	where, args, next := whereClause(options.Conditions)
	if where != "" {
		q.WriteString(" ")
		q.WriteString(where)
	}

	if options.CountOnly {
		return q.String(), args
	}

	tail, allArgs := orderAndPage(options, next, args)
	q.WriteString(tail)
	return q.String(), allArgs
}

func selectClause(options *ListQueryOptions) string {
	if options.CountOnly {
		return "SELECT COUNT(*) "
	}
	if len(options.Columns) == 0 {
		return "SELECT * "
	}

	cols := make([]string, len(options.Columns))
	for i, col := range options.Columns {
		cols[i] = columnSpec(col)
	}
	return "SELECT " + strings.Join(cols, ", ") + " "
}

var aliasSplit = regexp.MustCompile(`(?i)\s+AS\s+`)

// columnSpec quotes a column selection, honouring an optional
// "column AS alias" form.
func columnSpec(spec string) string {
	if parts := aliasSplit.Split(spec, 2); len(parts) == 2 {
		column := quoteQualified(strings.TrimSpace(parts[0]))
		alias := quoteIdent(strings.TrimSpace(parts[1]))
		return column + " AS " + alias
	}
	return quoteQualified(spec)
}

// quoteQualified quotes an identifier, treating dots as qualifier
// boundaries so "jobs.status" renders as "jobs"."status".
func quoteQualified(ident string) string {
	if strings.Contains(ident, ".") {
		return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
	}
	return quoteIdent(ident)
}

func quoteIdent(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

// whereClause renders the terms joined with AND and reports the next free
// placeholder index so pagination continues the numbering.
func whereClause(conditions []Condition) (string, []any, int) {
	terms := make([]string, 0, len(conditions))
	args := []any{}
	next := 1

	for _, cond := range conditions {
		term, termArgs, after := renderCondition(cond, next)
		if term == "" {
			continue
		}
		terms = append(terms, term)
		args = append(args, termArgs...)
		next = after
	}

	if len(terms) == 0 {
		return "", args, next
	}
	return "WHERE " + strings.Join(terms, " AND "), args, next
}

func renderCondition(cond Condition, next int) (string, []any, int) {
	if cond.Type == Custom {
		return renderRaw(cond, next)
	}
	if cond.Field == "" {
		return "", nil, next
	}
	field := quoteIdent(cond.Field)

	switch cond.Type {
	case In:
		return renderIn(field, cond.Value, next)
	case Equal, NotEqual, GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual, Like, ILike:
		return fmt.Sprintf("%s %s $%d", field, cond.Type, next), []any{cond.Value}, next + 1
	default:
		return "", nil, next
	}
}

// renderIn expands a slice value into IN ($n, $n+1, ...). A non-slice or
// empty value drops the term rather than render invalid SQL.
func renderIn(field string, value any, next int) (string, []any, int) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return "", nil, next
	}

	marks := make([]string, rv.Len())
	args := make([]any, rv.Len())
	for i := range rv.Len() {
		marks[i] = "$" + strconv.Itoa(next)
		args[i] = rv.Index(i).Interface()
		next++
	}
	return field + " IN (" + strings.Join(marks, ", ") + ")", args, next
}

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// renderRaw splices a raw fragment in, renumbering its $n placeholders to
// continue from next. Each distinct $n binds its param once, so a fragment
// may repeat a placeholder.
func renderRaw(cond Condition, next int) (string, []any, int) {
	if cond.raw == nil || *cond.raw == "" {
		return "", nil, next
	}
	fragment := *cond.raw

	if cond.Value == nil {
		return fragment, nil, next
	}

	params, ok := cond.Value.([]any)
	if !ok {
		params = []any{cond.Value}
	}

	args := make([]any, 0, len(params))
	renumbered := make(map[int]int)
	fragment = placeholderPattern.ReplaceAllStringFunc(fragment, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(params) {
			return m
		}
		if _, seen := renumbered[n]; !seen {
			renumbered[n] = next
			args = append(args, params[n-1])
			next++
		}
		return "$" + strconv.Itoa(renumbered[n])
	})

	return fragment, args, next
}

// orderAndPage renders ORDER BY, LIMIT, and OFFSET. The direction is kept
// only when it is exactly ASC or DESC.
func orderAndPage(options *ListQueryOptions, next int, args []any) (string, []any) {
	var clause strings.Builder

	if options.OrderBy != "" {
		clause.WriteString(" ORDER BY ")
		clause.WriteString(quoteQualified(options.OrderBy))
		if dir := strings.ToUpper(options.OrderDir); dir == "ASC" || dir == "DESC" {
			clause.WriteString(" ")
			clause.WriteString(dir)
		}
	}

	if options.Limit != unset {
		clause.WriteString(" LIMIT $" + strconv.Itoa(next))
		args = append(args, options.Limit)
		next++
	}
	if options.Offset != unset {
		clause.WriteString(" OFFSET $" + strconv.Itoa(next))
		args = append(args, options.Offset)
	}

	return clause.String(), args
}
