package sqlbuild

import "strings"

// Where accumulates AND-ed predicates that share a Params
type Where struct {
	params     *Params
	predicates []string
}

// NewWhere creates a Where numbering its placeholders through params
func NewWhere(params *Params) *Where {
	return &Where{params: params}
}

// Literal adds a predicate that carries no value
func (w *Where) Literal(predicate string) {
	w.predicates = append(w.predicates, predicate)
}

// Compare adds `<expr> <op> $n` binding value to the next placeholder
func (w *Where) Compare(expr, op string, value any) {
	w.predicates = append(w.predicates, expr+" "+op+" "+w.params.Add(value))
}

// Len returns the number of predicates added
func (w *Where) Len() int {
	return len(w.predicates)
}

// String renders ` WHERE a AND b`, or an empty string when no predicate was added
func (w *Where) String() string {
	if len(w.predicates) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.predicates, " AND ")
}
