// Package sqlbuild builds the dynamic parts of PostgreSQL statements.
//
// Values never enter the SQL text. They are collected in a Params and handed
// to the driver as positional arguments; only column identifiers that pass
// QuoteIdent are interpolated.
package sqlbuild

import "strconv"

// Params collects positional arguments and hands out their $n placeholders.
// Placeholders are 1-indexed in the order values are added.
type Params struct {
	args []any
}

// NewParams creates a Params already holding seed as $1..$len(seed)
func NewParams(seed ...any) *Params {
	args := make([]any, len(seed))
	copy(args, seed)
	return &Params{args: args}
}

// Add appends v and returns its placeholder
func (p *Params) Add(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

// Args returns the collected values in placeholder order
func (p *Params) Args() []any {
	return p.args
}

// Len returns the number of collected values, which is also the highest placeholder used
func (p *Params) Len() int {
	return len(p.args)
}
