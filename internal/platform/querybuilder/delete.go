package querybuilder

import (
	"fmt"
	"strings"
)

type DeleteBuilder struct {
	table    string
	where    []Condition
	allowAll bool
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// All permits a DELETE without a WHERE clause.
func (b *DeleteBuilder) All() *DeleteBuilder {
	b.allowAll = true
	return b
}

func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 && !b.allowAll {
		return "", nil, fmt.Errorf("delete from %s without conditions requires All()", b.table)
	}

	var buf strings.Builder
	buf.WriteString("DELETE FROM ")
	buf.WriteString(b.table)

	args := make([]any, 0, len(b.where))
	argIndex := 1
	appendWhereClause(&buf, b.where, &args, &argIndex)

	return buf.String(), args, nil
}
