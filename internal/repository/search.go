package repository

import (
	"strings"

	"github.com/Masterminds/squirrel"
)

// likeAny builds "LOWER(col) LIKE ? OR ..." for a free-text query.
// ok is false when the query is blank and no filter should apply.
func likeAny(query string, columns ...string) (sql string, args []interface{}, ok bool, err error) {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return "", nil, false, nil
	}
	pattern := "%" + term + "%"

	or := squirrel.Or{}
	for _, col := range columns {
		or = append(or, squirrel.Like{"LOWER(" + col + ")": pattern})
	}
	sql, args, err = or.ToSql()
	return sql, args, true, err
}
