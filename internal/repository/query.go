package repository

import "strings"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// orderClause maps a user supplied sort key through a whitelist so that no
// request text reaches the ORDER BY. Unknown keys fall back to "id".
func orderClause(columns map[string]string, sortBy, sortOrder string) string {
	col, ok := columns[sortBy]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		dir = "DESC"
	}
	return col + " " + dir
}
