package ioschema

import "strings"

// ifNotExists makes CREATE INDEX statements idempotent.
func ifNotExists(ddl []string) []string {
	res := make([]string, len(ddl))
	for i, v := range ddl {
		res[i] = strings.Replace(v,
			"CREATE INDEX ", "CREATE INDEX IF NOT EXISTS ", 1)
	}
	return res
}
