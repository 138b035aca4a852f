// Package sqlutil splits SQL scripts into statements.
package sqlutil

import (
	"strings"
)

// scanner walks a SQL script and reports, for each byte, whether it is part
// of a comment, and where top level statement separators are.
type scanner struct {
	src string
	pos int
}

// next returns the length of the token at the scanner position and whether
// it is a comment. Quoted strings, quoted identifiers and dollar quoted
// bodies are single tokens, so separators inside them are not seen.
func (s *scanner) next() (n int, comment bool) {
	rest := s.src[s.pos:]
	switch {
	case strings.HasPrefix(rest, "--"):
		end := strings.IndexByte(rest, '\n')
		if end < 0 {
			return len(rest), true
		}
		return end, true
	case strings.HasPrefix(rest, "/*"):
		end := strings.Index(rest[2:], "*/")
		if end < 0 {
			return len(rest), true
		}
		return end + 4, true
	case rest[0] == '\'' || rest[0] == '"' || rest[0] == '`':
		return quoted(rest, rest[0]), false
	case rest[0] == '$':
		if tag, ok := dollarTag(rest); ok {
			end := strings.Index(rest[len(tag):], tag)
			if end < 0 {
				return len(rest), false
			}
			return len(tag) + end + len(tag), false
		}
	}
	return 1, false
}

// quoted returns the length of the literal starting at s[0], treating a
// doubled quote character as an escaped quote.
func quoted(s string, q byte) int {
	for i := 1; i < len(s); i++ {
		if s[i] != q {
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}

// dollarTag returns the $tag$ opening a PostgreSQL dollar quoted string.
func dollarTag(s string) (string, bool) {
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '$':
			return s[:i+1], true
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 1 && c >= '0' && c <= '9'):
		default:
			return "", false
		}
	}
	return "", false
}

// StripComments removes -- line comments and /* */ block comments that are
// not inside quoted strings or identifiers.
func StripComments(sql string) string {
	var sb strings.Builder
	sb.Grow(len(sql))
	s := &scanner{src: sql}
	for s.pos < len(sql) {
		n, comment := s.next()
		if !comment {
			sb.WriteString(sql[s.pos : s.pos+n])
		}
		s.pos += n
	}
	return sb.String()
}

// SplitSQLStatements splits a script at semicolons that are not inside
// quoted strings, identifiers, dollar quoted bodies or comments. Statements
// are trimmed and empty statements are dropped. Comments inside statements
// are kept.
func SplitSQLStatements(sql string) []string {
	statements := []string{}
	add := func(stmt string) {
		if stmt = strings.TrimSpace(stmt); stmt != "" && strings.TrimSpace(StripComments(stmt)) != "" {
			statements = append(statements, stmt)
		}
	}

	start := 0
	s := &scanner{src: sql}
	for s.pos < len(sql) {
		n, comment := s.next()
		if !comment && n == 1 && sql[s.pos] == ';' {
			add(sql[start:s.pos])
			start = s.pos + 1
		}
		s.pos += n
	}
	add(sql[start:])
	return statements
}
