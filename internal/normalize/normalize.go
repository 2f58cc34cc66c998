// Package normalize prepares raw SQL text for extraction. Report files
// arrive copy-pasted from editors, web tools, and logs, so besides the
// usual comment stripping the cleaner removes HTML entities, terminal
// escape sequences, and statements that carry no column information
// (USE, GO, SET, DECLARE, DDL).
//
// Clean is idempotent: running it over already-clean text is a no-op.
package normalize

import (
	"html"
	"regexp"
	"strings"
)

var (
	lineCommentRe  = regexp.MustCompile(`(?m)--.*?$`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

	useStmtRe = regexp.MustCompile(`(?im)^\s*use\s+[^\s;]+\s*;?\s*$`)
	goStmtRe  = regexp.MustCompile(`(?im)^\s*go\s*;?\s*$`)

	setNocountRe   = regexp.MustCompile(`(?i)set\s+nocount\s+(?:on|off)\s*;?`)
	setIsolationRe = regexp.MustCompile(`(?i)set\s+transaction\s+isolation\s+level\s+[^;]+;?`)
	setStmtRe      = regexp.MustCompile(`(?i)^\s*set\s+`)
	updateSetRe    = regexp.MustCompile(`(?i)\bupdate\s+.*\bset\b`)

	declareRe = regexp.MustCompile(`(?i)\bdeclare\s+[^;]+;?`)
	ddlRe     = regexp.MustCompile(`(?i)\b(?:create|alter|drop)\s+[^;]+;?`)

	nolockRe   = regexp.MustCompile(`(?i)\s*(?:with\s*)?\(\s*nolock\s*\)`)
	topParenRe = regexp.MustCompile(`(?i)\btop\s*\(\s*\d+\s*\)\s*`)
	topBareRe  = regexp.MustCompile(`(?i)\btop\s+\d+\s+`)

	// Terminal escape sequences: ESC or CSI introducers followed by a
	// single-character command or a CSI parameter/final byte sequence.
	ansiEscRe = regexp.MustCompile(`[\x{1B}\x{9B}](?:[@-_]|\[[0-?]*[ /]*[@-~])?`)
	// SGR sequences that lost their escape character ([0;31m and the
	// like). The final 'm' is required so bracket-quoted identifiers
	// survive.
	bareSGRRe = regexp.MustCompile(`\[[0-9;]*m`)
	// Escape codes spelled out as text inside pasted strings.
	textEscRe = regexp.MustCompile(`\\x[0-9a-fA-F]{2}|\\[0-7]{1,3}`)

	controlRe   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	zeroWidthRe = regexp.MustCompile(`[\x{200B}-\x{200F}\x{FEFF}]`)
	nonASCIIRe  = regexp.MustCompile(`[^\x20-\x7E\n\r\t]`)

	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	blankLinesRe = regexp.MustCompile(`\n{2,}`)
	trailingWSRe = regexp.MustCompile(`(?m)[ \t]+$`)
)

// Clean normalizes raw SQL text into something the parser can work on.
func Clean(sql string) string {
	sql = strings.TrimPrefix(sql, "\uFEFF")
	sql = html.UnescapeString(sql)

	sql = lineCommentRe.ReplaceAllString(sql, "")
	sql = blockCommentRe.ReplaceAllString(sql, "")

	sql = useStmtRe.ReplaceAllString(sql, "")
	sql = goStmtRe.ReplaceAllString(sql, "")
	sql = setNocountRe.ReplaceAllString(sql, "")
	sql = setIsolationRe.ReplaceAllString(sql, "")
	sql = dropSetStatements(sql)

	sql = declareRe.ReplaceAllString(sql, "")
	sql = ddlRe.ReplaceAllString(sql, "")
	sql = nolockRe.ReplaceAllString(sql, "")
	sql = topParenRe.ReplaceAllString(sql, "")
	sql = topBareRe.ReplaceAllString(sql, "")

	sql = StripEscapes(sql)

	sql = controlRe.ReplaceAllString(sql, "")
	sql = zeroWidthRe.ReplaceAllString(sql, "")
	sql = nonASCIIRe.ReplaceAllString(sql, "")

	sql = spaceRunRe.ReplaceAllString(sql, " ")
	sql = blankLinesRe.ReplaceAllString(sql, "\n")
	sql = trailingWSRe.ReplaceAllString(sql, "")
	return strings.TrimSpace(sql)
}

// StripEscapes removes terminal escape sequences and textual escape
// codes. Runner error reports pass their messages through this too, so
// pretty-printed parser errors land in errors.txt without color codes.
func StripEscapes(s string) string {
	s = ansiEscRe.ReplaceAllString(s, "")
	s = bareSGRRe.ReplaceAllString(s, "")
	s = textEscRe.ReplaceAllString(s, "")
	return s
}

// dropSetStatements removes session SET statements while keeping the
// SET clause of UPDATE statements intact.
func dropSetStatements(sql string) string {
	statements := strings.Split(sql, ";")
	kept := make([]string, 0, len(statements))
	for _, stmt := range statements {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		if setStmtRe.MatchString(trimmed) && !updateSetRe.MatchString(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, "; ")
}
