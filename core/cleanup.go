package core

import (
	"regexp"
	"strings"
)

var (
	fenceRe = regexp.MustCompile("```(?:jsx|javascript|js|tsx|typescript|ts|react)?[ \t]*\r?\n?")

	exportRe = regexp.MustCompile(`(?m)^([ \t]*)(?:export[ \t]+(?:default[ \t]+)?)+`)

	importRes = []*regexp.Regexp{
		// import { a, b } from 'x';  import React, { a } from 'x';
		regexp.MustCompile(`(?m)^[ \t]*import[ \t]+(?:[\w$]+[ \t]*,[ \t]*)?\{[^}]*\}[ \t]*from[ \t]+['"][^'"\n]+['"][ \t]*;?[ \t]*\r?(?:\n|$)`),
		// import React from 'x';  import * as ethers from 'x';
		regexp.MustCompile(`(?m)^[ \t]*import[ \t]+(?:\*[ \t]*as[ \t]+[\w$]+|[\w$]+)[ \t]+from[ \t]+['"][^'"\n]+['"][ \t]*;?[ \t]*\r?(?:\n|$)`),
		// import './styles.css';
		regexp.MustCompile(`(?m)^[ \t]*import[ \t]*['"][^'"\n]+['"][ \t]*;?[ \t]*\r?(?:\n|$)`),
	}

	blankRunRe = regexp.MustCompile(`\n(?:[ \t]*\r?\n){2,}`)
)

// CleanSource strips what a model tends to wrap around an assembled file:
// code fences, import lines and export keywords. Runs of blank lines are
// collapsed to one. CleanSource(CleanSource(s)) == CleanSource(s).
func CleanSource(s string) string {
	s = fenceRe.ReplaceAllString(s, "")
	// exports first so that "export import ..." cannot leave an import line behind
	s = exportRe.ReplaceAllString(s, "$1")
	for _, re := range importRes {
		s = re.ReplaceAllString(s, "")
	}
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
