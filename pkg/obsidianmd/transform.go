// Package obsidianmd turns Obsidian-flavoured markdown into safe HTML.
package obsidianmd

import (
	"regexp"
	"strings"
)

var (
	wikiLinkRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	calloutRe  = regexp.MustCompile(`(?m)^> \[!(\w+)\](.*)$`)
)

// Transform rewrites wiki-links and callouts into standard markdown.
// Wiki-links are rewritten first; callout matching is anchored at the
// start of the line and never re-scans its rest.
func Transform(raw string) string {
	return TransformExt(raw, ".md")
}

// TransformExt is Transform with a custom link extension.
func TransformExt(raw, ext string) string {
	out := wikiLinkRe.ReplaceAllStringFunc(raw, func(match string) string {
		inner := match[2 : len(match)-2]
		target, alias, found := strings.Cut(inner, "|")
		text := target
		if found && alias != "" {
			text = alias
		}
		return "[" + text + "](" + linkDestination(target+ext) + ")"
	})

	return calloutRe.ReplaceAllStringFunc(out, func(line string) string {
		m := calloutRe.FindStringSubmatch(line)
		return "> **" + strings.ToUpper(m[1]) + "**" + m[2]
	})
}

// linkDestination wraps destinations CommonMark would not accept bare.
func linkDestination(dest string) string {
	if strings.ContainsAny(dest, " \t()<>") {
		r := strings.NewReplacer("<", "%3C", ">", "%3E")
		return "<" + r.Replace(dest) + ">"
	}
	return dest
}
