package envdoc

import (
	"fmt"
	"sort"
	"strings"
)

const (
	requiredSection = "REQUIRED"
	miscSection     = "Miscellaneous"
)

type RenderOptions struct {
	// Title of the document. Defaults to "Environment Variables".
	Title string
	// Source names the scanned tree in the preamble.
	Source string
	// Anchors emits an HTML anchor per variable so the output can be linked
	// into from a larger document.
	Anchors bool
}

// Render writes a Markdown reference of vars grouped by section. Variables
// without a default are required and always land in the REQUIRED section,
// which comes first; named sections follow alphabetically; variables without
// a section come last under Miscellaneous.
func Render(vars []Var, opts RenderOptions) string {
	title := opts.Title
	if title == "" {
		title = "Environment Variables"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	source := "the source code"
	if opts.Source != "" {
		source = fmt.Sprintf("`%s`", opts.Source)
	}
	fmt.Fprintf(&b, "_This document is generated from the environ calls in %s._\n\n", source)

	for _, name := range sectionOrder(vars) {
		fmt.Fprintf(&b, "## %s\n\n", name)
		for _, v := range vars {
			if sectionOf(v) != name {
				continue
			}
			renderVar(&b, v, opts)
		}
	}
	return b.String()
}

func renderVar(b *strings.Builder, v Var, opts RenderOptions) {
	if opts.Anchors {
		fmt.Fprintf(b, "<a id=%q></a>\n\n", v.Name)
	}

	if len(v.Aliases) > 0 {
		aliases := make([]string, 0, len(v.Aliases))
		for _, a := range v.Aliases {
			aliases = append(aliases, fmt.Sprintf("`%s`", a))
		}
		fmt.Fprintf(b, "### `%s` (aliases: %s)\n\n", v.Name, strings.Join(aliases, ", "))
	} else {
		fmt.Fprintf(b, "### `%s`\n\n", v.Name)
	}

	if v.Doc != "" {
		fmt.Fprintf(b, "%s\n\n", v.Doc)
	}

	if v.Default != "" {
		fmt.Fprintf(b, "**default**: `%s` _(%s)_\n\n", v.Default, v.Type)
	}
}

func sectionOf(v Var) string {
	if v.Required {
		return requiredSection
	}
	if v.Section != "" {
		return v.Section
	}
	return miscSection
}

func sectionOrder(vars []Var) []string {
	seen := make(map[string]bool)
	var names []string
	for _, v := range vars {
		if name := sectionOf(v); !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		rank := func(name string) int {
			switch name {
			case requiredSection:
				return 0
			case miscSection:
				return 2
			}
			return 1
		}
		if ri, rj := rank(names[i]), rank(names[j]); ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
	return names
}
