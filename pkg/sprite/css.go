package sprite

import (
	"fmt"
	"strings"

	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/pack"
)

// CSSOptions controls rule generation.
type CSSOptions struct {
	// ClassPrefix is prepended to every class name, e.g. "icon-".
	ClassPrefix string
	// URL is the sheet location written into url(...).
	URL string
}

// ClassName returns the CSS class for a tile. Characters outside
// [A-Za-z0-9_-] become '-', and a name that would start with a digit gets a
// leading underscore.
func ClassName(prefix, id string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	name := b.String()
	if name == "" || (name[0] >= '0' && name[0] <= '9') || (len(name) > 1 && name[0] == '-' && name[1] >= '0' && name[1] <= '9') {
		name = "_" + name
	}
	return name
}

// Rule returns the rule for one module: the sheet as a non-repeating
// background, shifted by the module's negative offset and clipped to its size.
func Rule(class, url string, m pack.Module) string {
	return fmt.Sprintf(".%s{background:url(%s) no-repeat %s %s;width:%dpx;height:%dpx}",
		class, url, offset(m.X), offset(m.Y), m.Width, m.Height)
}

func offset(v int) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("-%dpx", v)
}

// CSS returns one rule per module in placement order, newline-separated.
// Two IDs that sanitize to the same class name are rejected.
func CSS(p pack.Placement, opts CSSOptions) (string, error) {
	if err := errors.ValidateClassPrefix(opts.ClassPrefix); err != nil {
		return "", err
	}
	if err := errors.ValidateSheetURL(opts.URL); err != nil {
		return "", err
	}

	var b strings.Builder
	owner := make(map[string]string, len(p.Modules))
	for _, m := range p.Modules {
		class := ClassName(opts.ClassPrefix, m.ID)
		if prev, dup := owner[class]; dup {
			return "", errors.New(errors.ErrCodeInvalidInput,
				"images %q and %q both map to class .%s", prev, m.ID, class)
		}
		owner[class] = m.ID
		b.WriteString(Rule(class, opts.URL, m))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
