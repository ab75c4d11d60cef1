package op

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/deniswernert/go-fstab"
	"github.com/kairos-io/archstrap/pkg/schema"
	"github.com/samber/lo"
)

var (
	tabsRe   = regexp.MustCompile(`\t+`)
	spacesRe = regexp.MustCompile(` {2,}`)
)

// NormalizeFstab collapses runs of tabs and runs of two or more spaces into a
// single space. Tabs go first so that a tab next to spaces cannot leave a
// double space behind.
func NormalizeFstab(raw string) string {
	out := tabsRe.ReplaceAllString(raw, " ")
	return spacesRe.ReplaceAllString(out, " ")
}

// ParseFstab returns the entries of an fstab, skipping comments and blank lines.
func ParseFstab(text string) (schema.FsTabs, error) {
	mounts, err := fstab.Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	return schema.FsTabs(mounts), nil
}

// VerifyFstab checks that every mount point in want has an entry.
func VerifyFstab(text string, want ...string) error {
	entries, err := ParseFstab(text)
	if err != nil {
		return fmt.Errorf("parsing generated fstab: %w", err)
	}
	files := lo.Map(entries, func(m *fstab.Mount, _ int) string { return m.File })
	if missing := lo.Without(want, files...); len(missing) > 0 {
		return fmt.Errorf("generated fstab has no entry for %s", strings.Join(missing, ", "))
	}
	return nil
}
