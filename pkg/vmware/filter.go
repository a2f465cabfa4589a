package vmware

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vmware/govmomi/vim25/types"
)

// NameFilter selects inventory objects by display name or by object id. The
// three construction modes are mutually exclusive per command: regex patterns
// combined with OR semantics, exact literals anchored to the full string, or
// managed object ids matched against the reference.
type NameFilter struct {
	re    *regexp.Regexp
	ids   map[string]struct{}
	query string
}

// NewPatternFilter builds a filter matching any of the given regular
// expressions.
func NewPatternFilter(patterns []string) (*NameFilter, error) {
	if len(patterns) == 0 {
		patterns = []string{".+"}
	}
	parts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		parts = append(parts, "(?:"+p+")")
	}
	re, err := regexp.Compile(strings.Join(parts, "|"))
	if err != nil {
		return nil, fmt.Errorf("invalid name pattern: %w", err)
	}
	return &NameFilter{
		re:    re,
		query: fmt.Sprintf("pattern %s", strings.Join(patterns, ", ")),
	}, nil
}

// NewLiteralFilter builds a filter matching exactly the given names. All
// regex metacharacters are escaped and the expression is anchored, so
// "host1" does not match "host10" or "myhost1".
func NewLiteralFilter(names []string) *NameFilter {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, regexp.QuoteMeta(n))
	}
	return &NameFilter{
		re:    regexp.MustCompile("^(?:" + strings.Join(parts, "|") + ")$"),
		query: fmt.Sprintf("name %s", strings.Join(names, ", ")),
	}
}

// NewIDFilter builds a filter matching objects by managed object id
// (e.g. vm-42, host-12). The display name is ignored in this mode.
func NewIDFilter(ids []string) *NameFilter {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &NameFilter{
		ids:   set,
		query: fmt.Sprintf("id %s", strings.Join(ids, ", ")),
	}
}

// Match reports whether the object passes the filter. Name modes test the
// display name; id mode tests the reference value.
func (f *NameFilter) Match(name string, ref types.ManagedObjectReference) bool {
	if f.ids != nil {
		_, ok := f.ids[ref.Value]
		return ok
	}
	return f.re.MatchString(name)
}

// Query describes the filter for warnings and logs.
func (f *NameFilter) Query() string {
	return f.query
}

// WildcardToRegexp converts a glob-style wildcard (only "*" is special) into
// an anchored regular expression. Used by IP wildcard matching.
func WildcardToRegexp(pattern string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(pattern)
	return regexp.MustCompile("^" + strings.ReplaceAll(quoted, `\*`, ".*") + "$")
}
