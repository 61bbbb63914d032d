package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// NotifyFilter is a bit set of the change dimensions a watcher reports.
type NotifyFilter uint8

const (
	// NotifyCreationTime reports changes of the creation timestamp.
	NotifyCreationTime NotifyFilter = 1 << iota
	// NotifyLastWrite reports changes of the modification timestamp.
	NotifyLastWrite
	// NotifyLastAccess reports changes of the access timestamp.
	NotifyLastAccess
	// NotifyFileName reports renames; changes are detected through the modification timestamp.
	NotifyFileName
	// NotifyDirectoryName is accepted for compatibility and has no effect.
	NotifyDirectoryName
	// NotifyAttributes is accepted for compatibility and has no effect.
	NotifyAttributes
	// NotifySecurity is accepted for compatibility and has no effect.
	NotifySecurity
	// NotifySize is accepted for compatibility and has no effect.
	NotifySize
)

// DefaultNotifyFilter is used when no filter is configured.
const DefaultNotifyFilter = NotifyLastWrite

var notifyNames = []struct {
	flag NotifyFilter
	name string
}{
	{NotifyCreationTime, "CreationTime"},
	{NotifyLastWrite, "LastWrite"},
	{NotifyLastAccess, "LastAccess"},
	{NotifyFileName, "FileName"},
	{NotifyDirectoryName, "DirectoryName"},
	{NotifyAttributes, "Attributes"},
	{NotifySecurity, "Security"},
	{NotifySize, "Size"},
}

// Has reports whether every bit of flag is set.
func (n NotifyFilter) Has(flag NotifyFilter) bool {
	return n&flag == flag
}

// Qualifies reports whether the transition from prev to cur is a change
// under this filter. Both files must share the same path.
func (n NotifyFilter) Qualifies(prev, cur File) bool {
	if (n.Has(NotifyLastWrite) || n.Has(NotifyFileName)) && !prev.Modified.Equal(cur.Modified) {
		return true
	}
	if n.Has(NotifyLastAccess) && !prev.Accessed.Equal(cur.Accessed) {
		return true
	}
	return n.Has(NotifyCreationTime) && !prev.Created.Equal(cur.Created)
}

// OnlyModification reports whether the filter compares nothing but the
// modification timestamp.
func (n NotifyFilter) OnlyModification() bool {
	return n&(NotifyLastAccess|NotifyCreationTime) == 0
}

func (n NotifyFilter) String() string {
	if n == 0 {
		return "None"
	}
	parts := make([]string, 0, len(notifyNames))
	for _, nn := range notifyNames {
		if n.Has(nn.flag) {
			parts = append(parts, nn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseNotifyFilter parses names such as "LastWrite|CreationTime".
// Names are case-insensitive and separated by '|' or ','.
func ParseNotifyFilter(s string) (NotifyFilter, error) {
	var n NotifyFilter
	for _, raw := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		flag, err := notifyFlag(strings.TrimSpace(raw))
		if err != nil {
			return 0, err
		}
		n |= flag
	}
	if n == 0 {
		return 0, zerr.With(zerr.Wrap(ErrInvalidConfig, "notify filter is empty"), "notify_filter", s)
	}
	return n, nil
}

// ParseNotifyFilters combines a list of names into one filter.
func ParseNotifyFilters(names []string) (NotifyFilter, error) {
	return ParseNotifyFilter(strings.Join(names, "|"))
}

func notifyFlag(name string) (NotifyFilter, error) {
	for _, nn := range notifyNames {
		if strings.EqualFold(nn.name, name) {
			return nn.flag, nil
		}
	}
	return 0, zerr.With(zerr.Wrap(ErrInvalidConfig, "unknown notify filter"), "notify_filter", name)
}
