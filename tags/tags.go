// Package tags provides typed accessors over Twitch IRC per-message tag maps
// (badges, color, display-name, user-id, tmi-sent-ts, ...). Normalizers consume
// these maps as delivered by the IRC client; missing keys read as zero values.
package tags

import (
	"strconv"
	"strings"
	"time"
)

// Map is a raw Twitch IRC tag map. Keys and values are untrusted wire data.
type Map map[string]string

// String returns the raw value for key, or "" when absent.
func (m Map) String(key string) string {
	return m[key]
}

// Has reports whether key is present, even with an empty value.
func (m Map) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Bool interprets the tag as a Twitch boolean flag ("1" = true).
func (m Map) Bool(key string) bool {
	return m[key] == "1"
}

// Int parses the tag as an integer, returning 0 on absence or garbage.
func (m Map) Int(key string) int {
	n, err := strconv.Atoi(m[key])
	if err != nil {
		return 0
	}
	return n
}

// Time parses a millisecond unix timestamp tag (tmi-sent-ts). The zero time is
// returned when the tag is absent or malformed; callers deciding display order
// must not rely on it (order is append order, not timestamps).
func (m Map) Time(key string) time.Time {
	ms, err := strconv.ParseInt(m[key], 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// Badges parses the "badges" tag ("broadcaster/1,subscriber/12") into a
// name -> version map. Malformed segments are skipped.
func (m Map) Badges() map[string]int {
	raw := m["badges"]
	if raw == "" {
		return nil
	}
	out := make(map[string]int)
	for _, seg := range strings.Split(raw, ",") {
		name, ver, ok := strings.Cut(seg, "/")
		if !ok || name == "" {
			continue
		}
		n, err := strconv.Atoi(ver)
		if err != nil {
			n = 0
		}
		out[name] = n
	}
	return out
}

// BadgeNames returns just the badge names from the "badges" tag, in wire order.
func (m Map) BadgeNames() []string {
	raw := m["badges"]
	if raw == "" {
		return nil
	}
	segs := strings.Split(raw, ",")
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		name, _, ok := strings.Cut(seg, "/")
		if !ok || name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// HasBadge reports whether the "badges" tag carries the named badge.
func (m Map) HasBadge(name string) bool {
	for _, b := range m.BadgeNames() {
		if b == name {
			return true
		}
	}
	return false
}
