package model

import "strings"

// GameID is an external game identifier parsed once at the boundary.
// Riot match ids look like "EUW1_7123456789" while spectator game ids are
// the bare numeric part, so equality is decided on the numeric suffix and
// the platform prefix is only compared when both sides carry one.
type GameID struct {
	Platform string
	Numeric  string
}

// ParseGameID splits an external game identifier into platform prefix and
// numeric suffix. Ids without an underscore have no platform.
func ParseGameID(raw string) GameID {
	raw = strings.TrimSpace(raw)
	if i := strings.LastIndex(raw, "_"); i >= 0 {
		return GameID{Platform: raw[:i], Numeric: raw[i+1:]}
	}
	return GameID{Numeric: raw}
}

// Matches reports whether two game ids refer to the same game. Numeric
// suffixes must be equal; platforms must agree when both are present.
// Comparing a bare spectator id against a prefixed match id therefore
// ignores the platform, which can in principle collide across platforms
// sharing numeric ids. Accepted risk.
func (g GameID) Matches(other GameID) bool {
	if g.Numeric == "" || g.Numeric != other.Numeric {
		return false
	}
	if g.Platform != "" && other.Platform != "" && g.Platform != other.Platform {
		return false
	}
	return true
}

// String reassembles the id in its external form.
func (g GameID) String() string {
	if g.Platform == "" {
		return g.Numeric
	}
	return g.Platform + "_" + g.Numeric
}
