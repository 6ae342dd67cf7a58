package addonrepo

import (
	"cmp"
	"fmt"

	version "github.com/knqyf263/go-deb-version"
)

// Version is an add-on version.
//
// Add-on versions are ordered the way Debian package versions are:
// "[epoch:]upstream[-revision]", where a "~" sorts before anything, so
// "1.0.0~beta1" is older than "1.0.0". The zero Version is "0.0.0".
type Version struct {
	raw string
	v   version.Version
	set bool
}

var zeroVersion = func() version.Version {
	v, err := version.NewVersion("0.0.0")
	if err != nil {
		panic(err)
	}
	return v
}()

// ParseVersion parses the string "s" as a Version.
func ParseVersion(s string) (Version, error) {
	v, err := version.NewVersion(s)
	if err != nil {
		return Version{}, &Error{
			Op:      "addonrepo/ParseVersion",
			Kind:    ErrInvalid,
			Message: fmt.Sprintf("bad version %q", s),
			Inner:   err,
		}
	}
	return Version{raw: s, v: v, set: true}, nil
}

// MustParseVersion is like [ParseVersion], but panics on an invalid string.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// VersionOrZero parses "s", returning the zero Version if it's not valid.
func VersionOrZero(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		return Version{}
	}
	return v
}

func (v Version) deb() version.Version {
	if !v.set {
		return zeroVersion
	}
	return v.v
}

// String returns the version as it was written.
func (v Version) String() string {
	if !v.set {
		return "0.0.0"
	}
	return v.raw
}

// IsZero reports whether the Version is unset.
func (v Version) IsZero() bool { return !v.set }

// Compare returns an integer describing the relationship of two Versions.
//
// The result will be 0 if v==x, -1 if v < x, and +1 if v > x.
func (v Version) Compare(x Version) int {
	d := v.deb()
	return cmp.Compare(d.Compare(x.deb()), 0)
}

// Equal reports whether v and x order the same.
func (v Version) Equal(x Version) bool { return v.Compare(x) == 0 }

// LessThan reports whether v < x.
func (v Version) LessThan(x Version) bool { return v.Compare(x) < 0 }

// GreaterThan reports whether v > x.
func (v Version) GreaterThan(x Version) bool { return v.Compare(x) > 0 }

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*v = Version{}
		return nil
	}
	x, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = x
	return nil
}
