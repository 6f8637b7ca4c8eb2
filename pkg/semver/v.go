package semver

import (
	"fmt"
	"strconv"
	"strings"
)

type (
	// V is structured semantic version representation
	V struct {
		Major, Minor, Patch uint
		PreRelease          string
		BuildMetadata       []string
	}
)

func (v V) String() string {
	buf := strings.Builder{}
	buf.WriteString(strconv.FormatUint(uint64(v.Major), 10))
	buf.WriteByte('.')
	buf.WriteString(strconv.FormatUint(uint64(v.Minor), 10))
	buf.WriteByte('.')
	buf.WriteString(strconv.FormatUint(uint64(v.Patch), 10))
	if v.PreRelease != "" {
		buf.WriteByte('-')
		buf.WriteString(v.PreRelease)
	}
	if len(v.BuildMetadata) > 0 {
		buf.WriteByte('+')
		buf.WriteString(strings.Join(v.BuildMetadata, "."))
	}

	return buf.String()
}

// Parse - reads version in form MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD.META], leading "v" is allowed.
func Parse(s string) (V, error) {
	v := V{}
	rest := strings.TrimPrefix(strings.TrimSpace(s), "v")
	if i := strings.IndexByte(rest, '+'); i > -1 {
		for _, tag := range strings.Split(rest[i+1:], ".") {
			if tag == "" {
				return V{}, fmt.Errorf("semver.Parse: empty build metadata in %q", s)
			}
			v.BuildMetadata = append(v.BuildMetadata, tag)
		}
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '-'); i > -1 {
		if v.PreRelease = rest[i+1:]; v.PreRelease == "" {
			return V{}, fmt.Errorf("semver.Parse: empty pre-release in %q", s)
		}
		rest = rest[:i]
	}
	core := strings.Split(rest, ".")
	if len(core) != 3 {
		return V{}, fmt.Errorf("semver.Parse: invalid version %q", s)
	}
	numbers := [3]uint{}
	for i, part := range core {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return V{}, fmt.Errorf("semver.Parse: invalid version %q: %w", s, err)
		}
		numbers[i] = uint(n)
	}
	v.Major, v.Minor, v.Patch = numbers[0], numbers[1], numbers[2]
	return v, nil
}

// Or - parses s, returns fallback if s is empty or malformed.
// Binaries use it to let -ldflags "-X main.buildVersion=..." overwrite the release version.
func Or(s string, fallback V) V {
	if s == "" {
		return fallback
	}
	v, err := Parse(s)
	if err != nil {
		return fallback
	}
	return v
}
