// Package units converts between byte counts and the IEC-style size strings
// used on the command line ("700MB", "4g", "512 KB").
//
// Multipliers are powers of 1024. Unit names follow the historical B, KB,
// MB, GB spelling rather than KiB/MiB/GiB.
package units

import (
	"errors"
	"fmt"
	"math/bits"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var (
	// ErrSyntax indicates a limit string that does not match <digits>[K|M|G][B].
	ErrSyntax = errors.New("units: invalid size")

	// ErrOverflow indicates a limit that does not fit in 64 bits once scaled.
	ErrOverflow = errors.New("units: size overflows uint64")
)

// Unit is a power of 1024.
type Unit int

const (
	B Unit = iota
	KB
	MB
	GB
)

var unitNames = [...]string{"B", "KB", "MB", "GB"}

// String returns the unit symbol.
func (u Unit) String() string {
	if u < B || u > GB {
		return fmt.Sprintf("Unit(%d)", int(u))
	}

	return unitNames[u]
}

// Bytes returns the number of bytes in one u.
func (u Unit) Bytes() uint64 {
	return 1 << (10 * uint(u))
}

// Format renders v truncated to whole units, e.g. MB.Format(734003200) == "700 MB".
func (u Unit) Format(v uint64) string {
	return fmt.Sprintf("%d %s", v/u.Bytes(), u)
}

// limitPattern accepts "700", "700K", "700KB", "700B"; spaces between number
// and unit are tolerated.
var limitPattern = regexp.MustCompile(`^(\d+)\s*((K|M|G)?B?)$`)

// ParseLimit parses a size limit. The unit letters are case-insensitive and
// the trailing B is optional. The returned Unit is the one the caller wrote,
// so results can be echoed back in the same unit.
func ParseLimit(s string) (uint64, Unit, error) {
	m := limitPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0, B, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, B, fmt.Errorf("%w: %q", ErrOverflow, s)
		}
		return 0, B, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	u := B
	switch m[3] {
	case "K":
		u = KB
	case "M":
		u = MB
	case "G":
		u = GB
	}

	hi, lo := bits.Mul64(n, u.Bytes())
	if hi != 0 {
		return 0, u, fmt.Errorf("%w: %q", ErrOverflow, s)
	}

	return lo, u, nil
}

// Human renders v in the best-fitting IEC unit ("4.4 GiB").
func Human(v uint64) string {
	return humanize.IBytes(v)
}
