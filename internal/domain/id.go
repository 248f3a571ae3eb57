package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const idWidth = 5

// NextID returns the identifier following top. An empty top yields PDNO_00001.
// Counters past 99999 keep their natural width.
func NextID(top string) (string, error) {
	var n uint64
	if top != "" {
		digits, ok := strings.CutPrefix(top, IDPrefix)
		if !ok {
			return "", fmt.Errorf("product id %q lacks prefix %s", top, IDPrefix)
		}
		var err error
		if n, err = strconv.ParseUint(digits, 10, 64); err != nil {
			return "", fmt.Errorf("product id %q: %w", top, err)
		}
	}
	return fmt.Sprintf("%s%0*d", IDPrefix, idWidth, n+1), nil
}
