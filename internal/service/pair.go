package service

import "fmt"

const pairLen = 6

// splitPair splits "BASETERM" into its base and term currencies.
func splitPair(pair string) (base, term string, err error) {
	if len(pair) != pairLen {
		return "", "", fmt.Errorf("%w: %q must be %d characters, e.g. USDJPY", ErrInvalidPair, pair, pairLen)
	}
	return pair[:3], pair[3:], nil
}
