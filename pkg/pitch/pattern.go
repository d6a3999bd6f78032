package pitch

import (
	"errors"
	"fmt"
	"strings"
)

// Pattern symbols.
const (
	High = "H"
	Low  = "L"
)

// ErrInvalidPosition is returned for accent positions outside [0, moraCount+1].
var ErrInvalidPosition = errors.New("pitch: invalid accent position")

// PositionToPattern converts an accent position into a tone pattern with a
// leading boundary symbol, so the result has moraCount+1 symbols.
//
//	0            heiban:    L H...H
//	1            atamadaka: H L...L
//	moraCount+1  odaka:     L H...H L
//	2..moraCount nakadaka:  L H{position-1} L...
func PositionToPattern(moraCount, position int) (string, error) {
	if moraCount < 0 || position < 0 || position > moraCount+1 {
		return "", fmt.Errorf("%w: %d for %d mora", ErrInvalidPosition, position, moraCount)
	}
	switch {
	case position == 0:
		return Low + strings.Repeat(High, moraCount), nil
	case position == 1:
		return High + strings.Repeat(Low, moraCount), nil
	case position == moraCount+1:
		return Low + strings.Repeat(High, moraCount-1) + Low, nil
	default:
		return Low + strings.Repeat(High, position-1) + strings.Repeat(Low, moraCount-position+1), nil
	}
}

func isHigh(symbol rune) bool {
	switch symbol {
	case 'H', 'h', '1', '2':
		return true
	}
	return false
}
