package lottery

import (
	"fmt"
	"strconv"
	"strings"

	"pbcheck/internal/models"
)

const powerballField = "powerball"

func whiteField(i int) string {
	return fmt.Sprintf("white[%d]", i)
}

// Validate turns raw form tokens into a NumberSelection.
// Checks run in order: every field present, every value in range, white values distinct.
func Validate(white []string, powerball string) (models.NumberSelection, error) {
	var sel models.NumberSelection

	if len(white) != models.WhiteCount {
		return sel, &ValidationError{Kind: ErrIncomplete, Field: "white"}
	}
	for i, tok := range white {
		if strings.TrimSpace(tok) == "" {
			return sel, &ValidationError{Kind: ErrIncomplete, Field: whiteField(i)}
		}
	}
	if strings.TrimSpace(powerball) == "" {
		return sel, &ValidationError{Kind: ErrIncomplete, Field: powerballField}
	}

	for i, tok := range white {
		n, ok := parseToken(tok)
		if !ok || !models.InWhiteRange(n) {
			return models.NumberSelection{}, &ValidationError{Kind: ErrOutOfRange, Field: whiteField(i), Token: tok}
		}
		sel.White[i] = n
	}
	pb, ok := parseToken(powerball)
	if !ok || !models.InPowerballRange(pb) {
		return models.NumberSelection{}, &ValidationError{Kind: ErrOutOfRange, Field: powerballField, Token: powerball}
	}
	sel.Powerball = pb

	if err := checkDistinct(sel.White); err != nil {
		return models.NumberSelection{}, err
	}
	return sel, nil
}

// ValidateSelection re-checks an already typed selection, e.g. one read back from storage.
func ValidateSelection(sel models.NumberSelection) error {
	for i, n := range sel.White {
		if n == 0 {
			return &ValidationError{Kind: ErrIncomplete, Field: whiteField(i)}
		}
	}
	if sel.Powerball == 0 {
		return &ValidationError{Kind: ErrIncomplete, Field: powerballField}
	}
	for i, n := range sel.White {
		if !models.InWhiteRange(n) {
			return &ValidationError{Kind: ErrOutOfRange, Field: whiteField(i), Token: strconv.Itoa(n)}
		}
	}
	if !models.InPowerballRange(sel.Powerball) {
		return &ValidationError{Kind: ErrOutOfRange, Field: powerballField, Token: strconv.Itoa(sel.Powerball)}
	}
	return checkDistinct(sel.White)
}

func checkDistinct(white [models.WhiteCount]int) error {
	seen := make(map[int]struct{}, models.WhiteCount)
	for i, n := range white {
		if _, dup := seen[n]; dup {
			return &ValidationError{Kind: ErrDuplicateValue, Field: whiteField(i), Token: strconv.Itoa(n)}
		}
		seen[n] = struct{}{}
	}
	return nil
}

// parseToken accepts plain decimal digits only; signs and spaces inside the number are rejected.
func parseToken(tok string) (int, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" || len(tok) > 3 {
		return 0, false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}
