package suggest

import "unicode"

// CapitalPositions marks, per rune, which characters of s are upper case.
func CapitalPositions(s string) []bool {
	var positions []bool
	hasCapital := false
	for _, r := range s {
		upper := unicode.IsUpper(r)
		hasCapital = hasCapital || upper
		positions = append(positions, upper)
	}
	if !hasCapital {
		return nil
	}
	return positions
}

// ApplyCapitalization upper-cases the runes of word at the marked positions.
func ApplyCapitalization(word string, capitalPositions []bool) string {
	if len(capitalPositions) == 0 {
		return word
	}

	wordRunes := []rune(word)
	for i := 0; i < len(wordRunes) && i < len(capitalPositions); i++ {
		if capitalPositions[i] && unicode.IsLower(wordRunes[i]) {
			wordRunes[i] = unicode.ToUpper(wordRunes[i])
		}
	}
	return string(wordRunes)
}
