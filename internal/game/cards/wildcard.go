package cards

// CanNominate reports whether the (character, bodyPart) pair is a legal
// nomination for the card. Regular cards can never be nominated. A
// WildCharacter card must keep its fixed character, a WildPosition card its
// fixed body part; WildUniversal accepts any concrete pair.
func CanNominate(card *Card, character Character, bodyPart BodyPart) bool {
	if !character.IsConcrete() || !bodyPart.IsConcrete() {
		return false
	}
	switch card.Type {
	case CardTypeRegular:
		return false
	case CardTypeWildCharacter:
		return character == card.Character
	case CardTypeWildPosition:
		return bodyPart == card.BodyPart
	case CardTypeWildUniversal:
		return true
	}
	return false
}

// Nominate applies a nomination if it is legal for the card, leaving the card
// untouched and returning false otherwise.
func Nominate(card *Card, character Character, bodyPart BodyPart) bool {
	if !CanNominate(card, character, bodyPart) {
		return false
	}
	card.Nomination = &Nomination{Character: character, BodyPart: bodyPart}
	return true
}

// ResetNomination clears a wild card's nomination. It returns false for
// Regular cards, which cannot carry one.
func ResetNomination(card *Card) bool {
	if card.Type == CardTypeRegular {
		return false
	}
	card.Nomination = nil
	return true
}

// PossibleNominations enumerates every legal nomination for the card: 3 for
// WildCharacter, 4 for WildPosition, 12 for WildUniversal, none for Regular.
func PossibleNominations(card *Card) []Nomination {
	var noms []Nomination
	for _, ch := range Characters() {
		for _, bp := range BodyParts() {
			if CanNominate(card, ch, bp) {
				noms = append(noms, Nomination{Character: ch, BodyPart: bp})
			}
		}
	}
	return noms
}
