package kingdom

import "slices"

// BanePrefix starts the trailing bane line.
const BanePrefix = "Bane is "

// Lines renders the kingdom: supply cards and components sorted together,
// then landscape cards in draw order, then the bane line if any.
func (k *Kingdom) Lines() []string {
	lines := make([]string, 0, len(k.Cards)+len(k.Components)+len(k.Landscape)+1)
	for _, c := range k.Cards {
		lines = append(lines, c.String())
	}
	lines = append(lines, k.Components...)
	slices.Sort(lines)

	for _, c := range k.Landscape {
		lines = append(lines, c.String())
	}
	if k.Bane != nil {
		lines = append(lines, BanePrefix+k.Bane.String())
	}
	return lines
}
