package refdata

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldName normalizes a player name for matching: diacritics removed,
// lower-cased, whitespace collapsed. "Nikola Jokić" → "nikola jokic".
func FoldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// PlayerImpacts maps team → player → points the team loses without that player.
type PlayerImpacts struct {
	exact  map[string]map[string]float64
	folded map[string]map[string]float64
}

// NewPlayerImpacts indexes an impact table by exact and folded name.
func NewPlayerImpacts(table map[string]map[string]float64) *PlayerImpacts {
	p := &PlayerImpacts{
		exact:  make(map[string]map[string]float64, len(table)),
		folded: make(map[string]map[string]float64, len(table)),
	}
	for team, players := range table {
		ex := make(map[string]float64, len(players))
		fo := make(map[string]float64, len(players))
		for name, impact := range players {
			ex[name] = impact
			fo[FoldName(name)] = impact
		}
		p.exact[team] = ex
		p.folded[team] = fo
	}
	return p
}

// Impact returns a player's impact, matching the exact name first and then
// the folded form.
func (p *PlayerImpacts) Impact(team, player string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	if v, ok := p.exact[team][player]; ok {
		return v, true
	}
	v, ok := p.folded[team][FoldName(player)]
	return v, ok
}

// Players returns the number of players listed for a team.
func (p *PlayerImpacts) Players(team string) int {
	if p == nil {
		return 0
	}
	return len(p.exact[team])
}
