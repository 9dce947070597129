// Package winrate extracts a player's win probability from free-form
// simulator output. Simulators are loosely specified text emitters, so
// extraction is an ordered chain of matchers that trade precision for
// recall: a confident per-line match is preferred, a cross-line match
// comes next, and an unattributed "win percentage" anywhere is the last
// resort.
package winrate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// percentRe matches a win-percentage figure: optional ':' or '='
// separator, an integer or decimal number, optional '%'.
var percentRe = regexp.MustCompile(`(?i)win percentage\s*[:=]?\s*(\d+(?:\.\d+)?)\s*%?`)

// A strategy inspects normalized output and either returns the raw
// matched number or reports no confident match. Attributed strategies
// tie the figure to the requested player; the unattributed fallback can
// pick up another player's rate when the output lacks per-player
// sectioning, which is why its use is logged.
type strategy struct {
	name       string
	attributed bool
	match      func(text string, player int) (string, bool)
}

var strategies = []strategy{
	{name: "player-line", attributed: true, match: matchPlayerLine},
	{name: "player-span", attributed: true, match: matchPlayerSpan},
	{name: "any-percentage", attributed: false, match: matchAnyPercentage},
}

// Extract returns the player's win rate as a fraction in [0,1]. The
// second return value is false when no pattern matched, including for
// empty input and sentinel outputs substituted on simulator failure.
func Extract(text string, player int) (float64, bool) {
	if text == "" {
		return 0, false
	}

	// Locale-varying simulators emit comma decimals.
	norm := strings.ReplaceAll(text, ",", ".")

	for _, s := range strategies {
		raw, ok := s.match(norm, player)
		if !ok {
			continue
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if !s.attributed {
			log.Warn().Int("player", player).
				Msgf("win rate taken from unattributed %s match; it may belong to another player", s.name)
		}
		return normalize(val), true
	}
	return 0, false
}

// normalize maps percentage figures to fractions: 73 becomes 0.73, 45.5
// becomes 0.455, while a figure already in [0,1] is used unchanged.
func normalize(v float64) float64 {
	if v > 1.0 {
		return v / 100.0
	}
	return v
}

func playerRe(player int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?i)Player\s*%d\b`, player))
}

// matchPlayerLine searches lines that mention the player for a
// win-percentage figure on that same line.
func matchPlayerLine(text string, player int) (string, bool) {
	pRe := playerRe(player)
	for _, line := range strings.Split(text, "\n") {
		if !pRe.MatchString(line) {
			continue
		}
		if m := percentRe.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// matchPlayerSpan searches the whole text for "Player <N> ... win
// percentage ...", allowing arbitrary text and line breaks between the
// player tag and the figure.
func matchPlayerSpan(text string, player int) (string, bool) {
	re := regexp.MustCompile(fmt.Sprintf(
		`(?is)Player\s*%d\b.*?win percentage\s*[:=]?\s*(\d+(?:\.\d+)?)\s*%%?`, player))
	if m := re.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// matchAnyPercentage takes the first win-percentage figure anywhere,
// regardless of player attribution.
func matchAnyPercentage(text string, _ int) (string, bool) {
	if m := percentRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}
