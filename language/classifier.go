// Package language tags video titles as French or Dutch.
//
// The classifier is a keyword heuristic, not a language model. Its decision
// order is an explicit rule list so precedence can be read and tested on its
// own: club overrides first, then keyword scoring, then the generic-club
// fallback, then the default.
package language

import (
	"strings"
)

// Tag is a coarse language label.
type Tag string

const (
	FR Tag = "FR"
	NL Tag = "NL"
)

// Default is returned for empty titles and when no rule decides.
const Default = NL

// Scores counts keyword hits per language.
type Scores struct {
	French int `json:"french"`
	Dutch  int `json:"dutch"`
}

// Rule decides a tag for a lower-cased title, or passes (ok=false).
type Rule struct {
	Name   string
	Decide func(title string, s Scores) (tag Tag, ok bool)
}

// FrenchKeywords are French lexical and regional markers.
var FrenchKeywords = []string{
	"résumé", "but ", "buts", "victoire", "défaite", "contre", "journée",
	"après", "avec", "entraîneur", "joueur", "équipe", "coupe", "championnat",
	"liège", "charleroi", "mons", "namur", "mouscron", "eupen",
	" le ", " la ", " les ", " des ", " du ", " et ",
}

// DutchKeywords are Dutch lexical and regional markers.
var DutchKeywords = []string{
	"samenvatting", "doelpunt", "overwinning", "nederlaag", "tegen", "speeldag",
	"wedstrijd", "trainer", "speler", "ploeg", "beker", "kampioen",
	"brugge", "antwerp", "mechelen", "leuven", "westerlo", "kortrijk", "kaa gent",
	" de ", " het ", " een ", " en ", " van ",
}

// GenericClubs are club names used by both language communities.
var GenericClubs = []string{"standard", "anderlecht", "bruges"}

// DefaultRules returns the rule cascade in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "override: Flemish clubs",
			Decide: func(title string, _ Scores) (Tag, bool) {
				return NL, containsAny(title, "club brugge", "krc genk", "racing genk")
			},
		},
		{
			Name: "override: Standard de Liège",
			Decide: func(title string, _ Scores) (Tag, bool) {
				return FR, containsAny(title, "standard liège", "standard de liège")
			},
		},
		{
			Name: "score: French ahead",
			Decide: func(_ string, s Scores) (Tag, bool) {
				return FR, s.French > s.Dutch
			},
		},
		{
			Name: "score: Dutch ahead",
			Decide: func(_ string, s Scores) (Tag, bool) {
				return NL, s.Dutch > s.French
			},
		},
		{
			Name: "fallback: generic club, no keywords",
			Decide: func(title string, s Scores) (Tag, bool) {
				return FR, s.French == 0 && s.Dutch == 0 && containsAny(title, GenericClubs...)
			},
		},
	}
}

// Classifier scores titles against two keyword lists and applies Rules in order.
type Classifier struct {
	French []string
	Dutch  []string
	Rules  []Rule
}

// New returns a classifier with the default keyword lists and rules.
func New() *Classifier {
	return &Classifier{
		French: FrenchKeywords,
		Dutch:  DutchKeywords,
		Rules:  DefaultRules(),
	}
}

// Classify returns the tag for title.
func (c *Classifier) Classify(title string) Tag {
	tag, _ := c.Explain(title)
	return tag
}

// Explain returns the tag and the name of the rule that decided it.
// The rule name is empty when the default applied.
func (c *Classifier) Explain(title string) (Tag, string) {
	if title == "" {
		return Default, ""
	}
	lower := strings.ToLower(title)
	s := c.Score(lower)
	for _, r := range c.Rules {
		if tag, ok := r.Decide(lower, s); ok {
			return tag, r.Name
		}
	}
	return Default, ""
}

// Score counts keyword hits in a lower-cased title.
func (c *Classifier) Score(lower string) Scores {
	var s Scores
	for _, kw := range c.French {
		if strings.Contains(lower, kw) {
			s.French++
		}
	}
	for _, kw := range c.Dutch {
		if strings.Contains(lower, kw) {
			s.Dutch++
		}
	}
	return s
}

// Classify tags title with the default classifier.
func Classify(title string) Tag {
	return defaultClassifier.Classify(title)
}

var defaultClassifier = New()

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
