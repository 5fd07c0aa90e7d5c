package prediction

import (
	"fmt"
	"slices"
)

// UnknownTeam replaces team names the model was not trained on.
const UnknownTeam = "Unknown Team"

// Vocabulary is the read-only set of team names known to the model. It is
// extracted once when the model is loaded.
type Vocabulary struct {
	names []string
	known map[string]struct{}
}

// NewVocabulary builds a Vocabulary from names. Duplicates are collapsed.
func NewVocabulary(names []string) Vocabulary {
	v := Vocabulary{known: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if _, ok := v.known[n]; ok {
			continue
		}
		v.known[n] = struct{}{}
		v.names = append(v.names, n)
	}
	slices.Sort(v.names)
	return v
}

// Contains reports whether name is a known team.
func (v Vocabulary) Contains(name string) bool {
	_, ok := v.known[name]
	return ok
}

// Names returns the known team names, sorted.
func (v Vocabulary) Names() []string { return slices.Clone(v.names) }

// Len returns the number of known teams.
func (v Vocabulary) Len() int { return len(v.names) }

// Warning reports a non-fatal substitution made before inference.
type Warning struct {
	Field      string `json:"field"`
	Value      string `json:"value"`
	Substitute string `json:"substitute"`
}

func (w Warning) String() string {
	return fmt.Sprintf("Unknown team: %s. Replacing with '%s'.", w.Value, w.Substitute)
}

// resolveTeam returns name when the model knows it, or UnknownTeam and a
// warning when it does not.
func resolveTeam(field, name string, vocab Vocabulary) (string, *Warning) {
	if vocab.Contains(name) {
		return name, nil
	}
	return UnknownTeam, &Warning{Field: field, Value: name, Substitute: UnknownTeam}
}
