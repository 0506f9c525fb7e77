// Package naming builds display names for munchers.
package naming

// Adjectives is the closed list of first words.
var Adjectives = [...]string{
	"Tiny", "Swift", "Bold", "Great", "Silent", "Giant", "Wild",
	"Forceful", "Mighty", "Sneaky", "Jolly", "Fierce", "Cool", "Witty",
}

// Nouns is the closed list of second words.
var Nouns = [...]string{
	"Hunter", "Eater", "Enlargener", "Taster", "Muncher", "Nibbler",
	"Chomper", "Crusher", "Gobbler", "Swallower", "Devourer", "Smasher",
}

// Intner is the slice of a random source the generator needs. *rand.Rand satisfies it.
type Intner interface {
	Intn(n int) int
}

// RandomName returns "<Adjective> <Noun>" with both words drawn uniformly.
// Names are not unique.
func RandomName(r Intner) string {
	return Adjectives[r.Intn(len(Adjectives))] + " " + Nouns[r.Intn(len(Nouns))]
}
