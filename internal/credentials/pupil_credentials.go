// Package credentials generates child-friendly login credentials: a
// memorable adjective-noun username and a short access code.
package credentials

import (
	"crypto/rand"
	"math/big"
)

var adjectives = []string{
	"amber", "breezy", "calm", "dazzling", "early", "fuzzy", "golden", "humble",
	"icy", "jumpy", "keen", "leafy", "misty", "nimble", "oaken", "plucky",
	"quiet", "rosy", "silver", "tidy", "upbeat", "velvet", "wavy", "zesty",
	"bold", "crisp", "dreamy", "frosty", "glowing", "happy", "mellow", "polar",
	"rapid", "shiny", "sturdy", "sunny", "tender", "vivid", "witty", "young",
}

var nouns = []string{
	"acorn", "badger", "cricket", "dewdrop", "ember", "feather", "glacier", "harbor",
	"island", "jigsaw", "kestrel", "lantern", "meadow", "nutmeg", "otter", "pebble",
	"quill", "river", "sparrow", "thistle", "umbrella", "violet", "willow", "zephyr",
	"beacon", "clover", "drummer", "falcon", "garden", "heron", "maple", "nightjar",
	"orchard", "puffin", "rabbit", "saffron", "tulip", "walnut", "wren", "yarrow",
}

// Characters for access codes. Ambiguous glyphs (0/O, 1/l/I) are left out
// so young children can type what they see.
const accessCodeChars = "abcdefghjkmnpqrstuvwxyz23456789"

// GenerateUsername generates a random username in the format
// "adjective-noun".
func GenerateUsername() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}

	noun, err := randomElement(nouns)
	if err != nil {
		return "", err
	}

	return adjective + "-" + noun, nil
}

// GenerateAccessCode generates a random 4-character access code.
func GenerateAccessCode() (string, error) {
	code := make([]byte, 4)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(accessCodeChars))))
		if err != nil {
			return "", err
		}
		code[i] = accessCodeChars[num.Int64()]
	}
	return string(code), nil
}

func randomElement(slice []string) (string, error) {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}
	return slice[num.Int64()], nil
}
