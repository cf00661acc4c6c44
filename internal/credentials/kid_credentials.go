package credentials

import (
	"crypto/rand"
	"math/big"
)

// Word lists for generating kid-friendly usernames. Kept short, concrete
// and easy to read aloud.
var adjectives = []string{
	"sunny", "happy", "calm", "brave", "gentle", "bright", "quiet", "kind",
	"merry", "cozy", "swift", "lucky", "jolly", "mellow", "cheery", "soft",
	"warm", "starry", "breezy", "golden", "silver", "rosy", "minty", "dreamy",
	"smiley", "bouncy", "curious", "friendly", "peaceful", "playful",
}

var nouns = []string{
	"panda", "bunny", "otter", "koala", "dolphin", "turtle", "penguin", "owl",
	"kitten", "puppy", "duckling", "fox", "hedgehog", "seal", "lamb", "chick",
	"star", "cloud", "rainbow", "acorn", "pebble", "leaf", "flower", "river",
	"moon", "comet", "breeze", "meadow", "sprout", "berry",
}

// GenerateKidUsername generates a random username in the format
// "adjective-noun".
func GenerateKidUsername() (string, error) {
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

// GenerateKidPassword generates a random 4-character password from
// unambiguous lowercase letters and digits (no l/o/0/1 lookalikes).
func GenerateKidPassword() (string, error) {
	const chars = "abcdefghijkmnpqrstuvwxyz23456789"

	password := make([]byte, 4)
	for i := range password {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		if err != nil {
			return "", err
		}
		password[i] = chars[num.Int64()]
	}

	return string(password), nil
}

// randomElement picks a random element from a string slice.
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}
	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}
	return slice[num.Int64()], nil
}
