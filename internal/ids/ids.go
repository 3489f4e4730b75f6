package ids

import (
	"fmt"

	"github.com/google/uuid"
	"go.jetify.com/typeid/v2"
)

const PrefixGame = "game"

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewGameID() string { return New(PrefixGame) }

// NewPlayerID is the anonymous player cookie value.
func NewPlayerID() string { return uuid.New().String() }

// NewClientID names one websocket connection.
func NewClientID() string { return uuid.New().String() }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}

// ValidPlayerID reports whether s looks like a player cookie value.
func ValidPlayerID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
