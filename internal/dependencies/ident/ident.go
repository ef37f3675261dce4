package ident

import (
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/google/uuid"

	"github.com/mcoot/townsquare-go/internal/model"
)

// PasswordAlphabet is the character set for town update passwords
// (avoids easily-confused characters)
const PasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

// Source provides all identifier generation so that tests can substitute
// deterministic values
type Source interface {
	NewTownID() model.TownID
	NewPlayerID() model.PlayerID
	NewPollID() model.PollID

	// SessionToken returns an opaque credential with enough entropy to be
	// unguessable; it is the sole proof of town membership
	SessionToken() string

	// Password returns a random town update password of the given length
	Password(length int) string
}

// UUIDSource implements Source with random UUIDs and crypto/rand tokens
type UUIDSource struct{}

// New creates a new UUIDSource
func New() *UUIDSource {
	return &UUIDSource{}
}

var _ Source = (*UUIDSource)(nil)

func (s *UUIDSource) NewTownID() model.TownID {
	return model.TownID(uuid.NewString())
}

func (s *UUIDSource) NewPlayerID() model.PlayerID {
	return model.PlayerID(uuid.NewString())
}

func (s *UUIDSource) NewPollID() model.PollID {
	return model.PollID(uuid.NewString())
}

func (s *UUIDSource) SessionToken() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (s *UUIDSource) Password(length int) string {
	return password(rand.Reader, length)
}

func password(r io.Reader, length int) string {
	if length <= 0 {
		return ""
	}
	// Bytes at or above the largest multiple of the alphabet size are
	// discarded so every character is equally likely
	limit := byte(256 - 256%len(PasswordAlphabet))
	out := make([]byte, 0, length)
	b := make([]byte, length)
	for len(out) < length {
		_, _ = io.ReadFull(r, b)
		for _, c := range b {
			if c >= limit {
				continue
			}
			out = append(out, PasswordAlphabet[int(c)%len(PasswordAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out)
}
