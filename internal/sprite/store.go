package sprite

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a sprite index does not
// refer to a sprite in the Store.
var ErrOutOfRange = errors.New("sprite index out of range")

// Store is an ordered collection of sprites. Sprites are
// held by value and drawn in insertion order.
type Store struct {
	sprites []Sprite
}

// NewStore returns a Store holding a copy of the given
// sprites.
func NewStore(sprites ...Sprite) *Store {
	s := &Store{}
	s.Reset(sprites...)
	return s
}

// Reset replaces the contents of the store with a copy of
// the given sprites.
func (s *Store) Reset(sprites ...Sprite) {
	s.sprites = append(s.sprites[:0], sprites...)
}

// Add appends a sprite and returns its index.
func (s *Store) Add(sprite Sprite) int {
	s.sprites = append(s.sprites, sprite)
	return len(s.sprites) - 1
}

// Remove removes the sprite at index i, preserving the order
// of the sprites that follow it.
func (s *Store) Remove(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.sprites = append(s.sprites[:i], s.sprites[i+1:]...)
	return nil
}

// At returns the sprite at index i.
func (s *Store) At(i int) (Sprite, error) {
	if err := s.check(i); err != nil {
		return Sprite{}, err
	}
	return s.sprites[i], nil
}

// Set replaces the sprite at index i.
func (s *Store) Set(i int, sprite Sprite) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.sprites[i] = sprite
	return nil
}

// Move offsets the sprite at index i in place.
func (s *Store) Move(i int, dx, dy int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.sprites[i] = s.sprites[i].Moved(dx, dy)
	return nil
}

// Len returns the number of sprites in the store.
func (s *Store) Len() int {
	return len(s.sprites)
}

// Sprites returns the sprites in draw order. The returned
// slice aliases the store and must not be modified; it is
// only valid until the next call that mutates the store.
func (s *Store) Sprites() []Sprite {
	return s.sprites
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	return NewStore(s.sprites...)
}

func (s *Store) check(i int) error {
	if i < 0 || i >= len(s.sprites) {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(s.sprites))
	}
	return nil
}
