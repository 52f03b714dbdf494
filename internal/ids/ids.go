package ids

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generator hands out primary keys for new records.
type Generator interface {
	NewID() string
}

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// ULIDGenerator issues ULIDs, which sort by creation time.
type ULIDGenerator struct{}

func (ULIDGenerator) NewID() string {
	return ulid.Make().String()
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func() string

func (f GeneratorFunc) NewID() string {
	return f()
}

// FromStrategy returns the generator registered under name.
func FromStrategy(name string) (Generator, error) {
	switch name {
	case "", "uuid":
		return UUIDGenerator{}, nil
	case "ulid":
		return ULIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("ids: unknown strategy %q", name)
	}
}

// Sequence returns a deterministic generator ("prefix-1", "prefix-2", ...) for tests and seeds.
func Sequence(prefix string) Generator {
	n := 0
	return GeneratorFunc(func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	})
}
