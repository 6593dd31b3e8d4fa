package testtypes

import (
	"fmt"

	"github.com/davidcim/wirinj"
)

type Pet interface {
	Speak() string
}

// Animal holds the injected attributes shared by all pets.
type Animal struct {
	Sound  string  `inject:""`
	Weight float64 `inject:""`
}

func (a *Animal) Speak() string {
	return a.Sound
}

type Cat struct {
	Animal
	Name        string
	GiftWrapped bool
}

func NewCat(name string, giftWrapped bool) *Cat {
	return &Cat{Name: name, GiftWrapped: giftWrapped}
}

func (c *Cat) String() string {
	return fmt.Sprintf("cat %s (%s, %.1fkg)", c.Name, c.Sound, c.Weight)
}

type Dog struct {
	Animal
	GiftWrapped bool
}

func NewDog(giftWrapped bool) *Dog {
	return &Dog{GiftWrapped: giftWrapped}
}

// Bird has no constructor.
type Bird struct {
	Animal
}

// PetPicker builds pets on demand.
type PetPicker struct {
	Cats  wirinj.Provider[*Cat]  `inject:"catFactory"`
	Dogs  wirinj.Provider[*Dog]  `inject:"dogFactory"`
	Birds wirinj.Provider[*Bird] `inject:"birdFactory"`
}
