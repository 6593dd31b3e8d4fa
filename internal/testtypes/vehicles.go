package testtypes

import (
	"github.com/davidcim/wirinj"
)

type Part interface {
	PartName() string
}

type Engine struct{}

func (*Engine) PartName() string { return "engine" }

type Wheel struct {
	Size int
}

func NewWheel(size int) *Wheel {
	return &Wheel{Size: size}
}

func (*Wheel) PartName() string { return "wheel" }

type Door struct{}

func (*Door) PartName() string { return "door" }

type Vehicle interface {
	Parts() []Part
}

// Car assembles its parts once its factories are injected.
type Car struct {
	Engines wirinj.Provider[*Engine] `inject:"engineFactory"`
	Wheels  wirinj.Provider[*Wheel]  `inject:"wheelFactory"`

	parts []Part
}

func (c *Car) PostInject() error {
	engine, err := c.Engines.New()
	if err != nil {
		return err
	}
	c.parts = append(c.parts, engine)

	for range 4 {
		wheel, err := c.Wheels.New()
		if err != nil {
			return err
		}
		c.parts = append(c.parts, wheel)
	}
	return nil
}

func (c *Car) Parts() []Part {
	return c.parts
}

// Van is a car with doors.
type Van struct {
	Car
	Doors wirinj.Provider[*Door] `inject:"doorFactory"`
}

func (v *Van) PostInject() error {
	if err := v.Car.PostInject(); err != nil {
		return err
	}

	for range 2 {
		door, err := v.Doors.New()
		if err != nil {
			return err
		}
		v.parts = append(v.parts, door)
	}
	return nil
}

// Bob drives the vehicles built by the injected factory.
type Bob struct {
	Vehicles wirinj.Provider[Vehicle] `inject:"vehicleFactory"`
}

// Mike is like Bob, defined apart to test contextual keys.
type Mike struct {
	Vehicles wirinj.Provider[Vehicle] `inject:"vehicleFactory"`
}
