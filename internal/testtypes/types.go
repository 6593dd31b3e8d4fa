// Package testtypes holds the types shared by the tests: pets, vehicles and the people
// using them.
package testtypes

import (
	"reflect"

	"github.com/davidcim/wirinj"
)

var (
	TypeCat       = reflect.TypeFor[*Cat]()
	TypeDog       = reflect.TypeFor[*Dog]()
	TypeBird      = reflect.TypeFor[*Bird]()
	TypePet       = reflect.TypeFor[Pet]()
	TypePetPicker = reflect.TypeFor[*PetPicker]()

	TypeVehicle = reflect.TypeFor[Vehicle]()
	TypeCar     = reflect.TypeFor[*Car]()
	TypeVan     = reflect.TypeFor[*Van]()
	TypeBob     = reflect.TypeFor[*Bob]()
	TypeMike    = reflect.TypeFor[*Mike]()
)

// NewSchema returns a schema with the constructors of this package registered.
func NewSchema() *wirinj.Schema {
	return wirinj.NewSchema().
		MustRegister(NewCat, "name", wirinj.Default("giftWrapped", false)).
		MustRegister(NewDog, wirinj.Default("giftWrapped", false)).
		MustRegister(NewWheel, wirinj.Default("size", 16))
}
