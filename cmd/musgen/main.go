package main

import (
	"os"
	"reflect"
	"strings"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	typeops "github.com/mus-format/musgen-go/options/type"

	"github.com/embershare/seek/core"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// If we're in the core subpackage, cd up to project root
	if strings.HasSuffix(cwd, "core") {
		if err := os.Chdir(".."); err != nil {
			panic(err)
		}
	}
	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/embershare/seek/core"),
	)
	if err != nil {
		panic(err)
	}

	g.AddDefinedType(reflect.TypeFor[core.ID]())

	// Unix micro timestamps
	opts := typeops.WithTimeUnit(typeops.Micro)
	err = g.AddStruct(reflect.TypeFor[core.Item](),
		structops.WithField(), // Id
		structops.WithField(), // OwnerName
		structops.WithField(), // Name
		structops.WithField(), // Description
		structops.WithField(), // Quantity
		structops.WithField(), // IsBorrow
		structops.WithField(), // CategoryId
		structops.WithField(), // Available
		structops.WithField(), // Latitude
		structops.WithField(), // Longitude
		structops.WithField(), // Address
		structops.WithField(), // LocationName
		structops.WithField(), // PickupInstructions
		structops.WithField(), // Picture
		structops.WithField(), // Vector
		structops.WithField(), // TextFingerprint
		structops.WithField(opts), // CreatedAt
		structops.WithField(opts), // InsertedAt
		structops.WithField(opts)) // UpdatedAt
	if err != nil {
		panic(err)
	}

	err = g.AddStruct(reflect.TypeFor[core.Category](),
		structops.WithField(),
		structops.WithField())
	if err != nil {
		panic(err)
	}

	bs, err := g.Generate()
	if err != nil {
		panic(err)
	}

	err = os.WriteFile("./core/records_mus.gen.go", bs, 0644)
	if err != nil {
		panic(err)
	}
}
