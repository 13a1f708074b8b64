// Package catalog defines the kitchen item catalog: the reference
// strings objects carry, the category each reference maps to, and the
// standard dimensions and mounting heights the validation rules check
// against. All dimensions are in meters.
package catalog

import "strings"

// Category classifies a catalog item for rule dispatch.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryBaseCabinet
	CategoryWallCabinet
	CategoryTallCabinet
	CategoryCountertop
	CategorySink
	CategoryStove
	CategoryRefrigerator
	CategoryDishwasher
)

func (c Category) String() string {
	switch c {
	case CategoryBaseCabinet:
		return "base-cabinet"
	case CategoryWallCabinet:
		return "wall-cabinet"
	case CategoryTallCabinet:
		return "tall-cabinet"
	case CategoryCountertop:
		return "countertop"
	case CategorySink:
		return "sink"
	case CategoryStove:
		return "stove"
	case CategoryRefrigerator:
		return "refrigerator"
	case CategoryDishwasher:
		return "dishwasher"
	default:
		return "unknown"
	}
}

// Item describes one catalog entry. Width runs along X, Depth along Y,
// Height along Z in the item's local frame. Elevation is the standard
// mounting height of the item's underside above the floor.
type Item struct {
	Ref       string
	Name      string
	Category  Category
	Width     float64
	Depth     float64
	Height    float64
	Elevation float64
}

// Standard dimensions used across the built-in catalog and by the
// height rule when an object's reference is not in the catalog.
const (
	BaseCabinetHeight  = 0.90
	CounterHeight      = 0.90
	WallCabinetHeight  = 0.70
	WallCabinetMount   = 1.40 // underside above floor
	TallCabinetHeight  = 2.10
	StoveHeight        = 0.90
	RefrigeratorHeight = 1.80
)

// builtins is the built-in item catalog, keyed by reference.
var builtins = map[string]Item{
	"cabinet.base.600": {
		Ref: "cabinet.base.600", Name: "Base cabinet 600",
		Category: CategoryBaseCabinet,
		Width:    0.60, Depth: 0.60, Height: BaseCabinetHeight,
	},
	"cabinet.base.900": {
		Ref: "cabinet.base.900", Name: "Base cabinet 900",
		Category: CategoryBaseCabinet,
		Width:    0.90, Depth: 0.60, Height: BaseCabinetHeight,
	},
	"cabinet.wall.600": {
		Ref: "cabinet.wall.600", Name: "Wall cabinet 600",
		Category: CategoryWallCabinet,
		Width:    0.60, Depth: 0.35, Height: WallCabinetHeight,
		Elevation: WallCabinetMount,
	},
	"cabinet.tall.600": {
		Ref: "cabinet.tall.600", Name: "Tall cabinet 600",
		Category: CategoryTallCabinet,
		Width:    0.60, Depth: 0.60, Height: TallCabinetHeight,
	},
	"counter.straight.1200": {
		Ref: "counter.straight.1200", Name: "Countertop 1200",
		Category: CategoryCountertop,
		Width:    1.20, Depth: 0.65, Height: 0.04,
		Elevation: CounterHeight - 0.04,
	},
	"sink.single.600": {
		Ref: "sink.single.600", Name: "Single-basin sink 600",
		Category: CategorySink,
		Width:    0.60, Depth: 0.60, Height: CounterHeight,
	},
	"stove.range.600": {
		Ref: "stove.range.600", Name: "Range stove 600",
		Category: CategoryStove,
		Width:    0.60, Depth: 0.60, Height: StoveHeight,
	},
	"refrigerator.standard.700": {
		Ref: "refrigerator.standard.700", Name: "Refrigerator 700",
		Category: CategoryRefrigerator,
		Width:    0.70, Depth: 0.70, Height: RefrigeratorHeight,
	},
	"dishwasher.standard.600": {
		Ref: "dishwasher.standard.600", Name: "Dishwasher 600",
		Category: CategoryDishwasher,
		Width:    0.60, Depth: 0.60, Height: 0.85,
	},
}

// Lookup returns the catalog item for ref, if present.
func Lookup(ref string) (Item, bool) {
	item, ok := builtins[ref]
	return item, ok
}

// Refs returns the references of all built-in items.
func Refs() []string {
	refs := make([]string, 0, len(builtins))
	for ref := range builtins {
		refs = append(refs, ref)
	}
	return refs
}

// CategoryOf infers a category from a catalog reference. Known
// references use their catalog entry; anything else falls back to
// keyword matching so that rules still dispatch on ad-hoc references
// like "custom.sink.farmhouse".
func CategoryOf(ref string) Category {
	if item, ok := builtins[ref]; ok {
		return item.Category
	}
	r := strings.ToLower(ref)
	switch {
	case strings.Contains(r, "sink"):
		return CategorySink
	case strings.Contains(r, "stove"), strings.Contains(r, "range"), strings.Contains(r, "cooktop"):
		return CategoryStove
	case strings.Contains(r, "refrigerator"), strings.Contains(r, "fridge"):
		return CategoryRefrigerator
	case strings.Contains(r, "dishwasher"):
		return CategoryDishwasher
	case strings.Contains(r, "counter"), strings.Contains(r, "worktop"):
		return CategoryCountertop
	case strings.Contains(r, "cabinet.wall"), strings.Contains(r, "wall-cabinet"):
		return CategoryWallCabinet
	case strings.Contains(r, "cabinet.tall"), strings.Contains(r, "pantry"):
		return CategoryTallCabinet
	case strings.Contains(r, "cabinet"), strings.Contains(r, "cupboard"):
		return CategoryBaseCabinet
	default:
		return CategoryUnknown
	}
}

// StandardHeight returns the expected overall height for a category,
// or zero when the category has no height standard.
func StandardHeight(c Category) float64 {
	switch c {
	case CategoryBaseCabinet, CategoryCountertop, CategorySink:
		return CounterHeight
	case CategoryWallCabinet:
		return WallCabinetHeight
	case CategoryTallCabinet:
		return TallCabinetHeight
	case CategoryStove:
		return StoveHeight
	case CategoryRefrigerator:
		return RefrigeratorHeight
	default:
		return 0
	}
}

// IsAppliance reports whether the category is one of the three major
// work-triangle appliances.
func IsAppliance(c Category) bool {
	return c == CategorySink || c == CategoryStove || c == CategoryRefrigerator
}
