package seed

import (
	"math/rand"

	"github.com/medstock/medstock/internal/inventory"
)

// Formulary returns the demo supplies. Ids are fixed so questions like
// "how much benadryl do we have" resolve to supply 2 on every install.
func Formulary() []inventory.Item {
	return []inventory.Item{
		{ID: 1, Type: "tablets", Name: "Acetaminophen (Tylenol)", StrengthOrVolume: "500 mg", RouteOfUse: "oral", QuantityInPack: 100, PossibleSideEffect: "nausea, rash", Location: "Cabinet A, Shelf 1"},
		{ID: 2, Type: "capsules", Name: "Diphenhydramine (Benadryl)", StrengthOrVolume: "25 mg", RouteOfUse: "oral", QuantityInPack: 24, PossibleSideEffect: "drowsiness, dry mouth, dizziness", Location: "Cabinet A, Shelf 2"},
		{ID: 3, Type: "tablets", Name: "Ibuprofen (Advil)", StrengthOrVolume: "200 mg", RouteOfUse: "oral", QuantityInPack: 50, PossibleSideEffect: "upset stomach, heartburn", Location: "Cabinet A, Shelf 1"},
		{ID: 4, Type: "auto-injector", Name: "Epinephrine (EpiPen)", StrengthOrVolume: "0.3 mg", RouteOfUse: "intramuscular", QuantityInPack: 2, PossibleSideEffect: "rapid heartbeat, anxiety, sweating", Location: "Emergency Kit"},
		{ID: 5, Type: "tablets", Name: "Loratadine (Claritin)", StrengthOrVolume: "10 mg", RouteOfUse: "oral", QuantityInPack: 30, PossibleSideEffect: "headache, fatigue", Location: "Cabinet A, Shelf 2"},
		{ID: 6, Type: "inhaler", Name: "Albuterol (ProAir)", StrengthOrVolume: "90 mcg/actuation", RouteOfUse: "inhalation", QuantityInPack: 1, PossibleSideEffect: "tremor, nervousness", Location: "Emergency Kit"},
		{ID: 7, Type: "ointment", Name: "Bacitracin", StrengthOrVolume: "28 g", RouteOfUse: "topical", QuantityInPack: 1, PossibleSideEffect: "skin irritation", Location: "Drawer 3"},
		{ID: 8, Type: "cream", Name: "Hydrocortisone", StrengthOrVolume: "1%", RouteOfUse: "topical", QuantityInPack: 1, PossibleSideEffect: "burning, itching", Location: "Drawer 3"},
		{ID: 9, Type: "tablets", Name: "Ondansetron (Zofran)", StrengthOrVolume: "4 mg", RouteOfUse: "oral", QuantityInPack: 10, PossibleSideEffect: "headache, constipation", Location: "Cabinet B, Shelf 1"},
		{ID: 10, Type: "solution", Name: "Sodium Chloride 0.9%", StrengthOrVolume: "500 mL", RouteOfUse: "intravenous", QuantityInPack: 1, PossibleSideEffect: "fluid overload", Location: "Storage Room"},
	}
}

// Generator produces stock packages for the formulary. A package is either
// full or opened with a random remainder.
type Generator struct {
	rnd         *rand.Rand
	maxPackages int
	nextID      int64
}

func NewGenerator(seed int64, maxPackages int) *Generator {
	if maxPackages <= 0 {
		maxPackages = 1
	}
	return &Generator{
		rnd:         rand.New(rand.NewSource(seed)),
		maxPackages: maxPackages,
	}
}

func (g *Generator) StockFor(item inventory.Item) []inventory.StockEntry {
	count := g.rnd.Intn(g.maxPackages) + 1
	perPack := item.QuantityInPack
	if perPack <= 0 {
		perPack = 1
	}

	entries := make([]inventory.StockEntry, 0, count)
	for i := 0; i < count; i++ {
		g.nextID++
		quantity := perPack
		if g.rnd.Intn(3) == 0 {
			quantity = g.rnd.Int63n(perPack) + 1
		}
		entries = append(entries, inventory.StockEntry{
			ID:       g.nextID,
			SupplyID: item.ID,
			Quantity: quantity,
		})
	}
	return entries
}
