package menu

// MeatOption is one entry of the fixed meat catalog offered for items with a
// meat choice.
type MeatOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var MeatOptions = []MeatOption{
	{Value: "Barbacoa", Label: "Barbacoa (Shredded Beef)"},
	{Value: "Birria", Label: "Birria (Beef)"},
	{Value: "Campechana", Label: "Campechana (Steak + Chorizo)"},
	{Value: "Carne Asada", Label: "Carne Asada (Steak)"},
	{Value: "Carne Molida", Label: "Carne Molida (Ground Beef)"},
	{Value: "Chorizo", Label: "Chorizo (Pork Sausage)"},
	{Value: "Pollo", Label: "Pollo (Chicken)"},
	{Value: "Tripa", Label: "Tripa"},
}
