package model

type DisplayOrder string

const (
	DisplayAlphabeticallyAscending  DisplayOrder = "alphabetically_ascending"
	DisplayAlphabeticallyDescending DisplayOrder = "alphabetically_descending"
	DisplayPredefined               DisplayOrder = "predefined"
	DisplayNaturalNumberAscending   DisplayOrder = "natural_number_ascending"
	DisplayNaturalNumberDescending  DisplayOrder = "natural_number_descending"
)

// DisplayOrders lists the accepted display orders in presentation order.
func DisplayOrders() []DisplayOrder {
	return []DisplayOrder{
		DisplayAlphabeticallyAscending,
		DisplayAlphabeticallyDescending,
		DisplayPredefined,
		DisplayNaturalNumberAscending,
		DisplayNaturalNumberDescending,
	}
}

var displayOrderLabels = map[DisplayOrder]string{
	DisplayAlphabeticallyAscending:  "Alphabetically Ascending (A-Z)",
	DisplayAlphabeticallyDescending: "Alphabetically Descending (Z-A)",
	DisplayNaturalNumberAscending:   "Natural Number Ascending (1, 2, 10)",
	DisplayNaturalNumberDescending:  "Natural Number Descending (10, 2, 1)",
	DisplayPredefined:               "Predefined Order",
}

func (d DisplayOrder) Valid() bool {
	_, ok := displayOrderLabels[d]
	return ok
}

// Label is the human-facing name; unknown values fall back to the raw string.
func (d DisplayOrder) Label() string {
	if l, ok := displayOrderLabels[d]; ok {
		return l
	}
	return string(d)
}

// Next cycles through DisplayOrders, wrapping around.
func (d DisplayOrder) Next() DisplayOrder {
	all := DisplayOrders()
	for i, o := range all {
		if o == d {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Prev cycles backwards through DisplayOrders, wrapping around.
func (d DisplayOrder) Prev() DisplayOrder {
	all := DisplayOrders()
	for i, o := range all {
		if o == d {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return all[0]
}
