package enums

import "fmt"

// ItemSize is the portion size chosen for a menu item with size options.
type ItemSize string

const (
	ItemSizeSmall  ItemSize = "small"
	ItemSizeMedium ItemSize = "medium"
	ItemSizeLarge  ItemSize = "large"
)

var validItemSizes = []ItemSize{
	ItemSizeSmall,
	ItemSizeMedium,
	ItemSizeLarge,
}

// String implements fmt.Stringer.
func (i ItemSize) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemSize.
func (i ItemSize) IsValid() bool {
	for _, candidate := range validItemSizes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemSize converts raw input into an ItemSize.
func ParseItemSize(value string) (ItemSize, error) {
	for _, candidate := range validItemSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item size %q", value)
}
