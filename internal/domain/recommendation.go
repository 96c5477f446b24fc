package domain

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// ClothingDescriptor is one suggested piece of clothing from the upstream
// recommendation engine. The upstream payload is free-form; only entries that
// carry a "Clothing Type" key become descriptors.
type ClothingDescriptor struct {
	ClothingType string
	Color        string
}

// QueryText is the text embedded for similarity search. A missing color or
// type yields a leading/trailing space rather than an error.
func (d ClothingDescriptor) QueryText() string {
	return d.Color + " " + d.ClothingType
}

type SubcategoryGroup struct {
	Label string
	Items []ClothingDescriptor
}

type CategoryGroup struct {
	Name   string
	Groups []SubcategoryGroup
}

// RecommendationPayload is the nested category -> subcategory -> descriptor
// structure sent to the match endpoint. JSON objects are decoded through the
// token stream into ordered slices, because match output order is defined by
// key encounter order and Go maps would lose it. Malformed values at any level
// are skipped, never rejected: the payload originates from free-form upstream
// data.
type RecommendationPayload struct {
	Categories []CategoryGroup
}

// QueryItem is one extracted descriptor: the category and subcategory it came
// from and the text used to query the vector index.
type QueryItem struct {
	Category    string
	Subcategory string
	QueryText   string
}

// QueryItems flattens the payload into query tuples in exact traversal order.
// No reordering, no deduplication.
func (p RecommendationPayload) QueryItems() []QueryItem {
	var out []QueryItem
	for _, cat := range p.Categories {
		for _, grp := range cat.Groups {
			for _, item := range grp.Items {
				out = append(out, QueryItem{
					Category:    cat.Name,
					Subcategory: grp.Label,
					QueryText:   item.QueryText(),
				})
			}
		}
	}
	return out
}

func (p *RecommendationPayload) UnmarshalJSON(data []byte) error {
	p.Categories = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode recommendations: %w", err)
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("recommendations must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode category key: %w", err)
		}
		name, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode category %q: %w", name, err)
		}

		groups := decodeSubcategories(raw)
		if groups == nil {
			// empty, null, or non-object category value
			continue
		}
		p.Categories = append(p.Categories, CategoryGroup{Name: name, Groups: groups})
	}
	return nil
}

// decodeSubcategories parses one category value, preserving subcategory key
// order. Returns nil when the value is not a non-empty object.
func decodeSubcategories(raw json.RawMessage) []SubcategoryGroup {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	var groups []SubcategoryGroup
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return groups
		}
		label, _ := keyTok.(string)

		var itemsRaw json.RawMessage
		if err := dec.Decode(&itemsRaw); err != nil {
			return groups
		}

		items, ok := decodeDescriptors(itemsRaw)
		if !ok {
			continue
		}
		groups = append(groups, SubcategoryGroup{Label: label, Items: items})
	}
	return groups
}

// decodeDescriptors parses a subcategory's item list. Elements that are not
// objects or lack a "Clothing Type" key are skipped. ok is false when the
// value is not an array at all.
func decodeDescriptors(raw json.RawMessage) ([]ClothingDescriptor, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}

	var items []ClothingDescriptor
	for _, el := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(el, &fields); err != nil {
			continue
		}
		typRaw, ok := fields["Clothing Type"]
		if !ok {
			continue
		}
		var clothingType string
		if err := json.Unmarshal(typRaw, &clothingType); err != nil {
			continue
		}
		var color string
		if colorRaw, ok := fields["Color"]; ok {
			_ = json.Unmarshal(colorRaw, &color)
		}
		items = append(items, ClothingDescriptor{ClothingType: clothingType, Color: color})
	}
	return items, true
}
