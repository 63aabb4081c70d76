package gt

import (
	"github.com/matzehuels/gtreader/pkg/errors"
)

// Property is one named, typed property map of a decoded graph.
type Property struct {
	name    string
	mapType MapType
	values  Values
}

// Name returns the property name. Names are not required to be unique.
func (p *Property) Name() string { return p.name }

// MapType returns whether the property is scoped to the graph, vertices or edges.
func (p *Property) MapType() MapType { return p.mapType }

// ValueType returns the element type of the property.
func (p *Property) ValueType() ValueType { return p.values.Type() }

// Values returns the typed payload. Its length equals the cardinality of
// the map type: 1, the vertex count, or the edge count.
func (p *Property) Values() Values { return p.values }

// Len returns the number of values.
func (p *Property) Len() int { return p.values.Len() }

// Info returns a serializable description of the property.
func (p *Property) Info() PropertyInfo {
	return PropertyInfo{
		Name:      p.name,
		MapType:   p.mapType.String(),
		ValueType: p.values.Type().String(),
		Len:       p.values.Len(),
	}
}

// PropertyInfo describes a property without its values.
type PropertyInfo struct {
	Name      string `json:"name" bson:"name"`
	MapType   string `json:"map_type" bson:"map_type"`
	ValueType string `json:"value_type" bson:"value_type"`
	Len       int    `json:"len" bson:"len"`
}

// decodeProperty reads one property entry: map-type tag, name, value-type
// tag, then exactly as many values as the map type's cardinality.
func decodeProperty(c *cursor, index int, vertices, edges uint64) (*Property, error) {
	start := c.pos

	tag, err := c.u8()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedProperty, err, "property %d: map type", index)
	}
	mapType, ok := mapTypeFromTag(tag)
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedProperty,
			"property %d at offset %d: unsupported map type %d", index, start, tag)
	}

	name, err := c.text()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedProperty, err, "property %d: name", index)
	}

	tag, err = c.u8()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedProperty, err, "property %q: value type", name)
	}
	valueType, ok := valueTypeFromTag(tag)
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedProperty,
			"property %q: unsupported value type %d", name, tag)
	}

	n := mapType.cardinality(vertices, edges)
	values, err := decodeValues(c, valueType, n)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedProperty, err,
			"property %q (%s %s)", name, mapType, valueType)
	}

	return &Property{name: name, mapType: mapType, values: values}, nil
}
