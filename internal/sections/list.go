package sections

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownType = errors.New("sections: unknown section type")
	ErrMissingType = errors.New("sections: missing section type")
)

// List is the ordered section list of a page. It marshals to and from the
// authoring shape, with the "type" tag on every element.
type List []Section

// Decode builds the variant selected by the "type" field of data.
func Decode(data []byte) (Section, error) {
	var tag struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("sections: decode: %w", err)
	}
	if tag.Type == nil {
		return nil, ErrMissingType
	}
	section := New(Type(*tag.Type))
	if section == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, *tag.Type)
	}
	if err := json.Unmarshal(data, section); err != nil {
		return nil, fmt.Errorf("sections: decode %s: %w", *tag.Type, err)
	}
	return section, nil
}

// Marshal encodes section including its "type" tag.
func Marshal(section Section) ([]byte, error) {
	if section == nil {
		return nil, errors.New("sections: marshal nil section")
	}
	fields, err := json.Marshal(section)
	if err != nil {
		return nil, err
	}
	var object map[string]json.RawMessage
	if err := json.Unmarshal(fields, &object); err != nil {
		return nil, err
	}
	tag, err := json.Marshal(section.SectionType())
	if err != nil {
		return nil, err
	}
	object["type"] = tag
	return json.Marshal(object)
}

func (l List) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, 0, len(l))
	for i, section := range l {
		encoded, err := Marshal(section)
		if err != nil {
			return nil, fmt.Errorf("sections: marshal %d: %w", i, err)
		}
		items = append(items, encoded)
	}
	return json.Marshal(items)
}

func (l *List) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(List, 0, len(raw))
	for i, item := range raw {
		section, err := Decode(item)
		if err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
		out = append(out, section)
	}
	*l = out
	return nil
}

// OfType returns the sections of type t in page order.
func (l List) OfType(t Type) []Section {
	var out []Section
	for _, section := range l {
		if section.SectionType() == t {
			out = append(out, section)
		}
	}
	return out
}

// DuplicateIDs returns every non-empty section id used more than once, in
// order of first repetition.
func (l List) DuplicateIDs() []string {
	seen := map[string]int{}
	var out []string
	for _, section := range l {
		id := section.SectionID()
		if id == "" {
			continue
		}
		seen[id]++
		if seen[id] == 2 {
			out = append(out, id)
		}
	}
	return out
}
