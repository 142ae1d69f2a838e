package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Summary contains the balance panel figures
type Summary struct {
	Balance decimal.Decimal `json:"balance"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategoryTotal is the aggregate amount and chart colour of one category
type CategoryTotal struct {
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
	Color  string          `json:"color" yaml:"color"`
}

// CategoryTotals maps category names to totals and remembers insertion order
type CategoryTotals struct {
	names   []string
	entries map[string]CategoryTotal
}

// NewCategoryTotals creates an empty ordered mapping
func NewCategoryTotals() *CategoryTotals {
	return &CategoryTotals{entries: make(map[string]CategoryTotal)}
}

// Set stores a total. Re-setting an existing name keeps its position.
func (c *CategoryTotals) Set(name string, total CategoryTotal) {
	if c.entries == nil {
		c.entries = make(map[string]CategoryTotal)
	}
	if _, ok := c.entries[name]; !ok {
		c.names = append(c.names, name)
	}
	c.entries[name] = total
}

// Get returns the total for a category
func (c *CategoryTotals) Get(name string) (CategoryTotal, bool) {
	if c == nil {
		return CategoryTotal{}, false
	}
	t, ok := c.entries[name]
	return t, ok
}

// Len returns the number of categories
func (c *CategoryTotals) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Names returns the category names in insertion order
func (c *CategoryTotals) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Each calls fn for every category in insertion order
func (c *CategoryTotals) Each(fn func(name string, total CategoryTotal)) {
	if c == nil {
		return
	}
	for _, name := range c.names {
		fn(name, c.entries[name])
	}
}

// UnmarshalYAML decodes a YAML mapping while keeping document order
func (c *CategoryTotals) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("categories: expected a mapping, got line %d", node.Line)
	}
	*c = CategoryTotals{entries: make(map[string]CategoryTotal)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var raw struct {
			Amount string `yaml:"amount"`
			Color  string `yaml:"color"`
		}
		if err := node.Content[i+1].Decode(&raw); err != nil {
			return fmt.Errorf("category %q: %w", node.Content[i].Value, err)
		}
		amount := decimal.Zero
		if raw.Amount != "" {
			var err error
			amount, err = decimal.NewFromString(raw.Amount)
			if err != nil {
				return fmt.Errorf("category %q: invalid amount: %w", node.Content[i].Value, err)
			}
		}
		c.Set(node.Content[i].Value, CategoryTotal{Amount: amount, Color: raw.Color})
	}
	return nil
}

// UnmarshalJSON decodes a JSON object while keeping document order
func (c *CategoryTotals) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("categories: expected an object")
	}
	*c = CategoryTotals{entries: make(map[string]CategoryTotal)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("categories: expected a string key")
		}
		var total CategoryTotal
		if err := dec.Decode(&total); err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}
		c.Set(name, total)
	}
	_, err = dec.Token()
	return err
}

// MarshalJSON encodes the mapping in insertion order
func (c *CategoryTotals) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.entries[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CategorySegment is one weighted, coloured slice of the donut chart
type CategorySegment struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// CategoryShare represents spending in a category
type CategoryShare struct {
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"`
	PercentOfExpense float64         `json:"percent_of_expense"`
}

// ItemView is a rendered list row or upcoming-payment card
type ItemView struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	AmountText  string `json:"amount_text"`
	AmountClass string `json:"amount_class"`
}

// LegendItem is one legend row: a colour swatch and its label
type LegendItem struct {
	Color string `json:"color"`
	Label string `json:"label"`
}
