package sinks

import "walletdash/internal/models"

// Text is an in-memory TextSink
type Text struct {
	Value  string
	Writes int
}

func (t *Text) SetText(text string) {
	t.Value = text
	t.Writes++
}

// List is an in-memory ListSink
type List struct {
	Items   []models.ItemView
	Renders int
}

func (l *List) Replace(items []models.ItemView) {
	l.Items = append([]models.ItemView(nil), items...)
	l.Renders++
}

// Legend is an in-memory LegendSink
type Legend struct {
	Items []models.LegendItem
}

func (l *Legend) Replace(items []models.LegendItem) {
	l.Items = append([]models.LegendItem(nil), items...)
}

// Overlay records the last position given to an OverlaySink
type Overlay struct {
	X, Y      float64
	Transform string
	Placed    bool
}

func (o *Overlay) Position(x, y float64, transform string) {
	o.X, o.Y, o.Transform, o.Placed = x, y, transform, true
}

// Chip is one filter control
type Chip struct {
	Key    models.FilterKey
	Label  string
	Active bool
}

// Chips is an in-memory ChipSink
type Chips struct {
	Items []Chip
}

// NewChips creates one chip per key, all inactive
func NewChips(keys ...models.FilterKey) *Chips {
	c := &Chips{}
	for _, k := range keys {
		c.Items = append(c.Items, Chip{Key: k, Label: k.Label()})
	}
	return c
}

func (c *Chips) Keys() []models.FilterKey {
	keys := make([]models.FilterKey, len(c.Items))
	for i, chip := range c.Items {
		keys[i] = chip.Key
	}
	return keys
}

func (c *Chips) SetActive(key models.FilterKey, active bool) {
	for i := range c.Items {
		if c.Items[i].Key == key {
			c.Items[i].Active = active
		}
	}
}

// Active returns the keys currently marked active
func (c *Chips) Active() []models.FilterKey {
	var keys []models.FilterKey
	for _, chip := range c.Items {
		if chip.Active {
			keys = append(keys, chip.Key)
		}
	}
	return keys
}
