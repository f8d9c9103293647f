// Package fuzzy turns a time of day into a rounded natural-language phrase
// such as "quarter past four" or "nearly twelve o'clock".
package fuzzy

import (
	"fmt"
	"strings"
)

// Variant selects the rounding rules
type Variant int

const (
	// VariantSector rounds to the nearest five-minute sector and renders it
	// through the table's sector templates.
	VariantSector Variant = iota
	// VariantNearly rounds down to five minutes and says "nearly" in the last
	// few minutes of the hour.
	VariantNearly
)

func (v Variant) String() string {
	if v == VariantNearly {
		return "nearly"
	}
	return "sector"
}

// ParseVariant maps a configuration value to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "", "sector":
		return VariantSector, nil
	case "nearly":
		return VariantNearly, nil
	}
	return VariantSector, fmt.Errorf("unknown fuzzy variant %q", s)
}

// Phrase is a formatted time split around the hour word so a renderer can
// accent it. Before and After keep the table's line breaks.
type Phrase struct {
	Before string
	Hour   string
	After  string
}

// Text returns the phrase with its line breaks, ready for a multi-line label.
func (p Phrase) Text() string {
	return p.Before + p.Hour + p.After
}

// String returns the phrase on a single line.
func (p Phrase) String() string {
	return strings.Join(strings.Fields(p.Text()), " ")
}

// Formatter formats times with one variant and table.
type Formatter struct {
	variant Variant
	table   *Table
}

// New returns a Formatter. A nil table uses English.
func New(variant Variant, table *Table) *Formatter {
	if table == nil {
		table = &English
	}
	if variant == VariantNearly && !table.hasNearly() {
		table = &English
	}
	return &Formatter{variant: variant, table: table}
}

// Variant returns the formatter's rounding rules
func (f *Formatter) Variant() Variant {
	return f.variant
}

// Format returns the single-line phrase for hour 0-23 and minute 0-59.
func (f *Formatter) Format(hour, minute int) string {
	return f.Phrase(hour, minute).String()
}

// Phrase returns the phrase for hour 0-23 and minute 0-59.
func (f *Formatter) Phrase(hour, minute int) Phrase {
	hour = ((hour % 12) + 12) % 12
	minute = ((minute % 60) + 60) % 60

	if f.variant == VariantNearly {
		return f.nearly(hour, minute)
	}
	return f.sector(hour, minute)
}

func (f *Formatter) sector(hour, minute int) Phrase {
	sector := minute / 5
	if minute%5 > 2 {
		sector++
	}
	if sector == 12 {
		hour = (hour + 1) % 12
		sector = 0
	}

	tmpl := f.table.Sectors[sector]
	i := strings.Index(tmpl, "%")
	if i < 0 || i+1 >= len(tmpl) {
		return Phrase{Before: tmpl}
	}
	if tmpl[i+1] == '1' {
		hour = (hour + 1) % 12
	}
	return Phrase{Before: tmpl[:i], Hour: f.table.Hours[hour], After: tmpl[i+2:]}
}

func (f *Formatter) nearly(hour, minute int) Phrase {
	t := f.table
	next := t.Hours[(hour+1)%12]

	switch {
	case minute >= 56:
		return Phrase{Before: t.Nearly + " ", Hour: next, After: "\n" + t.OClock}
	case minute <= 4:
		return Phrase{Hour: t.Hours[hour], After: "\n" + t.OClock}
	// 31 and 32 stay "half past" on purpose; a (60-m)/5 lookup here would
	// read "twenty five past" and step the phrase backwards
	case minute <= 32:
		return Phrase{Before: t.Past[minute/5] + "\n" + t.PastW + " ", Hour: t.Hours[hour]}
	default:
		return Phrase{Before: t.Past[(60-minute)/5] + "\n" + t.ToW + " ", Hour: next}
	}
}
