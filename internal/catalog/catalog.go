// Package catalog holds the fixed product tiers offered by Nexus Dev and the
// scheduling add-on sold alongside them.
package catalog

import (
	"errors"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrNotFound is returned when a name matches no package in the catalog.
var ErrNotFound = errors.New("package not found")

// Package is a fixed-price website tier. Values are read-only once the
// catalog is built; callers get copies of the slices they may mutate.
type Package struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
	Tech        string   `json:"tech"`
	Price       int      `json:"price"`
	Maintenance int      `json:"maintenance"`
	Note        string   `json:"note,omitempty"`
	Popular     bool     `json:"popular,omitempty"`

	// AddOn marks the scheduling extra. It is never a base package.
	AddOn bool `json:"add_on,omitempty"`
	// IncludesAddOn marks the premium tier, which already ships the
	// scheduling chat.
	IncludesAddOn bool `json:"includes_add_on,omitempty"`
}

// AcceptsAddOn reports whether the scheduling extra can be bought with p.
func (p Package) AcceptsAddOn() bool {
	return !p.AddOn && !p.IncludesAddOn
}

// AddOnLabel is how the extra is named in handoff summaries.
const AddOnLabel = "Sistema de Agendamento"

// Catalog is an ordered, immutable set of packages.
type Catalog struct {
	packages []Package
	addOn    Package
}

// New builds a catalog from base packages (display order) and the add-on.
func New(bases []Package, addOn Package) *Catalog {
	addOn.AddOn = true
	pkgs := make([]Package, 0, len(bases)+1)
	for _, p := range bases {
		p.AddOn = false
		pkgs = append(pkgs, clone(p))
	}
	pkgs = append(pkgs, clone(addOn))
	return &Catalog{packages: pkgs, addOn: clone(addOn)}
}

// Default returns the catalog the site sells today.
func Default() *Catalog {
	return New(defaultPackages, defaultAddOn)
}

// Get resolves a package by display name or ID. Surrounding whitespace is
// ignored; matching is otherwise exact.
func (c *Catalog) Get(name string) (Package, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Package{}, ErrNotFound
	}
	for _, p := range c.packages {
		if p.Name == name || p.ID == name {
			return clone(p), nil
		}
	}
	return Package{}, ErrNotFound
}

// Find looks for a package name inside free text, ignoring case. Names only
// match as whole words. Base packages win over the add-on and longer names
// over shorter ones.
func (c *Catalog) Find(text string) (Package, bool) {
	text = strings.ToLower(text)
	var best *Package
	for i := range c.packages {
		p := &c.packages[i]
		if !containsWord(text, strings.ToLower(p.Name)) {
			continue
		}
		if best == nil || (best.AddOn && !p.AddOn) ||
			(best.AddOn == p.AddOn && len(p.Name) > len(best.Name)) {
			best = p
		}
	}
	if best == nil {
		return Package{}, false
	}
	return clone(*best), true
}

// containsWord reports whether word occurs in text with no letter or digit
// directly before or after it.
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(word)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// List returns every package, add-on last, in display order.
func (c *Catalog) List() []Package {
	out := make([]Package, len(c.packages))
	for i, p := range c.packages {
		out[i] = clone(p)
	}
	return out
}

// Bases returns the packages a visitor can pick as the main product.
func (c *Catalog) Bases() []Package {
	out := make([]Package, 0, len(c.packages)-1)
	for _, p := range c.packages {
		if !p.AddOn {
			out = append(out, clone(p))
		}
	}
	return out
}

// AddOn returns the scheduling extra.
func (c *Catalog) AddOn() Package {
	return clone(c.addOn)
}

func clone(p Package) Package {
	p.Bullets = slices.Clone(p.Bullets)
	return p
}
