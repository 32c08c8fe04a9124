package catalog

import (
	"errors"
	"testing"
)

func TestGet_ByNameAndID(t *testing.T) {
	c := Default()

	for _, key := range []string{"Pacote React", "react", "  Pacote React "} {
		p, err := c.Get(key)
		if err != nil {
			t.Fatalf("Get(%q): unexpected error: %v", key, err)
		}
		if p.Name != React {
			t.Errorf("Get(%q) = %q, want %q", key, p.Name, React)
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	c := Default()
	for _, key := range []string{"", "Pacote Reactt", "pacote react"} {
		if _, err := c.Get(key); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q): expected ErrNotFound, got %v", key, err)
		}
	}
}

func TestGet_AddOn(t *testing.T) {
	c := Default()
	p, err := c.Get(Extra)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.AddOn {
		t.Error("expected Extra to be the add-on")
	}
	if p.AcceptsAddOn() {
		t.Error("the add-on must not accept itself")
	}
}

func TestListAndBases_Order(t *testing.T) {
	c := Default()

	want := []string{Basic, Professional, Complete, React}
	bases := c.Bases()
	if len(bases) != len(want) {
		t.Fatalf("expected %d bases, got %d", len(want), len(bases))
	}
	for i, p := range bases {
		if p.Name != want[i] {
			t.Errorf("bases[%d] = %q, want %q", i, p.Name, want[i])
		}
		if p.AddOn {
			t.Errorf("bases[%d] is flagged as add-on", i)
		}
	}

	all := c.List()
	if len(all) != len(want)+1 {
		t.Fatalf("expected %d packages, got %d", len(want)+1, len(all))
	}
	if last := all[len(all)-1]; !last.AddOn || last.Name != Extra {
		t.Errorf("expected add-on last, got %+v", last)
	}
}

func TestList_ReturnsCopies(t *testing.T) {
	c := Default()
	list := c.List()
	list[0].Bullets[0] = "mutated"
	list[0].Price = 1

	p, _ := c.Get(Basic)
	if p.Bullets[0] == "mutated" || p.Price == 1 {
		t.Error("catalog data was mutated through List")
	}
}

func TestQuote(t *testing.T) {
	c := Default()
	addOn := c.AddOn()

	for _, p := range c.Bases() {
		q := c.Quote(p, false)
		if q.Price != p.Price || q.Maintenance != p.Maintenance || q.WithAddOn {
			t.Errorf("%s without add-on: got %+v", p.Name, q)
		}

		q = c.Quote(p, true)
		if p.IncludesAddOn {
			if q.Price != p.Price || q.WithAddOn {
				t.Errorf("%s bundles the add-on, expected base price only, got %+v", p.Name, q)
			}
			continue
		}
		if q.Price != p.Price+addOn.Price {
			t.Errorf("%s with add-on: price %d, want %d", p.Name, q.Price, p.Price+addOn.Price)
		}
		if q.Maintenance != p.Maintenance+addOn.Maintenance {
			t.Errorf("%s with add-on: maintenance %d, want %d", p.Name, q.Maintenance, p.Maintenance+addOn.Maintenance)
		}
		if !q.WithAddOn {
			t.Errorf("%s with add-on: WithAddOn not set", p.Name)
		}
	}
}

func TestOnlyReactIncludesAddOn(t *testing.T) {
	for _, p := range Default().Bases() {
		if p.IncludesAddOn != (p.Name == React) {
			t.Errorf("%s: IncludesAddOn = %v", p.Name, p.IncludesAddOn)
		}
	}
}

func TestFind(t *testing.T) {
	c := Default()
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"Oi, quero o pacote react por favor", React, true},
		{"PACOTE PROFISSIONAL", Professional, true},
		{"Pacote Básico com o Extra", Basic, true},
		{"só o extra", Extra, true},
		{"Extra!", Extra, true},
		{"achei o site extraordinário", "", false},
		{"Olá, achei o site de vocês extraordinário!", "", false},
		{"preciso extrair o extrato", "", false},
		{"o pacote reactivo", "", false},
		{"Pacote Básico2", "", false},
		{"olá", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := c.Find(tt.text)
		if ok != tt.ok || got.Name != tt.want {
			t.Errorf("Find(%q) = %q, %v; want %q, %v", tt.text, got.Name, ok, tt.want, tt.ok)
		}
	}
}
