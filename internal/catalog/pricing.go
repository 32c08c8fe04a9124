package catalog

// Quote is the investment for one package, optionally with the add-on.
type Quote struct {
	Price       int  `json:"price"`
	Maintenance int  `json:"maintenance"`
	WithAddOn   bool `json:"with_add_on"`
}

// Quote prices pkg. The add-on is summed only when requested and pkg accepts
// it; the premium tier always quotes its own price.
func (c *Catalog) Quote(pkg Package, addOn bool) Quote {
	q := Quote{Price: pkg.Price, Maintenance: pkg.Maintenance}
	if addOn && pkg.AcceptsAddOn() {
		q.Price += c.addOn.Price
		q.Maintenance += c.addOn.Maintenance
		q.WithAddOn = true
	}
	return q
}
