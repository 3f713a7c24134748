package catalog

// RegisterDefaults registers common piping materials. Roughness values are
// typical design figures in metres.
func RegisterDefaults(c *Catalog) {
	c.Register(MaterialEntry{
		Name:           "commercial-steel",
		Description:    "Commercial / welded carbon steel",
		RoughnessM:     4.5e-5,
		AgedRoughnessM: 1.5e-4,
		Aliases:        []string{"steel", "carbon-steel", "cs"},
	})
	c.Register(MaterialEntry{
		Name:        "stainless-steel",
		Description: "Drawn stainless steel",
		RoughnessM:  1.5e-5,
		Aliases:     []string{"stainless", "ss", "sus"},
	})
	c.Register(MaterialEntry{
		Name:        "copper",
		Description: "Drawn copper or brass tubing",
		RoughnessM:  1.5e-6,
		Aliases:     []string{"brass", "drawn-tubing"},
	})
	c.Register(MaterialEntry{
		Name:        "pvc",
		Description: "PVC / plastic pipe",
		RoughnessM:  1.5e-6,
		Aliases:     []string{"plastic", "hdpe"},
	})
	c.Register(MaterialEntry{
		Name:           "cast-iron",
		Description:    "Cast iron",
		RoughnessM:     2.6e-4,
		AgedRoughnessM: 1.0e-3,
		Aliases:        []string{"ci"},
	})
	c.Register(MaterialEntry{
		Name:           "galvanised-steel",
		Description:    "Galvanised iron or steel",
		RoughnessM:     1.5e-4,
		AgedRoughnessM: 5.0e-4,
		Aliases:        []string{"galvanized", "galvanized-steel", "galvanised"},
	})
	c.Register(MaterialEntry{
		Name:        "concrete",
		Description: "Concrete pipe",
		RoughnessM:  1.0e-3,
	})
	c.Register(MaterialEntry{
		Name:        "smooth",
		Description: "Hydraulically smooth wall",
		RoughnessM:  0,
		Aliases:     []string{"glass"},
	})
}

// Global is the default material catalog
var Global = NewCatalog()

func init() {
	RegisterDefaults(Global)
	Global.MustValidate()
}
