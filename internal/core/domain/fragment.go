package domain

// Fragment is one source of configuration prior to merging: a mixin, the base
// manifest, or a branch nested in either.
type Fragment struct {
	// Origin labels the fragment in breadcrumbs, e.g. "mixin(base.json)" or "genpack.json5".
	Origin string
	// Fields is the fragment body. It is a map value for any well-formed fragment.
	Fields ConfigValue
}

// Project is a loaded manifest together with the mixin locators it declares.
type Project struct {
	// Root is the absolute directory holding the manifest.
	Root string
	// ManifestPath is the absolute path of the manifest file.
	ManifestPath string
	// Base is the manifest itself.
	Base Fragment
	// Mixins lists the mixin locators in declaration order.
	Mixins []string
}
