package config

import (
	"github.com/danmuck/blestack/internal/catalog"
)

// Catalog returns the catalog named by CatalogPath, or the built-in one.
func (c ServerConfig) Catalog() (*catalog.Catalog, error) {
	if c.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(c.CatalogPath)
}
