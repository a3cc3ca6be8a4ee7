// Package seed carga los catálogos iniciales (razas, enfermedades, cirugías,
// categorías y productos de ejemplo) desde un YAML embebido.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"vetadmin/internal/clinic"
	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/domain/products"
	"vetadmin/internal/platform/logger"
	"vetadmin/internal/platform/money"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type File struct {
	Breeds            []Entry   `yaml:"breeds"`
	Diseases          []Entry   `yaml:"diseases"`
	Surgeries         []Entry   `yaml:"surgeries"`
	ProductCategories []Entry   `yaml:"product_categories"`
	Products          []Product `yaml:"products"`
}

type Entry struct {
	Name             string          `yaml:"name"`
	Description      string          `yaml:"description"`
	Species          catalog.Species `yaml:"species"`
	EstimatedMinutes int             `yaml:"estimated_minutes"`
	EstimatedCost    string          `yaml:"estimated_cost"`
}

type Product struct {
	Name     string `yaml:"name"`
	Stock    int    `yaml:"stock"`
	Price    string `yaml:"price"`
	Category string `yaml:"category"`
}

// Default devuelve el catálogo embebido ya parseado.
func Default() (File, error) {
	return Parse(defaultCatalog)
}

func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("seed: parse catalog: %w", err)
	}
	return f, nil
}

// Apply carga f en el store. Cada catálogo (y la lista de productos) se
// carga solo si está vacío, así que se puede llamar en cada arranque.
func Apply(ctx context.Context, s *clinic.Store, f File, log logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}

	sets := []struct {
		kind    catalog.Kind
		entries []Entry
	}{
		{catalog.KindBreed, f.Breeds},
		{catalog.KindDisease, f.Diseases},
		{catalog.KindSurgery, f.Surgeries},
		{catalog.KindProductCategory, f.ProductCategories},
	}

	categories := map[string]string{}
	for _, set := range sets {
		existing, err := s.Catalog.List(ctx, set.kind)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			if set.kind == catalog.KindProductCategory {
				for _, it := range existing {
					categories[it.Name] = it.ID
				}
			}
			continue
		}

		for _, e := range set.entries {
			in := catalog.Input{
				Name:             e.Name,
				Description:      e.Description,
				Species:          e.Species,
				EstimatedMinutes: e.EstimatedMinutes,
			}
			if e.EstimatedCost != "" {
				c, err := money.Parse(e.EstimatedCost)
				if err != nil {
					return fmt.Errorf("seed: %s %q: bad cost: %w", set.kind, e.Name, err)
				}
				in.EstimatedCost = &c
			}
			it, err := s.Catalog.Create(ctx, set.kind, in)
			if err != nil {
				return fmt.Errorf("seed: %s %q: %w", set.kind, e.Name, err)
			}
			if set.kind == catalog.KindProductCategory {
				categories[it.Name] = it.ID
			}
		}
		log.Info("catalog seeded", map[string]any{"kind": string(set.kind), "count": len(set.entries)})
	}

	existing, err := s.Products.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, p := range f.Products {
		price, err := money.Parse(p.Price)
		if err != nil {
			return fmt.Errorf("seed: product %q: bad price: %w", p.Name, err)
		}
		in := products.CreateInput{Name: p.Name, Stock: p.Stock, UnitPrice: price, Category: p.Category}
		if id, ok := categories[p.Category]; ok {
			in.CategoryID = id
		}
		if _, err := s.Products.Create(ctx, in); err != nil {
			return fmt.Errorf("seed: product %q: %w", p.Name, err)
		}
	}
	if len(f.Products) > 0 {
		log.Info("products seeded", map[string]any{"count": len(f.Products)})
	}
	return nil
}
