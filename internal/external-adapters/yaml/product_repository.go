package yaml

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
)

//go:embed recipes/*.yml
var embeddedRecipes embed.FS

// ProductRepository implements repositories.ProductRepository over a
// directory of YAML recipes
type ProductRepository struct {
	recipes fs.FS
	dir     string
	parser  *ProductParser
}

// NewProductRepository creates a repository reading <dir>/<name>.yml from recipes
func NewProductRepository(recipes fs.FS, dir string) *ProductRepository {
	if dir == "" {
		dir = "."
	}
	return &ProductRepository{
		recipes: recipes,
		dir:     dir,
		parser:  NewProductParser(),
	}
}

// NewEmbeddedProductRepository returns the repository of recipes compiled into the binary
func NewEmbeddedProductRepository() *ProductRepository {
	return NewProductRepository(embeddedRecipes, "recipes")
}

// GetProduct retrieves a product recipe by name
func (r *ProductRepository) GetProduct(_ context.Context, name string) (*entities.Product, error) {
	data, err := fs.ReadFile(r.recipes, path.Join(r.dir, name+".yml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("product not found: %s", name)
		}
		return nil, fmt.Errorf("failed to read recipe %s: %w", name, err)
	}

	return r.parser.Parse(data)
}
