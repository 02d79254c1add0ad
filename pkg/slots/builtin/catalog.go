package builtin

import (
	"github.com/easyops/contextslots-go/pkg/catalog"
)

// NewCatalog 创建包含全部内置槽位与配方的目录
func NewCatalog() (*catalog.Catalog, error) {
	return catalog.FromRecipes(Recipes(), All()...)
}

// MustNewCatalog 创建内置目录，失败则 panic
func MustNewCatalog() *catalog.Catalog {
	c, err := NewCatalog()
	if err != nil {
		panic(err)
	}
	return c
}
