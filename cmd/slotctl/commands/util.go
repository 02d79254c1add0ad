package commands

import (
	"os"
	"strings"

	"github.com/easyops/contextslots-go/pkg/catalog"
	"github.com/easyops/contextslots-go/pkg/core/errors"
	"github.com/easyops/contextslots-go/pkg/slots/builtin"
)

// loadCatalog 创建内置目录，path 非空时额外注册其中的配方
func loadCatalog(path string) (*catalog.Catalog, error) {
	c, err := builtin.NewCatalog()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapError(err, "open recipe document")
	}
	defer f.Close()

	if _, err := c.RegisterDocument(f); err != nil {
		return nil, errors.WrapError(err, path)
	}
	return c, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}
