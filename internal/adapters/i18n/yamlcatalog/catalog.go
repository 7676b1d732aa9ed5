package yamlcatalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embedded embed.FS

// namespace => key => texto
type bundle map[string]map[string]string

// Catalog implementa i18n.Translator con archivos YAML, uno por locale (en.yaml, si.yaml, ...).
type Catalog struct {
	def     string
	bundles map[string]bundle
}

// Load lee los catálogos embebidos.
func Load(defaultLocale string) (*Catalog, error) {
	return LoadFS(embedded, "locales", defaultLocale)
}

// LoadFS lee todos los *.yaml de dir. El locale por defecto tiene que existir.
func LoadFS(fsys fs.FS, dir, defaultLocale string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	c := &Catalog{
		def:     strings.ToLower(strings.TrimSpace(defaultLocale)),
		bundles: map[string]bundle{},
	}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		var b bundle
		if err := yaml.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		c.bundles[strings.TrimSuffix(e.Name(), ".yaml")] = b
	}

	if _, ok := c.bundles[c.def]; !ok {
		return nil, fmt.Errorf("default locale %q has no catalog", defaultLocale)
	}
	return c, nil
}

// T busca en el locale pedido, luego en el default y por último devuelve la key.
func (c *Catalog) T(locale, namespace, key string) string {
	if v, ok := c.lookup(strings.ToLower(locale), namespace, key); ok {
		return v
	}
	if v, ok := c.lookup(c.def, namespace, key); ok {
		return v
	}
	return key
}

func (c *Catalog) lookup(locale, namespace, key string) (string, bool) {
	b, ok := c.bundles[locale]
	if !ok {
		return "", false
	}
	v, ok := b[namespace][key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.bundles))
	for l := range c.bundles {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
