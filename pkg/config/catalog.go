package config

import (
	"fmt"

	"github.com/bascanada/seclog/pkg/asset"
	"github.com/bascanada/seclog/pkg/query"
	"github.com/bascanada/seclog/pkg/query/expression"
	"github.com/bascanada/seclog/pkg/ty"
)

// FieldConfig describes one entry of a catalog. Values are suggested from
// the static Values list, or from the asset cache when Asset names a kind.
type FieldConfig struct {
	Key              string   `json:"key" yaml:"key"`
	Display          string   `json:"display,omitempty" yaml:"display,omitempty"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty"`
	Expressions      []string `json:"expressions,omitempty" yaml:"expressions,omitempty"`
	LocalExpressions []string `json:"localExpressions,omitempty" yaml:"localExpressions,omitempty"`
	LocalOnly        bool     `json:"localOnly,omitempty" yaml:"localOnly,omitempty"`
	Values           []string `json:"values,omitempty" yaml:"values,omitempty"`
	Asset            string   `json:"asset,omitempty" yaml:"asset,omitempty"`
	Validate         string   `json:"validate,omitempty" yaml:"validate,omitempty"`
}

// Catalog is a named list of fields plus the asset file feeding their
// suggestions. Variables are substituted in the asset path and the static
// values, environment variables being used as fallback.
type Catalog struct {
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Assets      string            `json:"assets,omitempty" yaml:"assets,omitempty"`
	Variables   map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
	Items       []FieldConfig     `json:"fields" yaml:"fields"`
}

// AssetPath returns the asset file path with its variables resolved.
func (c Catalog) AssetPath() string {
	return ty.Resolve(c.Assets, c.Variables)
}

// Fields builds the query catalog. Fields without explicit expressions
// accept every remote expression and every local one.
func (c Catalog) Fields() ([]query.Field, error) {
	if len(c.Items) == 0 {
		return nil, ErrNoFields
	}

	fields := make([]query.Field, 0, len(c.Items))
	seen := map[string]bool{}
	for _, item := range c.Items {
		if item.Key == "" {
			return nil, fmt.Errorf("field without key")
		}
		if seen[item.Key] {
			return nil, fmt.Errorf("duplicated field '%s'", item.Key)
		}
		seen[item.Key] = true

		f, err := c.field(item)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", item.Key, err)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (c Catalog) field(item FieldConfig) (query.Field, error) {
	f := query.Field{
		Key:          item.Key,
		DisplayValue: item.Display,
		Description:  item.Description,
		LocalOnly:    item.LocalOnly,
	}

	var err error
	if !item.LocalOnly {
		if f.Expressions, err = descriptors(item.Expressions, expression.All()); err != nil {
			return f, err
		}
	}
	if f.LocalExpressions, err = descriptors(item.LocalExpressions, expression.Local()); err != nil {
		return f, err
	}

	switch {
	case item.Asset != "":
		kind := asset.Kind(item.Asset)
		if !kind.Valid() {
			return f, fmt.Errorf("%w: %s", ErrUnknownAsset, item.Asset)
		}
		f.Suggester = asset.Suggester{Kind: kind}
	case len(item.Values) > 0:
		values := make(query.StaticValues, len(item.Values))
		for i, v := range item.Values {
			values[i] = ty.Resolve(v, c.Variables)
		}
		f.Suggester = values
	}

	if item.Validate != "" {
		v, ok := Validators[item.Validate]
		if !ok {
			return f, fmt.Errorf("%w: %s", ErrUnknownValidator, item.Validate)
		}
		f.Validator = v
	}
	return f, nil
}

func descriptors(keys []string, def []expression.Descriptor) ([]expression.Descriptor, error) {
	if len(keys) == 0 {
		return def, nil
	}
	res := make([]expression.Descriptor, 0, len(keys))
	for _, k := range keys {
		d, ok := expression.Resolve(k)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownExpression, k)
		}
		res = append(res, d)
	}
	return res, nil
}
