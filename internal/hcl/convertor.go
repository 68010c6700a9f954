package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/pipescope/internal/ctxlog"
	"github.com/vk/pipescope/internal/pipeline"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// translateConfig reads the attributes of a config block in source order.
func translateConfig(ctx context.Context, body hcl.Body) (pipeline.NodeConfig, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	cfg := make(pipeline.NodeConfig, 0, len(ordered))
	for _, attr := range ordered {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		s, err := valueString(ctx, val)
		if err != nil {
			return nil, fmt.Errorf("%s: config value %q: %w", attr.Range, attr.Name, err)
		}
		cfg = append(cfg, pipeline.Prop{Key: attr.Name, Value: s})
	}
	return cfg, nil
}

// valueString renders a config value. Primitives convert to their string
// form; collections and objects are rendered as JSON.
func valueString(ctx context.Context, val cty.Value) (string, error) {
	if val.IsNull() {
		return "", nil
	}
	if !val.IsWhollyKnown() {
		return "", fmt.Errorf("value is not known statically")
	}

	if val.Type().IsPrimitiveType() {
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return "", fmt.Errorf("cannot convert %s to string: %w", val.Type().FriendlyName(), err)
		}
		return str.AsString(), nil
	}

	ctxlog.FromContext(ctx).Debug("Rendering structured config value as JSON.", "type", val.Type().FriendlyName())
	raw, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return "", fmt.Errorf("cannot encode %s as JSON: %w", val.Type().FriendlyName(), err)
	}
	return string(raw), nil
}
