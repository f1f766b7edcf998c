package hcl

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

type EvalContext = hcl.EvalContext

// ParseConfig decodes the HCL file at path into obj, which must be a pointer
// to a struct carrying hcl tags. Expressions in the file can reference the
// process environment as env.NAME and call the functions of hclFunctions.
func ParseConfig(path string, obj any) error {

	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse %q: %s", path, diags.Error())
	}

	return decodeBody(file.Body, obj)
}

// ParseConfigBytes is ParseConfig for content already held in memory;
// filename is only used in diagnostics.
func ParseConfigBytes(src []byte, filename string, obj any) error {

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse %q: %s", filename, diags.Error())
	}

	return decodeBody(file.Body, obj)
}

func decodeBody(body hcl.Body, obj any) error {

	evalCtx, err := GenerateEvalContext(map[string]any{"env": environ()})
	if err != nil {
		return err
	}

	if diags := gohcl.DecodeBody(body, evalCtx, obj); diags.HasErrors() {
		return fmt.Errorf("failed to decode config: %s", diags.Error())
	}

	return nil
}

// GenerateEvalContext builds an evaluation context exposing vars as
// top-level variables.
func GenerateEvalContext(vars map[string]any) (*hcl.EvalContext, error) {
	ctx := &hcl.EvalContext{
		Variables: make(map[string]cty.Value),
		Functions: hclFunctions(),
	}

	for k, v := range vars {
		ctyVal, err := GoToCty(v)
		if err != nil {
			return nil, fmt.Errorf("failed to convert variable %q: %w", k, err)
		}
		ctx.Variables[k] = ctyVal
	}

	return ctx, nil
}

func environ() map[string]any {
	env := make(map[string]any)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}
