package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/azkctl/azkctl/internal/model"
)

// hclManifestFile represents the top-level structure of a manifest file for
// decoding.
type hclManifestFile struct {
	Projects []*hclProject `hcl:"project,block"`
}

// hclProject represents a single 'project' block for initial decoding.
type hclProject struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// projectBodySchema describes the content of a project block.
var projectBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "properties"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "job", LabelNames: []string{"name"}},
		{Type: "file", LabelNames: []string{"path"}},
	},
}

// fileBodySchema describes the content of a file block.
var fileBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "archive_path"},
	},
}

// decodeProjectInto decodes one project block into the given project,
// re-validating job uniqueness and file consistency as it goes.
func decodeProjectInto(project *model.Project, parsed *hclProject, filePath string) error {
	content, diags := parsed.Body.Content(projectBodySchema)
	if diags.HasErrors() {
		return fmt.Errorf("invalid project %q in %s: %w", parsed.Name, filePath, diags)
	}

	if attr, ok := content.Attributes["properties"]; ok {
		props, err := stringMapFromExpr(attr.Expr)
		if err != nil {
			return fmt.Errorf("invalid properties for project %q: %w", parsed.Name, err)
		}
		for k, v := range props {
			project.Properties[k] = v
		}
	}

	for _, block := range content.Blocks {
		switch block.Type {
		case "job":
			job, err := decodeJob(block.Body)
			if err != nil {
				return fmt.Errorf("invalid job %q in project %q: %w", block.Labels[0], parsed.Name, err)
			}
			if err := project.AddJob(block.Labels[0], job); err != nil {
				return err
			}
		case "file":
			archivePath, err := decodeFile(block.Body)
			if err != nil {
				return fmt.Errorf("invalid file %q in project %q: %w", block.Labels[0], parsed.Name, err)
			}
			if err := project.AddFile(block.Labels[0], archivePath); err != nil {
				return err
			}
		}
	}
	return nil
}

// decodeJob turns every attribute of a job block into a job option. Two
// attributes are special: `dependencies` must be a list literal of job
// names, and `options` merges an extra map for keys that are not valid HCL
// identifiers (dotted server option names).
func decodeJob(body hcl.Body) (*model.Job, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	job := model.NewJob(nil)
	for name, attr := range attrs {
		switch name {
		case "dependencies":
			if err := validateListLiteral(attr.Expr); err != nil {
				return nil, err
			}
			deps, err := stringSliceFromExpr(attr.Expr)
			if err != nil {
				return nil, fmt.Errorf("invalid dependencies: %w", err)
			}
			job.Dependencies = deps
		case "options":
			opts, err := stringMapFromExpr(attr.Expr)
			if err != nil {
				return nil, fmt.Errorf("invalid options: %w", err)
			}
			for k, v := range opts {
				if k == "dependencies" {
					return nil, fmt.Errorf("option %q is reserved, use the dependencies attribute", k)
				}
				job.SetOption(k, v)
			}
		default:
			value, err := stringFromExpr(attr.Expr)
			if err != nil {
				return nil, fmt.Errorf("invalid value for %q: %w", name, err)
			}
			job.SetOption(name, value)
		}
	}
	return job, nil
}

// decodeFile returns the archive_path of a file block, or "" when omitted.
func decodeFile(body hcl.Body) (string, error) {
	content, diags := body.Content(fileBodySchema)
	if diags.HasErrors() {
		return "", diags
	}
	attr, ok := content.Attributes["archive_path"]
	if !ok {
		return "", nil
	}
	return stringFromExpr(attr.Expr)
}

// validateListLiteral requires the expression to be a list literal like
// `["a", "b"]`, the only shape meaningful for dependency edges.
func validateListLiteral(expr hcl.Expression) error {
	if syntaxExpr, ok := expr.(hclsyntax.Expression); ok {
		if _, isTuple := syntaxExpr.(*hclsyntax.TupleConsExpr); !isTuple {
			return fmt.Errorf("dependencies must be a list of job names")
		}
	}
	return nil
}

func stringFromExpr(expr hcl.Expression) (string, error) {
	value, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	return stringFromValue(value)
}

func stringFromValue(value cty.Value) (string, error) {
	if value.IsNull() {
		return "", fmt.Errorf("value must not be null")
	}
	converted, err := convert.Convert(value, cty.String)
	if err != nil {
		return "", err
	}
	return converted.AsString(), nil
}

func stringSliceFromExpr(expr hcl.Expression) ([]string, error) {
	value, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if value.IsNull() {
		return nil, nil
	}
	if !value.CanIterateElements() {
		return nil, fmt.Errorf("value must be a list")
	}
	var out []string
	for it := value.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		s, err := stringFromValue(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func stringMapFromExpr(expr hcl.Expression) (map[string]string, error) {
	value, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	out := map[string]string{}
	if value.IsNull() {
		return out, nil
	}
	if !value.CanIterateElements() {
		return nil, fmt.Errorf("value must be a map")
	}
	for it := value.ElementIterator(); it.Next(); {
		key, elem := it.Element()
		k, err := stringFromValue(key)
		if err != nil {
			return nil, err
		}
		v, err := stringFromValue(elem)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
