package providers

import (
	"github.com/solenne/mend/heal"
)

type pathStepValidator struct{}

func (pathStepValidator) Validate(data map[string]any) error {
	if _, err := requireString(data, "step", "id"); err != nil {
		return err
	}
	if _, err := requireString(data, "step", "path_id"); err != nil {
		return err
	}
	return checkSchemaVersion(data)
}

type pathStepTransformer struct{}

func (pathStepTransformer) TransformLegacy(legacy map[string]any) (map[string]any, error) {
	id, err := requireString(legacy, "legacy step", "id")
	if err != nil {
		return nil, err
	}
	pathID, err := requireString(legacy, "legacy step", "path_id")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"id":                id,
		"path_id":           pathID,
		"content_id":        stringOr(legacy, "content_id", ""),
		"step_type":         stringOr(legacy, "step_type", "content"),
		"order":             numberOr(legacy, "order", 0),
		"schema_version":    SchemaVersion,
		"validation_status": heal.StatusMigrated.String(),
	}, nil
}

func pathStepRefs(data map[string]any) []heal.Reference {
	var refs []heal.Reference
	if pathID := stringOr(data, "path_id", ""); pathID != "" {
		refs = append(refs, heal.Reference{EntryType: EntryTypeLearningPath, ID: pathID})
	}
	if contentID := stringOr(data, "content_id", ""); contentID != "" {
		refs = append(refs, heal.Reference{EntryType: EntryTypeContent, ID: contentID})
	}
	return refs
}

// PathStep is the healing provider for path_step entries. A step references
// its owning path and, usually, a content entry.
type PathStep struct {
	resolver heal.ReferenceResolver
	handler  heal.DegradationHandler
}

var _ heal.Provider = (*PathStep)(nil)

func NewPathStep(store Store, policy Policy) *PathStep {
	return &PathStep{
		resolver: &storeResolver{store: store, refs: pathStepRefs},
		handler:  policy.Handler(),
	}
}

func (*PathStep) EntryType() string                        { return EntryTypePathStep }
func (*PathStep) SchemaVersion() int                       { return SchemaVersion }
func (*PathStep) Validator() heal.Validator                { return pathStepValidator{} }
func (*PathStep) Transformer() heal.Transformer            { return pathStepTransformer{} }
func (p *PathStep) ReferenceResolver() heal.ReferenceResolver { return p.resolver }
func (p *PathStep) DegradationHandler() heal.DegradationHandler { return p.handler }
