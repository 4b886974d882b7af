package providers

import (
	"github.com/solenne/mend/heal"
)

type learningPathValidator struct{}

func (learningPathValidator) Validate(data map[string]any) error {
	if _, err := requireString(data, "path", "id"); err != nil {
		return err
	}
	if _, err := requireString(data, "path", "title"); err != nil {
		return err
	}
	return checkSchemaVersion(data)
}

type learningPathTransformer struct{}

func (learningPathTransformer) TransformLegacy(legacy map[string]any) (map[string]any, error) {
	id, err := requireString(legacy, "legacy path", "id")
	if err != nil {
		return nil, err
	}
	title, err := requireString(legacy, "legacy path", "title")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"id":                id,
		"title":             title,
		"description":       stringOr(legacy, "description", ""),
		"difficulty":        stringOr(legacy, "difficulty", "intermediate"),
		"tags":              stringsOf(legacy, "tags"),
		"schema_version":    SchemaVersion,
		"validation_status": heal.StatusMigrated.String(),
	}, nil
}

// LearningPath is the healing provider for learning_path entries. Paths
// hold no outbound references; steps point at paths, not the reverse.
type LearningPath struct {
	resolver heal.ReferenceResolver
	handler  heal.DegradationHandler
}

var _ heal.Provider = (*LearningPath)(nil)

func NewLearningPath(store Store, policy Policy) *LearningPath {
	return &LearningPath{
		resolver: &storeResolver{store: store},
		handler:  policy.Handler(),
	}
}

func (*LearningPath) EntryType() string                        { return EntryTypeLearningPath }
func (*LearningPath) SchemaVersion() int                       { return SchemaVersion }
func (*LearningPath) Validator() heal.Validator                { return learningPathValidator{} }
func (*LearningPath) Transformer() heal.Transformer            { return learningPathTransformer{} }
func (p *LearningPath) ReferenceResolver() heal.ReferenceResolver { return p.resolver }
func (p *LearningPath) DegradationHandler() heal.DegradationHandler { return p.handler }
