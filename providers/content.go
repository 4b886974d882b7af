package providers

import (
	"github.com/solenne/mend/errors"
	"github.com/solenne/mend/heal"
)

// ContentTypes is the closed vocabulary for the content_type field.
var ContentTypes = []string{
	"epic", "concept", "lesson", "scenario", "assessment", "resource",
	"practice", "reflection", "reference", "external",
}

// ReachLevels is the closed vocabulary for the reach field, ordered from
// most private to most public.
var ReachLevels = []string{
	"private", "intimate", "trusted", "familiar", "community", "public", "commons",
}

type contentValidator struct{}

func (contentValidator) Validate(data map[string]any) error {
	if _, err := requireString(data, "content", "id"); err != nil {
		return err
	}
	if _, err := requireString(data, "content", "title"); err != nil {
		return err
	}

	contentType, err := requireString(data, "content", "content_type")
	if err != nil {
		return err
	}
	if err := oneOf("content", "content_type", contentType, ContentTypes); err != nil {
		return err
	}

	// Reach is optional but must be in vocabulary when present.
	if reach, ok := data["reach"].(string); ok {
		if err := oneOf("content", "reach", reach, ReachLevels); err != nil {
			return err
		}
	}

	if err := checkSchemaVersion(data); err != nil {
		return err
	}

	if related, ok := data["related_node_ids"].([]any); ok {
		for i, v := range related {
			if s, ok := v.(string); ok && s == "" {
				return errors.Newf("content related_node_ids[%d] cannot be empty", i)
			}
		}
	}
	return nil
}

type contentTransformer struct{}

func (contentTransformer) TransformLegacy(legacy map[string]any) (map[string]any, error) {
	id, err := requireString(legacy, "legacy content", "id")
	if err != nil {
		return nil, err
	}
	title, err := requireString(legacy, "legacy content", "title")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"id":                id,
		"content_type":      stringOr(legacy, "content_type", "lesson"),
		"title":             title,
		"description":       stringOr(legacy, "description", ""),
		"content":           stringOr(legacy, "content", ""),
		"content_format":    stringOr(legacy, "content_format", "markdown"),
		"tags":              stringsOf(legacy, "tags"),
		"reach":             stringOr(legacy, "reach", "community"),
		"related_node_ids":  stringsOf(legacy, "related_node_ids"),
		"schema_version":    SchemaVersion,
		"validation_status": heal.StatusMigrated.String(),
	}, nil
}

func contentRefs(data map[string]any) []heal.Reference {
	var refs []heal.Reference
	for _, id := range stringsOf(data, "related_node_ids") {
		if id != "" {
			refs = append(refs, heal.Reference{EntryType: EntryTypeContent, ID: id})
		}
	}
	return refs
}

// Content is the healing provider for content entries.
type Content struct {
	resolver heal.ReferenceResolver
	handler  heal.DegradationHandler
}

var _ heal.Provider = (*Content)(nil)

// NewContent creates the content provider. A nil store accepts every
// reference.
func NewContent(store Store, policy Policy) *Content {
	return &Content{
		resolver: &storeResolver{store: store, refs: contentRefs},
		handler:  policy.Handler(),
	}
}

func (*Content) EntryType() string                        { return EntryTypeContent }
func (*Content) SchemaVersion() int                       { return SchemaVersion }
func (*Content) Validator() heal.Validator                { return contentValidator{} }
func (*Content) Transformer() heal.Transformer            { return contentTransformer{} }
func (p *Content) ReferenceResolver() heal.ReferenceResolver { return p.resolver }
func (p *Content) DegradationHandler() heal.DegradationHandler { return p.handler }
