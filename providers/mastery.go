package providers

import (
	"github.com/solenne/mend/heal"
)

// MasteryLevels is the closed vocabulary for the mastery_level field,
// ordered by depth of mastery.
var MasteryLevels = []string{
	"not_started", "seen", "remember", "understand",
	"apply", "analyze", "evaluate", "create",
}

type masteryValidator struct{}

func (masteryValidator) Validate(data map[string]any) error {
	if _, err := requireString(data, "mastery", "id"); err != nil {
		return err
	}
	if _, err := requireString(data, "mastery", "human_id"); err != nil {
		return err
	}
	if _, err := requireString(data, "mastery", "content_id"); err != nil {
		return err
	}

	level, err := requireString(data, "mastery", "mastery_level")
	if err != nil {
		return err
	}
	if err := oneOf("mastery", "mastery_level", level, MasteryLevels); err != nil {
		return err
	}

	return checkSchemaVersion(data)
}

type masteryTransformer struct{}

func (masteryTransformer) TransformLegacy(legacy map[string]any) (map[string]any, error) {
	id, err := requireString(legacy, "legacy mastery", "id")
	if err != nil {
		return nil, err
	}
	humanID, err := requireString(legacy, "legacy mastery", "human_id")
	if err != nil {
		return nil, err
	}
	contentID, err := requireString(legacy, "legacy mastery", "content_id")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"id":                  id,
		"human_id":            humanID,
		"content_id":          contentID,
		"mastery_level":       stringOr(legacy, "mastery_level", "not_started"),
		"mastery_level_index": numberOr(legacy, "mastery_level_index", 0),
		"freshness_score":     numberOr(legacy, "freshness_score", 0),
		"engagement_count":    numberOr(legacy, "engagement_count", 0),
		"schema_version":      SchemaVersion,
		"validation_status":   heal.StatusMigrated.String(),
	}, nil
}

func masteryRefs(data map[string]any) []heal.Reference {
	var refs []heal.Reference
	if contentID := stringOr(data, "content_id", ""); contentID != "" {
		refs = append(refs, heal.Reference{EntryType: EntryTypeContent, ID: contentID})
	}
	return refs
}

// Mastery is the healing provider for content_mastery entries, which track
// one human's progress against one content entry. Only the content side is
// resolvable; human records live outside this store.
type Mastery struct {
	resolver heal.ReferenceResolver
	handler  heal.DegradationHandler
}

var _ heal.Provider = (*Mastery)(nil)

func NewMastery(store Store, policy Policy) *Mastery {
	return &Mastery{
		resolver: &storeResolver{store: store, refs: masteryRefs},
		handler:  policy.Handler(),
	}
}

func (*Mastery) EntryType() string                        { return EntryTypeMastery }
func (*Mastery) SchemaVersion() int                       { return SchemaVersion }
func (*Mastery) Validator() heal.Validator                { return masteryValidator{} }
func (*Mastery) Transformer() heal.Transformer            { return masteryTransformer{} }
func (p *Mastery) ReferenceResolver() heal.ReferenceResolver { return p.resolver }
func (p *Mastery) DegradationHandler() heal.DegradationHandler { return p.handler }
