package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tessera-orm/tessera/model"
)

// Summary is the stable, order-preserving projection of a model used for
// fingerprinting and rendering. Only metadata that affects mapping
// participates; configuration sources do not, so two models that agree on
// values produce the same fingerprint regardless of how they were
// configured.
type Summary struct {
	EntityTypes []EntityTypeSummary `msgpack:"entity_types"`
}

// EntityTypeSummary is the stable projection of one entity type.
type EntityTypeSummary struct {
	Name            string              `msgpack:"name"`
	BaseType        string              `msgpack:"base_type,omitempty"`
	Implicit        bool                `msgpack:"implicit,omitempty"`
	Properties      []PropertySummary   `msgpack:"properties"`
	PrimaryKey      []string            `msgpack:"primary_key,omitempty"`
	Keys            [][]string          `msgpack:"keys,omitempty"`
	ForeignKeys     []ForeignKeySummary `msgpack:"foreign_keys,omitempty"`
	Indexes         []IndexSummary      `msgpack:"indexes,omitempty"`
	Navigations     []NavigationSummary `msgpack:"navigations,omitempty"`
	SkipNavigations []SkipNavSummary    `msgpack:"skip_navigations,omitempty"`
}

// PropertySummary is the stable projection of one property.
type PropertySummary struct {
	Name             string `msgpack:"name"`
	Shape            string `msgpack:"shape,omitempty"`
	Nullable         bool   `msgpack:"nullable"`
	ConcurrencyToken bool   `msgpack:"concurrency_token,omitempty"`
	ValueGenerated   string `msgpack:"value_generated,omitempty"`
	BeforeSave       string `msgpack:"before_save,omitempty"`
	AfterSave        string `msgpack:"after_save,omitempty"`
	Converter        string `msgpack:"converter,omitempty"`
	Field            string `msgpack:"field,omitempty"`
}

// ForeignKeySummary is the stable projection of one foreign key.
type ForeignKeySummary struct {
	Properties    []string `msgpack:"properties"`
	PrincipalType string   `msgpack:"principal_type"`
	PrincipalKey  []string `msgpack:"principal_key"`
	Unique        bool     `msgpack:"unique,omitempty"`
	Required      bool     `msgpack:"required,omitempty"`
}

// IndexSummary is the stable projection of one index.
type IndexSummary struct {
	Properties []string `msgpack:"properties"`
	Unique     bool     `msgpack:"unique,omitempty"`
}

// NavigationSummary is the stable projection of one navigation.
type NavigationSummary struct {
	Name        string `msgpack:"name"`
	Target      string `msgpack:"target"`
	Collection  bool   `msgpack:"collection,omitempty"`
	OnDependent bool   `msgpack:"on_dependent,omitempty"`
	EagerLoaded bool   `msgpack:"eager_loaded,omitempty"`
}

// SkipNavSummary is the stable projection of one skip navigation.
type SkipNavSummary struct {
	Name        string   `msgpack:"name"`
	Target      string   `msgpack:"target"`
	Inverse     string   `msgpack:"inverse,omitempty"`
	Association string   `msgpack:"association,omitempty"`
	ForeignKey  []string `msgpack:"foreign_key,omitempty"`
	EagerLoaded bool     `msgpack:"eager_loaded,omitempty"`
}

// Summarize projects m into its stable summary, preserving the model's
// insertion order throughout.
func Summarize(m *model.Model) *Summary {
	s := &Summary{}
	for _, et := range m.EntityTypes() {
		es := EntityTypeSummary{
			Name:     et.Name(),
			Implicit: et.IsImplicit(),
		}
		if base := et.BaseType(); base != nil {
			es.BaseType = base.Name()
		}
		for _, p := range et.Properties() {
			ps := PropertySummary{
				Name:             p.Name(),
				Nullable:         p.IsNullable(),
				ConcurrencyToken: p.IsConcurrencyToken(),
				Converter:        p.ConverterName(),
				Field:            p.FieldName(),
			}
			if p.Shape() != nil {
				ps.Shape = p.Shape().String()
			}
			if g := p.GetValueGenerated(); g != model.ValueGeneratedNever {
				ps.ValueGenerated = g.String()
			}
			if b := p.GetBeforeSaveBehavior(); b != model.SaveBehaviorSave {
				ps.BeforeSave = b.String()
			}
			if a := p.GetAfterSaveBehavior(); a != model.SaveBehaviorSave {
				ps.AfterSave = a.String()
			}
			es.Properties = append(es.Properties, ps)
		}
		if pk := et.PrimaryKey(); pk != nil {
			es.PrimaryKey = names(pk.Properties())
		}
		for _, k := range et.Keys() {
			es.Keys = append(es.Keys, names(k.Properties()))
		}
		for _, fk := range et.ForeignKeys() {
			fs := ForeignKeySummary{
				Properties: names(fk.Properties()),
				Unique:     fk.IsUnique(),
				Required:   fk.IsRequired(),
			}
			if principal := fk.PrincipalEntityType(); principal != nil {
				fs.PrincipalType = principal.Name()
			}
			if pkKey := fk.PrincipalKey(); pkKey != nil {
				fs.PrincipalKey = names(pkKey.Properties())
			}
			es.ForeignKeys = append(es.ForeignKeys, fs)
		}
		for _, idx := range et.Indexes() {
			es.Indexes = append(es.Indexes, IndexSummary{
				Properties: names(idx.Properties()),
				Unique:     idx.IsUnique(),
			})
		}
		for _, n := range et.Navigations() {
			ns := NavigationSummary{
				Name:        n.Name(),
				Collection:  n.IsCollection(),
				OnDependent: n.IsOnDependent(),
				EagerLoaded: n.IsEagerLoaded(),
			}
			if t := n.TargetEntityType(); t != nil {
				ns.Target = t.Name()
			}
			es.Navigations = append(es.Navigations, ns)
		}
		for _, n := range et.SkipNavigations() {
			ss := SkipNavSummary{
				Name:        n.Name(),
				EagerLoaded: n.IsEagerLoaded(),
			}
			if t := n.TargetEntityType(); t != nil {
				ss.Target = t.Name()
			}
			if inv := n.Inverse(); inv != nil {
				ss.Inverse = inv.Name()
			}
			if assoc := n.AssociationEntityType(); assoc != nil {
				ss.Association = assoc.Name()
			}
			if fk := n.ForeignKey(); fk != nil {
				ss.ForeignKey = names(fk.Properties())
			}
			es.SkipNavigations = append(es.SkipNavigations, ss)
		}
		s.EntityTypes = append(s.EntityTypes, es)
	}
	return s
}

// Fingerprint returns the hex sha256 digest of the msgpack encoding of the
// model's summary.
func Fingerprint(m *model.Model) (string, error) {
	raw, err := msgpack.Marshal(Summarize(m))
	if err != nil {
		return "", fmt.Errorf("snapshot: encoding summary: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func names(props []*model.Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.Name()
	}
	return out
}
