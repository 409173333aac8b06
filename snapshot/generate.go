package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/tessera-orm/tessera"
	"github.com/tessera-orm/tessera/model"
)

const pkgPath = "github.com/tessera-orm/tessera/snapshot"

// Generate renders m into dir, one file per entity type plus a model file
// declaring the full summary and its fingerprint. The package name is the
// base name of dir. Files are written concurrently; generation fails on the
// first error.
func Generate(ctx context.Context, m *model.Model, dir string) error {
	files, err := Render(m, filepath.Base(dir))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: creating %s: %w", dir, err)
	}
	g, _ := errgroup.WithContext(ctx)
	for name, src := range files {
		g.Go(func() error {
			if err := os.WriteFile(filepath.Join(dir, name), src, 0o644); err != nil {
				return fmt.Errorf("snapshot: writing %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Render produces the formatted source files Generate would write, keyed by
// file name. Entity types render in model insertion order; the model file is
// named model.go and declares the assembled Summary plus the fingerprint.
func Render(m *model.Model, pkg string) (map[string][]byte, error) {
	files := make(map[string][]byte)
	summary := Summarize(m)
	var varNames []string
	for _, es := range summary.EntityTypes {
		varName := model.TypeName(es.Name) + "Type"
		varNames = append(varNames, varName)

		f := jen.NewFile(pkg)
		f.HeaderComment("Code generated by tessera, DO NOT EDIT.")
		f.Comment(fmt.Sprintf("%s describes the %s entity type.", varName, es.Name))
		f.Var().Id(varName).Op("=").Add(entityTypeValue(es))

		// "model" is reserved for the summary file.
		stem := model.Uniquify(model.PropertyName(es.Name), 255, func(s string) bool {
			_, taken := files[s+".go"]
			return taken || s == "model"
		})
		name := stem + ".go"
		src, err := render(f, name)
		if err != nil {
			return nil, err
		}
		files[name] = src
	}

	fp, err := Fingerprint(m)
	if err != nil {
		return nil, err
	}
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by tessera, DO NOT EDIT.")
	f.Comment("Fingerprint identifies the model this package was generated from.")
	f.Const().Id("Fingerprint").Op("=").Lit(fp)
	f.Line()
	f.Comment("Model is the full summary of the generated model.")
	f.Var().Id("Model").Op("=").Qual(pkgPath, "Summary").Values(jen.Dict{
		jen.Id("EntityTypes"): jen.Index().Qual(pkgPath, "EntityTypeSummary").ValuesFunc(func(g *jen.Group) {
			for _, v := range varNames {
				g.Id(v)
			}
		}),
	})
	src, err := render(f, "model.go")
	if err != nil {
		return nil, err
	}
	files["model.go"] = src
	return files, nil
}

// Cached returns the rendered files for m, fetching them from c when a
// previous run stored them under the model's fingerprint and rendering and
// storing them otherwise.
func Cached(ctx context.Context, c tessera.Cache, m *model.Model, pkg string) (map[string][]byte, error) {
	fp, err := Fingerprint(m)
	if err != nil {
		return nil, err
	}
	key := "tessera/snapshot/" + fp + "/" + pkg
	if raw, err := c.Get(ctx, key); err != nil {
		return nil, fmt.Errorf("snapshot: cache get: %w", err)
	} else if raw != nil {
		var files map[string][]byte
		if err := msgpack.Unmarshal(raw, &files); err != nil {
			return nil, fmt.Errorf("snapshot: decoding cached snapshot: %w", err)
		}
		return files, nil
	}
	files, err := Render(m, pkg)
	if err != nil {
		return nil, err
	}
	raw, err := msgpack.Marshal(files)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encoding snapshot: %w", err)
	}
	if err := c.Set(ctx, key, raw); err != nil {
		return nil, fmt.Errorf("snapshot: cache set: %w", err)
	}
	return files, nil
}

func render(f *jen.File, name string) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := f.Render(buf); err != nil {
		return nil, fmt.Errorf("snapshot: rendering %s: %w", name, err)
	}
	src, err := imports.Process(name, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot: formatting %s: %w", name, err)
	}
	return src, nil
}

func entityTypeValue(es EntityTypeSummary) jen.Code {
	d := jen.Dict{
		jen.Id("Name"): jen.Lit(es.Name),
	}
	if es.BaseType != "" {
		d[jen.Id("BaseType")] = jen.Lit(es.BaseType)
	}
	if es.Implicit {
		d[jen.Id("Implicit")] = jen.Lit(true)
	}
	if len(es.Properties) > 0 {
		d[jen.Id("Properties")] = jen.Index().Qual(pkgPath, "PropertySummary").ValuesFunc(func(g *jen.Group) {
			for _, p := range es.Properties {
				g.Add(jen.Values(propertyDict(p)))
			}
		})
	}
	if len(es.PrimaryKey) > 0 {
		d[jen.Id("PrimaryKey")] = stringsValue(es.PrimaryKey)
	}
	if len(es.Keys) > 0 {
		d[jen.Id("Keys")] = jen.Index().Index().String().ValuesFunc(func(g *jen.Group) {
			for _, k := range es.Keys {
				g.Add(stringsValue(k))
			}
		})
	}
	if len(es.ForeignKeys) > 0 {
		d[jen.Id("ForeignKeys")] = jen.Index().Qual(pkgPath, "ForeignKeySummary").ValuesFunc(func(g *jen.Group) {
			for _, fk := range es.ForeignKeys {
				g.Add(jen.Values(foreignKeyDict(fk)))
			}
		})
	}
	if len(es.Indexes) > 0 {
		d[jen.Id("Indexes")] = jen.Index().Qual(pkgPath, "IndexSummary").ValuesFunc(func(g *jen.Group) {
			for _, idx := range es.Indexes {
				g.Add(jen.Values(indexDict(idx)))
			}
		})
	}
	if len(es.Navigations) > 0 {
		d[jen.Id("Navigations")] = jen.Index().Qual(pkgPath, "NavigationSummary").ValuesFunc(func(g *jen.Group) {
			for _, n := range es.Navigations {
				g.Add(jen.Values(navigationDict(n)))
			}
		})
	}
	if len(es.SkipNavigations) > 0 {
		d[jen.Id("SkipNavigations")] = jen.Index().Qual(pkgPath, "SkipNavSummary").ValuesFunc(func(g *jen.Group) {
			for _, n := range es.SkipNavigations {
				g.Add(jen.Values(skipNavDict(n)))
			}
		})
	}
	return jen.Qual(pkgPath, "EntityTypeSummary").Values(d)
}

func propertyDict(p PropertySummary) jen.Dict {
	d := jen.Dict{
		jen.Id("Name"): jen.Lit(p.Name),
	}
	if p.Shape != "" {
		d[jen.Id("Shape")] = jen.Lit(p.Shape)
	}
	if p.Nullable {
		d[jen.Id("Nullable")] = jen.Lit(true)
	}
	if p.ConcurrencyToken {
		d[jen.Id("ConcurrencyToken")] = jen.Lit(true)
	}
	if p.ValueGenerated != "" {
		d[jen.Id("ValueGenerated")] = jen.Lit(p.ValueGenerated)
	}
	if p.BeforeSave != "" {
		d[jen.Id("BeforeSave")] = jen.Lit(p.BeforeSave)
	}
	if p.AfterSave != "" {
		d[jen.Id("AfterSave")] = jen.Lit(p.AfterSave)
	}
	if p.Converter != "" {
		d[jen.Id("Converter")] = jen.Lit(p.Converter)
	}
	if p.Field != "" {
		d[jen.Id("Field")] = jen.Lit(p.Field)
	}
	return d
}

func foreignKeyDict(fk ForeignKeySummary) jen.Dict {
	d := jen.Dict{
		jen.Id("Properties"):    stringsValue(fk.Properties),
		jen.Id("PrincipalType"): jen.Lit(fk.PrincipalType),
		jen.Id("PrincipalKey"):  stringsValue(fk.PrincipalKey),
	}
	if fk.Unique {
		d[jen.Id("Unique")] = jen.Lit(true)
	}
	if fk.Required {
		d[jen.Id("Required")] = jen.Lit(true)
	}
	return d
}

func indexDict(idx IndexSummary) jen.Dict {
	d := jen.Dict{
		jen.Id("Properties"): stringsValue(idx.Properties),
	}
	if idx.Unique {
		d[jen.Id("Unique")] = jen.Lit(true)
	}
	return d
}

func navigationDict(n NavigationSummary) jen.Dict {
	d := jen.Dict{
		jen.Id("Name"):   jen.Lit(n.Name),
		jen.Id("Target"): jen.Lit(n.Target),
	}
	if n.Collection {
		d[jen.Id("Collection")] = jen.Lit(true)
	}
	if n.OnDependent {
		d[jen.Id("OnDependent")] = jen.Lit(true)
	}
	if n.EagerLoaded {
		d[jen.Id("EagerLoaded")] = jen.Lit(true)
	}
	return d
}

func skipNavDict(n SkipNavSummary) jen.Dict {
	d := jen.Dict{
		jen.Id("Name"):   jen.Lit(n.Name),
		jen.Id("Target"): jen.Lit(n.Target),
	}
	if n.Inverse != "" {
		d[jen.Id("Inverse")] = jen.Lit(n.Inverse)
	}
	if n.Association != "" {
		d[jen.Id("Association")] = jen.Lit(n.Association)
	}
	if len(n.ForeignKey) > 0 {
		d[jen.Id("ForeignKey")] = stringsValue(n.ForeignKey)
	}
	if n.EagerLoaded {
		d[jen.Id("EagerLoaded")] = jen.Lit(true)
	}
	return d
}

func stringsValue(vals []string) *jen.Statement {
	return jen.Index().String().ValuesFunc(func(g *jen.Group) {
		for _, v := range vals {
			g.Lit(v)
		}
	})
}
