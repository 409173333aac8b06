package model

// attr is a precedence-tracked attribute cell: a value paired with the
// source that configured it. Every configurable attribute on every metadata
// entity is one of these, so the precedence gate is implemented exactly
// once.
type attr[T comparable] struct {
	value  T
	source Source
}

// CanSet reports whether a write at src would succeed. It never mutates.
func (a *attr[T]) CanSet(src Source) bool {
	return src.Overrides(a.source)
}

// Set applies v at src. A nil v clears both the value and the recorded
// source, reverting the attribute to its unset default. Returns false and
// leaves the cell untouched when src does not override the recorded source.
func (a *attr[T]) Set(v *T, src Source) bool {
	if !a.CanSet(src) {
		return false
	}
	if v == nil {
		var zero T
		a.value = zero
		a.source = SourceNone
		return true
	}
	a.value = *v
	a.source = src.Max(a.source)
	return true
}

// Get returns the configured value and whether one has been recorded.
func (a *attr[T]) Get() (T, bool) {
	return a.value, a.source != SourceNone
}

// ValueOr returns the configured value, or def when unset.
func (a *attr[T]) ValueOr(def T) T {
	if a.source == SourceNone {
		return def
	}
	return a.value
}

// Source returns the recorded configuration source, SourceNone when unset.
func (a *attr[T]) Source() Source {
	return a.source
}

// ptr is a convenience for building the nullable arguments Set-style
// builder methods take.
func ptr[T any](v T) *T {
	return &v
}

// annotation is the (value, source) cell for name-keyed annotations, whose
// values are arbitrary and therefore cannot use the comparable cell.
type annotation struct {
	value  any
	source Source
}

// annotatable adds source-tracked, name-keyed annotations to a metadata
// entity.
type annotatable struct {
	annotations map[string]annotation
}

// SetAnnotation applies value under name at src, following the same
// precedence gate as attributes. A nil value removes the annotation.
func (a *annotatable) SetAnnotation(name string, value any, src Source) bool {
	existing := a.annotations[name]
	if !src.Overrides(existing.source) {
		return false
	}
	if value == nil {
		delete(a.annotations, name)
		return true
	}
	if a.annotations == nil {
		a.annotations = make(map[string]annotation)
	}
	a.annotations[name] = annotation{value: value, source: src.Max(existing.source)}
	return true
}

// Annotation returns the value recorded under name.
func (a *annotatable) Annotation(name string) (any, bool) {
	ann, ok := a.annotations[name]
	return ann.value, ok
}

// AnnotationSource returns the source that recorded name, SourceNone when
// the annotation is absent.
func (a *annotatable) AnnotationSource(name string) Source {
	return a.annotations[name].source
}
