package features

// Schema is the single capability a model adapter implements when its
// artifact carries feature-name metadata. Adapters choose how to source the
// names (sidecar file, embedded metadata); alignment depends only on this
// interface.
type Schema interface {
	FeatureNames() []string
}

// Align reconciles a frame's columns with a model's expected feature list.
// If the model exposes no Schema, or the overlap between the expected names
// and the frame's columns covers less than a third of the expected list
// (stale metadata, or metadata from a different model version), the frame is
// returned unchanged and aligned is false. Otherwise the result has exactly
// the expected columns in the expected order, zero-filling any the frame
// lacks. Never fails: degraded alignment is a no-op, and the caller is
// expected to log it.
func Align(f Frame, model any) (out Frame, aligned bool) {
	schema, ok := model.(Schema)
	if !ok {
		return f, false
	}
	expected := schema.FeatureNames()
	if len(expected) == 0 {
		return f, false
	}

	overlap := 0
	for _, name := range expected {
		if _, ok := f.Get(name); ok {
			overlap++
		}
	}
	if overlap*3 < len(expected) {
		return f, false
	}

	values := make([]float64, len(expected))
	for i, name := range expected {
		v, _ := f.Get(name)
		values[i] = v
	}
	return New(expected, values), true
}
