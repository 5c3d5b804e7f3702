package config

// MergeMetadata merges overlay's keys into base, resolving collisions with
// mergeValue, and returns the merged map. It operates on the YAML-shaped
// values a rule file's metadata block unmarshals to: nested maps merge key
// by key, lists append, a nil value on either side yields the other side,
// and anything else is replaced by the overlay -- later rules in the
// cascade win.
func MergeMetadata(base, overlay map[string]any) map[string]any {
	if base == nil {
		base = make(map[string]any, len(overlay))
	}
	for key, overlayVal := range overlay {
		baseVal, ok := base[key]
		if !ok {
			base[key] = overlayVal
			continue
		}
		base[key] = mergeValue(baseVal, overlayVal)
	}
	return base
}

func mergeValue(base, overlay any) any {
	if base == nil {
		return overlay
	}
	if overlay == nil {
		return base
	}
	switch b := base.(type) {
	case map[string]any:
		if o, ok := overlay.(map[string]any); ok {
			return MergeMetadata(b, o)
		}
	case []any:
		if o, ok := overlay.([]any); ok {
			return append(b, o...)
		}
	}
	return overlay
}
