package settings

// Merge fills every missing top-level section of patch from defaults,
// merges the document-type catalog by key and re-establishes the
// requirement-set disjointness invariant. The result is safe to persist
// and return as the new source of truth.
func Merge(patch, defaults PatientFormSettings) PatientFormSettings {
	out := patch

	if out.FormFields == nil {
		out.FormFields = defaults.FormFields
	}
	if out.ListFilters == nil {
		out.ListFilters = defaults.ListFilters
	}

	out.DocumentTypes.Catalog = mergeCatalog(patch.DocumentTypes.Catalog, defaults.DocumentTypes.Catalog)

	if out.DocumentTypes.Required == nil {
		out.DocumentTypes.Required = defaults.DocumentTypes.Required
	}
	if out.DocumentTypes.Optional == nil {
		out.DocumentTypes.Optional = defaults.DocumentTypes.Optional
	}
	if out.DocumentTypes.Hidden == nil {
		out.DocumentTypes.Hidden = defaults.DocumentTypes.Hidden
	}

	out.DocumentTypes.Required, out.DocumentTypes.Optional, out.DocumentTypes.Hidden =
		Disjoint(out.DocumentTypes.Required, out.DocumentTypes.Optional, out.DocumentTypes.Hidden)

	return out
}

// mergeCatalog merges the client catalog over the default catalog by
// key: client entries override defaults per key, unknown client keys
// are appended after the defaults, and default keys the client dropped
// are restored.
func mergeCatalog(patch, defaults []DocumentType) []DocumentType {
	if len(patch) == 0 {
		return defaults
	}

	byKey := make(map[string]DocumentType, len(patch))
	for _, dt := range patch {
		byKey[dt.Key] = dt
	}

	out := make([]DocumentType, 0, len(defaults)+len(patch))
	seen := make(map[string]bool, len(defaults))
	for _, def := range defaults {
		seen[def.Key] = true
		if override, ok := byKey[def.Key]; ok {
			out = append(out, override)
		} else {
			out = append(out, def)
		}
	}
	for _, dt := range patch {
		if !seen[dt.Key] {
			out = append(out, dt)
			seen[dt.Key] = true
		}
	}
	return out
}

// Disjoint makes the three requirement sets pairwise disjoint. A key in
// more than one input list lands in exactly one output list: required
// wins, then optional, then hidden. Within each list duplicates are
// dropped and order is preserved.
func Disjoint(required, optional, hidden []string) (req, opt, hid []string) {
	taken := make(map[string]bool)

	req = make([]string, 0, len(required))
	for _, k := range required {
		if k == "" || taken[k] {
			continue
		}
		taken[k] = true
		req = append(req, k)
	}

	opt = make([]string, 0, len(optional))
	for _, k := range optional {
		if k == "" || taken[k] {
			continue
		}
		taken[k] = true
		opt = append(opt, k)
	}

	hid = make([]string, 0, len(hidden))
	for _, k := range hidden {
		if k == "" || taken[k] {
			continue
		}
		taken[k] = true
		hid = append(hid, k)
	}

	return req, opt, hid
}
