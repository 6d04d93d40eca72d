package settings

import (
	"reflect"
	"testing"
)

func TestDisjointResolvesOverlap(t *testing.T) {
	req, opt, hid := Disjoint(
		[]string{"a", "b"},
		[]string{"b", "c", "d"},
		[]string{"a", "d", "e"},
	)
	if !reflect.DeepEqual(req, []string{"a", "b"}) {
		t.Errorf("required = %v", req)
	}
	if !reflect.DeepEqual(opt, []string{"c", "d"}) {
		t.Errorf("optional = %v", opt)
	}
	if !reflect.DeepEqual(hid, []string{"e"}) {
		t.Errorf("hidden = %v", hid)
	}
}

func TestDisjointDropsDuplicatesAndEmpties(t *testing.T) {
	req, opt, hid := Disjoint(
		[]string{"a", "a", ""},
		[]string{"b", "b"},
		[]string{"c", "c", "b"},
	)
	if !reflect.DeepEqual(req, []string{"a"}) {
		t.Errorf("required = %v", req)
	}
	if !reflect.DeepEqual(opt, []string{"b"}) {
		t.Errorf("optional = %v", opt)
	}
	if !reflect.DeepEqual(hid, []string{"c"}) {
		t.Errorf("hidden = %v", hid)
	}
}

func TestDisjointPairwise(t *testing.T) {
	// every key appearing in multiple inputs ends up in exactly one output
	req, opt, hid := Disjoint(
		[]string{"x"},
		[]string{"x"},
		[]string{"x"},
	)
	total := len(req) + len(opt) + len(hid)
	if total != 1 || len(req) != 1 {
		t.Errorf("expected x only in required, got req=%v opt=%v hid=%v", req, opt, hid)
	}
}

func TestMergeFillsMissingSections(t *testing.T) {
	defaults := Defaults()
	merged := Merge(PatientFormSettings{}, defaults)

	if !reflect.DeepEqual(merged.FormFields, defaults.FormFields) {
		t.Error("expected form fields from defaults")
	}
	if !reflect.DeepEqual(merged.ListFilters, defaults.ListFilters) {
		t.Error("expected list filters from defaults")
	}
	if !reflect.DeepEqual(merged.DocumentTypes.Catalog, defaults.DocumentTypes.Catalog) {
		t.Error("expected catalog from defaults")
	}
}

func TestMergeKeepsPresentSections(t *testing.T) {
	patch := PatientFormSettings{
		FormFields: map[string][]string{"sex": {"male", "female"}},
	}
	merged := Merge(patch, Defaults())

	if !reflect.DeepEqual(merged.FormFields["sex"], []string{"male", "female"}) {
		t.Errorf("expected patch form fields kept, got %v", merged.FormFields)
	}
	if merged.ListFilters == nil {
		t.Error("expected absent sections filled from defaults")
	}
}

func TestMergeCatalogByKey(t *testing.T) {
	defaults := Defaults()
	patch := PatientFormSettings{
		DocumentTypes: DocumentTypeSettings{
			Catalog: []DocumentType{
				// override a default key
				{Key: "consent", LabelTH: "ยินยอมฉบับใหม่"},
				// new key unknown to the defaults
				{Key: "lab_results", LabelTH: "ผลแล็บ"},
			},
		},
	}

	merged := Merge(patch, defaults)
	catalog := merged.DocumentTypes.Catalog

	byKey := make(map[string]DocumentType)
	for _, dt := range catalog {
		byKey[dt.Key] = dt
	}

	if byKey["consent"].LabelTH != "ยินยอมฉบับใหม่" {
		t.Errorf("expected consent overridden, got %+v", byKey["consent"])
	}
	if _, ok := byKey["lab_results"]; !ok {
		t.Error("expected unknown client key appended")
	}
	// default keys the client dropped are restored
	for _, def := range defaults.DocumentTypes.Catalog {
		if _, ok := byKey[def.Key]; !ok {
			t.Errorf("expected default key %s restored", def.Key)
		}
	}
	// order: defaults first, additions after
	if catalog[len(catalog)-1].Key != "lab_results" {
		t.Errorf("expected appended key last, got %v", catalog[len(catalog)-1].Key)
	}
}

func TestMergeEnforcesDisjointness(t *testing.T) {
	patch := PatientFormSettings{
		DocumentTypes: DocumentTypeSettings{
			Required: []string{"consent", "referral"},
			Optional: []string{"referral", "id_card"},
			Hidden:   []string{"consent", "id_card"},
		},
	}
	merged := Merge(patch, Defaults())
	dt := merged.DocumentTypes

	if !reflect.DeepEqual(dt.Required, []string{"consent", "referral"}) {
		t.Errorf("required = %v", dt.Required)
	}
	if !reflect.DeepEqual(dt.Optional, []string{"id_card"}) {
		t.Errorf("optional = %v", dt.Optional)
	}
	if len(dt.Hidden) != 0 {
		t.Errorf("hidden = %v", dt.Hidden)
	}
}
