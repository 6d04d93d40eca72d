package settings

// PatientFormKey is the singleton settings document this service manages.
const PatientFormKey = "patient-form"

// PatientFormSettings is the department's form configuration: dropdown
// options for the patient form, the document-type catalog with its
// requirement sets, and the list-filter layout.
type PatientFormSettings struct {
	FormFields    map[string][]string  `json:"form_fields,omitempty"`
	DocumentTypes DocumentTypeSettings `json:"document_types"`
	ListFilters   []ListFilter         `json:"list_filters,omitempty"`
}

// DocumentTypeSettings holds the catalog of known document types and
// which of them are required, optional or hidden on the patient page.
// The three sets must stay pairwise disjoint.
type DocumentTypeSettings struct {
	Catalog  []DocumentType `json:"catalog,omitempty"`
	Required []string       `json:"required"`
	Optional []string       `json:"optional"`
	Hidden   []string       `json:"hidden"`
}

// DocumentType is one entry in the document-type catalog.
type DocumentType struct {
	Key     string `json:"key"`
	LabelTH string `json:"label_th"`
	LabelEN string `json:"label_en,omitempty"`
}

// ListFilter configures one filter control on the patient list.
type ListFilter struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Options []string `json:"options,omitempty"`
	Enabled bool     `json:"enabled"`
}

// Defaults returns the built-in configuration the stored blob is merged
// over.
func Defaults() PatientFormSettings {
	return PatientFormSettings{
		FormFields: map[string][]string{
			"sex":        {"male", "female", "other", "unknown"},
			"care_model": {"home care", "ward care", "hospice"},
		},
		DocumentTypes: DocumentTypeSettings{
			Catalog: []DocumentType{
				{Key: "consent", LabelTH: "หนังสือยินยอม", LabelEN: "Consent form"},
				{Key: "referral", LabelTH: "ใบส่งตัว", LabelEN: "Referral letter"},
				{Key: "advance_directive", LabelTH: "หนังสือแสดงเจตนา", LabelEN: "Advance directive"},
				{Key: "id_card", LabelTH: "สำเนาบัตรประชาชน", LabelEN: "ID card copy"},
			},
			Required: []string{"consent"},
			Optional: []string{"referral", "advance_directive"},
			Hidden:   []string{"id_card"},
		},
		ListFilters: []ListFilter{
			{Key: "status", Label: "สถานะ", Options: []string{"active", "deceased"}, Enabled: true},
			{Key: "physician", Label: "แพทย์เจ้าของไข้", Enabled: true},
		},
	}
}
