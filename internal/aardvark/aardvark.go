// Package aardvark normalizes harvested GeoBlacklight metadata records
// into the Aardvark vocabulary.
//
// Records arrive as loosely-typed JSON objects in either the legacy
// GeoBlacklight 1.0 vocabulary or Aardvark itself. The crosswalk renames
// the known 1.0 fields; everything else passes through untouched, so an
// Aardvark record survives the mapper unchanged and unknown fields
// round-trip verbatim into the stored payload.
package aardvark

import "sort"

// Record is one metadata record: field name → scalar or list value,
// as decoded from JSON.
type Record map[string]any

// Crosswalk maps GeoBlacklight 1.0 field names to their Aardvark
// equivalents. Fields absent from this table keep their name.
var Crosswalk = map[string]string{
	"dc_title_s":            "dct_title_s",
	"dc_description_s":      "dct_description_sm",
	"dc_creator_sm":         "dct_creator_sm",
	"dc_publisher_s":        "dct_publisher_sm",
	"dct_provenance_s":      "schema_provider_s",
	"dc_subject_sm":         "dct_subject_sm",
	"dc_rights_s":           "dct_accessRights_s",
	"dc_format_s":           "dct_format_s",
	"dc_language_s":         "dct_language_sm",
	"dc_language_sm":        "dct_language_sm",
	"dc_type_s":             "gbl_resourceClass_sm",
	"layer_geom_type_s":     "gbl_resourceType_sm",
	"layer_slug_s":          "id",
	"layer_id_s":            "gbl_wxsIdentifier_s",
	"layer_modified_dt":     "gbl_mdModified_dt",
	"solr_year_i":           "gbl_indexYear_im",
	"solr_geom":             "dcat_bbox",
	"dc_identifier_s":       "dct_identifier_sm",
	"dc_source_sm":          "dct_source_sm",
	"geoblacklight_version": "gbl_mdVersion_s",
}

// MapRecord renames the crosswalked fields of raw and returns a new
// record. Unknown fields keep their name and value; no field is ever
// dropped. Source keys are visited in sorted order, so when two source
// fields map to the same target (dc_language_s and dc_language_sm both
// become dct_language_sm) the lexicographically later source key wins.
// Pure function: raw is not modified.
func MapRecord(raw Record) Record {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Record, len(raw))
	for _, k := range keys {
		target := k
		if t, ok := Crosswalk[k]; ok {
			target = t
		}
		out[target] = raw[k]
	}
	return out
}

// StringField returns the value of key coerced to a string, or "" when
// the field is absent or not representable as a single scalar. List
// values yield their first element, matching how identifier fields are
// occasionally shipped as one-element arrays.
func StringField(rec Record, key string) string {
	v, ok := rec[key]
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case []any:
		if len(x) == 0 {
			return ""
		}
		return flatten(x[0])
	case []string:
		if len(x) == 0 {
			return ""
		}
		return x[0]
	default:
		return flatten(v)
	}
}
