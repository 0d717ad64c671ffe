package aardvark

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FulltextFields is the descriptive field set indexed for free-text
// search, in the column order of the fulltext table. The projected row
// is the record identifier followed by these, fixed arity.
var FulltextFields = []string{
	"dct_title_s",
	"dct_alternative_sm",
	"dct_description_sm",
	"dct_creator_sm",
	"dct_publisher_sm",
	"schema_provider_s",
	"dct_subject_sm",
	"dcat_keyword_sm",
	"dct_spatial_sm",
	"dct_temporal_sm",
}

// IndexFields get a single-column structured index each.
var IndexFields = []string{
	"dct_title_s",
	"schema_provider_s",
	"gbl_resourceClass_sm",
	"gbl_resourceType_sm",
	"dct_format_s",
	"dct_accessRights_s",
	"dct_language_sm",
	"gbl_indexYear_im",
	"gbl_mdModified_dt",
	"dct_spatial_sm",
}

// FacetFields is the subset of IndexFields that additionally get
// pairwise composite indexes for faceted filter and count queries.
var FacetFields = []string{
	"schema_provider_s",
	"gbl_resourceClass_sm",
	"gbl_resourceType_sm",
	"dct_format_s",
	"dct_accessRights_s",
}

// ProjectFulltext flattens rec into the positional fulltext row:
// id followed by one string per FulltextFields entry. List values join
// with ", ", scalars stringify, absent fields become the empty string.
// A column is never omitted; the fulltext table requires fixed arity.
func ProjectFulltext(id string, rec Record) []string {
	row := make([]string, 0, 1+len(FulltextFields))
	row = append(row, id)
	for _, f := range FulltextFields {
		v, ok := rec[f]
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, flatten(v))
	}
	return row
}

// flatten coerces a decoded JSON value to a single string. Lists join
// element-wise with ", "; nested objects fall back to their compact
// JSON encoding.
func flatten(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, ", ")
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = flatten(e)
		}
		return strings.Join(parts, ", ")
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
