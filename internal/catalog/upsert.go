package catalog

import "github.com/yourorg/miniapp-config/internal/normalize"

// Action tells which branch of Upsert ran.
type Action string

const (
	ActionUpdated  Action = "updated"
	ActionInserted Action = "inserted"
)

// Outcome describes the record Upsert touched.
type Outcome struct {
	Action Action
	Index  int
	ID     string
	Record Record
}

// Upsert applies req to c and returns the resulting collection.
//
// The first record whose (name, module_name) equals (req.Name, req.ModuleName)
// is updated in place: releaseUrl is always replaced and every optional field
// supplied by req overwrites the stored one, falsy values included. Later
// duplicates of the key are left alone.
//
// Without a match a new record is appended with id NextID, module_name
// set to req.ModuleName with all whitespace removed, host and releaseUrl both
// set to req.ReleaseURL, and defaults for the optional fields req omits or leaves
// falsy (hot only when omitted). Lookup
// compares against the raw req.ModuleName, so repeating an insert whose module
// name contains whitespace appends again.
func Upsert(c Collection, req UpsertRequest) (Collection, Outcome) {
	if i := c.Index(req.Name, req.ModuleName); i >= 0 {
		rec := c[i]
		rec[FieldReleaseURL] = req.ReleaseURL
		for field, v := range req.Supplied() {
			rec[field] = v
		}
		return c, Outcome{Action: ActionUpdated, Index: i, ID: rec.ID(), Record: rec}
	}

	rec := newRecord(c.NextID(), req)
	c = append(c, rec)
	return c, Outcome{Action: ActionInserted, Index: len(c) - 1, ID: rec.ID(), Record: rec}
}

func newRecord(id string, req UpsertRequest) Record {
	var hot any = false
	if req.Hot != nil {
		hot = req.Hot
	}
	return Record{
		FieldID:          id,
		FieldName:        req.Name,
		FieldIcon:        orDefault(req.Icon, DefaultIcon),
		FieldColor:       orDefault(req.Color, DefaultColor),
		FieldMiniAppType: orDefault(req.MiniAppType, DefaultMiniAppType),
		FieldHost:        req.ReleaseURL,
		FieldModuleName:  normalize.ModuleName(req.ModuleName),
		FieldCategory:    orDefault(req.Category, DefaultCategory),
		FieldImage:       orDefault(req.Image, ""),
		FieldReleaseURL:  req.ReleaseURL,
		FieldHot:         hot,
		FieldTag:         orDefault(req.Tag, []any{}),
		FieldScore:       orDefault(req.Score, ""),
	}
}

// orDefault keeps v when it is truthy; absent and falsy values take def.
func orDefault(v, def any) any {
	if truthy(v) {
		return v
	}
	return def
}
