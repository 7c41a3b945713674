package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yourorg/miniapp-config/internal/apperr"
)

// UpsertRequest describes the desired state of one record. Optional fields hold
// whatever JSON value the caller sent, numbers as json.Number; nil means "not
// supplied", which is distinct from a falsy value.
type UpsertRequest struct {
	Name        string `json:"name"`
	ModuleName  string `json:"moduleName"`
	ReleaseURL  string `json:"releaseUrl"`
	Environment string `json:"environment,omitempty"`

	Icon        any `json:"icon,omitempty"`
	Color       any `json:"color,omitempty"`
	MiniAppType any `json:"miniAppType,omitempty"`
	Category    any `json:"category,omitempty"`
	Image       any `json:"image,omitempty"`
	Hot         any `json:"hot,omitempty"`
	Tag         any `json:"tag,omitempty"`
	Score       any `json:"score,omitempty"`
}

// UnmarshalJSON keeps numbers in optional fields as json.Number so they are
// written back exactly as received.
func (r *UpsertRequest) UnmarshalJSON(data []byte) error {
	type plain UpsertRequest
	var p plain
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return err
	}
	*r = UpsertRequest(p)
	return nil
}

// ParseRequest decodes a structured-mode argument. Malformed JSON, a non-string
// key field, or an environment that is present but empty or null is an
// apperr.ErrConfig; required fields are not checked here.
func ParseRequest(data []byte) (UpsertRequest, error) {
	var req UpsertRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&req); err != nil {
		return UpsertRequest{}, fmt.Errorf("%w: parse request JSON: %v", apperr.ErrConfig, err)
	}
	if dec.More() {
		return UpsertRequest{}, fmt.Errorf("%w: parse request JSON: trailing data after object", apperr.ErrConfig)
	}
	if req.Environment == "" {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err == nil {
			if raw, ok := fields["environment"]; ok {
				return UpsertRequest{}, fmt.Errorf("%w: environment must be \"dev\" or \"prod\", got %s", apperr.ErrConfig, bytes.TrimSpace(raw))
			}
		}
	}
	return req, nil
}

// Validate checks the composite key and the release URL are present.
func (r UpsertRequest) Validate() error {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.ModuleName == "" {
		missing = append(missing, "moduleName")
	}
	if r.ReleaseURL == "" {
		missing = append(missing, "releaseUrl")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", apperr.ErrUsage, strings.Join(missing, ", "))
	}
	return nil
}

// Supplied lists the optional record fields present in the request with their values.
func (r UpsertRequest) Supplied() map[string]any {
	out := make(map[string]any, 8)
	for field, v := range map[string]any{
		FieldIcon:        r.Icon,
		FieldColor:       r.Color,
		FieldMiniAppType: r.MiniAppType,
		FieldCategory:    r.Category,
		FieldImage:       r.Image,
		FieldHot:         r.Hot,
		FieldTag:         r.Tag,
		FieldScore:       r.Score,
	} {
		if v != nil {
			out[field] = v
		}
	}
	return out
}

// truthy reports whether v would pass an `a || b` test in the tools that write
// these documents: false, 0, "" and null are falsy, everything else is truthy.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err != nil || f != 0
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return true
}
