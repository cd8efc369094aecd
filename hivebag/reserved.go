package hivebag

// Keys that carry span identity, hierarchy, or engine directives rather
// than convention vocabulary.  They are excluded from signatures so
// that the same instrumentation produces the same signature whether or
// not the caller supplied ids.

const (
	KeyEventID     = "honeyhive_event_id"
	KeySessionID   = "honeyhive_session_id"
	KeyParentID    = "honeyhive_parent_id"
	KeyChildrenIDs = "honeyhive_children_ids"
	KeyProjectID   = "honeyhive_project"

	// KeyConventionVersion names the convention and version that
	// produced the bag, as "<name>/<version>".  When present and known
	// it bypasses detection entirely.
	KeyConventionVersion = "honeyhive_convention_version"
)

var reservedKeys = map[string]struct{}{
	KeyEventID:           {},
	KeySessionID:         {},
	KeyParentID:          {},
	KeyChildrenIDs:       {},
	KeyProjectID:         {},
	KeyConventionVersion: {},
}

// Reserved reports whether key is structural rather than part of any
// convention's vocabulary.
func Reserved(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}
