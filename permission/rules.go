package permission

import "sort"

// Record is a granted-permission record as reported by the backend.
type Record struct {
	PermissionID string
	GroupID      string
	Description  string
}

// Rules defines a public type used by shopauth APIs.
//
// Rules map static role names to the permission identifiers those roles
// require. Rules instances are intended to be configured during
// initialization and then treated as immutable unless documented otherwise.
type Rules map[string][]string

// Required flattens the rules into the deduplicated allow-list of
// permission identifiers to request from the backend. The optional extra
// identifier (the deployment-configured gate permission) is appended when
// non-empty. The result is sorted so request payloads are stable.
func (r Rules) Required(extra string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, perms := range r {
		for _, p := range perms {
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}

	if extra != "" {
		if _, ok := seen[extra]; !ok {
			out = append(out, extra)
		}
	}

	sort.Strings(out)
	return out
}
