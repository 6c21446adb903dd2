package board

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/existflow/taskboard/internal/apperr"
	"github.com/existflow/taskboard/internal/ordering"
)

func validateIDs(ids map[string]string) error {
	fields := map[string]string{}
	for field, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			fields[field] = "invalid id"
		}
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid id", fields)
	}
	return nil
}

// validateList checks every entry of list is a well-formed id and appears once
func validateList(field string, list []string) error {
	seen := make(map[string]struct{}, len(list))
	fields := map[string]string{}
	for i, id := range list {
		key := fmt.Sprintf("%s[%d]", field, i)
		if _, err := uuid.Parse(id); err != nil {
			fields[key] = "invalid id"
			continue
		}
		if _, dup := seen[id]; dup {
			fields[key] = "duplicate id"
			continue
		}
		seen[id] = struct{}{}
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid "+field, fields)
	}
	return nil
}

// matchMembers checks ids names exactly the given members. Unknown ids are
// NotFound; members left out mean the caller's view is stale.
func matchMembers(field string, ids []string, members []ordering.Member) error {
	want := make(map[string]struct{}, len(members))
	for _, m := range members {
		want[m.ID] = struct{}{}
	}

	for _, id := range ids {
		if _, ok := want[id]; !ok {
			return apperr.NotFound("%s: %s not found", field, id)
		}
		delete(want, id)
	}

	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for id := range want {
			missing = append(missing, id)
		}
		sort.Strings(missing)
		return apperr.Validation("incomplete "+field, map[string]string{
			field: fmt.Sprintf("missing %d member(s): %v", len(missing), missing),
		})
	}
	return nil
}
