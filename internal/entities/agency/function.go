package agency

import "slices"

// FunctionGrant is what a function type hands out when it is chosen
type FunctionGrant struct {
	Permissions []string
	Items       []GrantedItem
}

// GrantedItem is a catalog item granted by a function type
type GrantedItem struct {
	Name   string
	Effect string
}

// SetFunctionType sets the function type. When grant is non-nil its defaults are applied:
// permissions are replaced if the grant carries at least three, and each granted item is
// appended unless a function-sourced item with that name already exists. Items granted by
// an earlier function are never removed.
func (c *Character) SetFunctionType(name string, grant *FunctionGrant, newID func() string) bool {
	changed := setString(&c.FunctionType, name)
	if grant == nil {
		return changed
	}

	if len(grant.Permissions) >= PermissionCount {
		perms := slices.Clone(grant.Permissions[:PermissionCount])
		if !slices.Equal(perms, c.Permissions) {
			c.Permissions = perms
			changed = true
		}
	}

	for _, g := range grant.Items {
		exists := slices.ContainsFunc(c.Items, func(it Item) bool {
			return it.IsFromFunction && it.Name == g.Name
		})
		if exists {
			continue
		}
		c.Items = append(c.Items, Item{
			ID:             newID(),
			Name:           g.Name,
			Effect:         g.Effect,
			Source:         name,
			IsFromFunction: true,
		})
		changed = true
	}
	return changed
}
