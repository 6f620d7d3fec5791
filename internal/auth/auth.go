package auth

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const (
	RoleAssistantUser  = "assistant_user"
	RoleInventoryAdmin = "inventory_admin"
)

type Identity struct {
	Subject string
	Roles   []string
}

func (i Identity) HasRole(role string) bool {
	for _, candidate := range i.Roles {
		if candidate == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the identity carries at least one of roles.
func (i Identity) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if i.HasRole(role) {
			return true
		}
	}
	return false
}

type APIKeyValidator interface {
	Validate(ctx context.Context, apiKey string) (Identity, bool)
}

type StaticAPIKeyValidator struct {
	keys map[string]Identity
}

// NewStaticAPIKeyValidator parses "key:subject:role|role" entries separated by
// commas.
func NewStaticAPIKeyValidator(spec string) (*StaticAPIKeyValidator, error) {
	validator := &StaticAPIKeyValidator{keys: map[string]Identity{}}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return validator, nil
	}

	for _, entry := range strings.Split(spec, ",") {
		identity, key, err := parseStaticEntry(entry)
		if err != nil {
			return nil, err
		}
		if _, exists := validator.keys[key]; exists {
			return nil, fmt.Errorf("invalid static key entry %q: duplicate key", entry)
		}
		validator.keys[key] = identity
	}
	return validator, nil
}

func parseStaticEntry(entry string) (Identity, string, error) {
	parts := strings.Split(strings.TrimSpace(entry), ":")
	if len(parts) != 3 {
		return Identity{}, "", fmt.Errorf("invalid static key entry %q: expected key:subject:role|role", entry)
	}
	key := strings.TrimSpace(parts[0])
	subject := strings.TrimSpace(parts[1])
	if key == "" || subject == "" {
		return Identity{}, "", fmt.Errorf("invalid static key entry %q: empty key/subject", entry)
	}

	roles := make([]string, 0, 2)
	for _, role := range strings.Split(parts[2], "|") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		return Identity{}, "", fmt.Errorf("invalid static key entry %q: at least one role is required", entry)
	}
	sort.Strings(roles)
	return Identity{Subject: subject, Roles: roles}, key, nil
}

func (v *StaticAPIKeyValidator) Validate(_ context.Context, apiKey string) (Identity, bool) {
	identity, ok := v.keys[apiKey]
	return identity, ok
}

func (v *StaticAPIKeyValidator) Len() int {
	return len(v.keys)
}
