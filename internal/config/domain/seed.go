package domain

import (
	"context"
	"fmt"

	"citysync-v0/internal/shared/validation"
	"citysync-v0/pkg/utils"
)

var (
	_ validation.Validator = (*SeedConfig)(nil)
	_ validation.Validator = (*SeedMapping)(nil)
)

// SeedConfig is the top-level identity seed file. It carries confirmed
// primary/secondary key pairs that are fed to the resolver before the
// first sync cycle, so lookups by secondary key work even for buildings
// whose payload never includes one.
type SeedConfig struct {
	Name     string        `json:"name"`
	Mappings []SeedMapping `json:"mappings"`
}

func (c *SeedConfig) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string, 2)

	err := utils.CheckName(c.Name)
	if err != nil {
		problems["name"] = err.Error()
	}

	if len(c.Mappings) == 0 {
		problems["mappings"] = "mappings cannot be empty"
	}

	return problems
}

// SeedMapping is a single confirmed identifier pair.
type SeedMapping struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

func (m *SeedMapping) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string, 2)

	if err := utils.CheckKey(m.Primary); err != nil {
		problems["primary"] = err.Error()
	}

	if err := utils.CheckKey(m.Secondary); err != nil {
		problems["secondary"] = err.Error()
	}

	return problems
}

func (m *SeedMapping) String() string {
	return fmt.Sprintf("%s->%s", m.Primary, m.Secondary)
}
