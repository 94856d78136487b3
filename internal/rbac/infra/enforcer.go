package infra

import (
	"fmt"
	"os"

	"github.com/casbin/casbin/v2"
)

// NewEnforcer builds a policy-less enforcer from the model file; policies
// are loaded per school at runtime.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("rbac model %s: %w", modelPath, err)
	}
	return casbin.NewEnforcer(modelPath)
}
