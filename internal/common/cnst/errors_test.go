package cnst

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelsAreDistinctAndWrappable(t *testing.T) {
	all := []error{ErrAccessDenied, ErrForbidden, ErrTenantNotFound, ErrCrossTenantWrite, ErrCrossTenantReference, ErrNotFound, ErrImmutableRecord}
	for i, a := range all {
		wrapped := fmt.Errorf("resolve: %w", a)
		assert.True(t, errors.Is(wrapped, a))
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(wrapped, b), "%v should not match %v", a, b)
			}
		}
	}
}
