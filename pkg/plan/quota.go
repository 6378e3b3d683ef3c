package plan

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Quota is a resource cap that is either a finite non-negative count or
// unlimited. The zero value is Limited(0), i.e. fully blocked.
//
// Unlimited is modelled as a flag rather than a numeric sentinel so that
// no arithmetic is ever performed against "infinity"; every comparison
// short-circuits on the unlimited case first.
type Quota struct {
	n         int64
	unlimited bool
}

// Limited returns a finite quota of n. Negative values clamp to zero.
func Limited(n int64) Quota {
	if n < 0 {
		n = 0
	}
	return Quota{n: n}
}

// Unlimited returns a quota with no cap.
func Unlimited() Quota {
	return Quota{unlimited: true}
}

// IsUnlimited reports whether the quota has no cap.
func (q Quota) IsUnlimited() bool {
	return q.unlimited
}

// IsZero reports whether the quota blocks everything.
func (q Quota) IsZero() bool {
	return !q.unlimited && q.n == 0
}

// Limit returns the finite cap and true, or (0, false) for unlimited quotas.
func (q Quota) Limit() (int64, bool) {
	if q.unlimited {
		return 0, false
	}
	return q.n, true
}

// Allows reports whether one more item may be added given the current count.
// The cap-th item itself is allowed; the next one is not.
func (q Quota) Allows(current int64) bool {
	if q.unlimited {
		return true
	}
	return current < q.n
}

// Prefix returns how many of length items fall within the quota.
func (q Quota) Prefix(length int) int {
	if q.unlimited {
		return length
	}
	if int64(length) <= q.n {
		return length
	}
	return int(q.n)
}

// AtLeast reports whether q grants at least as much as other.
// Used by catalog monotonicity validation.
func (q Quota) AtLeast(other Quota) bool {
	if q.unlimited {
		return true
	}
	if other.unlimited {
		return false
	}
	return q.n >= other.n
}

func (q Quota) String() string {
	if q.unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", q.n)
}

// MarshalYAML encodes unlimited quotas as the string "unlimited".
func (q Quota) MarshalYAML() (any, error) {
	if q.unlimited {
		return "unlimited", nil
	}
	return q.n, nil
}

// UnmarshalYAML accepts either a non-negative integer or the string
// "unlimited" (case-sensitive, matching the shipped catalog files).
func (q *Quota) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("plan: quota must be a scalar, got %s", value.Tag)
	}

	if value.Value == "unlimited" {
		*q = Unlimited()
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("plan: invalid quota value %q", value.Value)
	}
	if n < 0 {
		return fmt.Errorf("plan: quota must be non-negative, got %d", n)
	}
	*q = Limited(n)
	return nil
}
