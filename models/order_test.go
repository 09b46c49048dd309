package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestOrderFiltersMerge tests that non-zero fields win and zero fields
// keep the base value
func TestOrderFiltersMerge(t *testing.T) {
	base := OrderFilters{
		CustomerName: "Acme",
		Status:       StatusPending,
		PageNumber:   3,
		PageSize:     25,
	}

	merged := base.Merge(OrderFilters{Status: StatusShipped, PageNumber: 1})

	assert.Equal(t, "Acme", merged.CustomerName, "Unset fields keep the base value")
	assert.Equal(t, StatusShipped, merged.Status, "Set fields override")
	assert.Equal(t, 1, merged.PageNumber)
	assert.Equal(t, 25, merged.PageSize)

	// Merging the zero value changes nothing
	assert.Equal(t, base, base.Merge(OrderFilters{}))
}

// TestOrderFiltersNarrowingEqual tests that page fields are ignored when
// comparing narrowing predicates
func TestOrderFiltersNarrowingEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  OrderFilters
		equal bool
	}{
		{
			name:  "identical filters",
			a:     OrderFilters{CustomerName: "Acme", Status: StatusPending},
			b:     OrderFilters{CustomerName: "Acme", Status: StatusPending},
			equal: true,
		},
		{
			name:  "page fields are ignored",
			a:     OrderFilters{CustomerName: "Acme", PageNumber: 1, PageSize: 10},
			b:     OrderFilters{CustomerName: "Acme", PageNumber: 5, PageSize: 50},
			equal: true,
		},
		{
			name:  "different customer",
			a:     OrderFilters{CustomerName: "Acme"},
			b:     OrderFilters{CustomerName: "Globex"},
			equal: false,
		},
		{
			name:  "different date range",
			a:     OrderFilters{StartDate: "2024-01-01"},
			b:     OrderFilters{StartDate: "2024-02-01"},
			equal: false,
		},
		{
			name:  "different product code",
			a:     OrderFilters{ProductCode: "WID-1"},
			b:     OrderFilters{ProductCode: "WID-2"},
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.NarrowingEqual(tt.b))
			assert.Equal(t, tt.equal, tt.b.NarrowingEqual(tt.a), "Comparison is symmetric")
		})
	}
}

// TestOrderStatuses tests the status list covers every defined constant
func TestOrderStatuses(t *testing.T) {
	assert.Equal(t, []string{
		StatusPending,
		StatusConfirmed,
		StatusShipped,
		StatusDelivered,
		StatusCancelled,
	}, OrderStatuses)
}
