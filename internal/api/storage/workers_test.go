package storage

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateWorkerEmail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "email conflict for the tenant",
			err:  &pq.Error{Code: "23505", Constraint: "workers_email_per_tenant"},
			want: true,
		},
		{
			name: "wrapped email conflict",
			err:  fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "workers_email_per_tenant"}),
			want: true,
		},
		{
			name: "primary key collision is not a registration conflict",
			err:  &pq.Error{Code: "23505", Constraint: "workers_pkey"},
			want: false,
		},
		{
			name: "foreign key violation",
			err:  &pq.Error{Code: "23503", Constraint: "workers_user_code_fkey"},
			want: false,
		},
		{
			name: "plain error",
			err:  fmt.Errorf("connection reset"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDuplicateWorkerEmail(tt.err))
		})
	}
}
