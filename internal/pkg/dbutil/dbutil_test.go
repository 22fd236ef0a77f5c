package dbutil

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestFinalize_RebindsPlaceholders(t *testing.T) {
	query, args := Finalize("SELECT id FROM users WHERE username=? AND active=?", []interface{}{"bob", 0})
	require.Equal(t, "SELECT id FROM users WHERE username=$1 AND active=$2", query)
	require.Equal(t, []interface{}{"bob", 0}, args)
}

func TestFinalize_RewritesLimitOffset(t *testing.T) {
	query, args := Finalize("SELECT id FROM users WHERE active=? LIMIT ?,?", []interface{}{0, 10, 20})
	require.Equal(t, "SELECT id FROM users WHERE active=$1 LIMIT $2 OFFSET $3", query)
	require.Equal(t, []interface{}{0, 20, 10}, args)
}

func TestConflictConstraint(t *testing.T) {
	err := fmt.Errorf("insert user: %w", &pq.Error{Code: "23505", Constraint: "users_email_key"})
	require.True(t, IsConflict(err))
	require.Equal(t, "users_email_key", ConflictConstraint(err))

	other := &pq.Error{Code: "23503", Constraint: "fk"}
	require.False(t, IsConflict(other))
	require.Equal(t, "", ConflictConstraint(other))
	require.False(t, IsConflict(fmt.Errorf("plain")))
}
