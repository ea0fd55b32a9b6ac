package id_test

import (
	"strings"
	"testing"

	"github.com/rpggio/consentdesk/internal/id"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	prefixes := []id.Prefix{
		id.PrefixAPIKey, id.PrefixAuditEntry, id.PrefixRequest, id.PrefixGrievance, id.PrefixPurpose,
		id.PrefixWebhook, id.PrefixCategory, id.PrefixProcessor, id.PrefixStorage, id.PrefixFlow,
	}
	for _, p := range prefixes {
		got := id.New(p)
		require.True(t, strings.HasPrefix(got, string(p)+"_"), got)
		require.NoError(t, id.Check(got, p))
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		v := id.New(id.PrefixRequest)
		_, dup := seen[v]
		require.False(t, dup)
		seen[v] = struct{}{}
	}
}

func TestCheck(t *testing.T) {
	require.Error(t, id.Check("", id.PrefixRequest))
	require.Error(t, id.Check("not-an-id", id.PrefixRequest))
	require.Error(t, id.Check(id.New(id.PrefixGrievance), id.PrefixRequest))
}
