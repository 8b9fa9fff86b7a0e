package authz

import (
	"testing"

	"praxis-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFolderPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/briefs", "/briefs"},
		{"/briefs/", "/briefs"},
		{"/briefs//", "/briefs"},
		{"briefs", "/briefs"},
		{"/a/b/c/", "/a/b/c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeFolderPath(tt.in), "input %q", tt.in)
	}
}

func TestAncestorPaths(t *testing.T) {
	got := ancestorPaths("/a/b/c")
	want := []string{"/a/b/c", "/a/b", "/a", "/"}
	assert.Len(t, got, len(want))
	for _, p := range want {
		_, ok := got[p]
		assert.True(t, ok, "expected ancestor %q", p)
	}

	got = ancestorPaths("/")
	assert.Len(t, got, 1)
}

func TestResolveFolderGrant_MostSpecificWins(t *testing.T) {
	grants := []domain.FolderGrant{
		{ID: "fg-1", FolderPath: "/", PrincipalID: str("u"), CanView: true},
		{ID: "fg-2", FolderPath: "/matters", PrincipalID: str("u"), CanView: true, CanDownload: true},
		{ID: "fg-3", FolderPath: "/matters/acme", PrincipalID: str("u"), CanView: true, CanEdit: true},
		{ID: "fg-other", FolderPath: "/clients", PrincipalID: str("u"), CanView: true},
	}

	g, ok := resolveFolderGrant("/matters/acme/briefs", grants)
	require.True(t, ok)
	assert.Equal(t, "fg-3", g.ID)

	g, ok = resolveFolderGrant("/matters/other", grants)
	require.True(t, ok)
	assert.Equal(t, "fg-2", g.ID)

	g, ok = resolveFolderGrant("/unrelated", grants)
	require.True(t, ok, "root grant covers everything")
	assert.Equal(t, "fg-1", g.ID)
}

func TestResolveFolderGrant_TieBreaks(t *testing.T) {
	t.Run("direct grant beats group grant at equal specificity", func(t *testing.T) {
		grants := []domain.FolderGrant{
			{ID: "fg-group", FolderPath: "/briefs", GroupID: str("grp"), CanView: true},
			{ID: "fg-direct", FolderPath: "/briefs", PrincipalID: str("u"), CanView: true, CanEdit: true},
		}
		g, ok := resolveFolderGrant("/briefs/x", grants)
		require.True(t, ok)
		assert.Equal(t, "fg-direct", g.ID)

		// Result must not depend on slice order.
		grants[0], grants[1] = grants[1], grants[0]
		g, ok = resolveFolderGrant("/briefs/x", grants)
		require.True(t, ok)
		assert.Equal(t, "fg-direct", g.ID)
	})

	t.Run("remaining ties fall to smallest grant ID", func(t *testing.T) {
		grants := []domain.FolderGrant{
			{ID: "fg-b", FolderPath: "/briefs", PrincipalID: str("u"), CanView: true},
			{ID: "fg-a", FolderPath: "/briefs", PrincipalID: str("u"), CanView: true},
		}
		g, ok := resolveFolderGrant("/briefs", grants)
		require.True(t, ok)
		assert.Equal(t, "fg-a", g.ID)
	})
}

func TestResolveFolderGrant_NoMatch(t *testing.T) {
	grants := []domain.FolderGrant{
		{ID: "fg-1", FolderPath: "/matters/acme", PrincipalID: str("u"), CanView: true},
	}
	// A grant on a descendant never applies to the parent.
	_, ok := resolveFolderGrant("/matters", grants)
	assert.False(t, ok)

	_, ok = resolveFolderGrant("/matters/acme-corp", grants)
	assert.False(t, ok, "sibling with shared prefix is not a descendant")
}
