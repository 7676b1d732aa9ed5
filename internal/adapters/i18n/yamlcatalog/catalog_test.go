package yamlcatalog

import (
	"testing"
	"testing/fstest"

	"patient-portal/internal/ports/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ i18n.Translator = (*Catalog)(nil)

func TestLoad_EmbeddedLocales(t *testing.T) {
	c, err := Load("en")
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "si", "ta"}, c.Locales())
	assert.Equal(t, "Sign out", c.T("en", i18n.NamespaceCommons, "signOut"))
	assert.Equal(t, "ඉවත් වන්න", c.T("si", i18n.NamespaceCommons, "signOut"))
	assert.Equal(t, "வெளியேறு", c.T("TA", i18n.NamespaceCommons, "signOut"))
}

func TestT_Fallbacks(t *testing.T) {
	c, err := Load("en")
	require.NoError(t, err)

	// si.yaml no define noEncounters => cae a en
	assert.Equal(t, "No encounters recorded yet.", c.T("si", i18n.NamespaceDashboard, "noEncounters"))
	// locale desconocido => default
	assert.Equal(t, "Encounters", c.T("fr", i18n.NamespaceDashboard, "encounters"))
	// key desconocida => la key
	assert.Equal(t, "missingKey", c.T("en", i18n.NamespaceDashboard, "missingKey"))
}

func TestLoadFS_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"loc/en.yaml":  {Data: []byte("commons:\n  signOut: Bye\n")},
		"loc/bad.yaml": {Data: []byte("commons: [unclosed")},
	}
	_, err := LoadFS(fsys, "loc", "en")
	assert.ErrorContains(t, err, "bad.yaml")

	delete(fsys, "loc/bad.yaml")
	_, err = LoadFS(fsys, "loc", "si")
	assert.ErrorContains(t, err, "default locale")

	c, err := LoadFS(fsys, "loc", "en")
	require.NoError(t, err)
	assert.Equal(t, "Bye", c.T("en", "commons", "signOut"))
}
