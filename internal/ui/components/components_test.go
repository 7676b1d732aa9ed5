package components

import (
	"strings"
	"testing"

	"patient-portal/internal/ports/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTranslator devuelve "locale:ns.key" para poder verificar qué se pidió.
type fakeTranslator struct{}

func (fakeTranslator) T(locale, namespace, key string) string {
	if key == "fromLastMonth" {
		return "+{count} desde el mes pasado"
	}
	return locale + ":" + namespace + "." + key
}

func (fakeTranslator) Locales() []string { return []string{"en"} }

var _ i18n.Translator = fakeTranslator{}

func TestSignOutButton(t *testing.T) {
	out, err := SignOutButton(fakeTranslator{}, "si", "/auth/signout")
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `<form method="post" action="/auth/signout"`)
	assert.Contains(t, s, `<span class="sr-only">sign out</span>`)
	assert.Contains(t, s, `si:commons.signOut`)
	assert.Contains(t, s, `<svg`)
}

func TestFooter(t *testing.T) {
	out, err := Footer(fakeTranslator{}, "en", FooterLinks{MinistryOfHealth: "https://www.health.gov.lk"}, 2026)
	require.NoError(t, err)

	s := string(out)
	for _, key := range []string{
		"homepage.aboutThePortal", "homepage.aboutNEHR", "homepage.contributingOrganizations",
		"commons.contactUs", "homepage.importantLinks", "homepage.ministryOfHealth",
		"homepage.healthInformationUnit", "homepage.socialMedia",
	} {
		assert.Contains(t, s, "en:"+key)
	}
	assert.Contains(t, s, `<a href="https://www.health.gov.lk">en:homepage.ministryOfHealth</a>`)
	assert.Contains(t, s, `<a href="#">en:homepage.aboutNEHR</a>`)
	assert.Contains(t, s, `data-role="copyright">2026 en:homepage.copyRightInfo</div>`)
	assert.Equal(t, 2, strings.Count(s, `aria-label=`))
}

func TestFooter_UnsafeLinkIsNeutralized(t *testing.T) {
	out, err := Footer(fakeTranslator{}, "en", FooterLinks{ContactUs: "javascript:alert(1)"}, 2026)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "javascript:")
}

func TestOverviewCards(t *testing.T) {
	out, err := OverviewCards([]OverviewCard{
		{Title: "Encounters", Value: "120", Caption: FromLastMonth(fakeTranslator{}, "en", 20)},
		{Title: "Lab reports", Value: "3", Caption: FromLastMonth(fakeTranslator{}, "en", 2)},
	})
	require.NoError(t, err)

	s := string(out)
	assert.Equal(t, 2, strings.Count(s, `data-role="overview-card"`))
	assert.Contains(t, s, `data-role="value">120</div>`)
	assert.Contains(t, s, `data-role="caption">&#43;20 desde el mes pasado</p>`)
}
