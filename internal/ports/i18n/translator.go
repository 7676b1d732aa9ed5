package i18n

// Namespaces usados por las vistas del portal.
const (
	NamespaceCommons   = "commons"
	NamespaceHomepage  = "homepage"
	NamespaceDashboard = "dashboard"
)

// Translator resuelve textos por locale/namespace/key. Nunca falla: si no hay
// traducción devuelve algo mostrable (fallback o la key).
type Translator interface {
	T(locale, namespace, key string) string
	Locales() []string
}
