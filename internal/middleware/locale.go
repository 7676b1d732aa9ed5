package middleware

import (
	"context"
	"net/http"
	"strings"
)

const localeKey ctxKey = "locale"

const LocaleCookie = "lang"

// Locale resuelve el idioma del request: ?lang=, cookie `lang`, Accept-Language, default.
// Solo acepta locales de `supported`.
func Locale(supported []string, def string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(supported))
	for _, l := range supported {
		allowed[strings.ToLower(l)] = true
	}

	pick := func(v string) string {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			return ""
		}
		if allowed[v] {
			return v
		}
		// "si-LK" => "si"
		if i := strings.IndexAny(v, "-_"); i > 0 && allowed[v[:i]] {
			return v[:i]
		}
		return ""
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loc := pick(r.URL.Query().Get("lang"))
			if loc != "" {
				http.SetCookie(w, &http.Cookie{
					Name:     LocaleCookie,
					Value:    loc,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			if loc == "" {
				if c, err := r.Cookie(LocaleCookie); err == nil {
					loc = pick(c.Value)
				}
			}
			if loc == "" {
				loc = fromAcceptLanguage(r.Header.Get("Accept-Language"), pick)
			}
			if loc == "" {
				loc = def
			}

			ctx := context.WithValue(r.Context(), localeKey, loc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLocale devuelve el locale resuelto por Locale, o "" si el middleware no corrió.
func GetLocale(ctx context.Context) string {
	v, _ := ctx.Value(localeKey).(string)
	return v
}

// Sin pesos q: el orden del header manda.
func fromAcceptLanguage(h string, pick func(string) string) string {
	for _, part := range strings.Split(h, ",") {
		tag := part
		if i := strings.Index(part, ";"); i >= 0 {
			tag = part[:i]
		}
		if loc := pick(tag); loc != "" {
			return loc
		}
	}
	return ""
}
