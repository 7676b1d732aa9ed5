package auth

// Claims representa la información extraída del token de sesión.
// UserID es el identificador del paciente en el portal.
type Claims struct {
	UserID string
	Email  string
	Name   string
}
