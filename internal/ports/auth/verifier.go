package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
// Los tokens los emite el proveedor de identidad externo; el portal solo los valida.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
