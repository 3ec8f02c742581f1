package ports

// PasswordHasher hash y verificación de contraseñas.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// PasswordGenerator genera contraseñas con al menos una mayúscula, un dígito y un símbolo.
type PasswordGenerator interface {
	Generate(length int) (string, error)
}
