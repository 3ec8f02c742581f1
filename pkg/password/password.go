// Package password agrupa el hash bcrypt y el generador de contraseñas temporales.
package password

import (
	"crypto/rand"
	"errors"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost costo bcrypt usado en toda la aplicación.
const DefaultCost = bcrypt.DefaultCost

// DefaultLength longitud de las contraseñas generadas.
const DefaultLength = 12

const (
	upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lower   = "abcdefghijklmnopqrstuvwxyz"
	digits  = "0123456789"
	symbols = "!@#$%^&*()[]{}<>?/|~`"
	all     = upper + lower + digits + symbols
)

// ErrTooShort la longitud pedida no permite cubrir todas las clases de caracteres.
var ErrTooShort = errors.New("password: longitud mínima 3")

// BcryptHasher implementa el hash de contraseñas con bcrypt.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher crea un hasher con el costo por defecto.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: DefaultCost}
}

// Hash devuelve el hash bcrypt de plain.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare informa si plain corresponde al hash.
func (h *BcryptHasher) Compare(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Generator genera contraseñas aleatorias con crypto/rand.
type Generator struct{}

// NewGenerator crea un generador.
func NewGenerator() *Generator { return &Generator{} }

// Generate devuelve una contraseña de la longitud dada con al menos una mayúscula,
// un dígito y un símbolo.
func (Generator) Generate(length int) (string, error) {
	if length < 3 {
		return "", ErrTooShort
	}
	out := make([]byte, 0, length)
	for _, set := range []string{upper, digits, symbols} {
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := pick(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	// Fisher-Yates para que las clases obligatorias no queden al inicio.
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		k := int(j.Int64())
		out[i], out[k] = out[k], out[i]
	}
	return string(out), nil
}

func pick(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}
