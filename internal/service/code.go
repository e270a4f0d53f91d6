package service

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// CodeSource produces the shared delivery confirmation code. One code per
// booking, generated at acceptance.
type CodeSource interface {
	Code() (string, error)
}

type randomCode struct{}

func NewCodeSource() CodeSource { return randomCode{} }

// Code returns a 6-digit numeric code.
func (randomCode) Code() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
