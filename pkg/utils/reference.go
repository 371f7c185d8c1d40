package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateReference gera a referência opaca enviada ao provedor de pagamento.
func GenerateReference() (string, error) {
	return gonanoid.Generate(characters, 21)
}
