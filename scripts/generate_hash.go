//go:build ignore

// generate_hash.go готовит Argon2id-хеш пароля для команды /admin.
// Запуск: go run scripts/generate_hash.go <пароль>
// Результат кладётся в окружение как ADMIN_PASSWORD_HASH.
//
// Параметры должны совпадать с проверкой в internal/features/admin,
// иначе логин перестанет проходить.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

const (
	argonMemory      uint32 = 64 * 1024
	argonIterations  uint32 = 3
	argonParallelism uint8  = 2
	argonKeyLength   uint32 = 32
	saltLength              = 16
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Использование: go run scripts/generate_hash.go <пароль>")
		os.Exit(1)
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка генерации соли: %v\n", err)
		os.Exit(1)
	}

	hash := argon2.IDKey([]byte(os.Args[1]), salt,
		argonIterations, argonMemory, argonParallelism, argonKeyLength)

	fmt.Println("ADMIN_PASSWORD_HASH:")
	fmt.Printf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s\n",
		argonMemory, argonIterations, argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
}
