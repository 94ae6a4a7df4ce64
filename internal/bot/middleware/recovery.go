package middleware

import (
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// RecoverFromPanic гасит панику в обработчике апдейта: один сломанный
// апдейт не должен ронять весь polling-цикл.
func RecoverFromPanic() {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"panic": r,
			"stack": string(debug.Stack()),
		}).Error("Паника в обработчике апдейта — восстановлено")
	}
}
