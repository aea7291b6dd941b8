package services

import "errors"

// Common service errors
var (
	ErrNotFound        = errors.New("registro no encontrado")
	ErrInvalidInput    = errors.New("datos inválidos")
	ErrInvalidPeriod   = errors.New("período inválido")
	ErrConflict        = errors.New("registro duplicado")
	ErrAllocation      = errors.New("error de imputación")
	ErrHasReferences   = errors.New("el registro tiene movimientos asociados")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrInvalidPassword = errors.New("contraseña inválida")
	ErrInvalidState    = errors.New("transición de estado inválida")
)
