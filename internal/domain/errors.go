package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrSourceUnavailable = errors.New("fuente de inventario no disponible")
	ErrSourceMalformed   = errors.New("respuesta de la fuente de inventario mal formada")
	ErrInvalidDateData   = errors.New("fechas de inventario inválidas")
	ErrStoreUnavailable  = errors.New("almacén de historial no disponible")
	ErrRunInProgress     = errors.New("ya hay una corrida de cycle count en curso")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
)
