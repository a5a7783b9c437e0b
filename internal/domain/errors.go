package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound  = errors.New("item not found")
	ErrDuplicate = errors.New("item already exists")
)
