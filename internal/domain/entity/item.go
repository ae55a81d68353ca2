package entity

import "time"

// Item representa un artículo del almacén. Stock es un entero con signo:
// el diseño tolera stock negativo (backorder), no se aplica piso en salidas.
// Stock se modifica únicamente a través del motor de transferencias;
// escribirlo por otra vía es un bug de consistencia.
type Item struct {
	ID        string
	Name      string
	UnitID    string
	UnitName  string // enriquecido en lecturas (join con units)
	Stock     int64
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // borrado lógico
}

// Unit unidad de medida referenciada por los artículos (kg, caja, unidad...).
type Unit struct {
	ID   string
	Name string
}
