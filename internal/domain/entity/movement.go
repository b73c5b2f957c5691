package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeArrival = "arrival" // entrada de stock
	MovementTypeExpense = "expense" // salida de stock
)

// Arrival representa una entrada de stock de un producto en una fecha.
type Arrival struct {
	ID        string
	ProductID string
	Amount    int64 // siempre > 0
	Date      time.Time
	CreatedAt time.Time
}

// Expense representa una salida de stock de un producto en una fecha.
// Misma forma que Arrival; las salidas están sujetas al guard de stock no negativo.
type Expense struct {
	ID        string
	ProductID string
	Amount    int64 // siempre > 0
	Date      time.Time
	CreatedAt time.Time
}
