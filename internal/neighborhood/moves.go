// Package neighborhood реализует ходы, общие для всех стратегий поиска.
// Каждый оператор возвращает новое решение и не изменяет входное.
package neighborhood

import (
	"fmt"

	"deliveryOpt/internal/delivery"
)

// Move — тип хода в окрестности.
type Move string

const (
	MoveRelocate Move = "relocate"
	MoveSwap     Move = "swap"
	MoveReverse  Move = "reverse"
)

// AllMoves — полный набор ходов, используемый без ограничений в конфигурации.
var AllMoves = []Move{MoveRelocate, MoveSwap, MoveReverse}

func ParseMove(s string) (Move, error) {
	switch m := Move(s); m {
	case MoveRelocate, MoveSwap, MoveReverse:
		return m, nil
	}
	return "", fmt.Errorf("неизвестный ход %q (ожидается relocate, swap или reverse)", s)
}

// Relocate извлекает посылку с позиции from и вставляет её так,
// чтобы она оказалась на позиции to.
func Relocate(sol delivery.Solution, from, to int) delivery.Solution {
	out := sol.Clone()
	if from == to {
		return out
	}
	val := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = val
	return out
}

// Swap меняет местами посылки на позициях i и j.
func Swap(sol delivery.Solution, i, j int) delivery.Solution {
	out := sol.Clone()
	out[i], out[j] = out[j], out[i]
	return out
}

// Reverse разворачивает отрезок [i, j] включительно (ход 2-opt).
func Reverse(sol delivery.Solution, i, j int) delivery.Solution {
	out := sol.Clone()
	if i > j {
		i, j = j, i
	}
	for i < j {
		out[i], out[j] = out[j], out[i]
		i++
		j--
	}
	return out
}
