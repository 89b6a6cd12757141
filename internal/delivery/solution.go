package delivery

import (
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Empty отмечает незаполненную позицию частично построенного решения.
const Empty = -1

// Solution — порядок доставки: каждый ID посылки потока ровно один раз.
type Solution []int

// Identity возвращает исходный порядок потока [0, 1, ..., n-1].
func Identity(n int) Solution {
	s := make(Solution, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// RandomSolution возвращает равномерно перемешанный порядок n посылок.
func RandomSolution(n int, rng *rand.Rand) Solution {
	s := Identity(n)
	Shuffle(s, rng)
	return s
}

// Shuffle перемешивает s на месте (Фишер-Йетс).
func Shuffle(s Solution, rng *rand.Rand) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

func (s Solution) Clone() Solution {
	if s == nil {
		return nil
	}
	out := make(Solution, len(s))
	copy(out, s)
	return out
}

func (s Solution) Equal(o Solution) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Complete сообщает, что в решении нет позиций Empty.
func (s Solution) Complete() bool {
	for _, id := range s {
		if id == Empty {
			return false
		}
	}
	return true
}

// Key возвращает компактное представление порядка для использования как ключ map.
func (s Solution) Key() string {
	buf := make([]byte, 0, len(s)*2)
	for _, id := range s {
		buf = binary.AppendUvarint(buf, uint64(id+1))
	}
	return string(buf)
}

func ValidatePermutation(sol Solution, n int) error {
	if len(sol) != n {
		return fmt.Errorf("длина решения должна быть %d (получено %d)", n, len(sol))
	}
	seen := make([]bool, n)
	for i, v := range sol {
		if v < 0 || v >= n {
			return fmt.Errorf("solution[%d]=%d вне диапазона [0,%d)", i, v, n)
		}
		if seen[v] {
			return fmt.Errorf("повторяющийся id посылки %d в решении", v)
		}
		seen[v] = true
	}
	return nil
}
