package ts

// tabuEntry — посещённое решение и оставшийся срок табу.
type tabuEntry struct {
	key    string
	tenure int
}

// tabuList — список табу с map для быстрой проверки табуированности.
// Одно и то же решение может встречаться несколько раз.
type tabuList struct {
	entries []tabuEntry
	count   map[string]int
}

func newTabuList() *tabuList {
	return &tabuList{count: make(map[string]int)}
}

// Contains проверяет, находится ли решение в списке.
func (t *tabuList) Contains(key string) bool {
	return t.count[key] > 0
}

// Tick уменьшает сроки всех записей и удаляет истёкшие.
func (t *tabuList) Tick() {
	kept := t.entries[:0]
	for _, e := range t.entries {
		e.tenure--
		if e.tenure <= 0 {
			if t.count[e.key]--; t.count[e.key] <= 0 {
				delete(t.count, e.key)
			}
			continue
		}
		kept = append(kept, e)
	}
	t.entries = kept
}

// Add добавляет решение со сроком tenure.
func (t *tabuList) Add(key string, tenure int) {
	t.entries = append(t.entries, tabuEntry{key: key, tenure: tenure})
	t.count[key]++
}

func (t *tabuList) Len() int { return len(t.entries) }
