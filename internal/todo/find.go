package todo

// IndexOf returns the index of the first task with the given id, or -1.
func IndexOf(tasks []Task, id int) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// DuplicateIDs returns ids that occur more than once, in first-seen order.
func DuplicateIDs(tasks []Task) []int {
	seen := make(map[int]int, len(tasks))
	var dups []int
	for _, t := range tasks {
		seen[t.ID]++
		if seen[t.ID] == 2 { //nolint:mnd // report on the second occurrence only
			dups = append(dups, t.ID)
		}
	}
	return dups
}
