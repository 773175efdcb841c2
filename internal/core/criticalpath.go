package core

import "github.com/membry/mpm/pkg/models"

// CriticalPath returns the approximate longest dependency chain through the
// given tasks: the chain with the most hops starting from a task with no
// dependencies, following forward edges (tasks that list the current task as
// a dependency). Ties are broken in favor of the first-encountered task in
// input order.
//
// This is a single-path longest-chain approximation, not CPM: chain length
// is hop count, not estimated hours, and converging paths are not merged.
// The computation is an iterative memoized longest-path over an index-based
// adjacency structure, so deep graphs cannot exhaust the stack.
func CriticalPath(tasks []*models.Task) []*models.Task {
	n := len(tasks)
	if n == 0 {
		return nil
	}

	index := make(map[string]int, n)
	for i, t := range tasks {
		index[t.ID] = i
	}

	// Successor lists in input order: succ[i] holds the indices of tasks
	// that depend on tasks[i]. Dependencies on unknown IDs are ignored.
	succ := make([][]int, n)
	for i, t := range tasks {
		for _, dep := range t.Dependencies {
			if j, ok := index[dep]; ok {
				succ[j] = append(succ[j], i)
			}
		}
	}

	// chainLen[i] is the hop count of the longest chain starting at i,
	// counting i itself. Computed bottom-up with an explicit stack.
	const (
		stateNew = iota
		stateOpen
		stateDone
	)
	state := make([]uint8, n)
	chainLen := make([]int, n)

	for root := 0; root < n; root++ {
		if state[root] == stateDone {
			continue
		}
		stack := []int{root}
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			switch state[i] {
			case stateNew:
				state[i] = stateOpen
				for _, s := range succ[i] {
					if state[s] == stateNew {
						stack = append(stack, s)
					}
				}
			case stateOpen:
				best := 0
				for _, s := range succ[i] {
					if chainLen[s] > best {
						best = chainLen[s]
					}
				}
				chainLen[i] = best + 1
				state[i] = stateDone
				stack = stack[:len(stack)-1]
			default:
				stack = stack[:len(stack)-1]
			}
		}
	}

	// The critical path starts at the root (zero-dependency task) with the
	// longest chain; strict comparison keeps the first-encountered root on
	// ties.
	start := -1
	for i, t := range tasks {
		if len(t.Dependencies) != 0 {
			continue
		}
		if start == -1 || chainLen[i] > chainLen[start] {
			start = i
		}
	}
	if start == -1 {
		return nil
	}

	// Follow, at each step, the first successor on a longest remaining
	// chain.
	path := []*models.Task{tasks[start]}
	current := start
	for {
		next := -1
		for _, s := range succ[current] {
			if chainLen[s] == chainLen[current]-1 {
				next = s
				break
			}
		}
		if next == -1 {
			break
		}
		path = append(path, tasks[next])
		current = next
	}

	return path
}
