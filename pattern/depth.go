package pattern

// Depth returns the number of parallel layers in ops: a new layer starts
// whenever the next comparator reuses a wire already used in the
// currently open layer. An empty sequence counts as one open, empty
// layer and reports depth 1.
func Depth(ops []Comparator, n int) int {
	used := make([]bool, n)
	layers := 1
	for _, op := range ops {
		if used[op.I] || used[op.J] {
			for i := range used {
				used[i] = false
			}
			layers++
		}
		used[op.I] = true
		used[op.J] = true
	}
	return layers
}

// MinimizeDepth greedily reorders ops in place to reduce parallel depth
// without changing the multiset of comparators or any precedence that
// matters for correctness: two comparators that share no wire commute,
// and the algorithm only ever swaps such independent pairs forward.
func MinimizeDepth(ops []Comparator, n int) {
	used1 := make([]bool, n)
	used2 := make([]bool, n)

	for {
		altered := false
		for i := range used1 {
			used1[i] = false
		}

		for l1 := 0; l1 < len(ops); l1++ {
			if used1[ops[l1].I] || used1[ops[l1].J] {
				for i := range used2 {
					used2[i] = false
				}

				for l2 := l1; l2 < len(ops); l2++ {
					if used2[ops[l2].I] || used2[ops[l2].J] {
						break
					}
					if !used1[ops[l2].I] && !used1[ops[l2].J] {
						used1[ops[l2].I] = true
						used1[ops[l2].J] = true
						ops[l1], ops[l2] = ops[l2], ops[l1]
						l2 = l1
						l1++
						for i := range used2 {
							used2[i] = false
						}
						altered = true
						continue
					}
					used2[ops[l2].I] = true
					used2[ops[l2].J] = true
				}

				for i := range used1 {
					used1[i] = false
				}
			}

			used1[ops[l1].I] = true
			used1[ops[l1].J] = true
		}

		if !altered {
			return
		}
	}
}
