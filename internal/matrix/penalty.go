package matrix

// Penalty scores a row-major module grid with the four mask evaluation rules:
// runs of five or more, 2×2 blocks, finder-like 1:1:3:1:1 patterns next to
// four light modules, and the dark/light balance. Lower is better.
func Penalty(dark []bool, size int) int {
	at := func(x, y int) bool {
		if x < 0 || y < 0 || x >= size || y >= size {
			return false
		}
		return dark[y*size+x]
	}

	score := 0
	for i := 0; i < size; i++ {
		score += linePenalty(size, func(j int) bool { return at(j, i) })
		score += linePenalty(size, func(j int) bool { return at(i, j) })
	}

	for y := 0; y+1 < size; y++ {
		for x := 0; x+1 < size; x++ {
			c := at(x, y)
			if at(x+1, y) == c && at(x, y+1) == c && at(x+1, y+1) == c {
				score += 3
			}
		}
	}

	darkCount := 0
	for _, d := range dark {
		if d {
			darkCount++
		}
	}
	total := size * size
	diff := darkCount*20 - total*10
	if diff < 0 {
		diff = -diff
	}
	k := (diff+total-1)/total - 1
	if k > 0 {
		score += k * 10
	}
	return score
}

var finderLike = [7]bool{true, false, true, true, true, false, true}

// linePenalty covers the run and finder-like rules for one row or column.
// Modules outside the line count as light.
func linePenalty(size int, at func(int) bool) int {
	get := func(i int) bool {
		if i < 0 || i >= size {
			return false
		}
		return at(i)
	}

	score := 0
	run := 1
	for i := 1; i <= size; i++ {
		if i < size && get(i) == get(i-1) {
			run++
			continue
		}
		if run >= 5 {
			score += 3 + run - 5
		}
		run = 1
	}

	lightRun := func(from int) bool {
		for i := from; i < from+4; i++ {
			if get(i) {
				return false
			}
		}
		return true
	}
	for i := 0; i+7 <= size; i++ {
		match := true
		for k, want := range finderLike {
			if get(i+k) != want {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if lightRun(i - 4) {
			score += 40
		}
		if lightRun(i + 7) {
			score += 40
		}
	}
	return score
}
