package align

import "math"

// hungarianInf stands in for infinity in the cost matrix: any cell at
// or above this value is treated as forbidden.
const hungarianInf = 1e18

// HungarianAssign solves the rectangular minimum-cost one-to-one
// assignment problem for an n×m cost matrix using the Kuhn-Munkres
// (Jonker-Volgenant potentials) algorithm in O(n³) (spec.md §4.8,
// §9 Design Notes). It returns assignments[i] = column index assigned
// to row i, or -1 if row i is unassigned. Cells at or above
// hungarianInf are never selected.
//
// The shortest-augmenting-path search with row/column potentials is
// adapted from a cluster-to-track assignment solver written for object
// tracking, generalized from float32
// Mahalanobis costs to float64 similarity costs and reworked to track
// the path's originating row explicitly instead of through a dummy
// zeroth column.
func HungarianAssign(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	m := len(cost[0])
	if m == 0 {
		return unassignedRows(n)
	}

	dim := n
	if m > dim {
		dim = m
	}

	square := padToSquare(cost, n, m, dim)
	colOwner := solveAssignment(square, dim)

	result := make([]int, n)
	for i := 0; i < n; i++ {
		result[i] = -1
	}
	for col, row := range colOwner {
		if row < 0 || row >= n {
			continue
		}
		if col >= m || cost[row][col] >= hungarianInf {
			continue
		}
		result[row] = col
	}
	return result
}

func unassignedRows(n int) []int {
	result := make([]int, n)
	for i := range result {
		result[i] = -1
	}
	return result
}

// padToSquare embeds an n×m cost matrix into a dim×dim matrix, filling
// the extra cells with hungarianInf so the solver always sees a square
// problem.
func padToSquare(cost [][]float64, n, m, dim int) [][]float64 {
	square := make([][]float64, dim)
	for i := 0; i < dim; i++ {
		square[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			if i < n && j < m {
				square[i][j] = cost[i][j]
			} else {
				square[i][j] = hungarianInf
			}
		}
	}
	return square
}

// solveAssignment runs the potentials-based shortest augmenting path
// method once per row of a dim×dim cost matrix and returns, for each
// column index, the row assigned to it (or -1 if no row claimed it).
func solveAssignment(cost [][]float64, dim int) []int {
	const inf = math.MaxFloat64 / 2

	rowPotential := make([]float64, dim)
	colPotential := make([]float64, dim)

	colOwner := make([]int, dim)
	for j := range colOwner {
		colOwner[j] = -1
	}

	for row := 0; row < dim; row++ {
		augmentFromRow(cost, rowPotential, colPotential, colOwner, row, dim, inf)
	}

	return colOwner
}

// augmentFromRow grows an alternating tree rooted at startRow until it
// reaches an unclaimed column, then flips ownership back along the
// discovered path so startRow ends up claiming a column. rowPotential
// and colPotential are updated in place to keep all reduced costs
// (cost[i][j] - rowPotential[i] - colPotential[j]) non-negative.
func augmentFromRow(cost [][]float64, rowPotential, colPotential []float64, colOwner []int, startRow, dim int, inf float64) {
	reached := make([]bool, dim)
	bestReducedCost := make([]float64, dim)
	cameFromCol := make([]int, dim) // -1 means reached directly from startRow
	for j := range bestReducedCost {
		bestReducedCost[j] = inf
		cameFromCol[j] = -1
	}

	currentRow := startRow
	lastClaimed := -1

	for {
		slack := inf
		candidate := -1

		for j := 0; j < dim; j++ {
			if reached[j] {
				continue
			}
			reducedCost := cost[currentRow][j] - rowPotential[currentRow] - colPotential[j]
			if reducedCost < bestReducedCost[j] {
				bestReducedCost[j] = reducedCost
				cameFromCol[j] = lastClaimed
			}
			if bestReducedCost[j] < slack {
				slack = bestReducedCost[j]
				candidate = j
			}
		}

		// The path root (startRow) is always part of the frontier, so
		// its potential shifts by slack on every round too.
		rowPotential[startRow] += slack
		for j := 0; j < dim; j++ {
			if reached[j] {
				rowPotential[colOwner[j]] += slack
				colPotential[j] -= slack
			} else {
				bestReducedCost[j] -= slack
			}
		}

		reached[candidate] = true
		lastClaimed = candidate
		if colOwner[candidate] == -1 {
			break
		}
		currentRow = colOwner[candidate]
	}

	for col := lastClaimed; col != -1; {
		prev := cameFromCol[col]
		if prev == -1 {
			colOwner[col] = startRow
		} else {
			colOwner[col] = colOwner[prev]
		}
		col = prev
	}
}
