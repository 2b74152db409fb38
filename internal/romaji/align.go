package romaji

// Gap marks a position where one side of an alignment has no character.
const Gap rune = 0

// Alignment is a column-by-column correspondence between two strings.
// Expected and Actual always have the same length; either side may hold
// Gap but never both in the same column.
type Alignment struct {
	Expected []rune
	Actual   []rune
	Distance int
}

// EditDistance computes the Levenshtein distance between two strings.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur := make([]int, len(rb)+1)
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev = cur
	}
	return prev[len(rb)]
}

// Align computes a minimum-cost alignment of expected against actual.
// Substitution, insertion and deletion cost 1 each. When several moves
// tie during traceback the order of preference is match, substitution,
// insertion (extra actual character), deletion (missing character).
func Align(expected, actual string) Alignment {
	a, b := []rune(expected), []rune(actual)
	m, n := len(a), len(b)

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
		dp[i][0] = i
	}
	for j := 0; j <= n; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
		}
	}

	// Traceback builds the columns in reverse.
	exp := make([]rune, 0, m+n)
	act := make([]rune, 0, m+n)
	for i, j := m, n; i > 0 || j > 0; {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1] && dp[i][j] == dp[i-1][j-1]:
			exp, act = append(exp, a[i-1]), append(act, b[j-1])
			i, j = i-1, j-1
		case i > 0 && j > 0 && dp[i][j] == dp[i-1][j-1]+1:
			exp, act = append(exp, a[i-1]), append(act, b[j-1])
			i, j = i-1, j-1
		case j > 0 && dp[i][j] == dp[i][j-1]+1:
			exp, act = append(exp, Gap), append(act, b[j-1])
			j--
		default:
			exp, act = append(exp, a[i-1]), append(act, Gap)
			i--
		}
	}
	reverse(exp)
	reverse(act)

	return Alignment{Expected: exp, Actual: act, Distance: dp[m][n]}
}

func reverse(r []rune) {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}
