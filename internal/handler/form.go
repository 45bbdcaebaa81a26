package handler

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"

	"github.com/ompps/backend/internal/service"
)

var longTermKeyRe = regexp.MustCompile(`^long_term_goal_(\d+)$`)

// parseGroupPayload 解析 long_term_goal_<N> / short_term_<N>[] 形式的表單鍵。
// 索引值可不連續、可重複，本身不具意義，只取相對順序：去重後升冪讀取。
func parseGroupPayload(form url.Values) []service.GroupInput {
	seen := map[int]bool{}
	var idxs []int
	for key := range form {
		m := longTermKeyRe.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil || seen[idx] {
			continue
		}
		seen[idx] = true
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	groups := make([]service.GroupInput, 0, len(idxs))
	for _, idx := range idxs {
		groups = append(groups, service.GroupInput{
			LongTermGoal: form.Get(fmt.Sprintf("long_term_goal_%d", idx)),
			ShortTerms:   form[fmt.Sprintf("short_term_%d[]", idx)],
		})
	}
	return groups
}
