// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"fmt"
	"strings"
	"time"
)

// BuildQuery constructs the arXiv search_query expression: keywords OR-ed as
// quoted full-text phrases, a mandatory submittedDate window covering
// [since 00:00, until 23:59], and an optional category clause AND-ed on.
// Blank category entries are dropped after trimming.
func BuildQuery(keywords []string, since, until time.Time, categories []string) string {
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		quoted = append(quoted, fmt.Sprintf("all:%q", kw))
	}
	keywordClause := strings.Join(quoted, " OR ")

	dateClause := fmt.Sprintf("submittedDate:[%s0000 TO %s2359]",
		since.Format("20060102"), until.Format("20060102"))

	var catClause string
	cats := make([]string, 0, len(categories))
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			cats = append(cats, "cat:"+c)
		}
	}
	if len(cats) > 0 {
		catClause = " AND (" + strings.Join(cats, " OR ") + ")"
	}

	return fmt.Sprintf("(%s) AND %s%s", keywordClause, dateClause, catClause)
}
