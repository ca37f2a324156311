package helpers

import (
	"fmt"

	"github.com/yigit/programhub/internal/app/models"
)

// PageClause renders the LIMIT/OFFSET suffix for page. A page without a
// limit selects every row and renders nothing.
func PageClause(page models.Page) string {
	if page.All() {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", page.Limit, page.Offset)
}
