package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"campus_life/internal/domain"
)

// FetchRows reads every row of table, filtered to the scope's campus when set.
// The campuses table itself is never scoped.
func (c *Client) FetchRows(ctx context.Context, table string, s domain.Scope) ([]map[string]any, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "id.asc")
	if s.CampusID != nil && table != "campuses" {
		q.Set("campus_id", "eq."+strconv.FormatInt(*s.CampusID, 10))
	}

	out := []map[string]any{}
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/rest/v1/" + url.PathEscape(table) + "?" + q.Encode(),
		endpoint: "rest:" + table,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
