package data

const MAX_PAGE_SIZE = 100

type QueryParams struct {
	Limit     int     `json:"limit"`
	NextToken *string `json:"nextToken"`
}

// GetLimit falls back to defaultLimit when unset and caps at MAX_PAGE_SIZE.
func (q *QueryParams) GetLimit(defaultLimit int) *int32 {
	value := q.Limit
	if value <= 0 {
		value = defaultLimit
	}
	if value <= 0 || value > MAX_PAGE_SIZE {
		value = MAX_PAGE_SIZE
	}
	limit := int32(value)
	return &limit
}

type QueryResults[T interface{}] struct {
	Items     []T     `json:"items"`
	NextToken *string `json:"nextToken,omitempty"`
}

type NextToken map[string]map[string]string
