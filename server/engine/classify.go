package engine

import "strings"

// QueryType is the classified statement kind of one SQL text.
type QueryType string

const (
	QuerySelect QueryType = "SELECT"
	QueryInsert QueryType = "INSERT"
	QueryUpdate QueryType = "UPDATE"
	QueryDelete QueryType = "DELETE"
	QueryCreate QueryType = "CREATE"
	QueryDrop   QueryType = "DROP"
	QueryAlter  QueryType = "ALTER"
	QueryOther  QueryType = "OTHER"
)

var leadingKeywords = []QueryType{
	QuerySelect, QueryInsert, QueryUpdate, QueryDelete,
	QueryCreate, QueryDrop, QueryAlter,
}

// Classify tags a statement by its trimmed, case-normalized leading keyword.
// This is deliberately shallow: a CTE ("WITH ...") or a leading comment is
// tagged OTHER, not parsed.
func Classify(query string) QueryType {
	trimmed := strings.ToUpper(strings.TrimSpace(query))
	for _, kw := range leadingKeywords {
		if strings.HasPrefix(trimmed, string(kw)) {
			return kw
		}
	}
	return QueryOther
}

// IsMutation reports whether the type commits row changes.
func (t QueryType) IsMutation() bool {
	return t == QueryInsert || t == QueryUpdate || t == QueryDelete
}

// IsDDL reports whether the type alters schema rather than data.
func (t QueryType) IsDDL() bool {
	return t == QueryCreate || t == QueryDrop || t == QueryAlter
}
