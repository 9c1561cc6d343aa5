package models

// ListParams are the query parameters shared by listing endpoints.
type ListParams struct {
	HiveID string `schema:"hive_id"`
	Offset int    `schema:"offset"`
	Limit  int    `schema:"limit"`
}

// Normalize clamps limit into (0, max], falling back to def.
func (p *ListParams) Normalize(def, max int) {
	if p.Limit <= 0 || p.Limit > max {
		p.Limit = def
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
