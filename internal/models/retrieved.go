package models

// RetrievedDocument is a transient query-time view of a chunk. Similarity is
// the vector cosine-style similarity in roughly [0,1]; it is 0 for documents
// that were found only by lexical search. Lists of RetrievedDocument are
// always ordered descending by the active ranking signal.
type RetrievedDocument struct {
	Content    string  `json:"content"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
}
