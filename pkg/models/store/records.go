package store

// RawRow is one row from a source extract, keyed by column name. Values are
// kept as strings (timestamps formatted, NULLs as empty strings); typing is
// owned by the normalizer.
type RawRow map[string]string

// Column names shared between the extractors and the normalizer. They follow
// the source systems' naming (GAM for stays, EASILY for documents).
const (
	ColStayID    = "sej_id"
	ColPatientID = "pat_ipp"
	ColAdmission = "sej_ent"
	ColDischarge = "sej_sor"
	ColUnit      = "uf_sortie"
	ColDeceased  = "deces_sortie"

	ColDocID        = "doc_id"
	ColDocCreated   = "doc_cre"
	ColDocValidated = "doc_val"
	ColDocDiffused  = "doc_diff"
	ColDocParentCre = "doc_creamere"
)

// TimeLayout is the wire format for timestamps inside a RawRow.
const TimeLayout = "2006-01-02 15:04:05"

// DropStats reports how many rows of one source extract survived
// normalization and how many were dropped as unparseable.
type DropStats struct {
	Parsed  int
	Dropped int
}
