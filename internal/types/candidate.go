package types

// CandidateRecord holds the structured fields extracted from one resume.
// The scorer treats resume content as an opaque blob; this record exists for
// the adjacent extraction surface and is persisted per job/candidate.
type CandidateRecord struct {
	Name      string      `json:"name,omitempty"`
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Skills    []string    `json:"skills,omitempty"`
	PastRoles []PastRole  `json:"past_roles,omitempty"`
	Education []Education `json:"education,omitempty"`
	Summary   string      `json:"summary,omitempty"`
	RawText   string      `json:"-"` // source text, not persisted in the record document
}

// PastRole is one prior position held by a candidate.
type PastRole struct {
	Title    string `json:"title,omitempty"`
	Company  string `json:"company,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// Education is one education entry on a resume.
type Education struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}
