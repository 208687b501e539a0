package api

// ImportFailure describes a row whose create call failed.
type ImportFailure struct {
	Row   int    `json:"row"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ImportSummary is returned by the bulk importer.
type ImportSummary struct {
	Shape     string          `json:"shape"`
	Rows      int             `json:"rows"`
	Imported  int             `json:"imported"`
	Skipped   int             `json:"skipped"`
	Failed    int             `json:"failed"`
	SourceKey string          `json:"sourceKey,omitempty"`
	Failures  []ImportFailure `json:"failures,omitempty"`
}
