package domain

// SnapshotMediumScore is a 0-10 risk score for one medium of one record,
// produced by the snapshot country scorer. Defined is false (and Level
// Undetermined) when no parameter contributed.
type SnapshotMediumScore struct {
	Score   float64       `json:"score"`
	Defined bool          `json:"defined"`
	Level   SnapshotLevel `json:"level"`
}

// ScoredRecord is one input record with its appended score columns.
type ScoredRecord struct {
	Record Record                         `json:"record"`
	Media  map[Medium]SnapshotMediumScore `json:"media"`
	Global SnapshotMediumScore            `json:"global"`
}
