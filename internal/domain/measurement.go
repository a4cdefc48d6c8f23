package domain

// Measurement is one captured reading for one parameter in one medium.
// Measurements are produced by collectors or document extraction and are
// read-only inputs to the scoring pipeline.
type Measurement struct {
	Parameter string `json:"parameter"`
	Medium    Medium `json:"medium"`
	Value     Value  `json:"value"`
	Unit      string `json:"unit,omitempty"`
}

// Measurements groups readings by medium and parameter name.
type Measurements map[Medium]map[string]Measurement

// Add records a measurement, creating the medium bucket as needed.
func (m Measurements) Add(medium Medium, parameter string, value Value, unit string) {
	if m[medium] == nil {
		m[medium] = make(map[string]Measurement)
	}
	m[medium][parameter] = Measurement{
		Parameter: parameter,
		Medium:    medium,
		Value:     value,
		Unit:      unit,
	}
}

// Merge copies all readings from other into m, overwriting duplicates.
func (m Measurements) Merge(other Measurements) {
	for medium, params := range other {
		for name, meas := range params {
			m.Add(medium, name, meas.Value, meas.Unit)
		}
	}
}

// Record is a flat, row-oriented snapshot of readings keyed by parameter
// name, the input shape of the snapshot country scorer.
type Record map[string]Value
