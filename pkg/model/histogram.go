package model

// VolumeBucket is one row of the empirical trade-size histogram. RangeLabel
// is a textual interval "(lower, upper]"; only the upper bound is used by the
// engine. Buckets are loaded once per instrument and never mutated.
type VolumeBucket struct {
	RangeLabel   string  `json:"rangeLabel" csv:"volume_range"`
	FilledVolume float64 `json:"filledVolume" csv:"filled_volume"`
}
